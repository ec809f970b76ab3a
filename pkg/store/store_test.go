package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

func sampleState(t *testing.T) viewer.State {
	t.Helper()
	v := viewer.New()
	v.Update("digraph { a -> b }", config.Defaults())
	v.Reflow(640, 480)
	v.Zoom(2)
	st := v.State()
	st.UpdatedAt = st.UpdatedAt.Truncate(time.Millisecond)
	return st
}

// exercise runs the shared contract against any backend.
func exercise(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	st := sampleState(t)

	if _, err := s.Get(ctx, st.ID); !errors.Is(err, errors.ErrCodeViewerNotFound) {
		t.Fatalf("Get(unknown) error = %v, want VIEWER_NOT_FOUND", err)
	}

	if err := s.Put(ctx, st); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	got, err := s.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if diff := cmp.Diff(st, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	st.Document = "digraph { x -> y }"
	if err := s.Put(ctx, st); err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	got, _ = s.Get(ctx, st.ID)
	if got.Document != st.Document {
		t.Errorf("overwrite not visible: %q", got.Document)
	}

	if err := s.Delete(ctx, st.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, err := s.Get(ctx, st.ID); !errors.Is(err, errors.ErrCodeViewerNotFound) {
		t.Errorf("Get after Delete error = %v", err)
	}
	if err := s.Delete(ctx, st.ID); err != nil {
		t.Errorf("Delete of unknown ID should succeed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exercise(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "viewers"))
	if err != nil {
		t.Fatal(err)
	}
	exercise(t, s)
}

func TestFileStore_RejectsBadIDs(t *testing.T) {
	s, _ := NewFileStore(t.TempDir())
	ctx := context.Background()

	for _, id := range []string{"../etc/passwd", "", "not-a-uuid"} {
		if _, err := s.Get(ctx, id); !errors.Is(err, errors.ErrCodeInvalidID) {
			t.Errorf("Get(%q) error = %v, want INVALID_ID", id, err)
		}
	}
	if err := s.Put(ctx, viewer.State{ID: "../x"}); !errors.Is(err, errors.ErrCodeInvalidID) {
		t.Errorf("Put error = %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(context.Background(), filepath.Join(t.TempDir(), "viewers.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	exercise(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "viewers.db")
	st := sampleState(t)

	s, err := NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, st); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStore(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	got, err := s.Get(ctx, st.ID)
	if err != nil {
		t.Fatalf("state lost across reopen: %v", err)
	}
	if got.Document != st.Document {
		t.Errorf("Document = %q", got.Document)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    string
		wantErr bool
	}{
		{"default", config.StoreConfig{}, "*store.MemoryStore", false},
		{"file", config.StoreConfig{Backend: config.StoreFile, Path: t.TempDir()}, "*store.FileStore", false},
		{"sqlite", config.StoreConfig{Backend: config.StoreSQLite, Path: ":memory:"}, "*store.SQLiteStore", false},
		{"sqlite without path", config.StoreConfig{Backend: config.StoreSQLite}, "", true},
		{"mongo without uri", config.StoreConfig{Backend: config.StoreMongo}, "", true},
		{"unknown", config.StoreConfig{Backend: "etcd"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Open(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Open() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			defer s.Close()
			if got := typeName(s); got != tt.want {
				t.Errorf("Open() = %s, want %s", got, tt.want)
			}
		})
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *MemoryStore:
		return "*store.MemoryStore"
	case *FileStore:
		return "*store.FileStore"
	case *SQLiteStore:
		return "*store.SQLiteStore"
	case *MongoStore:
		return "*store.MongoStore"
	}
	return "?"
}
