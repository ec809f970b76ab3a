package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

// FileStore keeps one JSON file per viewer in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates baseDir if needed. An empty baseDir defaults to
// ~/.config/dagviewer/viewers.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "dagviewer", "viewers")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create viewer dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// path rejects IDs that are not UUIDs so they cannot escape baseDir.
func (s *FileStore) path(id string) (string, error) {
	if err := errors.ValidateViewerID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.baseDir, id+".json"), nil
}

func (s *FileStore) Get(ctx context.Context, id string) (viewer.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path, err := s.path(id)
	if err != nil {
		return viewer.State{}, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return viewer.State{}, notFound(id)
	}
	if err != nil {
		return viewer.State{}, fmt.Errorf("read viewer file: %w", err)
	}

	var st viewer.State
	if err := json.Unmarshal(data, &st); err != nil {
		return viewer.State{}, fmt.Errorf("parse viewer %s: %w", id, err)
	}
	return st, nil
}

func (s *FileStore) Put(ctx context.Context, st viewer.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(st.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal viewer: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write viewer file: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path, err := s.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove viewer file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the directory holding viewer files.
func (s *FileStore) Path() string { return s.baseDir }

var _ Store = (*FileStore)(nil)
