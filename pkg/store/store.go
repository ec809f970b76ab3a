// Package store persists viewer state between requests.
//
// Backends:
//   - memory: process-local map, the default for a single server
//   - file: one JSON file per viewer, for the CLI and small deployments
//   - sqlite: a single database file (pure Go driver, no cgo)
//   - mongo: shared state for several server instances
//
// Every backend returns an error with code VIEWER_NOT_FOUND from Get when
// the ID is unknown.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

// Store saves and loads viewer state by ID.
type Store interface {
	Get(ctx context.Context, id string) (viewer.State, error)
	Put(ctx context.Context, st viewer.State) error
	// Delete removes a viewer. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error
	Close() error
}

func notFound(id string) error {
	return errors.New(errors.ErrCodeViewerNotFound, "viewer %s not found", id)
}

// Open builds the store selected by cfg. An empty backend means memory.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Backend {
	case "", config.StoreMemory:
		return NewMemoryStore(), nil
	case config.StoreFile:
		s, err := NewFileStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreSQLite:
		s, err := NewSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StoreMongo:
		s, err := NewMongoStore(ctx, cfg.MongoURI, cfg.Database)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %q", cfg.Backend)
	}
}

// MemoryStore keeps state in a map.
type MemoryStore struct {
	mu      sync.RWMutex
	viewers map[string]viewer.State
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{viewers: map[string]viewer.State{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (viewer.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.viewers[id]
	if !ok {
		return viewer.State{}, notFound(id)
	}
	return st, nil
}

func (s *MemoryStore) Put(ctx context.Context, st viewer.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewers[st.ID] = st
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.viewers, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
