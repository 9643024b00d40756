package bookmarks

import (
	"context"
	"sort"
	"sync"

	apperrors "defisim/pkg/errors"
)

// MemoryStore is an in-memory Store, used in tests and when no database
// path is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	links map[string]Link
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: make(map[string]Link)}
}

// Save inserts or replaces a link.
func (s *MemoryStore) Save(_ context.Context, link Link) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links[link.ID] = link
	return nil
}

// List returns all links ordered by creation time, oldest first.
func (s *MemoryStore) List(_ context.Context) ([]Link, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	links := make([]Link, 0, len(s.links))
	for _, link := range s.links {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].CreatedAt.Equal(links[j].CreatedAt) {
			return links[i].ID < links[j].ID
		}
		return links[i].CreatedAt.Before(links[j].CreatedAt)
	})
	return links, nil
}

// Delete removes a link by id.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.links, id)
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error { return nil }
