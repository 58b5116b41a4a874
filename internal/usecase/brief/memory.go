package brief

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryItem struct {
	entry      Entry
	expireTime time.Time
}

// memoryStore is the in-process Store. Expired items are swept by a
// background janitor; the freshness predicate in Cache does not depend on
// the sweep.
type memoryStore struct {
	mu    sync.RWMutex
	items map[uuid.UUID]memoryItem
}

// NewMemoryStore creates an in-process brief store and starts its
// cleanup goroutine.
func NewMemoryStore() Store {
	store := &memoryStore{
		items: make(map[uuid.UUID]memoryItem),
	}
	go store.cleanupLoop()
	return store
}

func (s *memoryStore) Get(_ context.Context, personID uuid.UUID) (*Entry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[personID]
	if !ok || time.Now().After(item.expireTime) {
		return nil, false, nil
	}
	entry := item.entry
	return &entry, true, nil
}

func (s *memoryStore) Put(_ context.Context, entry *Entry, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items[entry.PersonID] = memoryItem{
		entry:      *entry,
		expireTime: time.Now().Add(ttl),
	}
	return nil
}

func (s *memoryStore) Delete(_ context.Context, personID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.items, personID)
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make(map[uuid.UUID]memoryItem)
	return nil
}

func (s *memoryStore) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for id, item := range s.items {
			if now.After(item.expireTime) {
				delete(s.items, id)
			}
		}
		s.mu.Unlock()
	}
}
