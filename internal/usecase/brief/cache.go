package brief

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Entry is one cached brief together with the staleness keys it was
// generated under.
type Entry struct {
	Brief      string    `json:"brief"`
	PersonID   uuid.UUID `json:"person_id"`
	Generation int64     `json:"generation"`
	CachedAt   time.Time `json:"cached_at"`
}

// Store is the backing storage for cached briefs. Implementations exist
// for in-process memory and Redis.
type Store interface {
	Get(ctx context.Context, personID uuid.UUID) (*Entry, bool, error)
	Put(ctx context.Context, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, personID uuid.UUID) error
	Clear(ctx context.Context) error
}

// Cache gates cached briefs on wall-clock age and the subject's
// conversation generation. A stored entry is served only while it is
// younger than the TTL and no conversation was recorded since it was
// generated; either condition failing is a miss.
type Cache struct {
	store  Store
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// NewCache creates a brief cache over the given store.
func NewCache(store Store, ttl time.Duration, logger *zap.Logger) *Cache {
	return NewCacheWithClock(store, ttl, time.Now, logger)
}

// NewCacheWithClock is NewCache with an injectable clock.
func NewCacheWithClock(store Store, ttl time.Duration, now func() time.Time, logger *zap.Logger) *Cache {
	return &Cache{
		store:  store,
		ttl:    ttl,
		now:    now,
		logger: logger,
		locks:  make(map[uuid.UUID]*sync.Mutex),
	}
}

// Get returns the cached brief for a person when it is still fresh for
// the given generation. Store errors degrade to a miss.
func (c *Cache) Get(ctx context.Context, personID uuid.UUID, generation int64) (string, bool) {
	entry, ok, err := c.store.Get(ctx, personID)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("⚠️ Brief cache read failed, treating as miss",
				zap.String("person_id", personID.String()), zap.Error(err))
		}
		return "", false
	}
	if !ok {
		return "", false
	}

	if c.now().Sub(entry.CachedAt) >= c.ttl || entry.Generation != generation {
		return "", false
	}
	return entry.Brief, true
}

// Put stores a freshly generated brief.
func (c *Cache) Put(ctx context.Context, personID uuid.UUID, brief string, generation int64) {
	entry := &Entry{
		Brief:      brief,
		PersonID:   personID,
		Generation: generation,
		CachedAt:   c.now(),
	}
	if err := c.store.Put(ctx, entry, c.ttl); err != nil && c.logger != nil {
		c.logger.Warn("⚠️ Brief cache write failed",
			zap.String("person_id", personID.String()), zap.Error(err))
	}
}

// Invalidate drops the cached brief for one person, or every brief when
// personID is nil.
func (c *Cache) Invalidate(ctx context.Context, personID *uuid.UUID) error {
	if personID == nil {
		return c.store.Clear(ctx)
	}
	return c.store.Delete(ctx, *personID)
}

// LockSubject serializes brief generation per person so concurrent
// requests for the same subject produce one provider call, while requests
// for different subjects proceed in parallel.
func (c *Cache) LockSubject(personID uuid.UUID) (unlock func()) {
	c.mu.Lock()
	lock, ok := c.locks[personID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[personID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
