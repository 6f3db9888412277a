package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/lecture-insight-team/lecture-insight/internal/domain/entities"
)

const defaultRunTTL = 24 * time.Hour

// MemoryRunStore is an in-memory run repository with expiration, used when
// Redis is disabled. Records are stored serialized so reads always get a
// private copy and the two stores stay behaviorally interchangeable.
type MemoryRunStore struct {
	mu    sync.RWMutex
	items map[string]*memoryItem
	ttl   time.Duration
}

type memoryItem struct {
	payload    []byte
	expireTime time.Time
}

// NewMemoryRunStore creates an in-memory run store with the given TTL
func NewMemoryRunStore(ttl time.Duration) *MemoryRunStore {
	if ttl <= 0 {
		ttl = defaultRunTTL
	}

	store := &MemoryRunStore{
		items: make(map[string]*memoryItem),
		ttl:   ttl,
	}

	// Cleanup goroutine removes expired items for the process lifetime
	go store.cleanupExpired()

	return store
}

// Save persists the run record and refreshes its TTL
func (ms *MemoryRunStore) Save(_ context.Context, run *entities.AnalysisRun) error {
	payload, err := json.Marshal(run)
	if err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.items[run.ID] = &memoryItem{
		payload:    payload,
		expireTime: time.Now().Add(ms.ttl),
	}
	return nil
}

// FindByID retrieves a run by ID
func (ms *MemoryRunStore) FindByID(_ context.Context, id string) (*entities.AnalysisRun, error) {
	ms.mu.RLock()
	item, exists := ms.items[id]
	ms.mu.RUnlock()

	if !exists || time.Now().After(item.expireTime) {
		return nil, entities.ErrRunNotFound
	}

	var run entities.AnalysisRun
	if err := json.Unmarshal(item.payload, &run); err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a run record
func (ms *MemoryRunStore) Delete(_ context.Context, id string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.items, id)
	return nil
}

// cleanupExpired periodically removes expired items
func (ms *MemoryRunStore) cleanupExpired() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		ms.mu.Lock()
		now := time.Now()
		for key, item := range ms.items {
			if now.After(item.expireTime) {
				delete(ms.items, key)
			}
		}
		ms.mu.Unlock()
	}
}
