package kvstore

import (
	"context"
	"sync"
	"time"

	"github.com/shopassist/backend/internal/domain"
)

// memoryItem represents a single value with an optional expiration
type memoryItem struct {
	Value      string
	Expiration time.Time // zero means no expiry
}

func (i memoryItem) expired(now time.Time) bool {
	return !i.Expiration.IsZero() && now.After(i.Expiration)
}

// MemoryStore is a thread-safe in-memory key-value store with TTL support
type MemoryStore struct {
	data  map[string]memoryItem
	mutex sync.RWMutex
	done  chan struct{}
	once  sync.Once
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	store := &MemoryStore{
		data: make(map[string]memoryItem),
		done: make(chan struct{}),
	}

	// Remove expired entries every 10 minutes
	go store.cleanupExpired(10 * time.Minute)

	return store
}

// Get retrieves a value from the store
func (s *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	item, exists := s.data[key]
	if !exists || item.expired(time.Now()) {
		return "", domain.ErrKeyNotFound
	}

	return item.Value, nil
}

// Set stores a value; ttl of zero keeps it until deleted
func (s *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	item := memoryItem{Value: value}
	if ttl > 0 {
		item.Expiration = time.Now().Add(ttl)
	}
	s.data[key] = item

	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

// Close stops the cleanup goroutine
func (s *MemoryStore) Close() error {
	s.once.Do(func() { close(s.done) })
	return nil
}

// cleanupExpired removes expired entries periodically
func (s *MemoryStore) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.purge(time.Now())
		}
	}
}

func (s *MemoryStore) purge(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	for key, item := range s.data {
		if item.expired(now) {
			delete(s.data, key)
		}
	}
}
