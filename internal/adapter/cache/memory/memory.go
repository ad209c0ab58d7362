package memory

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"todosvc/internal/core/port"
)

type Store struct {
	cache *gocache.Cache
	mu    sync.Mutex
}

// New returns an in-process SharedStore. Counters and cache entries are not
// shared across instances, so this is only suitable for tests and
// single-node runs.
func New() port.SharedStore {
	return &Store{
		cache: gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.cache.Set(key, value, ttl)
	return nil
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if v, found := s.cache.Get(key); found {
		return v.([]byte), true, nil
	}
	return nil, false, nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.cache.Delete(key)
	return nil
}

func (s *Store) Increment(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.cache.Get(key); !found {
		s.cache.Set(key, int64(1), ttl)
		return 1, nil
	}

	// IncrementInt64 keeps the original expiration, preserving the window.
	return s.cache.IncrementInt64(key, 1)
}

func (s *Store) Close() error {
	s.cache.Flush()
	return nil
}
