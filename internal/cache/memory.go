package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is the in-process Store backend: a TTL LRU of encoded report
// payloads with a background janitor sweeping expired entries.
type MemoryStore struct {
	lru *LRU[[]byte]

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewMemoryStore creates a memory-backed report cache and starts its
// cleanup loop.
func NewMemoryStore(maxSize int, ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		lru:  NewLRU[[]byte](maxSize, ttl),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.cleanupLoop(ttl)
	return s
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	return s.lru.Get(key)
}

func (s *MemoryStore) Set(_ context.Context, key string, data []byte) {
	s.lru.Set(key, data)
}

func (s *MemoryStore) Delete(_ context.Context, key string) {
	s.lru.Delete(key)
}

// Size returns the current entry count.
func (s *MemoryStore) Size() int {
	return s.lru.Size()
}

// Close stops the cleanup loop. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *MemoryStore) cleanupLoop(ttl time.Duration) {
	defer close(s.done)

	interval := ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.lru.CleanExpired()
		case <-s.stop:
			return
		}
	}
}
