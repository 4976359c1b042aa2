package session

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	value     string
	expiresAt time.Time
}

type MemoryBackend struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	data map[string]map[string]memEntry
}

// NewMemoryBackend keeps sessions in process memory. ttl <= 0 disables expiry.
func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{
		ttl:  ttl,
		now:  time.Now,
		data: make(map[string]map[string]memEntry),
	}
}

func (b *MemoryBackend) Scope(visitorID string) Store {
	return &memoryStore{b: b, visitor: visitorID}
}

func (b *MemoryBackend) Ping(context.Context) error { return nil }

// PurgeExpired drops expired entries and returns how many were removed.
func (b *MemoryBackend) PurgeExpired(context.Context) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	var n int64
	for vid, entries := range b.data {
		for k, e := range entries {
			if b.expired(e, now) {
				delete(entries, k)
				n++
			}
		}
		if len(entries) == 0 {
			delete(b.data, vid)
		}
	}
	return n, nil
}

func (b *MemoryBackend) expired(e memEntry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type memoryStore struct {
	b       *MemoryBackend
	visitor string
}

func (s *memoryStore) Get(_ context.Context, key string) (string, error) {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	e, ok := s.b.data[s.visitor][key]
	if !ok || s.b.expired(e, s.b.now()) {
		return "", ErrNotFound
	}
	return e.value, nil
}

func (s *memoryStore) Set(_ context.Context, key, value string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	entries, ok := s.b.data[s.visitor]
	if !ok {
		entries = make(map[string]memEntry)
		s.b.data[s.visitor] = entries
	}
	e := memEntry{value: value}
	if s.b.ttl > 0 {
		e.expiresAt = s.b.now().Add(s.b.ttl)
	}
	entries[key] = e
	return nil
}

func (s *memoryStore) Clear(_ context.Context, keys ...string) error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()

	if len(keys) == 0 {
		delete(s.b.data, s.visitor)
		return nil
	}
	entries := s.b.data[s.visitor]
	for _, k := range keys {
		delete(entries, k)
	}
	return nil
}
