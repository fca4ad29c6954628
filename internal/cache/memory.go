package cache

import (
	"container/list"
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

// ErrClosed is returned by mutating calls on a closed MemoryStore.
var ErrClosed = errors.New("cache: store is closed")

// MemoryConfig controls capacity and maintenance of a MemoryStore.
//
//   - MaxEntries <= 0 disables LRU eviction.
//   - CleanupInterval <= 0 disables the background sweep; lazy expiry on read still applies.
//   - Clock defaults to time.Now.
type MemoryConfig struct {
	MaxEntries      int
	CleanupInterval time.Duration
	Clock           func() time.Time
}

// MemoryStore is a concurrency-safe in-process Store with per-entry TTL and LRU eviction.
// A map indexes list elements; the list keeps recency order (front = most recently used).
//
// The store owns its sweep goroutine. Call Close to stop it.
type MemoryStore struct {
	mu sync.Mutex

	maxEntries int
	items      map[string]*list.Element
	lru        *list.List
	now        func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	cleanupEvery time.Duration
	closed       bool
}

type memoryEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
	hasExpiry bool
}

func (e *memoryEntry) expired(now time.Time) bool {
	return e.hasExpiry && !e.expiresAt.After(now)
}

// NewMemoryStore constructs a store and starts the background sweep when enabled.
func NewMemoryStore(cfg MemoryConfig) *MemoryStore {
	ctx, cancel := context.WithCancel(context.Background())

	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}

	s := &MemoryStore{
		maxEntries:   cfg.MaxEntries,
		items:        make(map[string]*list.Element),
		lru:          list.New(),
		now:          clock,
		ctx:          ctx,
		cancel:       cancel,
		cleanupEvery: cfg.CleanupInterval,
	}

	if s.cleanupEvery > 0 {
		s.wg.Add(1)
		go s.sweepLoop()
	}

	return s
}

// Close stops the sweep goroutine and rejects further writes. Safe to call more than once.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	return nil
}

// Set writes or overwrites a key. ttl <= 0 stores the value without expiry.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.setLocked(key, cloneBytes(value), ttl, s.now())
	return nil
}

// Get returns a copy of the stored value. Expired entries are removed and reported absent.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		return nil, false, nil
	}

	e := el.Value.(*memoryEntry)
	if e.expired(s.now()) {
		s.deleteLocked(key)
		return nil, false, nil
	}

	s.lru.MoveToFront(el)
	return cloneBytes(e.value), true, nil
}

// Delete removes keys if present.
func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	for _, key := range keys {
		s.deleteLocked(key)
	}
	return nil
}

// IncrementWithTTL increments a decimal counter. The window starts with the first increment
// and is not extended by later ones.
func (s *MemoryStore) IncrementWithTTL(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	if window <= 0 {
		window = time.Minute
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, 0, ErrClosed
	}

	now := s.now()
	if el, ok := s.items[key]; ok {
		e := el.Value.(*memoryEntry)
		if !e.expired(now) {
			current, _ := strconv.ParseInt(string(e.value), 10, 64)
			current++
			e.value = []byte(strconv.FormatInt(current, 10))
			s.lru.MoveToFront(el)
			return current, e.expiresAt.Sub(now), nil
		}
	}

	s.setLocked(key, []byte("1"), window, now)
	return 1, window, nil
}

// Len returns the number of stored entries, including expired ones not yet reclaimed.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Keys returns keys in most- to least-recently-used order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, s.lru.Len())
	for el := s.lru.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value.(*memoryEntry).key)
	}
	return out
}

// PurgeExpired removes every expired entry and returns how many were dropped.
func (s *MemoryStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteExpiredLocked(s.now())
}

func (s *MemoryStore) setLocked(key string, value []byte, ttl time.Duration, now time.Time) {
	var expiresAt time.Time
	hasExpiry := ttl > 0
	if hasExpiry {
		expiresAt = now.Add(ttl)
	}

	if el, ok := s.items[key]; ok {
		e := el.Value.(*memoryEntry)
		e.value = value
		e.hasExpiry = hasExpiry
		e.expiresAt = expiresAt
		s.lru.MoveToFront(el)
		s.evictIfNeededLocked(now)
		return
	}

	el := s.lru.PushFront(&memoryEntry{
		key:       key,
		value:     value,
		hasExpiry: hasExpiry,
		expiresAt: expiresAt,
	})
	s.items[key] = el
	s.evictIfNeededLocked(now)
}

func (s *MemoryStore) evictIfNeededLocked(now time.Time) {
	if s.maxEntries <= 0 || len(s.items) <= s.maxEntries {
		return
	}

	// Expired entries go first so live keys keep their LRU position.
	s.deleteExpiredLocked(now)

	for len(s.items) > s.maxEntries {
		el := s.lru.Back()
		if el == nil {
			return
		}
		s.deleteLocked(el.Value.(*memoryEntry).key)
	}
}

func (s *MemoryStore) deleteLocked(key string) {
	el, ok := s.items[key]
	if !ok {
		return
	}
	delete(s.items, key)
	s.lru.Remove(el)
}

func (s *MemoryStore) deleteExpiredLocked(now time.Time) int {
	removed := 0
	for key, el := range s.items {
		if el.Value.(*memoryEntry).expired(now) {
			delete(s.items, key)
			s.lru.Remove(el)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) sweepLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.PurgeExpired()
		}
	}
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
