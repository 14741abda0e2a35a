package cache

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

type Option func(*Store)

// WithClock replaces the wall clock used for expiry checks.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Store) {
		s.clock = clock
	}
}

// WithSingleFlight collapses concurrent misses for the same key into one fetch.
func WithSingleFlight(enabled bool) Option {
	return func(s *Store) {
		s.singleflight = enabled
	}
}

func New(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		ttl:   ttl,
		clock: clockwork.NewRealClock(),
		items: make(map[Key]*item),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store is a time-to-live keyed store shared by every query path.
// Expired entries are not evicted; they are overwritten by the next Put for
// the same key or dropped by Clear.
type Store struct {
	ttl          time.Duration
	clock        clockwork.Clock
	singleflight bool
	group        singleflight.Group

	lock  sync.RWMutex
	items map[Key]*item
}

func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the value stored under key while it is younger than the ttl.
func (s *Store) Get(key Key) (value any, ok bool) {
	s.lock.RLock()
	cacheValue, found := s.items[key]
	s.lock.RUnlock()
	if !found || !cacheValue.fresh(s.clock.Now(), s.ttl) {
		return nil, false
	}
	return cacheValue.value, true
}

// Put inserts or overwrites the value under key.
func (s *Store) Put(key Key, value any) {
	s.lock.Lock()
	s.items[key] = &item{
		insertedAt: s.clock.Now(),
		value:      value,
	}
	s.lock.Unlock()
}

// Clear removes every entry.
func (s *Store) Clear() {
	s.lock.Lock()
	s.items = make(map[Key]*item)
	s.lock.Unlock()
}

// Len counts stored entries, expired ones included.
func (s *Store) Len() int {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return len(s.items)
}
