package api

import (
	"encoding/json"
	"sync"
)

// Update is one delivery on a Subscription: fresh data or the error of a
// failed refetch.
type Update struct {
	Data json.RawMessage
	Err  error
}

// Subscription keeps a query entry alive and receives its refetched data
// after every invalidation. Only the latest undelivered update is kept.
type Subscription struct {
	key     string
	cache   *cache
	updates chan Update

	mu     sync.Mutex
	closed bool
}

func newSubscription(c *cache, key string) *Subscription {
	return &Subscription{key: key, cache: c, updates: make(chan Update, 1)}
}

// Key is the cache key of the subscribed query.
func (s *Subscription) Key() string { return s.key }

// Updates is closed by Close.
func (s *Subscription) Updates() <-chan Update { return s.updates }

func (s *Subscription) push(u Update) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	select {
	case <-s.updates:
	default:
	}
	s.updates <- u
}

// Close releases the entry; once no subscriber is left it becomes eligible
// for eviction. Close is idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.updates)
	s.mu.Unlock()

	s.cache.unsubscribe(s.key, s)
}
