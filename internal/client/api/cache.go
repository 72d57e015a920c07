package api

import (
	"encoding/json"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of unsubscribed entries kept.
const DefaultCacheSize = 256

type entry struct {
	key   string
	tags  []Tag
	req   *Request
	data  json.RawMessage
	stale bool
	subs  map[*Subscription]struct{}
}

// target is a snapshot of what is needed to refetch an entry.
type target struct {
	key  string
	tags []Tag
	req  *Request
}

func (e *entry) target() target {
	return target{key: e.key, tags: e.tags, req: e.req}
}

// cache indexes GET results by key and by tag. Entries with subscribers are
// pinned; the rest sit in an LRU and may be evicted.
//
// Every invalidation bumps version and records it per tag. A fetch remembers
// the version it started at; if any of its tags was invalidated later, its
// result is stored but stays stale.
type cache struct {
	mu      sync.Mutex
	pinned  map[string]*entry
	idle    *lru.Cache[string, *entry]
	byTag   map[Tag]map[string]struct{}
	version uint64
	tagged  map[Tag]uint64
	resetAt uint64
}

func newCache(size int) (*cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}

	c := &cache{
		pinned: make(map[string]*entry),
		byTag:  make(map[Tag]map[string]struct{}),
		tagged: make(map[Tag]uint64),
	}

	idle, err := lru.NewWithEvict[string, *entry](size, c.evicted)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	c.idle = idle
	return c, nil
}

// evicted runs with c.mu held, from inside idle's Add/Remove/Purge.
func (c *cache) evicted(key string, e *entry) {
	if c.pinned[key] == e {
		return
	}
	c.unindex(e)
}

func (c *cache) index(e *entry) {
	for _, t := range e.tags {
		keys, ok := c.byTag[t]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[t] = keys
		}
		keys[e.key] = struct{}{}
	}
}

func (c *cache) unindex(e *entry) {
	for _, t := range e.tags {
		if keys, ok := c.byTag[t]; ok {
			delete(keys, e.key)
			if len(keys) == 0 {
				delete(c.byTag, t)
			}
		}
	}
}

func (c *cache) lookup(key string) *entry {
	if e, ok := c.pinned[key]; ok {
		return e
	}
	if e, ok := c.idle.Get(key); ok {
		return e
	}
	return nil
}

// ensure returns the entry for key, creating an empty stale one if needed.
func (c *cache) ensure(key string, tags []Tag, req *Request) *entry {
	if e := c.lookup(key); e != nil {
		if !sameTags(e.tags, tags) {
			c.unindex(e)
			e.tags = tags
			c.index(e)
		}
		e.req = req
		return e
	}

	e := &entry{key: key, tags: tags, req: req, stale: true, subs: make(map[*Subscription]struct{})}
	c.index(e)
	c.idle.Add(key, e)
	return e
}

func (c *cache) epoch() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

func (c *cache) fresh(key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.lookup(key)
	if e == nil || e.stale || e.data == nil {
		return nil, false
	}
	return e.data, true
}

// store records the result of a fetch started at version startedAt. It
// returns the subscribers to notify and whether the result was already
// invalidated while in flight. Stale results must not reach subscribers.
func (c *cache) store(key string, tags []Tag, req *Request, data json.RawMessage, startedAt uint64) ([]*Subscription, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(key, tags, req)
	e.data = data
	e.stale = c.invalidatedSince(tags, startedAt)

	return subscribers(e), e.stale
}

func (c *cache) invalidatedSince(tags []Tag, v uint64) bool {
	if c.resetAt > v {
		return true
	}
	for _, t := range tags {
		if c.tagged[t] > v {
			return true
		}
	}
	return false
}

// invalidate marks every entry carrying one of tags stale and returns the
// subscribed ones, which need a background refetch.
func (c *cache) invalidate(tags []Tag) []target {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++

	seen := make(map[string]struct{})
	var refetch []target
	for _, t := range tags {
		c.tagged[t] = c.version
		for key := range c.byTag[t] {
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}

			e, ok := c.pinned[key]
			if !ok {
				e, ok = c.idle.Peek(key)
			}
			if !ok {
				continue
			}
			e.stale = true
			if len(e.subs) > 0 {
				refetch = append(refetch, e.target())
			}
		}
	}
	return refetch
}

func (c *cache) subscribe(key string, tags []Tag, req *Request, sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.ensure(key, tags, req)
	e.subs[sub] = struct{}{}
	if _, ok := c.pinned[key]; !ok {
		c.pinned[key] = e
		c.idle.Remove(key)
	}
}

func (c *cache) unsubscribe(key string, sub *Subscription) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.pinned[key]
	if !ok {
		return
	}
	delete(e.subs, sub)
	if len(e.subs) == 0 {
		delete(c.pinned, key)
		c.idle.Add(key, e)
	}
}

func (c *cache) subscribersOf(key string) []*Subscription {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.pinned[key]; ok {
		return subscribers(e)
	}
	return nil
}

// reset drops every unsubscribed entry and forgets the data of pinned ones.
// Fetches in flight at the time of the reset are stored stale.
func (c *cache) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.version++
	c.resetAt = c.version
	c.idle.Purge()

	for _, e := range c.pinned {
		e.stale = true
		e.data = nil
	}
}

func (c *cache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pinned) + c.idle.Len()
}

func (c *cache) tagCount(t Tag) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.byTag[t])
}

func subscribers(e *entry) []*Subscription {
	subs := make([]*Subscription, 0, len(e.subs))
	for s := range e.subs {
		subs = append(subs, s)
	}
	return subs
}

func sameTags(a, b []Tag) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
