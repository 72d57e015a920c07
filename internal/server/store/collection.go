package store

import "sort"

// DefaultPerPage is the page size when a query does not set one.
const DefaultPerPage = 10

// Page is one page of a filtered listing.
type Page[T any] struct {
	Items    []T
	LastPage int
}

// collection is an id-keyed table. Callers hold the store lock.
type collection[T any] struct {
	seq  int64
	rows map[int64]T
}

func newCollection[T any]() *collection[T] {
	return &collection[T]{rows: make(map[int64]T)}
}

func (c *collection[T]) nextID() int64 {
	c.seq++
	return c.seq
}

func (c *collection[T]) get(id int64) (T, bool) {
	v, ok := c.rows[id]
	return v, ok
}

func (c *collection[T]) put(id int64, v T) {
	c.rows[id] = v
	if id > c.seq {
		c.seq = id
	}
}

func (c *collection[T]) remove(id int64) bool {
	if _, ok := c.rows[id]; !ok {
		return false
	}
	delete(c.rows, id)
	return true
}

// filter returns matching rows ordered by id.
func (c *collection[T]) filter(match func(T) bool) []T {
	ids := make([]int64, 0, len(c.rows))
	for id := range c.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, 0, len(ids))
	for _, id := range ids {
		if v := c.rows[id]; match == nil || match(v) {
			out = append(out, v)
		}
	}
	return out
}

// paginate cuts items into pages of perPage. Pages are 1-based; a page past
// the end is empty. LastPage is at least 1.
func paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	if page <= 0 {
		page = 1
	}

	last := (len(items) + perPage - 1) / perPage
	if last < 1 {
		last = 1
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return Page[T]{Items: []T{}, LastPage: last}
	}
	end := min(start+perPage, len(items))

	return Page[T]{Items: items[start:end], LastPage: last}
}
