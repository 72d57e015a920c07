// Package tracker counts in-flight mutating requests and exposes the derived
// busy signal the CLI shows while a write is pending.
//
// Every Begin must be paired with exactly one End. Acquire and Track give
// that pairing for free: the release runs on every exit path, including
// errors and panics.
package tracker

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
)

type Tracker struct {
	mu       sync.Mutex
	count    int
	onChange []func(busy bool)
	logger   logging.Logger

	// notifyMu is taken before mu is released on a transition, so
	// listeners observe transitions in the order they happened.
	notifyMu sync.Mutex
}

func New(logger logging.Logger) *Tracker {
	return &Tracker{logger: logger}
}

// Begin records the start of a request.
func (t *Tracker) Begin() {
	t.mu.Lock()
	t.count++
	if t.count != 1 {
		t.mu.Unlock()
		return
	}
	fns := t.listeners()
	t.notifyMu.Lock()
	t.mu.Unlock()

	t.fire(fns, true)
}

// End records the settlement of a request. The count never goes below zero;
// an unmatched End is reported and otherwise ignored.
func (t *Tracker) End() {
	t.mu.Lock()
	if t.count == 0 {
		t.mu.Unlock()
		t.logger.Warn(context.Background(), "request tracker: End without matching Begin")
		return
	}
	t.count--
	if t.count != 0 {
		t.mu.Unlock()
		return
	}
	fns := t.listeners()
	t.notifyMu.Lock()
	t.mu.Unlock()

	t.fire(fns, false)
}

// Acquire calls Begin and returns the matching release. Calling release more
// than once has no further effect.
func (t *Tracker) Acquire() (release func()) {
	t.Begin()
	var once sync.Once
	return func() { once.Do(t.End) }
}

// Track runs fn while the tracker is held.
func (t *Tracker) Track(fn func() error) error {
	defer t.Acquire()()
	return fn()
}

func (t *Tracker) IsBusy() bool {
	return t.Count() > 0
}

func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.count
}

// OnChange registers fn for busy transitions (idle to busy and back).
// Calls are serialized and arrive in transition order, so the last value
// delivered always matches IsBusy once requests settle. fn must not call
// Begin or End.
func (t *Tracker) OnChange(fn func(busy bool)) {
	t.mu.Lock()
	t.onChange = append(t.onChange, fn)
	t.mu.Unlock()
}

// listeners must be called with mu held.
func (t *Tracker) listeners() []func(bool) {
	return append([]func(bool){}, t.onChange...)
}

// fire must be called with notifyMu held and releases it.
func (t *Tracker) fire(fns []func(bool), busy bool) {
	defer t.notifyMu.Unlock()
	for _, fn := range fns {
		fn(busy)
	}
}
