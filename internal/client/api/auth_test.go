package api

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type recorder struct {
	mu       sync.Mutex
	messages []string
	reloads  int
}

func (r *recorder) Notify(_ context.Context, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msg)
}

func (r *recorder) Reload() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reloads++
}

func (r *recorder) snapshot() ([]string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...), r.reloads
}

func unauthorizedBackend() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"errors":"Unauthenticated"}`)
	})
}

func TestAuthGuard_ConcurrentUnauthorizedFireOnce(t *testing.T) {
	rec := &recorder{}
	sched := &fakeScheduler{}

	c, sess := newTestClient(t, unauthorizedBackend(), func(o *Options) {
		o.Notifier = rec
		o.Reloader = rec
		o.Scheduler = sched.Schedule
	})

	var g errgroup.Group
	for i := 0; i < 5; i++ {
		g.Go(func() error {
			_, err := c.Mutate(context.Background(), Mutation{Endpoint: "users", Method: MethodPost, Body: JSON(struct{}{})})
			assert.ErrorIs(t, err, ErrUnauthorized)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	msgs, reloads := rec.snapshot()
	assert.Equal(t, []string{SessionExpiredMessage}, msgs)
	assert.Equal(t, 0, reloads, "reload waits for the delay")
	assert.Equal(t, 1, sched.Calls())
	assert.Equal(t, []time.Duration{DefaultReloadDelay}, sched.delays)
	assert.Empty(t, sess.Token())
	assert.GreaterOrEqual(t, sess.Logouts(), 1)
	assert.True(t, c.Guard().Pending())

	sched.RunAll()

	_, reloads = rec.snapshot()
	assert.Equal(t, 1, reloads)
	assert.False(t, c.Guard().Pending())
}

func TestAuthGuard_RearmsAfterReload(t *testing.T) {
	rec := &recorder{}
	sched := &fakeScheduler{}

	c, _ := newTestClient(t, unauthorizedBackend(), func(o *Options) {
		o.Notifier = rec
		o.Reloader = rec
		o.Scheduler = sched.Schedule
		o.ReloadDelay = time.Second
	})
	ctx := context.Background()

	_, err := c.Query(ctx, Query{Endpoint: "users"})
	require.ErrorIs(t, err, ErrUnauthorized)
	sched.RunAll()

	_, err = c.Query(ctx, Query{Endpoint: "users"})
	require.ErrorIs(t, err, ErrUnauthorized)

	msgs, _ := rec.snapshot()
	assert.Len(t, msgs, 2)
	assert.Equal(t, 2, sched.Calls())
}

func TestAuthGuard_IgnoresOtherFailures(t *testing.T) {
	rec := &recorder{}
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"errors":"no"}`)
	})

	c, sess := newTestClient(t, h, func(o *Options) {
		o.Notifier = rec
		o.Reloader = rec
	})

	_, err := c.Query(context.Background(), Query{Endpoint: "users"})
	require.ErrorIs(t, err, ErrForbidden)

	msgs, _ := rec.snapshot()
	assert.Empty(t, msgs)
	assert.Equal(t, "tok123", sess.Token())
}

func TestAuthGuard_StopCancelsReload(t *testing.T) {
	rec := &recorder{}
	sess := &fakeSession{token: "t"}
	g := NewAuthGuard(sess, rec, rec, 10*time.Millisecond, logging.NewNopLogger())

	h := Chain(func(context.Context, *Request) (*Response, error) {
		return &Response{Status: http.StatusUnauthorized}, nil
	}, g.Middleware())

	_, err := h(context.Background(), &Request{Method: MethodGet, Endpoint: "users"})
	require.NoError(t, err)
	require.True(t, g.Pending())

	g.Stop()
	time.Sleep(30 * time.Millisecond)

	_, reloads := rec.snapshot()
	assert.Equal(t, 0, reloads)
	assert.False(t, g.Pending())
}

func TestAuthGuard_SynchronousScheduler(t *testing.T) {
	rec := &recorder{}
	g := NewAuthGuard(&fakeSession{token: "t"}, rec, rec, 0, logging.NewNopLogger()).
		WithScheduler(func(_ time.Duration, f func()) func() bool {
			f()
			return func() bool { return false }
		})

	h := Chain(func(context.Context, *Request) (*Response, error) {
		return &Response{Status: http.StatusUnauthorized}, nil
	}, g.Middleware())

	_, err := h(context.Background(), &Request{Method: MethodGet, Endpoint: "users"})
	require.NoError(t, err)

	_, reloads := rec.snapshot()
	assert.Equal(t, 1, reloads)
	assert.False(t, g.Pending())
}
