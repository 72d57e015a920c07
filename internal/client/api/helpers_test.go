package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	mu      sync.Mutex
	token   string
	logouts int
}

func (s *fakeSession) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *fakeSession) Logout(context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logouts++
	was := s.token != ""
	s.token = ""
	return was
}

func (s *fakeSession) Logouts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logouts
}

type fakeScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	fns    []func()
}

func (f *fakeScheduler) Schedule(d time.Duration, fn func()) func() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delays = append(f.delays, d)
	f.fns = append(f.fns, fn)
	return func() bool { return true }
}

func (f *fakeScheduler) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.delays)
}

func (f *fakeScheduler) RunAll() {
	f.mu.Lock()
	fns := f.fns
	f.fns = nil
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type counter struct {
	mu sync.Mutex
	n  int
}

func (c *counter) Inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *counter) Get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func newTestClient(t *testing.T, h http.Handler, mutate func(*Options)) (*Client, *fakeSession) {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	sess := &fakeSession{token: "tok123"}
	opts := Options{
		BaseURL:   srv.URL + "/api",
		Session:   sess,
		Logger:    logging.NewNopLogger(),
		Scheduler: (&fakeScheduler{}).Schedule,
	}
	if mutate != nil {
		mutate(&opts)
	}

	c, err := New(opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	return c, sess
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newEchoServer(t *testing.T, inspect func(*http.Request)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		inspect(r)
		writeJSON(w, http.StatusOK, `{}`)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}
