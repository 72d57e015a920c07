package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
)

// SessionExpiredMessage is shown to the user when the backend rejects the
// token.
const SessionExpiredMessage = "Session Expired. Please login again"

// DefaultReloadDelay leaves the notification on screen before the reload.
const DefaultReloadDelay = 3 * time.Second

// SessionCloser is the part of the session the guard needs.
type SessionCloser interface {
	Logout(ctx context.Context) bool
}

// Notifier shows a transient message to the user.
type Notifier interface {
	Notify(ctx context.Context, msg string)
}

type NotifierFunc func(ctx context.Context, msg string)

func (f NotifierFunc) Notify(ctx context.Context, msg string) { f(ctx, msg) }

// Reloader resets the application to its unauthenticated entry point.
type Reloader interface {
	Reload()
}

type ReloaderFunc func()

func (f ReloaderFunc) Reload() { f() }

// Scheduler runs f after d and returns a function cancelling it.
type Scheduler func(d time.Duration, f func()) (stop func() bool)

func afterFunc(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

// AuthGuard turns a 401 from any endpoint into a session reset: notify the
// user, clear the session, schedule a reload after the delay. While a reload
// is pending further 401s only clear the session again, so concurrent
// failures produce one notification and one reload. No refresh-token retry is
// attempted.
type AuthGuard struct {
	session  SessionCloser
	notifier Notifier
	reloader Reloader
	delay    time.Duration
	schedule Scheduler
	logger   logging.Logger

	mu      sync.Mutex
	pending bool
	stop    func() bool
}

func NewAuthGuard(session SessionCloser, notifier Notifier, reloader Reloader, delay time.Duration, logger logging.Logger) *AuthGuard {
	return &AuthGuard{
		session:  session,
		notifier: notifier,
		reloader: reloader,
		delay:    delay,
		schedule: afterFunc,
		logger:   logger,
	}
}

// WithScheduler replaces time.AfterFunc; it must be called before use.
func (g *AuthGuard) WithScheduler(s Scheduler) *AuthGuard {
	g.schedule = s
	return g
}

// Middleware returns the chain stage.
func (g *AuthGuard) Middleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err == nil && resp.Status == http.StatusUnauthorized {
				g.expire(ctx, req)
			}
			return resp, err
		}
	}
}

// Pending reports whether a reload is scheduled.
func (g *AuthGuard) Pending() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending
}

// Stop cancels a scheduled reload.
func (g *AuthGuard) Stop() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.stop != nil {
		g.stop()
		g.stop = nil
	}
	g.pending = false
}

func (g *AuthGuard) expire(ctx context.Context, req *Request) {
	g.mu.Lock()
	if g.pending {
		g.mu.Unlock()
		g.session.Logout(ctx)
		return
	}
	g.pending = true
	g.mu.Unlock()

	g.logger.Warn(ctx, "session rejected by backend", "method", req.Method, "endpoint", req.Endpoint)

	if g.notifier != nil {
		g.notifier.Notify(ctx, SessionExpiredMessage)
	}
	g.session.Logout(ctx)

	stop := g.schedule(g.delay, g.fire)
	g.mu.Lock()
	if g.pending {
		g.stop = stop
	}
	g.mu.Unlock()
}

func (g *AuthGuard) fire() {
	g.mu.Lock()
	if !g.pending {
		g.mu.Unlock()
		return
	}
	g.pending = false
	g.stop = nil
	g.mu.Unlock()

	if g.reloader != nil {
		g.reloader.Reload()
	}
}
