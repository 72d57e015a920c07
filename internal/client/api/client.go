package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Session is what the client needs from the session store.
type Session interface {
	TokenSource
	SessionCloser
}

// Options configure a Client. BaseURL and Session are required.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    Session
	Tracker    BusyTracker
	Notifier   Notifier
	Reloader   Reloader

	// ReloadDelay defaults to DefaultReloadDelay.
	ReloadDelay time.Duration
	Scheduler   Scheduler

	// CacheSize bounds unsubscribed entries; defaults to DefaultCacheSize.
	CacheSize int

	Logger logging.Logger

	// Middlewares run innermost, right before the transport.
	Middlewares []Middleware
}

// Client is the single gateway to the backend. Reads are cached by tag,
// writes invalidate tags, and every request passes the middleware chain.
type Client struct {
	handler Handler
	cache   *cache
	group   singleflight.Group
	guard   *AuthGuard
	logger  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
}

func New(opts Options) (*Client, error) {
	if opts.Session == nil {
		return nil, errors.New("api client: session is required")
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.ReloadDelay <= 0 {
		opts.ReloadDelay = DefaultReloadDelay
	}

	transport, err := HTTPTransport(opts.BaseURL, opts.HTTPClient)
	if err != nil {
		return nil, err
	}

	c, err := newCache(opts.CacheSize)
	if err != nil {
		return nil, err
	}

	guard := NewAuthGuard(opts.Session, opts.Notifier, opts.Reloader, opts.ReloadDelay, opts.Logger)
	if opts.Scheduler != nil {
		guard.WithScheduler(opts.Scheduler)
	}

	var mws []Middleware
	if opts.Tracker != nil {
		mws = append(mws, BusyTracking(opts.Tracker))
	}
	mws = append(mws,
		guard.Middleware(),
		RequestID(),
		BearerAuth(opts.Session),
		Logging(opts.Logger),
	)
	mws = append(mws, opts.Middlewares...)

	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		handler: Chain(transport, mws...),
		cache:   c,
		guard:   guard,
		logger:  opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

// Guard exposes the 401 interceptor.
func (c *Client) Guard() *AuthGuard { return c.guard }

// Query returns the cached result of q, fetching it when absent or stale.
func (c *Client) Query(ctx context.Context, q Query) (json.RawMessage, error) {
	req, key, tags, err := q.request()
	if err != nil {
		return nil, err
	}
	data, _, err := c.read(ctx, target{key: key, tags: tags, req: req})
	return data, err
}

// QueryByID is Query for a single record.
func (c *Client) QueryByID(ctx context.Context, q ItemQuery) (json.RawMessage, error) {
	req, key, tags, err := q.request()
	if err != nil {
		return nil, err
	}
	data, _, err := c.read(ctx, target{key: key, tags: tags, req: req})
	return data, err
}

// Mutate performs m and, on success, invalidates m.Invalidates. Subscribed
// entries carrying those tags are refetched in the background.
func (c *Client) Mutate(ctx context.Context, m Mutation) (json.RawMessage, error) {
	req, err := m.request()
	if err != nil {
		return nil, err
	}

	data, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}

	c.Invalidate(m.Invalidates...)
	return data, nil
}

// Invalidate marks every entry carrying one of tags stale.
func (c *Client) Invalidate(tags ...Tag) {
	if len(tags) == 0 {
		return
	}
	for _, t := range c.cache.invalidate(tags) {
		c.refresh(t)
	}
}

// Subscribe pins q in the cache. The current data is delivered first on
// Updates; each later invalidation delivers the refetched result.
func (c *Client) Subscribe(ctx context.Context, q Query) (*Subscription, error) {
	req, key, tags, err := q.request()
	if err != nil {
		return nil, err
	}

	sub := newSubscription(c.cache, key)
	c.cache.subscribe(key, tags, req, sub)

	t := target{key: key, tags: tags, req: req}
	data, stale, err := c.read(ctx, t)
	if err != nil {
		sub.Close()
		return nil, err
	}
	if stale {
		// The refetch delivers the first update.
		c.refresh(t)
		return sub, nil
	}
	sub.push(Update{Data: data})
	return sub, nil
}

// ResetCache drops every cached result. Subscriptions stay registered and
// receive data again after their next invalidation.
func (c *Client) ResetCache() {
	c.cache.reset()
}

// CacheLen is the number of cached entries, pinned ones included.
func (c *Client) CacheLen() int { return c.cache.len() }

// Close stops background refetches and any pending reload.
func (c *Client) Close() {
	c.mu.Lock()
	c.closed = true
	c.cancel()
	c.mu.Unlock()

	c.wg.Wait()
	c.guard.Stop()
}

// read returns the cached result for t or fetches it. stale reports that
// the fetched result was invalidated while in flight.
func (c *Client) read(ctx context.Context, t target) (json.RawMessage, bool, error) {
	if data, ok := c.cache.fresh(t.key); ok {
		return clone(data), false, nil
	}

	res, err := c.fetch(ctx, t)
	if err != nil {
		return nil, false, err
	}
	return clone(res.data), res.stale, nil
}

type fetched struct {
	data  json.RawMessage
	stale bool
}

// fetch performs the GET and stores the result. Identical GETs issued at
// the same cache version share one request. A result invalidated while in
// flight is withheld from subscribers and refetched.
func (c *Client) fetch(ctx context.Context, t target) (fetched, error) {
	startedAt := c.cache.epoch()
	flight := fmt.Sprintf("%s#%d", t.key, startedAt)

	v, err, _ := c.group.Do(flight, func() (any, error) {
		data, err := c.send(ctx, t.req)
		if err != nil {
			for _, s := range c.cache.subscribersOf(t.key) {
				s.push(Update{Err: err})
			}
			return nil, err
		}

		subs, stale := c.cache.store(t.key, t.tags, t.req, data, startedAt)
		if stale {
			if len(subs) > 0 {
				c.refresh(t)
			}
			return fetched{data: data, stale: true}, nil
		}
		for _, s := range subs {
			s.push(Update{Data: clone(data)})
		}
		return fetched{data: data}, nil
	})
	if err != nil {
		return fetched{}, err
	}
	return v.(fetched), nil
}

func (c *Client) refresh(t target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if _, err := c.fetch(c.ctx, t); err != nil {
			c.logger.Warn(c.ctx, "background refetch failed", "key", t.key, "error", err)
		}
	}()
}

func (c *Client) send(ctx context.Context, req *Request) (json.RawMessage, error) {
	resp, err := c.handler(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return nil, statusError(resp)
	}
	if len(resp.Body) == 0 {
		return json.RawMessage("null"), nil
	}
	return json.RawMessage(resp.Body), nil
}

func clone(data json.RawMessage) json.RawMessage {
	return append(json.RawMessage(nil), data...)
}
