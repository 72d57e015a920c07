package api

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type countingTracker struct {
	acquired, released int
}

func (c *countingTracker) Acquire() func() {
	c.acquired++
	return func() { c.released++ }
}

func capture(got **Request) Handler {
	return func(_ context.Context, req *Request) (*Response, error) {
		*got = req
		return &Response{Status: http.StatusOK}, nil
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(ctx context.Context, req *Request) (*Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	h := Chain(func(context.Context, *Request) (*Response, error) {
		order = append(order, "transport")
		return &Response{Status: 200}, nil
	}, mw("a"), mw("b"), mw("c"))

	_, err := h(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "transport"}, order)
}

func TestBearerAuth(t *testing.T) {
	var got *Request

	h := BearerAuth(staticToken("abc"))(capture(&got))
	_, err := h(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", got.Header.Get(common.AuthorizationHeader))

	stale := &Request{Header: http.Header{common.AuthorizationHeader: {"Bearer old"}}}
	h = BearerAuth(staticToken(""))(capture(&got))
	_, err = h(context.Background(), stale)
	require.NoError(t, err)
	assert.Empty(t, got.Header.Get(common.AuthorizationHeader))
	assert.Equal(t, "Bearer old", stale.Header.Get(common.AuthorizationHeader), "caller's request is not mutated")
}

func TestRequestID_KeepsCallerValue(t *testing.T) {
	var got *Request
	h := RequestID()(capture(&got))

	_, err := h(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Len(t, got.Header.Get(common.RequestIDHeader), 36)

	_, err = h(context.Background(), &Request{Header: http.Header{common.RequestIDHeader: {"fixed"}}})
	require.NoError(t, err)
	assert.Equal(t, "fixed", got.Header.Get(common.RequestIDHeader))
}

func TestBusyTracking(t *testing.T) {
	tr := &countingTracker{}
	boom := errors.New("boom")

	h := BusyTracking(tr)(func(_ context.Context, req *Request) (*Response, error) {
		if req.Endpoint == "fail" {
			return nil, boom
		}
		return &Response{Status: 200}, nil
	})

	ctx := context.Background()
	_, _ = h(ctx, &Request{Method: MethodGet})
	assert.Equal(t, 0, tr.acquired)

	_, _ = h(ctx, &Request{Method: MethodPost})
	_, err := h(ctx, &Request{Method: MethodDelete, Endpoint: "fail"})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 2, tr.acquired)
	assert.Equal(t, 2, tr.released)
}

func TestHTTPTransport_Resolve(t *testing.T) {
	_, err := HTTPTransport("not a url", nil)
	assert.Error(t, err)

	var gotPath, gotQuery string
	srv := newEchoServer(t, func(r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
	})

	h, err := HTTPTransport(srv+"/api", nil)
	require.NoError(t, err)

	resp, err := h(context.Background(), &Request{Method: MethodGet, Endpoint: "/users/3", Params: Params{"x": 1}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)
	assert.Equal(t, "/api/users/3", gotPath)
	assert.Equal(t, "x=1", gotQuery)
}
