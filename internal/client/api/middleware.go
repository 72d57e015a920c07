package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the current bearer token ("" when logged out).
type TokenSource interface {
	Token() string
}

// BusyTracker is held around every non-GET request.
type BusyTracker interface {
	Acquire() (release func())
}

func cloneRequest(req *Request) *Request {
	r := *req
	r.Header = req.Header.Clone()
	if r.Header == nil {
		r.Header = http.Header{}
	}
	return &r
}

// BearerAuth attaches "Authorization: Bearer <token>" while the session
// holds a token and strips any Authorization header otherwise.
func BearerAuth(tokens TokenSource) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			r := cloneRequest(req)
			if token := tokens.Token(); token != "" {
				r.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
			} else {
				r.Header.Del(common.AuthorizationHeader)
			}
			return next(ctx, r)
		}
	}
}

// BusyTracking holds the tracker for the whole lifetime of every non-GET
// request; the release is deferred so it runs on every exit path.
func BusyTracking(t BusyTracker) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Method == MethodGet {
				return next(ctx, req)
			}
			defer t.Acquire()()
			return next(ctx, req)
		}
	}
}

// RequestID sets X-Request-ID unless the caller already did.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			if req.Header.Get(common.RequestIDHeader) != "" {
				return next(ctx, req)
			}
			r := cloneRequest(req)
			r.Header.Set(common.RequestIDHeader, uuid.NewString())
			return next(ctx, r)
		}
	}
}

// Logging records every settled request.
func Logging(logger logging.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			args := []any{
				"method", req.Method,
				"endpoint", req.Endpoint,
				"request_id", req.Header.Get(common.RequestIDHeader),
				"duration", time.Since(start),
			}

			switch {
			case err != nil:
				logger.Error(ctx, "request failed", append(args, "error", err)...)
			case resp.Status >= 400:
				logger.Warn(ctx, "request rejected", append(args, "status", resp.Status)...)
			default:
				logger.Debug(ctx, "request settled", append(args, "status", resp.Status)...)
			}
			return resp, err
		}
	}
}
