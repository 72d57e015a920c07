package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Request is what travels down the middleware chain.
type Request struct {
	Method   Method
	Endpoint string
	Params   Params
	Body     Body
	Header   http.Header
}

// Response is a settled HTTP exchange. Non-2xx statuses are still delivered
// as a Response; the Client converts them into *Error at its boundary.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Handler performs a Request.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Middleware wraps a Handler with a cross-cutting stage.
type Middleware func(next Handler) Handler

// Chain wraps h with mws; the first middleware is the outermost.
func Chain(h Handler, mws ...Middleware) Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}

// HTTPTransport returns the innermost Handler, resolving endpoints against
// baseURL. Transport failures are reported as *Error wrapping
// ErrUnavailable.
func HTTPTransport(baseURL string, hc *http.Client) (Handler, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	if hc == nil {
		hc = http.DefaultClient
	}

	return func(ctx context.Context, req *Request) (*Response, error) {
		target, err := resolve(base, req)
		if err != nil {
			return nil, err
		}

		var body io.Reader
		contentType := ""
		if req.Body != nil {
			body, contentType, err = req.Body.Encode()
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
			}
		}

		httpReq, err := http.NewRequestWithContext(ctx, string(req.Method), target, body)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDescriptor, err)
		}
		for k, vs := range req.Header {
			for _, v := range vs {
				httpReq.Header.Add(k, v)
			}
		}
		if contentType != "" {
			httpReq.Header.Set("Content-Type", contentType)
		}
		httpReq.Header.Set("Accept", "application/json")

		resp, err := hc.Do(httpReq)
		if err != nil {
			return nil, unavailable(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, unavailable(err)
		}

		return &Response{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
	}, nil
}

func resolve(base *url.URL, req *Request) (string, error) {
	ref, err := url.Parse(strings.TrimLeft(req.Endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("%w: endpoint %q: %v", ErrInvalidDescriptor, req.Endpoint, err)
	}

	u := base.ResolveReference(ref)

	q := u.Query()
	vals, err := req.Params.Values()
	if err != nil {
		return "", err
	}
	for k, vs := range vals {
		q[k] = vs
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
