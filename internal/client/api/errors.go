package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("request rejected")
	ErrServer            = errors.New("server error")
	ErrUnavailable       = errors.New("server unavailable")
	ErrInvalidDescriptor = errors.New("invalid request descriptor")
	ErrUnexpectedPayload = errors.New("unexpected response payload")
)

// Error is the uniform failure returned by the Client. Status is 0 when the
// backend could not be reached.
type Error struct {
	Status  int
	Payload json.RawMessage
	Message string
	Err     error

	cause error
}

func (e *Error) Error() string {
	if e.Status == 0 {
		if e.cause != nil {
			return fmt.Sprintf("%s: %v", e.Err, e.cause)
		}
		return e.Err.Error()
	}

	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s (%d): %s", e.Err, e.Status, msg)
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

func unavailable(cause error) *Error {
	return &Error{Err: ErrUnavailable, cause: cause}
}

func statusError(resp *Response) *Error {
	e := &Error{Status: resp.Status, Err: sentinelFor(resp.Status)}
	if len(resp.Body) > 0 && json.Valid(resp.Body) {
		e.Payload = append(json.RawMessage(nil), resp.Body...)
		e.Message = messageFrom(e.Payload)
	}
	return e
}

func sentinelFor(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}

// messageFrom extracts a human-readable message from the backend error
// envelope {"errors": string | object | array} or {"message": string}.
// Object members are rendered "field: message" in key order.
func messageFrom(payload json.RawMessage) string {
	var env struct {
		Errors  json.RawMessage `json:"errors"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(payload, &env); err != nil {
		return ""
	}
	if len(env.Errors) == 0 || string(env.Errors) == "null" {
		return env.Message
	}

	if s := flatten(env.Errors); s != "" {
		return s
	}
	return env.Message
}

func flatten(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if p := flatten(item); p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, "; ")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if p := flatten(obj[k]); p != "" {
				parts = append(parts, k+": "+p)
			}
		}
		return strings.Join(parts, "; ")
	}

	return strings.Trim(string(raw), `"`)
}
