package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Page is one page of a paginated list.
type Page[T any] struct {
	Items    []T
	LastPage int
}

// Decode unmarshals raw into T.
func Decode[T any](raw json.RawMessage) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}
	return v, nil
}

// DecodeData unmarshals the "data" member of raw into T. A payload without a
// data member is decoded as a whole.
func DecodeData[T any](raw json.RawMessage) (T, error) {
	if inner, ok := dataMember(raw); ok {
		return Decode[T](inner)
	}
	return Decode[T](raw)
}

type pageEnvelope struct {
	Data     json.RawMessage `json:"data"`
	LastPage int             `json:"last_page"`
}

// DecodePage normalizes the list envelopes the backend produces:
// {"data":{"data":[...],"last_page":n}}, {"data":[...],"last_page":n} and a
// bare array. LastPage is at least 1.
func DecodePage[T any](raw json.RawMessage) (Page[T], error) {
	var page Page[T]

	body := bytes.TrimSpace(raw)
	if len(body) > 0 && body[0] == '[' {
		items, err := Decode[[]T](body)
		if err != nil {
			return page, err
		}
		return Page[T]{Items: items, LastPage: 1}, nil
	}

	var outer pageEnvelope
	if err := json.Unmarshal(body, &outer); err != nil {
		return page, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
	}

	items, last := outer.Data, outer.LastPage
	if d := bytes.TrimSpace(outer.Data); len(d) > 0 && d[0] == '{' {
		var inner pageEnvelope
		if err := json.Unmarshal(d, &inner); err != nil {
			return page, fmt.Errorf("%w: %v", ErrUnexpectedPayload, err)
		}
		items = inner.Data
		if inner.LastPage > 0 {
			last = inner.LastPage
		}
	}

	if len(bytes.TrimSpace(items)) == 0 || string(items) == "null" {
		return page, fmt.Errorf("%w: list payload has no data array", ErrUnexpectedPayload)
	}

	list, err := Decode[[]T](items)
	if err != nil {
		return page, err
	}
	if list == nil {
		list = []T{}
	}
	if last < 1 {
		last = 1
	}
	return Page[T]{Items: list, LastPage: last}, nil
}

func dataMember(raw json.RawMessage) (json.RawMessage, bool) {
	body := bytes.TrimSpace(raw)
	if len(body) == 0 || body[0] != '{' {
		return nil, false
	}
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Data) == 0 {
		return nil, false
	}
	return env.Data, true
}

// Get runs q and decodes the "data" member of the result.
func Get[T any](ctx context.Context, c *Client, q Query) (T, error) {
	raw, err := c.Query(ctx, q)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeData[T](raw)
}

// GetByID runs q and decodes the "data" member of the result.
func GetByID[T any](ctx context.Context, c *Client, q ItemQuery) (T, error) {
	raw, err := c.QueryByID(ctx, q)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeData[T](raw)
}

// GetPage runs q and decodes a list page.
func GetPage[T any](ctx context.Context, c *Client, q Query) (Page[T], error) {
	raw, err := c.Query(ctx, q)
	if err != nil {
		return Page[T]{}, err
	}
	return DecodePage[T](raw)
}

// Send runs m and decodes the "data" member of the response.
func Send[T any](ctx context.Context, c *Client, m Mutation) (T, error) {
	raw, err := c.Mutate(ctx, m)
	if err != nil {
		var zero T
		return zero, err
	}
	return DecodeData[T](raw)
}
