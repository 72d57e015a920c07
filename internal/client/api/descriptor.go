package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/url"
	"path"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// Tag is a logical label grouping cached results that are invalidated
// together.
type Tag string

// ListTag is the default tag of list queries on resource, e.g. "users-list".
func ListTag(resource string) Tag { return Tag(resource + "-list") }

// ItemTag is the default tag of detail queries on resource.
func ItemTag(resource string) Tag { return Tag(resource + "-item") }

// ResourceTags returns both default tags of resource; mutations on a
// resource usually invalidate them together.
func ResourceTags(resource string) []Tag {
	return []Tag{ListTag(resource), ItemTag(resource)}
}

// Resource returns the resource family of an endpoint: its first path
// segment, ignoring a leading "api" segment ("api/users/7" -> "users").
func Resource(endpoint string) string {
	p := strings.Trim(endpoint, "/")
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	segs := strings.Split(p, "/")
	if len(segs) > 1 && segs[0] == "api" {
		segs = segs[1:]
	}
	return segs[0]
}

// Params are query-string parameters. Values may be strings, booleans,
// integers, floats, or pointers to those; nil pointers and empty strings are
// omitted. Keys are serialized in sorted order.
type Params map[string]any

// Values converts p into url.Values.
func (p Params) Values() (url.Values, error) {
	vals := url.Values{}
	for k, v := range p {
		s, ok, err := formatParam(v)
		if err != nil {
			return nil, fmt.Errorf("%w: param %q: %v", ErrInvalidDescriptor, k, err)
		}
		if ok {
			vals.Set(k, s)
		}
	}
	return vals, nil
}

// Encode returns the canonical query string of p.
func (p Params) Encode() (string, error) {
	vals, err := p.Values()
	if err != nil {
		return "", err
	}
	return vals.Encode(), nil
}

func formatParam(v any) (string, bool, error) {
	if v == nil {
		return "", false, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", false, nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		s := rv.String()
		return s, s != "", nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), true, nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true, nil
	default:
		return "", false, fmt.Errorf("unsupported type %T", v)
	}
}

// Body is a request payload.
type Body interface {
	Encode() (r io.Reader, contentType string, err error)
}

type jsonBody struct {
	v any
}

// JSON encodes v as an application/json body.
func JSON(v any) Body { return jsonBody{v: v} }

func (b jsonBody) Encode() (io.Reader, string, error) {
	data, err := json.Marshal(b.v)
	if err != nil {
		return nil, "", fmt.Errorf("encode json body: %w", err)
	}
	return bytes.NewReader(data), "application/json", nil
}

// File is one binary part of a multipart body.
type File struct {
	Field string
	Name  string
	Data  []byte
}

// Multipart is a multipart/form-data body with text fields and files.
type Multipart struct {
	Fields map[string]string
	Files  []File
}

func (m Multipart) Encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", k, err)
		}
	}
	for _, f := range m.Files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			return nil, "", fmt.Errorf("create form file %s: %w", f.Field, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", fmt.Errorf("write form file %s: %w", f.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}

// Query describes a GET on a collection endpoint. Without Tags the entry is
// tagged ListTag(Resource(Endpoint)).
type Query struct {
	Endpoint string
	Params   Params
	Tags     []Tag
}

// ItemQuery describes a GET on Endpoint/ID. Without Tags the entry is tagged
// ItemTag(Resource(Endpoint)).
type ItemQuery struct {
	Endpoint string
	ID       string
	Tags     []Tag
}

// Mutation describes a write. Invalidates lists the tags whose cached
// entries become stale once the write succeeds.
//
// With OverrideMethod set, a PUT or DELETE carrying a Multipart body is sent
// as POST with a "_method" form field, for backends that only parse
// multipart payloads on POST.
type Mutation struct {
	Endpoint       string
	Method         Method
	Body           Body
	Invalidates    []Tag
	OverrideMethod bool
}

// Cache keys are namespaced by descriptor kind so a list query and an item
// query with the same path never share an entry.
const (
	listKeyPrefix = "q:"
	itemKeyPrefix = "i:"
)

func (q Query) request() (*Request, string, []Tag, error) {
	if strings.Trim(q.Endpoint, "/") == "" {
		return nil, "", nil, fmt.Errorf("%w: empty endpoint", ErrInvalidDescriptor)
	}

	encoded, err := q.Params.Encode()
	if err != nil {
		return nil, "", nil, err
	}

	tags := q.Tags
	if len(tags) == 0 {
		tags = []Tag{ListTag(Resource(q.Endpoint))}
	}

	key := listKeyPrefix + strings.Trim(q.Endpoint, "/")
	if encoded != "" {
		key += "?" + encoded
	}

	return &Request{Method: MethodGet, Endpoint: q.Endpoint, Params: q.Params}, key, tags, nil
}

func (q ItemQuery) request() (*Request, string, []Tag, error) {
	if strings.Trim(q.Endpoint, "/") == "" || q.ID == "" {
		return nil, "", nil, fmt.Errorf("%w: endpoint and id are required", ErrInvalidDescriptor)
	}

	endpoint := path.Join(strings.Trim(q.Endpoint, "/"), url.PathEscape(q.ID))

	tags := q.Tags
	if len(tags) == 0 {
		tags = []Tag{ItemTag(Resource(q.Endpoint))}
	}

	return &Request{Method: MethodGet, Endpoint: endpoint}, itemKeyPrefix + endpoint, tags, nil
}

func (m Mutation) request() (*Request, error) {
	if strings.Trim(m.Endpoint, "/") == "" {
		return nil, fmt.Errorf("%w: empty endpoint", ErrInvalidDescriptor)
	}

	switch m.Method {
	case MethodPost, MethodPut, MethodDelete:
	default:
		return nil, fmt.Errorf("%w: method %q is not a mutation", ErrInvalidDescriptor, m.Method)
	}

	method, body := m.Method, m.Body
	if mp, ok := m.Body.(Multipart); ok && m.OverrideMethod && m.Method != MethodPost {
		fields := make(map[string]string, len(mp.Fields)+1)
		for k, v := range mp.Fields {
			fields[k] = v
		}
		fields["_method"] = string(m.Method)
		method, body = MethodPost, Multipart{Fields: fields, Files: mp.Files}
	}

	return &Request{Method: method, Endpoint: m.Endpoint, Body: body}, nil
}
