package httpapi

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

const maxUploadSize = 8 << 20

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, store.ValidationError{"id": "Invalid id"}
	}
	return id, nil
}

// decodeBody reads a JSON or multipart body into dst. Multipart text fields
// are decoded as a JSON object of strings; the name of an uploaded "photo"
// file is returned.
func decodeBody(r *http.Request, dst any) (photo string, err error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		fields := make(map[string]string, len(r.MultipartForm.Value))
		for k, vs := range r.MultipartForm.Value {
			if k != "_method" && len(vs) > 0 {
				fields[k] = vs[0]
			}
		}
		data, err := json.Marshal(fields)
		if err != nil {
			return "", err
		}
		if err := json.Unmarshal(data, dst); err != nil {
			return "", fmt.Errorf("%w: %v", common.ErrorValidation, err)
		}
		if files := r.MultipartForm.File["photo"]; len(files) > 0 {
			photo = "uploads/" + path.Base(files[0].Filename)
		}
		return photo, nil
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return "", fmt.Errorf("%w: malformed JSON body", common.ErrorValidation)
		}
		return "", nil
	}
}

type queryParams struct {
	r    *http.Request
	errs store.ValidationError
}

func newQuery(r *http.Request) *queryParams {
	return &queryParams{r: r, errs: store.ValidationError{}}
}

func (q *queryParams) str(name string) string {
	return q.r.URL.Query().Get(name)
}

func (q *queryParams) intParam(name string) int {
	v := q.str(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.errs[name] = "must be an integer"
	}
	return n
}

func (q *queryParams) floatParam(name string) *float64 {
	v := q.str(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		q.errs[name] = "must be a number"
		return nil
	}
	return &f
}

func (q *queryParams) boolParam(name string) *bool {
	v := q.str(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		q.errs[name] = "must be true or false"
		return nil
	}
	return &b
}

func (q *queryParams) dateParam(name string) *time.Time {
	v := q.str(name)
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		q.errs[name] = "must be a YYYY-MM-DD date"
		return nil
	}
	return &t
}

func (q *queryParams) err() error {
	if len(q.errs) == 0 {
		return nil
	}
	return q.errs
}
