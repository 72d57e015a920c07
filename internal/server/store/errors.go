package store

import (
	"sort"
	"strings"

	"github.com/dmitrijs2005/bankadmin/internal/common"
)

// ValidationError maps field names to messages. It matches
// common.ErrorValidation.
type ValidationError map[string]string

func (v ValidationError) Error() string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+v[k])
	}
	return strings.Join(parts, "; ")
}

func (v ValidationError) Unwrap() error { return common.ErrorValidation }

func (v ValidationError) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
