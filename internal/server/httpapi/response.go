package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

type envelope struct {
	Data    any    `json:"data"`
	Message string `json:"message,omitempty"`
}

type pageBody[T any] struct {
	Data     []T `json:"data"`
	LastPage int `json:"last_page"`
}

type errorBody struct {
	Errors any `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, envelope{Data: v})
}

func writePage[T any](w http.ResponseWriter, p store.Page[T]) {
	writeData(w, http.StatusOK, pageBody[T]{Data: p.Items, LastPage: p.LastPage})
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Errors: msg})
}

// writeError maps store and auth errors onto statuses and the error
// envelope.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr store.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Errors: map[string]string(verr)})
	case errors.Is(err, common.ErrorValidation):
		writeMessage(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		writeMessage(w, http.StatusNotFound, "Record not found")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid email or password")
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
	default:
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
