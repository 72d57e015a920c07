package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/common"
	"github.com/dmitrijs2005/bankadmin/internal/server/models"
)

type ctxKey string

const adminKey ctxKey = "admin"

// AdminFrom returns the administrator authenticated for the request.
func AdminFrom(ctx context.Context) (models.User, bool) {
	u, ok := ctx.Value(adminKey).(models.User)
	return u, ok
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get(common.AuthorizationHeader)
		token, ok := strings.CutPrefix(header, common.BearerPrefix)
		if !ok || token == "" {
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}

		admin, err := s.users.Authenticate(r.Context(), token)
		if err != nil {
			s.logger.Debug(r.Context(), "token rejected", "error", err)
			writeMessage(w, http.StatusUnauthorized, "Unauthenticated")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), adminKey, admin)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get(common.RequestIDHeader),
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				s.logger.Error(r.Context(), "panic", "path", r.URL.Path, "value", v)
				writeMessage(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
