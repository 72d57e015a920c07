// Package httpapi exposes the development backend over REST under /api/.
//
// Every endpoint except the admin login requires "Authorization: Bearer
// <token>"; a missing, expired or unknown token yields 401. Successful
// responses wrap their payload in {"data": ...}; lists use
// {"data": {"data": [...], "last_page": n}}. Failures use
// {"errors": "message"} or, for validation, {"errors": {"field": "message"}}.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/bankadmin/internal/logging"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
	"github.com/dmitrijs2005/bankadmin/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	store   *store.Store
	users   *users.Service
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, st *store.Store, us *users.Service) *Server {
	return &Server{
		address: address,
		store:   st,
		users:   us,
		logger:  l.With("module", "http_server"),
	}
}

// Handler returns the routed, middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/admin-login", s.login)

	protected := http.NewServeMux()
	s.routeUsers(protected)
	s.routeBanks(protected)
	s.routeAccounts(protected)
	s.routeWithdraws(protected)
	protected.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not found")
	})

	mux.Handle("/api/", s.requireAdmin(protected))

	return s.recoverer(s.logRequests(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
