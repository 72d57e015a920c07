package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login answers 422 on bad credentials so that clients treating 401 as an
// expired session do not log the user out of a login form.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if _, err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	v := store.ValidationError{}
	if strings.TrimSpace(req.Email) == "" {
		v["email"] = "Email is required"
	}
	if req.Password == "" {
		v["password"] = "Password is required"
	}
	if len(v) > 0 {
		s.writeError(w, r, v)
		return
	}

	res, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.logger.Info(r.Context(), "login rejected", "email", req.Email)
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "admin logged in", "user_id", res.User.ID)
	writeData(w, http.StatusOK, res)
}
