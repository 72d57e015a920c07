package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

type userInput struct {
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	DOB      *string `json:"dob"`
	Address  *string `json:"address"`
	Status   *string `json:"status"`
	Role     *string `json:"role"`
}

func (in userInput) apply(u *models.User) {
	set(&u.FullName, in.FullName)
	set(&u.Email, in.Email)
	set(&u.Phone, in.Phone)
	set(&u.DOB, in.DOB)
	set(&u.Address, in.Address)
	set(&u.Status, in.Status)
	set(&u.Role, in.Role)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (s *Server) routeUsers(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/users", s.listUsers)
	mux.HandleFunc("POST /api/users", s.createUser)
	mux.HandleFunc("GET /api/users/dropdown/active", s.activeUsers)
	mux.HandleFunc("GET /api/users/{id}", s.getUser)
	mux.HandleFunc("PUT /api/users/{id}", s.updateUser)
	mux.HandleFunc("POST /api/users/{id}", s.updateUser)
	mux.HandleFunc("DELETE /api/users/{id}", s.deleteUser)
	mux.HandleFunc("PUT /api/users/status/{id}", s.setUserStatus)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	uq := store.UserQuery{
		Page:       q.intParam("page"),
		Search:     q.str("search"),
		Status:     q.str("status"),
		Role:       q.str("role"),
		MinBalance: q.floatParam("minBalance"),
		MaxBalance: q.floatParam("maxBalance"),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writePage(w, s.store.ListUsers(uq))
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	u, err := s.store.GetUser(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *Server) hashInput(in userInput, u *models.User) error {
	if in.Password == nil || *in.Password == "" {
		return nil
	}
	if len(*in.Password) < 6 {
		return store.ValidationError{"password": "Password must be at least 6 characters"}
	}
	hash, err := s.users.HashPassword(*in.Password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var in userInput
	photo, err := decodeBody(r, &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.Password == nil || *in.Password == "" {
		s.writeError(w, r, store.ValidationError{"password": "Password is required"})
		return
	}

	var u models.User
	in.apply(&u)
	u.Photo = photo
	if err := s.hashInput(in, &u); err != nil {
		s.writeError(w, r, err)
		return
	}

	created, err := s.store.CreateUser(u)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

// updateUser also serves POST with a "_method=PUT" multipart field.
func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in userInput
	photo, err := decodeBody(r, &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if r.Method == http.MethodPost && r.FormValue("_method") != http.MethodPut {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var hashed models.User
	if err := s.hashInput(in, &hashed); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.UpdateUser(id, func(u *models.User) {
		in.apply(u)
		if photo != "" {
			u.Photo = photo
		}
		if hashed.PasswordHash != nil {
			u.PasswordHash = hashed.PasswordHash
		}
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if admin, ok := AdminFrom(r.Context()); ok && admin.ID == id {
		s.writeError(w, r, store.ValidationError{"id": "You cannot delete your own account"})
		return
	}
	if err := s.store.DeleteUser(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "User deleted"})
}

func (s *Server) setUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var in struct {
		Status string `json:"status"`
	}
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	u, err := s.store.UpdateUser(id, func(u *models.User) { u.Status = in.Status })
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, u)
}

func (s *Server) activeUsers(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.ActiveUsers())
}
