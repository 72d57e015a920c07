package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

type accountInput struct {
	BankID    *int64  `json:"bank_id"`
	UserID    *int64  `json:"user_id"`
	RoutingNo *string `json:"routing_no"`
	IsOpen    *bool   `json:"is_open"`
}

func (in accountInput) apply(a *models.BankAccount) {
	set(&a.BankID, in.BankID)
	set(&a.UserID, in.UserID)
	set(&a.RoutingNo, in.RoutingNo)
	set(&a.IsOpen, in.IsOpen)
}

func (s *Server) routeAccounts(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/bank-accounts", s.listAccounts)
	mux.HandleFunc("POST /api/bank-accounts", s.createAccount)
	mux.HandleFunc("GET /api/bank-accounts/{id}", s.getAccount)
	mux.HandleFunc("PUT /api/bank-accounts/{id}", s.updateAccount)
	mux.HandleFunc("DELETE /api/bank-accounts/{id}", s.deleteAccount)
	mux.HandleFunc("PUT /api/bank-accounts/status/{id}", s.setAccountOpen)
}

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	aq := store.AccountQuery{
		Page:   q.intParam("page"),
		Search: q.str("search"),
		BankID: int64(q.intParam("bank_id")),
		IsOpen: q.boolParam("isOpen"),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writePage(w, s.store.ListAccounts(aq))
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.store.GetAccount(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in accountInput
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	var a models.BankAccount
	in.apply(&a)
	created, err := s.store.CreateAccount(a)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in accountInput
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	a, err := s.store.UpdateAccount(id, in.apply)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteAccount(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Bank account deleted"})
}

func (s *Server) setAccountOpen(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in struct {
		IsOpen *bool `json:"is_open"`
	}
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	if in.IsOpen == nil {
		s.writeError(w, r, store.ValidationError{"is_open": "is_open is required"})
		return
	}

	a, err := s.store.UpdateAccount(id, func(a *models.BankAccount) { a.IsOpen = *in.IsOpen })
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, a)
}
