package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bankadmin/internal/server/models"
	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

type bankInput struct {
	Name        *string `json:"name"`
	AccountType *string `json:"account_type"`
	Address     *string `json:"address"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

func (in bankInput) apply(b *models.Bank) {
	set(&b.Name, in.Name)
	set(&b.AccountType, in.AccountType)
	set(&b.Address, in.Address)
	set(&b.Description, in.Description)
	set(&b.Status, in.Status)
}

func (s *Server) routeBanks(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/banks", s.listBanks)
	mux.HandleFunc("POST /api/banks", s.createBank)
	mux.HandleFunc("GET /api/banks/dropdown/active", s.activeBanks)
	mux.HandleFunc("GET /api/banks/{id}", s.getBank)
	mux.HandleFunc("PUT /api/banks/{id}", s.updateBank)
	mux.HandleFunc("DELETE /api/banks/{id}", s.deleteBank)
	mux.HandleFunc("PUT /api/banks/status/{id}", s.setBankStatus)
}

func (s *Server) listBanks(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	bq := store.BankQuery{Page: q.intParam("page"), Search: q.str("search"), Status: q.str("status")}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writePage(w, s.store.ListBanks(bq))
}

func (s *Server) getBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := s.store.GetBank(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (s *Server) createBank(w http.ResponseWriter, r *http.Request) {
	var in bankInput
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	var b models.Bank
	in.apply(&b)
	created, err := s.store.CreateBank(b)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, created)
}

func (s *Server) updateBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var in bankInput
	if _, err := decodeBody(r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	b, err := s.store.UpdateBank(id, in.apply)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (s *Server) deleteBank(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.store.DeleteBank(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Message: "Bank deleted"})
}

func (s *Server) setBankStatus(w http.ResponseWriter, r *http.Request) {
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

	b, err := s.store.UpdateBank(id, func(b *models.Bank) { b.Status = in.Status })
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, b)
}

func (s *Server) activeBanks(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, s.store.ActiveBanks())
}
