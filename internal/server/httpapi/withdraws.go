package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/bankadmin/internal/server/store"
)

func (s *Server) routeWithdraws(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/withdraws", s.listWithdraws)
	mux.HandleFunc("GET /api/withdraws/{id}", s.getWithdraw)
	mux.HandleFunc("PUT /api/withdraws/status/{id}", s.setWithdrawStatus)
}

func (s *Server) listWithdraws(w http.ResponseWriter, r *http.Request) {
	q := newQuery(r)
	wq := store.WithdrawQuery{
		Page:      q.intParam("page"),
		PerPage:   q.intParam("perPage"),
		Search:    q.str("search"),
		Status:    q.str("status"),
		FeeType:   q.str("fee_type"),
		MinAmount: q.floatParam("minAmount"),
		MaxAmount: q.floatParam("maxAmount"),
		StartDate: q.dateParam("startDate"),
		EndDate:   q.dateParam("endDate"),
	}
	if err := q.err(); err != nil {
		s.writeError(w, r, err)
		return
	}
	writePage(w, s.store.ListWithdraws(wq))
}

func (s *Server) getWithdraw(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	wd, err := s.store.GetWithdraw(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, wd)
}

func (s *Server) setWithdrawStatus(w http.ResponseWriter, r *http.Request) {
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

	wd, err := s.store.SetWithdrawStatus(id, in.Status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Info(r.Context(), "withdraw status changed", "id", id, "status", wd.Status)
	writeData(w, http.StatusOK, wd)
}
