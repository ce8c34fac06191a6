package http

import (
	"net/http"
	"time"

	"scorpiongym/internal/core"
)

func (s *Server) handleListFixedExpenses(w http.ResponseWriter, r *http.Request) {
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	dueOnly := r.URL.Query().Get("due") == "true"

	list, err := s.fixed.List(r.Context(), gymID, dueOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []core.FixedExpense{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateFixedExpense(w http.ResponseWriter, r *http.Request) {
	var f core.FixedExpense
	if err := decodeBody(r, &f); err != nil {
		respondError(w, r, err)
		return
	}
	f.ID = 0
	f.LastPaidDate = nil

	created, err := s.fixed.Create(r.Context(), f)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteFixedExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := s.fixed.Delete(r.Context(), id, gymID); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type settleRequest struct {
	// The last_paid_date the caller observed; a mismatch fails with 409.
	// Omit to settle unconditionally.
	ExpectedLastPaidDate *time.Time `json:"expected_last_paid_date"`
}

func (s *Server) handleSettleFixedExpense(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req settleRequest
	if r.ContentLength > 0 {
		if err := decodeBody(r, &req); err != nil {
			respondError(w, r, err)
			return
		}
	}

	result, err := s.fixed.Settle(r.Context(), id, gymID, req.ExpectedLastPaidDate)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries(gymID)
	respondJSON(w, http.StatusCreated, result)
}
