package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"scorpiongym/internal/core"
	"scorpiongym/internal/storage"
)

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	list, err := s.ledger.List(r.Context(), gymID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if list == nil {
		list = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var t core.Transaction
	if err := decodeBody(r, &t); err != nil {
		respondError(w, r, err)
		return
	}
	// Identity is server-assigned, whatever the body claims.
	t.ID = 0

	created, err := s.ledger.Create(r.Context(), t)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries(created.GymID)
	respondJSON(w, http.StatusCreated, created)
}

// transactionPatchRequest deliberately has no id or gym_id field: both are
// immutable and silently ignored when present in the body.
type transactionPatchRequest struct {
	Type          *core.TransactionType `json:"type"`
	Date          *time.Time            `json:"date"`
	Description   *string               `json:"description"`
	Amount        *core.Money           `json:"amount"`
	Category      *string               `json:"category"`
	PaymentMethod *string               `json:"payment_method"`
	AccountID     *int64                `json:"account_id"`
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
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

	var req transactionPatchRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	updated, err := s.ledger.Update(r.Context(), id, gymID, storage.TransactionPatch{
		Type:          req.Type,
		Date:          req.Date,
		Description:   req.Description,
		Amount:        req.Amount,
		Category:      req.Category,
		PaymentMethod: req.PaymentMethod,
		AccountID:     req.AccountID,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries(gymID)
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
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

	if err := s.ledger.Delete(r.Context(), id, gymID); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateSummaries(gymID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMonthSummary(w http.ResponseWriter, r *http.Request) {
	gymID, err := queryGymID(r)
	if err != nil {
		respondError(w, r, err)
		return
	}
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		respondError(w, r, core.NewValidationError("year", "must be an integer"))
		return
	}
	month, err := strconv.Atoi(r.URL.Query().Get("month"))
	if err != nil {
		respondError(w, r, core.NewValidationError("month", "must be an integer"))
		return
	}

	key := s.summaryCacheKey(gymID, year, month)
	if cached, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "gym_id", gymID, "year", year, "month", month)
		respondJSON(w, http.StatusOK, cached)
		return
	}

	summary, err := s.ledger.MonthSummary(r.Context(), gymID, year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if summary.ByCategory == nil {
		summary.ByCategory = []core.CategoryAmount{}
	}

	s.summaryCache.Set(key, summary)
	respondJSON(w, http.StatusOK, summary)
}
