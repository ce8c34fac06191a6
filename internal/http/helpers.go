package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"scorpiongym/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// respondError maps the error taxonomy onto HTTP statuses: validation 422,
// not found 404, settlement conflict 409, malformed body 400, storage and
// everything else 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *core.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: verr.Error(), Field: verr.Field})
		return
	}
	if errors.Is(err, core.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, errorResponse{Error: "record not found"})
		return
	}
	if errors.Is(err, core.ErrConflict) {
		respondJSON(w, http.StatusConflict, errorResponse{Error: "record was modified concurrently, reload and retry"})
		return
	}

	var synErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &synErr) || errors.As(err, &typeErr) || errors.Is(err, errBadBody) {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "url", r.URL.Path, "error", err)
	respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

var errBadBody = errors.New("malformed request body")

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		// Money and time parse failures inside the decoder surface as
		// ValidationError; pass them through.
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			return verr
		}
		return err
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, core.NewValidationError("id", "must be a positive integer")
	}
	return id, nil
}

func queryGymID(r *http.Request) (string, error) {
	gymID := strings.TrimSpace(r.URL.Query().Get("gym_id"))
	if gymID == "" {
		return "", core.NewValidationError("gym_id", "required")
	}
	return gymID, nil
}
