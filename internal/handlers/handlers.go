package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/Kroz113/JulyCoins/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service sentinels to statuses at the boundary.
// Anything unrecognized is an internal error and never leaks its message.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound),
		errors.Is(err, services.ErrSubmissionNotFound),
		errors.Is(err, services.ErrAuctionNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateSubmission),
		errors.Is(err, services.ErrAlreadyCompleted):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrTaskExpired),
		errors.Is(err, services.ErrAuctionNotOpen),
		errors.Is(err, services.ErrBelowMinimum),
		errors.Is(err, services.ErrBidTooLow),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrNoBids),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrInvalidDecision),
		errors.Is(err, services.ErrInvalidWindow),
		errors.Is(err, services.ErrInvalidMinimumBid):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}

func idParam(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, name), 10, 64)
}

// auditLog records an admin action after the fact. Audit is best effort
// for operations whose own transaction already committed.
func (h *Handler) auditLog(r *http.Request, actorID int64, action, entityType string, entityID int64, extra map[string]string) {
	data := map[string]string{
		"ip":         r.RemoteAddr,
		"user_agent": r.UserAgent(),
	}
	for k, v := range extra {
		data[k] = v
	}
	payload, _ := json.Marshal(data)
	if err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		return h.audit.Log(r.Context(), tx, actorID, action, entityType, entityID, string(payload))
	}); err != nil {
		log.Printf("audit log failed: action=%s entity=%s/%d: %v", action, entityType, entityID, err)
	}
}
