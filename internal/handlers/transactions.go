package handlers

import (
	"net/http"

	"github.com/Kroz113/JulyCoins/internal/middleware"
)

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	entries, err := h.ledger.ListByUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// GetBalance sums the caller's ledger entries. There is no stored balance
// column anywhere to fall out of sync.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	balance, err := h.ledger.SumByUser(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to compute balance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"balance": balance})
}
