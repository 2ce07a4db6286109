package handlers

import (
	"net/http"

	"github.com/Kroz113/JulyCoins/internal/models"
)

type userWithBalance struct {
	models.User
	Balance int64 `json:"balance"`
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	out := make([]userWithBalance, 0, len(users))
	for _, user := range users {
		balance, err := h.ledger.SumByUser(r.Context(), user.ID)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list users")
			return
		}
		out = append(out, userWithBalance{User: user, Balance: balance})
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) UserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	entries, err := h.ledger.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list transactions")
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
