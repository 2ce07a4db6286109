package middleware

import (
	"net/http"

	"github.com/Kroz113/JulyCoins/internal/models"
)

// Role checks are explicit capability gates at the operation boundary:
// admins manage tasks and auctions, only students place bids.

func RequireAdmin(next http.Handler) http.Handler {
	return requireRole(models.RoleAdmin, next)
}

func RequireStudent(next http.Handler) http.Handler {
	return requireRole(models.RoleStudent, next)
}

func requireRole(role string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if claims.Role != role {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
