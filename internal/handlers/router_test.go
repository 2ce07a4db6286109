package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Kroz113/JulyCoins/internal/auth"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/services"
)

func routerRequest(t *testing.T, h *Handler, method, target, body string, userID int64, role string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		token, err := auth.GenerateToken("secret", userID, role, time.Minute)
		if err != nil {
			t.Fatalf("failed to generate token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func TestRouterRoleEnforcement(t *testing.T) {
	h := newTestHandler(testDeps{})

	// students cannot create tasks
	rr := routerRequest(t, h, http.MethodPost, "/tasks", `{"title":"x"}`, 7, models.RoleStudent)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student creating a task, got %d", rr.Code)
	}

	// admins cannot bid
	rr = routerRequest(t, h, http.MethodPost, "/bids", `{"auction_id":1,"amount":5}`, 1, models.RoleAdmin)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin bidding, got %d", rr.Code)
	}

	// no token at all
	rr = routerRequest(t, h, http.MethodGet, "/balance", "", 0, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rr.Code)
	}
}

func TestRouterHealth(t *testing.T) {
	h := newTestHandler(testDeps{})
	rr := routerRequest(t, h, http.MethodGet, "/health", "", 0, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouterStudentStats(t *testing.T) {
	h := newTestHandler(testDeps{
		statsService: stubStatsService{
			studentFn: func(_ context.Context, userID int64) (services.StudentStats, error) {
				return services.StudentStats{Balance: 45, CompletedTasks: 3}, nil
			},
		},
	})
	rr := routerRequest(t, h, http.MethodGet, "/student/stats", "", 7, models.RoleStudent)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = routerRequest(t, h, http.MethodGet, "/student/stats", "", 1, models.RoleAdmin)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin on student stats, got %d", rr.Code)
	}
}

func TestRouterAdminStats(t *testing.T) {
	h := newTestHandler(testDeps{
		statsService: stubStatsService{
			adminFn: func(context.Context) (services.AdminStats, error) {
				return services.AdminStats{TotalCoins: 340, TotalStudents: 12}, nil
			},
		},
	})
	rr := routerRequest(t, h, http.MethodGet, "/admin/stats", "", 1, models.RoleAdmin)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = routerRequest(t, h, http.MethodGet, "/admin/stats", "", 7, models.RoleStudent)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student on admin stats, got %d", rr.Code)
	}
}
