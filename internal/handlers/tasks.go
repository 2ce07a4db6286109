package handlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Kroz113/JulyCoins/internal/middleware"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/store"

	"github.com/jmoiron/sqlx"
)

type createTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	CoinsReward int64     `json:"coins_reward"`
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.CoinsReward <= 0 {
		respondError(w, http.StatusBadRequest, "coins reward must be positive")
		return
	}
	if req.DueDate.IsZero() {
		respondError(w, http.StatusBadRequest, "due date is required")
		return
	}
	var task models.Task
	err := h.txRunner.WithTx(r.Context(), func(tx *sqlx.Tx) error {
		var err error
		task, err = h.tasks.Create(r.Context(), tx, store.TaskInput{
			Title:       req.Title,
			Description: req.Description,
			DueDate:     req.DueDate,
			CoinsReward: req.CoinsReward,
			CreatedBy:   claims.UserID,
		})
		return err
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	h.auditLog(r, claims.UserID, "create_task", "task", task.ID, map[string]string{
		"title":        task.Title,
		"coins_reward": strconv.FormatInt(task.CoinsReward, 10),
	})
	respondJSON(w, http.StatusCreated, task)
}

type taskResponse struct {
	models.Task
	HasSubmitted bool               `json:"has_submitted"`
	Submission   *models.Submission `json:"submission,omitempty"`
}

// enrichTask attaches the student's own submission, if any. Admins see
// the bare task.
func (h *Handler) enrichTask(r *http.Request, task models.Task) (taskResponse, error) {
	resp := taskResponse{Task: task}
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok || claims.Role != models.RoleStudent {
		return resp, nil
	}
	submission, err := h.submissions.GetByTaskAndUser(r.Context(), task.ID, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return resp, nil
		}
		return resp, err
	}
	resp.HasSubmitted = true
	resp.Submission = &submission
	return resp, nil
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	out := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		resp, err := h.enrichTask(r, task)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "failed to list tasks")
			return
		}
		out = append(out, resp)
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	task, err := h.tasks.GetByID(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusNotFound, "task not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to load task")
		return
	}
	resp, err := h.enrichTask(r, task)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to load task")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
