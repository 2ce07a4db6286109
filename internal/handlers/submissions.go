package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Kroz113/JulyCoins/internal/middleware"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/services"
	"github.com/Kroz113/JulyCoins/internal/upload"
)

// CreateSubmission accepts a multipart form: task_id, title, optional
// comment and the attachment file. The file lands on disk first; only its
// /uploads reference travels into the workflow.
func (h *Handler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	taskID, err := strconv.ParseInt(r.FormValue("task_id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}
	title := r.FormValue("title")
	if title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}
	var comment *string
	if c := r.FormValue("comment"); c != "" {
		comment = &c
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()
	fileURL, err := h.saver.Save(file, header)
	if err != nil {
		if errors.Is(err, upload.ErrFileTooLarge) || errors.Is(err, upload.ErrInvalidFileType) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "failed to store file")
		return
	}
	submission, err := h.submissionService.Submit(r.Context(), services.SubmitRequest{
		TaskID:  taskID,
		UserID:  claims.UserID,
		Title:   title,
		Comment: comment,
		FileURL: fileURL,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, submission)
}

type submissionResponse struct {
	models.Submission
	Task *models.Task `json:"task,omitempty"`
}

// ListSubmissions is role-dependent: admins get the pending review queue,
// students get their own history.
func (h *Handler) ListSubmissions(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	var submissions []models.Submission
	var err error
	if claims.Role == models.RoleAdmin {
		submissions, err = h.submissions.ListPending(r.Context())
	} else {
		submissions, err = h.submissions.ListByUser(r.Context(), claims.UserID)
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list submissions")
		return
	}
	out := make([]submissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		resp := submissionResponse{Submission: submission}
		if task, err := h.tasks.GetByID(r.Context(), submission.TaskID); err == nil {
			resp.Task = &task
		}
		out = append(out, resp)
	}
	respondJSON(w, http.StatusOK, out)
}

type reviewRequest struct {
	Status       string `json:"status"`
	CoinsAwarded *int64 `json:"coins_awarded"`
}

func (h *Handler) ReviewSubmission(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	submissionID, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid submission id")
		return
	}
	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	submission, err := h.submissionService.Review(r.Context(), services.ReviewRequest{
		SubmissionID: submissionID,
		Decision:     req.Status,
		CoinsAwarded: req.CoinsAwarded,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	h.auditLog(r, claims.UserID, "review_submission", "submission", submission.ID, map[string]string{
		"status": submission.Status,
	})
	respondJSON(w, http.StatusOK, submission)
}
