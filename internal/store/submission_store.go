package store

import (
	"context"

	"github.com/Kroz113/JulyCoins/internal/models"
)

type SubmissionStore struct {
	db DB
}

func NewSubmissionStore(db DB) *SubmissionStore {
	return &SubmissionStore{db: db}
}

type SubmissionInput struct {
	TaskID  int64
	UserID  int64
	Title   string
	Comment *string
	FileURL string
}

func (s *SubmissionStore) Create(ctx context.Context, tx Tx, input SubmissionInput) (models.Submission, error) {
	var submission models.Submission
	err := tx.GetContext(ctx, &submission, `
		INSERT INTO submissions (task_id, user_id, title, comment, file_url, status)
		VALUES ($1, $2, $3, $4, $5, 'pending')
		RETURNING id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
	`, input.TaskID, input.UserID, input.Title, input.Comment, input.FileURL)
	return submission, err
}

func (s *SubmissionStore) GetByID(ctx context.Context, submissionID int64) (models.Submission, error) {
	var submission models.Submission
	err := s.db.GetContext(ctx, &submission, `
		SELECT id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
		FROM submissions WHERE id = $1
	`, submissionID)
	return submission, err
}

// GetForUpdate locks the submission row so two concurrent reviews of the
// same submission serialize on the pending check.
func (s *SubmissionStore) GetForUpdate(ctx context.Context, tx Getter, submissionID int64) (models.Submission, error) {
	var submission models.Submission
	err := tx.GetContext(ctx, &submission, `
		SELECT id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
		FROM submissions WHERE id = $1
		FOR UPDATE
	`, submissionID)
	return submission, err
}

func (s *SubmissionStore) GetByTaskAndUser(ctx context.Context, taskID, userID int64) (models.Submission, error) {
	var submission models.Submission
	err := s.db.GetContext(ctx, &submission, `
		SELECT id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
		FROM submissions WHERE task_id = $1 AND user_id = $2
	`, taskID, userID)
	return submission, err
}

func (s *SubmissionStore) ExistsByTaskAndUser(ctx context.Context, tx Getter, taskID, userID int64) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `
		SELECT EXISTS(SELECT 1 FROM submissions WHERE task_id = $1 AND user_id = $2)
	`, taskID, userID)
	return exists, err
}

func (s *SubmissionStore) ListByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.SelectContext(ctx, &submissions, `
		SELECT id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
		FROM submissions WHERE user_id = $1 ORDER BY created_at DESC
	`, userID)
	return submissions, err
}

func (s *SubmissionStore) ListPending(ctx context.Context) ([]models.Submission, error) {
	var submissions []models.Submission
	err := s.db.SelectContext(ctx, &submissions, `
		SELECT id, task_id, user_id, title, comment, file_url, status, coins_awarded, created_at
		FROM submissions WHERE status = 'pending' ORDER BY created_at
	`)
	return submissions, err
}

func (s *SubmissionStore) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM submissions WHERE status = 'pending'`)
	return count, err
}

// SetStatus records the one-shot review outcome. The status column only
// ever moves pending -> approved or pending -> rejected; the service
// enforces that before calling.
func (s *SubmissionStore) SetStatus(ctx context.Context, tx Execer, submissionID int64, status string, coinsAwarded *int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE submissions SET status = $1, coins_awarded = $2 WHERE id = $3
	`, status, coinsAwarded, submissionID)
	return err
}

func (s *SubmissionStore) CountApprovedByUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM submissions WHERE user_id = $1 AND status = 'approved'
	`, userID)
	return count, err
}

func (s *SubmissionStore) SumAwardedByUser(ctx context.Context, userID int64) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(coins_awarded), 0)
		FROM submissions WHERE user_id = $1 AND status = 'approved'
	`, userID)
	return sum, err
}
