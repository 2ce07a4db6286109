package store

import (
	"context"
	"time"

	"github.com/Kroz113/JulyCoins/internal/models"
)

// Tasks are immutable once created; there is no update or delete.

type TaskStore struct {
	db DB
}

func NewTaskStore(db DB) *TaskStore {
	return &TaskStore{db: db}
}

type TaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	CoinsReward int64
	CreatedBy   int64
}

func (s *TaskStore) Create(ctx context.Context, tx Tx, input TaskInput) (models.Task, error) {
	var task models.Task
	err := tx.GetContext(ctx, &task, `
		INSERT INTO tasks (title, description, due_date, coins_reward, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, description, due_date, coins_reward, created_by, created_at
	`, input.Title, input.Description, input.DueDate, input.CoinsReward, input.CreatedBy)
	return task, err
}

func (s *TaskStore) GetByID(ctx context.Context, taskID int64) (models.Task, error) {
	var task models.Task
	err := s.db.GetContext(ctx, &task, `
		SELECT id, title, description, due_date, coins_reward, created_by, created_at
		FROM tasks WHERE id = $1
	`, taskID)
	return task, err
}

func (s *TaskStore) List(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.SelectContext(ctx, &tasks, `
		SELECT id, title, description, due_date, coins_reward, created_by, created_at
		FROM tasks ORDER BY due_date
	`)
	return tasks, err
}

func (s *TaskStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM tasks`)
	return count, err
}
