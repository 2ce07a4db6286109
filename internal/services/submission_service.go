package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Kroz113/JulyCoins/internal/db"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/store"
	"github.com/Kroz113/JulyCoins/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrTaskExpired         = errors.New("task due date has passed")
	ErrDuplicateSubmission = errors.New("task already submitted")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrInvalidTransition   = errors.New("submission already reviewed")
	ErrInvalidDecision     = errors.New("invalid review decision")
)

type TaskStore interface {
	GetByID(ctx context.Context, taskID int64) (models.Task, error)
}

type SubmissionStore interface {
	Create(ctx context.Context, tx store.Tx, input store.SubmissionInput) (models.Submission, error)
	GetForUpdate(ctx context.Context, tx store.Getter, submissionID int64) (models.Submission, error)
	ExistsByTaskAndUser(ctx context.Context, tx store.Getter, taskID, userID int64) (bool, error)
	SetStatus(ctx context.Context, tx store.Execer, submissionID int64, status string, coinsAwarded *int64) error
}

type LedgerStore interface {
	Record(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	SumByUserTx(ctx context.Context, tx store.Getter, userID int64) (int64, error)
}

type BalanceHub interface {
	BroadcastBalance(userID int64, update websocket.BalanceUpdate)
}

// SubmissionService runs the pending -> approved | rejected workflow.
// Both outcomes are terminal; approval is the only path that touches the
// ledger, with exactly one task_reward entry.
type SubmissionService struct {
	txRunner    db.TxRunner
	tasks       TaskStore
	submissions SubmissionStore
	ledger      LedgerStore
	hub         BalanceHub
	now         func() time.Time
}

func NewSubmissionService(txRunner db.TxRunner, tasks TaskStore, submissions SubmissionStore, ledger LedgerStore, hub BalanceHub) *SubmissionService {
	return &SubmissionService{
		txRunner:    txRunner,
		tasks:       tasks,
		submissions: submissions,
		ledger:      ledger,
		hub:         hub,
		now:         time.Now,
	}
}

type SubmitRequest struct {
	TaskID  int64
	UserID  int64
	Title   string
	Comment *string
	FileURL string
}

func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (models.Submission, error) {
	task, err := s.tasks.GetByID(ctx, req.TaskID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Submission{}, ErrTaskNotFound
		}
		return models.Submission{}, err
	}
	// Expiry is checked only at submission time. A submission made before
	// the due date is never retroactively invalidated.
	if s.now().After(task.DueDate) {
		return models.Submission{}, ErrTaskExpired
	}
	var submission models.Submission
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		exists, err := s.submissions.ExistsByTaskAndUser(ctx, tx, req.TaskID, req.UserID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateSubmission
		}
		submission, err = s.submissions.Create(ctx, tx, store.SubmissionInput{
			TaskID:  req.TaskID,
			UserID:  req.UserID,
			Title:   req.Title,
			Comment: req.Comment,
			FileURL: req.FileURL,
		})
		return err
	})
	if err != nil {
		if isUniqueViolation(err) {
			return models.Submission{}, ErrDuplicateSubmission
		}
		return models.Submission{}, err
	}
	return submission, nil
}

type ReviewRequest struct {
	SubmissionID int64
	Decision     string
	CoinsAwarded *int64
}

func (s *SubmissionService) Review(ctx context.Context, req ReviewRequest) (models.Submission, error) {
	if req.Decision != models.SubmissionApproved && req.Decision != models.SubmissionRejected {
		return models.Submission{}, ErrInvalidDecision
	}
	var submission models.Submission
	var balanceAfter int64
	approved := false
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		submission, err = s.submissions.GetForUpdate(ctx, tx, req.SubmissionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrSubmissionNotFound
			}
			return err
		}
		if submission.Status != models.SubmissionPending {
			return ErrInvalidTransition
		}
		if req.Decision == models.SubmissionRejected {
			if err := s.submissions.SetStatus(ctx, tx, submission.ID, models.SubmissionRejected, nil); err != nil {
				return err
			}
			submission.Status = models.SubmissionRejected
			return nil
		}
		task, err := s.tasks.GetByID(ctx, submission.TaskID)
		if err != nil {
			return err
		}
		coins := task.CoinsReward
		if req.CoinsAwarded != nil {
			coins = *req.CoinsAwarded
		}
		if err := s.submissions.SetStatus(ctx, tx, submission.ID, models.SubmissionApproved, &coins); err != nil {
			return err
		}
		if _, err := s.ledger.Record(ctx, tx, store.TransactionInput{
			UserID:      submission.UserID,
			Amount:      coins,
			Type:        models.TxTaskReward,
			Description: fmt.Sprintf("Reward for task: %s", task.Title),
			RelatedID:   &submission.TaskID,
		}); err != nil {
			return err
		}
		balanceAfter, err = s.ledger.SumByUserTx(ctx, tx, submission.UserID)
		if err != nil {
			return err
		}
		submission.Status = models.SubmissionApproved
		submission.CoinsAwarded = &coins
		approved = true
		return nil
	})
	if err != nil {
		return models.Submission{}, err
	}
	if approved {
		s.hub.BroadcastBalance(submission.UserID, websocket.BalanceUpdate{
			Balance: balanceAfter,
			Reason:  models.TxTaskReward,
		})
	}
	return submission, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
