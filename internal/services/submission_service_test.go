package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/store"
)

func openTask(due time.Time) models.Task {
	return models.Task{ID: 1, Title: "Math homework", DueDate: due, CoinsReward: 20}
}

func TestSubmitTaskNotFound(t *testing.T) {
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return models.Task{}, sql.ErrNoRows
		},
	}, stubSubmissionStore{}, stubLedgerStore{}, newStubHub())
	_, err := service.Submit(context.Background(), SubmitRequest{TaskID: 99, UserID: 2})
	if err != ErrTaskNotFound {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestSubmitTaskExpired(t *testing.T) {
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now().Add(-time.Hour)), nil
		},
	}, stubSubmissionStore{
		createFn: func(context.Context, store.Tx, store.SubmissionInput) (models.Submission, error) {
			t.Fatalf("expired task must not create a submission")
			return models.Submission{}, nil
		},
	}, stubLedgerStore{}, newStubHub())
	_, err := service.Submit(context.Background(), SubmitRequest{TaskID: 1, UserID: 2})
	if err != ErrTaskExpired {
		t.Fatalf("expected ErrTaskExpired, got %v", err)
	}
}

func TestSubmitDuplicate(t *testing.T) {
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now().Add(time.Hour)), nil
		},
	}, stubSubmissionStore{
		existsFn: func(context.Context, store.Getter, int64, int64) (bool, error) {
			return true, nil
		},
		createFn: func(context.Context, store.Tx, store.SubmissionInput) (models.Submission, error) {
			t.Fatalf("duplicate must not create a submission")
			return models.Submission{}, nil
		},
	}, stubLedgerStore{}, newStubHub())
	_, err := service.Submit(context.Background(), SubmitRequest{TaskID: 1, UserID: 2})
	if err != ErrDuplicateSubmission {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}
}

func TestSubmitCreatesPendingWithoutLedgerEffect(t *testing.T) {
	ledger := &fakeLedger{}
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now().Add(time.Hour)), nil
		},
	}, stubSubmissionStore{
		createFn: func(_ context.Context, _ store.Tx, input store.SubmissionInput) (models.Submission, error) {
			return models.Submission{
				ID: 1, TaskID: input.TaskID, UserID: input.UserID,
				Title: input.Title, FileURL: input.FileURL, Status: models.SubmissionPending,
			}, nil
		},
	}, ledger.store(), newStubHub())
	submission, err := service.Submit(context.Background(), SubmitRequest{
		TaskID: 1, UserID: 2, Title: "My essay", FileURL: "/uploads/essay.pdf",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submission.Status != models.SubmissionPending {
		t.Fatalf("expected pending submission, got %s", submission.Status)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("submit must not touch the ledger, got %d entries", len(ledger.entries))
	}
}

func TestReviewNotFound(t *testing.T) {
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now()), nil
		},
	}, stubSubmissionStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (models.Submission, error) {
			return models.Submission{}, sql.ErrNoRows
		},
	}, stubLedgerStore{}, newStubHub())
	_, err := service.Review(context.Background(), ReviewRequest{SubmissionID: 9, Decision: models.SubmissionApproved})
	if err != ErrSubmissionNotFound {
		t.Fatalf("expected ErrSubmissionNotFound, got %v", err)
	}
}

func TestReviewInvalidDecision(t *testing.T) {
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now()), nil
		},
	}, stubSubmissionStore{}, stubLedgerStore{}, newStubHub())
	_, err := service.Review(context.Background(), ReviewRequest{SubmissionID: 1, Decision: "maybe"})
	if err != ErrInvalidDecision {
		t.Fatalf("expected ErrInvalidDecision, got %v", err)
	}
}

func TestReviewApproveRecordsReward(t *testing.T) {
	ledger := &fakeLedger{}
	hub := newStubHub()
	coins := int64(25)
	var setStatus string
	var setCoins *int64
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now()), nil
		},
	}, stubSubmissionStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (models.Submission, error) {
			return models.Submission{ID: 5, TaskID: 1, UserID: 2, Status: models.SubmissionPending}, nil
		},
		setStatusFn: func(_ context.Context, _ store.Execer, _ int64, status string, coinsAwarded *int64) error {
			setStatus = status
			setCoins = coinsAwarded
			return nil
		},
	}, ledger.store(), hub)
	submission, err := service.Review(context.Background(), ReviewRequest{
		SubmissionID: 5, Decision: models.SubmissionApproved, CoinsAwarded: &coins,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submission.Status != models.SubmissionApproved {
		t.Fatalf("expected approved, got %s", submission.Status)
	}
	if setStatus != models.SubmissionApproved || setCoins == nil || *setCoins != 25 {
		t.Fatalf("unexpected status update: %s %v", setStatus, setCoins)
	}
	if len(ledger.entries) != 1 {
		t.Fatalf("expected exactly one ledger entry, got %d", len(ledger.entries))
	}
	entry := ledger.entries[0]
	if entry.UserID != 2 || entry.Amount != 25 || entry.Type != models.TxTaskReward {
		t.Fatalf("unexpected ledger entry: %+v", entry)
	}
	if entry.RelatedID == nil || *entry.RelatedID != 1 {
		t.Fatalf("reward entry must reference the task")
	}
	if len(hub.updates[2]) != 1 || hub.updates[2][0].Balance != 25 {
		t.Fatalf("expected balance push of 25, got %+v", hub.updates[2])
	}
}

func TestReviewApproveDefaultsToTaskReward(t *testing.T) {
	ledger := &fakeLedger{}
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			return openTask(time.Now()), nil
		},
	}, stubSubmissionStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (models.Submission, error) {
			return models.Submission{ID: 5, TaskID: 1, UserID: 2, Status: models.SubmissionPending}, nil
		},
	}, ledger.store(), newStubHub())
	submission, err := service.Review(context.Background(), ReviewRequest{
		SubmissionID: 5, Decision: models.SubmissionApproved,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submission.CoinsAwarded == nil || *submission.CoinsAwarded != 20 {
		t.Fatalf("expected task reward of 20, got %v", submission.CoinsAwarded)
	}
	if len(ledger.entries) != 1 || ledger.entries[0].Amount != 20 {
		t.Fatalf("expected ledger entry of 20, got %+v", ledger.entries)
	}
}

func TestReviewRejectHasNoLedgerEffect(t *testing.T) {
	ledger := &fakeLedger{}
	hub := newStubHub()
	service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
		getByIDFn: func(context.Context, int64) (models.Task, error) {
			t.Fatalf("rejection must not load the task")
			return models.Task{}, nil
		},
	}, stubSubmissionStore{
		getForUpdateFn: func(context.Context, store.Getter, int64) (models.Submission, error) {
			return models.Submission{ID: 5, TaskID: 1, UserID: 2, Status: models.SubmissionPending}, nil
		},
	}, ledger.store(), hub)
	submission, err := service.Review(context.Background(), ReviewRequest{
		SubmissionID: 5, Decision: models.SubmissionRejected,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if submission.Status != models.SubmissionRejected {
		t.Fatalf("expected rejected, got %s", submission.Status)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("rejection must not touch the ledger")
	}
	if len(hub.updates) != 0 {
		t.Fatalf("rejection must not push a balance update")
	}
}

func TestReviewIsTerminal(t *testing.T) {
	for _, status := range []string{models.SubmissionApproved, models.SubmissionRejected} {
		service := NewSubmissionService(fakeTxRunner{}, stubTaskStore{
			getByIDFn: func(context.Context, int64) (models.Task, error) {
				return openTask(time.Now()), nil
			},
		}, stubSubmissionStore{
			getForUpdateFn: func(context.Context, store.Getter, int64) (models.Submission, error) {
				return models.Submission{ID: 5, Status: status}, nil
			},
		}, stubLedgerStore{}, newStubHub())
		_, err := service.Review(context.Background(), ReviewRequest{
			SubmissionID: 5, Decision: models.SubmissionRejected,
		})
		if err != ErrInvalidTransition {
			t.Fatalf("expected ErrInvalidTransition for %s submission, got %v", status, err)
		}
	}
}
