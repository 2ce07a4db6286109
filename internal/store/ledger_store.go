package store

import (
	"context"

	"github.com/Kroz113/JulyCoins/internal/models"
)

// LedgerStore appends coin-affecting events to the transactions table and
// derives balances by summation. Entries are never updated or deleted, and
// the store performs no business validation: sufficient-balance and
// state-machine checks all happen in the calling service before Record.

type LedgerStore struct {
	db DB
}

func NewLedgerStore(db DB) *LedgerStore {
	return &LedgerStore{db: db}
}

type TransactionInput struct {
	UserID      int64
	Amount      int64
	Type        string
	Description string
	RelatedID   *int64
}

func (s *LedgerStore) Record(ctx context.Context, tx Tx, input TransactionInput) (models.Transaction, error) {
	var entry models.Transaction
	err := tx.GetContext(ctx, &entry, `
		INSERT INTO transactions (user_id, amount, type, description, related_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, amount, type, description, related_id, created_at
	`, input.UserID, input.Amount, input.Type, input.Description, input.RelatedID)
	return entry, err
}

func (s *LedgerStore) SumByUser(ctx context.Context, userID int64) (int64, error) {
	return sumByUser(ctx, s.db, userID)
}

// SumByUserTx computes the balance through the caller's transaction so a
// bid's balance check sees any entry written earlier in the same unit.
func (s *LedgerStore) SumByUserTx(ctx context.Context, tx Getter, userID int64) (int64, error) {
	return sumByUser(ctx, tx, userID)
}

func sumByUser(ctx context.Context, q Getter, userID int64) (int64, error) {
	var sum int64
	err := q.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
	`, userID)
	return sum, err
}

func (s *LedgerStore) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var entries []models.Transaction
	err := s.db.SelectContext(ctx, &entries, `
		SELECT id, user_id, amount, type, description, related_id, created_at
		FROM transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	return entries, err
}

// SumStudentBalances is the total coins in circulation across students.
func (s *LedgerStore) SumStudentBalances(ctx context.Context) (int64, error) {
	var sum int64
	err := s.db.GetContext(ctx, &sum, `
		SELECT COALESCE(SUM(t.amount), 0)
		FROM transactions t
		JOIN users u ON u.id = t.user_id
		WHERE u.role = 'student'
	`)
	return sum, err
}
