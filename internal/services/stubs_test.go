package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/store"
	"github.com/Kroz113/JulyCoins/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubTaskStore struct {
	getByIDFn func(ctx context.Context, taskID int64) (models.Task, error)
}

func (s stubTaskStore) GetByID(ctx context.Context, taskID int64) (models.Task, error) {
	return s.getByIDFn(ctx, taskID)
}

type stubSubmissionStore struct {
	createFn       func(ctx context.Context, tx store.Tx, input store.SubmissionInput) (models.Submission, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, submissionID int64) (models.Submission, error)
	existsFn       func(ctx context.Context, tx store.Getter, taskID, userID int64) (bool, error)
	setStatusFn    func(ctx context.Context, tx store.Execer, submissionID int64, status string, coinsAwarded *int64) error
}

func (s stubSubmissionStore) Create(ctx context.Context, tx store.Tx, input store.SubmissionInput) (models.Submission, error) {
	if s.createFn == nil {
		return models.Submission{}, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubSubmissionStore) GetForUpdate(ctx context.Context, tx store.Getter, submissionID int64) (models.Submission, error) {
	return s.getForUpdateFn(ctx, tx, submissionID)
}

func (s stubSubmissionStore) ExistsByTaskAndUser(ctx context.Context, tx store.Getter, taskID, userID int64) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, tx, taskID, userID)
}

func (s stubSubmissionStore) SetStatus(ctx context.Context, tx store.Execer, submissionID int64, status string, coinsAwarded *int64) error {
	if s.setStatusFn == nil {
		return nil
	}
	return s.setStatusFn(ctx, tx, submissionID, status, coinsAwarded)
}

type stubAuctionStore struct {
	createFn       func(ctx context.Context, tx store.Tx, input store.AuctionInput) (models.Auction, error)
	getForUpdateFn func(ctx context.Context, tx store.Getter, auctionID int64) (models.Auction, error)
	completeFn     func(ctx context.Context, tx store.Execer, auctionID, winnerID, winningBid int64) error
}

func (s stubAuctionStore) Create(ctx context.Context, tx store.Tx, input store.AuctionInput) (models.Auction, error) {
	if s.createFn == nil {
		return models.Auction{}, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubAuctionStore) GetForUpdate(ctx context.Context, tx store.Getter, auctionID int64) (models.Auction, error) {
	return s.getForUpdateFn(ctx, tx, auctionID)
}

func (s stubAuctionStore) Complete(ctx context.Context, tx store.Execer, auctionID, winnerID, winningBid int64) error {
	if s.completeFn == nil {
		return nil
	}
	return s.completeFn(ctx, tx, auctionID, winnerID, winningBid)
}

type stubBidStore struct {
	createFn    func(ctx context.Context, tx store.Tx, auctionID, userID, amount int64) (models.Bid, error)
	highestTxFn func(ctx context.Context, tx store.Getter, auctionID int64) (models.Bid, error)
}

func (s stubBidStore) Create(ctx context.Context, tx store.Tx, auctionID, userID, amount int64) (models.Bid, error) {
	if s.createFn == nil {
		return models.Bid{AuctionID: auctionID, UserID: userID, Amount: amount}, nil
	}
	return s.createFn(ctx, tx, auctionID, userID, amount)
}

func (s stubBidStore) HighestTx(ctx context.Context, tx store.Getter, auctionID int64) (models.Bid, error) {
	return s.highestTxFn(ctx, tx, auctionID)
}

type stubLedgerStore struct {
	recordFn      func(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error)
	sumByUserTxFn func(ctx context.Context, tx store.Getter, userID int64) (int64, error)
}

func (s stubLedgerStore) Record(ctx context.Context, tx store.Tx, input store.TransactionInput) (models.Transaction, error) {
	if s.recordFn == nil {
		return models.Transaction{}, nil
	}
	return s.recordFn(ctx, tx, input)
}

func (s stubLedgerStore) SumByUserTx(ctx context.Context, tx store.Getter, userID int64) (int64, error) {
	if s.sumByUserTxFn == nil {
		return 0, nil
	}
	return s.sumByUserTxFn(ctx, tx, userID)
}

type stubHub struct {
	updates map[int64][]websocket.BalanceUpdate
}

func newStubHub() *stubHub {
	return &stubHub{updates: make(map[int64][]websocket.BalanceUpdate)}
}

func (s *stubHub) BroadcastBalance(userID int64, update websocket.BalanceUpdate) {
	s.updates[userID] = append(s.updates[userID], update)
}

// fakeLedger backs stubLedgerStore closures with an in-memory append-only
// log so balance always equals the sum of recorded entries.
type fakeLedger struct {
	entries []store.TransactionInput
}

func (l *fakeLedger) record(_ context.Context, _ store.Tx, input store.TransactionInput) (models.Transaction, error) {
	l.entries = append(l.entries, input)
	return models.Transaction{
		ID:          int64(len(l.entries)),
		UserID:      input.UserID,
		Amount:      input.Amount,
		Type:        input.Type,
		Description: input.Description,
		RelatedID:   input.RelatedID,
	}, nil
}

func (l *fakeLedger) sum(_ context.Context, _ store.Getter, userID int64) (int64, error) {
	var sum int64
	for _, entry := range l.entries {
		if entry.UserID == userID {
			sum += entry.Amount
		}
	}
	return sum, nil
}

func (l *fakeLedger) store() stubLedgerStore {
	return stubLedgerStore{recordFn: l.record, sumByUserTxFn: l.sum}
}

// fakeBidBook keeps bids in insertion order and derives the highest bid
// the same way the SQL store does: max amount, earliest first on ties.
type fakeBidBook struct {
	bids   []models.Bid
	nextID int64
	clock  time.Time
}

func (b *fakeBidBook) create(_ context.Context, _ store.Tx, auctionID, userID, amount int64) (models.Bid, error) {
	b.nextID++
	b.clock = b.clock.Add(time.Second)
	bid := models.Bid{ID: b.nextID, AuctionID: auctionID, UserID: userID, Amount: amount, CreatedAt: b.clock}
	b.bids = append(b.bids, bid)
	return bid, nil
}

func (b *fakeBidBook) highest(_ context.Context, _ store.Getter, auctionID int64) (models.Bid, error) {
	var best *models.Bid
	for i := range b.bids {
		bid := &b.bids[i]
		if bid.AuctionID != auctionID {
			continue
		}
		if best == nil || bid.Amount > best.Amount {
			best = bid
		}
	}
	if best == nil {
		return models.Bid{}, sql.ErrNoRows
	}
	return *best, nil
}

func (b *fakeBidBook) store() stubBidStore {
	return stubBidStore{createFn: b.create, highestTxFn: b.highest}
}
