package store

import (
	"context"
	"time"

	"github.com/Kroz113/JulyCoins/internal/models"
)

type AuctionStore struct {
	db DB
}

func NewAuctionStore(db DB) *AuctionStore {
	return &AuctionStore{db: db}
}

type AuctionInput struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	MinimumBid  int64
	CreatedBy   int64
}

func (s *AuctionStore) Create(ctx context.Context, tx Tx, input AuctionInput) (models.Auction, error) {
	var auction models.Auction
	err := tx.GetContext(ctx, &auction, `
		INSERT INTO auctions (title, description, start_date, end_date, minimum_bid, created_by, status)
		VALUES ($1, $2, $3, $4, $5, $6, 'active')
		RETURNING id, title, description, start_date, end_date, minimum_bid, created_by, status, winner_id, winning_bid, created_at
	`, input.Title, input.Description, input.StartDate, input.EndDate, input.MinimumBid, input.CreatedBy)
	return auction, err
}

func (s *AuctionStore) GetByID(ctx context.Context, auctionID int64) (models.Auction, error) {
	var auction models.Auction
	err := s.db.GetContext(ctx, &auction, `
		SELECT id, title, description, start_date, end_date, minimum_bid, created_by, status, winner_id, winning_bid, created_at
		FROM auctions WHERE id = $1
	`, auctionID)
	return auction, err
}

// GetForUpdate locks the auction row for the duration of the transaction.
// Bidding and settlement both lock before reading the highest bid, so the
// read-validate-append sequence cannot interleave between two callers.
func (s *AuctionStore) GetForUpdate(ctx context.Context, tx Getter, auctionID int64) (models.Auction, error) {
	var auction models.Auction
	err := tx.GetContext(ctx, &auction, `
		SELECT id, title, description, start_date, end_date, minimum_bid, created_by, status, winner_id, winning_bid, created_at
		FROM auctions WHERE id = $1
		FOR UPDATE
	`, auctionID)
	return auction, err
}

// ListOpen returns auctions open for bidding right now. This is a view
// filter only: an active auction past its end date is excluded here but
// keeps status 'active' until an admin closes it.
func (s *AuctionStore) ListOpen(ctx context.Context, now time.Time) ([]models.Auction, error) {
	var auctions []models.Auction
	err := s.db.SelectContext(ctx, &auctions, `
		SELECT id, title, description, start_date, end_date, minimum_bid, created_by, status, winner_id, winning_bid, created_at
		FROM auctions
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
		ORDER BY end_date
	`, now)
	return auctions, err
}

func (s *AuctionStore) CountOpen(ctx context.Context, now time.Time) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM auctions
		WHERE status = 'active' AND start_date <= $1 AND end_date >= $1
	`, now)
	return count, err
}

func (s *AuctionStore) CountWonBy(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM auctions WHERE status = 'completed' AND winner_id = $1
	`, userID)
	return count, err
}

func (s *AuctionStore) Complete(ctx context.Context, tx Execer, auctionID, winnerID, winningBid int64) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE auctions SET status = 'completed', winner_id = $1, winning_bid = $2 WHERE id = $3
	`, winnerID, winningBid, auctionID)
	return err
}
