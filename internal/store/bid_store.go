package store

import (
	"context"

	"github.com/Kroz113/JulyCoins/internal/models"
)

// Bids are append-only. The leading bid is never stored anywhere; it is
// always derived with the highest-amount, earliest-created ordering below.

type BidStore struct {
	db DB
}

func NewBidStore(db DB) *BidStore {
	return &BidStore{db: db}
}

func (s *BidStore) Create(ctx context.Context, tx Tx, auctionID, userID, amount int64) (models.Bid, error) {
	var bid models.Bid
	err := tx.GetContext(ctx, &bid, `
		INSERT INTO bids (auction_id, user_id, amount)
		VALUES ($1, $2, $3)
		RETURNING id, auction_id, user_id, amount, created_at
	`, auctionID, userID, amount)
	return bid, err
}

func (s *BidStore) ListByAuction(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	var bids []models.Bid
	err := s.db.SelectContext(ctx, &bids, `
		SELECT id, auction_id, user_id, amount, created_at
		FROM bids WHERE auction_id = $1 ORDER BY amount DESC, created_at, id
	`, auctionID)
	return bids, err
}

func (s *BidStore) Highest(ctx context.Context, auctionID int64) (models.Bid, error) {
	return highestBid(ctx, s.db, auctionID)
}

// HighestTx reads the leading bid through the caller's transaction; used
// together with the auction row lock while bidding and settling.
func (s *BidStore) HighestTx(ctx context.Context, tx Getter, auctionID int64) (models.Bid, error) {
	return highestBid(ctx, tx, auctionID)
}

func highestBid(ctx context.Context, q Getter, auctionID int64) (models.Bid, error) {
	var bid models.Bid
	err := q.GetContext(ctx, &bid, `
		SELECT id, auction_id, user_id, amount, created_at
		FROM bids WHERE auction_id = $1
		ORDER BY amount DESC, created_at, id
		LIMIT 1
	`, auctionID)
	return bid, err
}

// LatestByUser returns the user's most recent bid in the auction.
func (s *BidStore) LatestByUser(ctx context.Context, auctionID, userID int64) (models.Bid, error) {
	var bid models.Bid
	err := s.db.GetContext(ctx, &bid, `
		SELECT id, auction_id, user_id, amount, created_at
		FROM bids WHERE auction_id = $1 AND user_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, auctionID, userID)
	return bid, err
}
