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
)

var (
	ErrAuctionNotFound     = errors.New("auction not found")
	ErrAuctionNotOpen      = errors.New("auction is not open for bidding")
	ErrBelowMinimum        = errors.New("bid is below the minimum")
	ErrBidTooLow           = errors.New("bid does not exceed the current highest bid")
	ErrInsufficientBalance = errors.New("insufficient coin balance")
	ErrAlreadyCompleted    = errors.New("auction is already completed")
	ErrNoBids              = errors.New("auction has no bids")
	ErrInvalidWindow       = errors.New("end date must be after start date")
	ErrInvalidMinimumBid   = errors.New("minimum bid must be positive")
)

type AuctionStore interface {
	Create(ctx context.Context, tx store.Tx, input store.AuctionInput) (models.Auction, error)
	GetForUpdate(ctx context.Context, tx store.Getter, auctionID int64) (models.Auction, error)
	Complete(ctx context.Context, tx store.Execer, auctionID, winnerID, winningBid int64) error
}

type BidStore interface {
	Create(ctx context.Context, tx store.Tx, auctionID, userID, amount int64) (models.Bid, error)
	HighestTx(ctx context.Context, tx store.Getter, auctionID int64) (models.Bid, error)
}

// AuctionService owns the active -> completed lifecycle and the bid
// acceptance rules. Coins are spent on win, not on bid: placing a bid only
// checks the balance, and the single debit happens at settlement. Every
// mutation runs in one transaction with the auction row locked, so the
// read-highest/validate/append sequence never interleaves.
type AuctionService struct {
	txRunner db.TxRunner
	auctions AuctionStore
	bids     BidStore
	ledger   LedgerStore
	hub      BalanceHub
	now      func() time.Time
}

func NewAuctionService(txRunner db.TxRunner, auctions AuctionStore, bids BidStore, ledger LedgerStore, hub BalanceHub) *AuctionService {
	return &AuctionService{
		txRunner: txRunner,
		auctions: auctions,
		bids:     bids,
		ledger:   ledger,
		hub:      hub,
		now:      time.Now,
	}
}

type CreateAuctionRequest struct {
	Title       string
	Description string
	StartDate   time.Time
	EndDate     time.Time
	MinimumBid  int64
	CreatedBy   int64
}

func (s *AuctionService) Create(ctx context.Context, req CreateAuctionRequest) (models.Auction, error) {
	if !req.EndDate.After(req.StartDate) {
		return models.Auction{}, ErrInvalidWindow
	}
	if req.MinimumBid <= 0 {
		return models.Auction{}, ErrInvalidMinimumBid
	}
	var auction models.Auction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		auction, err = s.auctions.Create(ctx, tx, store.AuctionInput{
			Title:       req.Title,
			Description: req.Description,
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			MinimumBid:  req.MinimumBid,
			CreatedBy:   req.CreatedBy,
		})
		return err
	})
	return auction, err
}

func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, userID, amount int64) (models.Bid, error) {
	var bid models.Bid
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		auction, err := s.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAuctionNotFound
			}
			return err
		}
		if !auction.IsOpen(s.now()) {
			return ErrAuctionNotOpen
		}
		if amount < auction.MinimumBid {
			return ErrBelowMinimum
		}
		// Funds are checked, not reserved. A bid equal to the balance
		// passes; the debit only happens if the auction is won.
		balance, err := s.ledger.SumByUserTx(ctx, tx, userID)
		if err != nil {
			return err
		}
		if amount > balance {
			return ErrInsufficientBalance
		}
		highest, err := s.bids.HighestTx(ctx, tx, auctionID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return err
		}
		if err == nil && amount <= highest.Amount {
			return ErrBidTooLow
		}
		bid, err = s.bids.Create(ctx, tx, auctionID, userID, amount)
		return err
	})
	if err != nil {
		return models.Bid{}, err
	}
	return bid, nil
}

// Close settles the auction: exactly one completed transition and exactly
// one auction_payment debit for the winner. Losing bidders are never
// charged. Closing is always explicit; time expiry alone never settles.
func (s *AuctionService) Close(ctx context.Context, auctionID int64) (models.Auction, error) {
	var auction models.Auction
	var winnerBalance int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		auction, err = s.auctions.GetForUpdate(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrAuctionNotFound
			}
			return err
		}
		if auction.Status == models.AuctionCompleted {
			return ErrAlreadyCompleted
		}
		highest, err := s.bids.HighestTx(ctx, tx, auctionID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNoBids
			}
			return err
		}
		if err := s.auctions.Complete(ctx, tx, auction.ID, highest.UserID, highest.Amount); err != nil {
			return err
		}
		if _, err := s.ledger.Record(ctx, tx, store.TransactionInput{
			UserID:      highest.UserID,
			Amount:      -highest.Amount,
			Type:        models.TxAuctionPayment,
			Description: fmt.Sprintf("Payment for auction: %s", auction.Title),
			RelatedID:   &auction.ID,
		}); err != nil {
			return err
		}
		winnerBalance, err = s.ledger.SumByUserTx(ctx, tx, highest.UserID)
		if err != nil {
			return err
		}
		auction.Status = models.AuctionCompleted
		auction.WinnerID = &highest.UserID
		auction.WinningBid = &highest.Amount
		return nil
	})
	if err != nil {
		return models.Auction{}, err
	}
	s.hub.BroadcastBalance(*auction.WinnerID, websocket.BalanceUpdate{
		Balance: winnerBalance,
		Reason:  models.TxAuctionPayment,
	})
	return auction, nil
}
