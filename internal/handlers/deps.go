package handlers

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/services"
	"github.com/Kroz113/JulyCoins/internal/store"
)

type UserStore interface {
	Create(ctx context.Context, tx store.Tx, input store.UserInput) (models.User, error)
	GetByID(ctx context.Context, userID int64) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type TaskStore interface {
	Create(ctx context.Context, tx store.Tx, input store.TaskInput) (models.Task, error)
	GetByID(ctx context.Context, taskID int64) (models.Task, error)
	List(ctx context.Context) ([]models.Task, error)
}

type SubmissionStore interface {
	GetByTaskAndUser(ctx context.Context, taskID, userID int64) (models.Submission, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Submission, error)
	ListPending(ctx context.Context) ([]models.Submission, error)
}

type AuctionStore interface {
	GetByID(ctx context.Context, auctionID int64) (models.Auction, error)
	ListOpen(ctx context.Context, now time.Time) ([]models.Auction, error)
}

type BidStore interface {
	ListByAuction(ctx context.Context, auctionID int64) ([]models.Bid, error)
	Highest(ctx context.Context, auctionID int64) (models.Bid, error)
	LatestByUser(ctx context.Context, auctionID, userID int64) (models.Bid, error)
}

type LedgerStore interface {
	SumByUser(ctx context.Context, userID int64) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
}

type AuditStore interface {
	Log(ctx context.Context, tx store.Execer, actorID int64, action, entityType string, entityID int64, data string) error
	List(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

type SubmissionService interface {
	Submit(ctx context.Context, req services.SubmitRequest) (models.Submission, error)
	Review(ctx context.Context, req services.ReviewRequest) (models.Submission, error)
}

type AuctionService interface {
	Create(ctx context.Context, req services.CreateAuctionRequest) (models.Auction, error)
	PlaceBid(ctx context.Context, auctionID, userID, amount int64) (models.Bid, error)
	Close(ctx context.Context, auctionID int64) (models.Auction, error)
}

type StatsService interface {
	AdminStats(ctx context.Context) (services.AdminStats, error)
	StudentStats(ctx context.Context, userID int64) (services.StudentStats, error)
}

type FileSaver interface {
	Save(file multipart.File, header *multipart.FileHeader) (string, error)
}
