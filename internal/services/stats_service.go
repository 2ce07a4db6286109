package services

import (
	"context"
	"time"

	"github.com/Kroz113/JulyCoins/internal/coins"
	"github.com/Kroz113/JulyCoins/internal/models"
)

// StatsService is the read-side aggregation layer. Everything is computed
// on demand from the stores; nothing here is cached or stored.

type StatsUserStore interface {
	CountByRole(ctx context.Context, role string) (int64, error)
}

type StatsTaskStore interface {
	Count(ctx context.Context) (int64, error)
}

type StatsSubmissionStore interface {
	CountPending(ctx context.Context) (int64, error)
	CountApprovedByUser(ctx context.Context, userID int64) (int64, error)
	SumAwardedByUser(ctx context.Context, userID int64) (int64, error)
}

type StatsAuctionStore interface {
	CountOpen(ctx context.Context, now time.Time) (int64, error)
	CountWonBy(ctx context.Context, userID int64) (int64, error)
}

type StatsLedgerStore interface {
	SumByUser(ctx context.Context, userID int64) (int64, error)
	SumStudentBalances(ctx context.Context) (int64, error)
}

type StatsService struct {
	users         StatsUserStore
	tasks         StatsTaskStore
	submissions   StatsSubmissionStore
	auctions      StatsAuctionStore
	ledger        StatsLedgerStore
	inflationRate string
	now           func() time.Time
}

func NewStatsService(users StatsUserStore, tasks StatsTaskStore, submissions StatsSubmissionStore, auctions StatsAuctionStore, ledger StatsLedgerStore, inflationRate string) *StatsService {
	return &StatsService{
		users:         users,
		tasks:         tasks,
		submissions:   submissions,
		auctions:      auctions,
		ledger:        ledger,
		inflationRate: coins.NormalizeRate(inflationRate),
		now:           time.Now,
	}
}

type AdminStats struct {
	TotalCoins         int64  `json:"total_coins"`
	TotalStudents      int64  `json:"total_students"`
	TotalTasks         int64  `json:"total_tasks"`
	PendingSubmissions int64  `json:"pending_submissions"`
	ActiveAuctions     int64  `json:"active_auctions"`
	InflationRate      string `json:"inflation_rate"`
}

func (s *StatsService) AdminStats(ctx context.Context) (AdminStats, error) {
	totalCoins, err := s.ledger.SumStudentBalances(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	students, err := s.users.CountByRole(ctx, models.RoleStudent)
	if err != nil {
		return AdminStats{}, err
	}
	tasks, err := s.tasks.Count(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	pending, err := s.submissions.CountPending(ctx)
	if err != nil {
		return AdminStats{}, err
	}
	open, err := s.auctions.CountOpen(ctx, s.now())
	if err != nil {
		return AdminStats{}, err
	}
	return AdminStats{
		TotalCoins:         totalCoins,
		TotalStudents:      students,
		TotalTasks:         tasks,
		PendingSubmissions: pending,
		ActiveAuctions:     open,
		InflationRate:      s.inflationRate,
	}, nil
}

type StudentStats struct {
	Balance        int64 `json:"balance"`
	CompletedTasks int64 `json:"completed_tasks"`
	TotalEarned    int64 `json:"total_earned"`
	AuctionWins    int64 `json:"auction_wins"`
}

func (s *StatsService) StudentStats(ctx context.Context, userID int64) (StudentStats, error) {
	balance, err := s.ledger.SumByUser(ctx, userID)
	if err != nil {
		return StudentStats{}, err
	}
	completed, err := s.submissions.CountApprovedByUser(ctx, userID)
	if err != nil {
		return StudentStats{}, err
	}
	earned, err := s.submissions.SumAwardedByUser(ctx, userID)
	if err != nil {
		return StudentStats{}, err
	}
	wins, err := s.auctions.CountWonBy(ctx, userID)
	if err != nil {
		return StudentStats{}, err
	}
	return StudentStats{
		Balance:        balance,
		CompletedTasks: completed,
		TotalEarned:    earned,
		AuctionWins:    wins,
	}, nil
}
