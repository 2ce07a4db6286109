package handlers

import (
	"context"
	"database/sql"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Kroz113/JulyCoins/internal/auth"
	"github.com/Kroz113/JulyCoins/internal/config"
	"github.com/Kroz113/JulyCoins/internal/middleware"
	"github.com/Kroz113/JulyCoins/internal/models"
	"github.com/Kroz113/JulyCoins/internal/services"
	"github.com/Kroz113/JulyCoins/internal/store"
	"github.com/Kroz113/JulyCoins/internal/websocket"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	withTxFn func(ctx context.Context, fn func(*sqlx.Tx) error) error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.withTxFn != nil {
		return f.withTxFn(ctx, fn)
	}
	return fn(nil)
}

type stubUserStore struct {
	createFn     func(ctx context.Context, tx store.Tx, input store.UserInput) (models.User, error)
	getByIDFn    func(ctx context.Context, userID int64) (models.User, error)
	getByEmailFn func(ctx context.Context, email string) (models.User, error)
	listFn       func(ctx context.Context) ([]models.User, error)
}

func (s stubUserStore) Create(ctx context.Context, tx store.Tx, input store.UserInput) (models.User, error) {
	if s.createFn == nil {
		return models.User{ID: 1, Username: input.Username, Email: input.Email, Role: input.Role}, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubUserStore) GetByID(ctx context.Context, userID int64) (models.User, error) {
	if s.getByIDFn == nil {
		return models.User{ID: userID}, nil
	}
	return s.getByIDFn(ctx, userID)
}

func (s stubUserStore) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if s.getByEmailFn == nil {
		return models.User{}, sql.ErrNoRows
	}
	return s.getByEmailFn(ctx, email)
}

func (s stubUserStore) List(ctx context.Context) ([]models.User, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubTaskStore struct {
	createFn  func(ctx context.Context, tx store.Tx, input store.TaskInput) (models.Task, error)
	getByIDFn func(ctx context.Context, taskID int64) (models.Task, error)
	listFn    func(ctx context.Context) ([]models.Task, error)
}

func (s stubTaskStore) Create(ctx context.Context, tx store.Tx, input store.TaskInput) (models.Task, error) {
	if s.createFn == nil {
		return models.Task{ID: 1, Title: input.Title, CoinsReward: input.CoinsReward}, nil
	}
	return s.createFn(ctx, tx, input)
}

func (s stubTaskStore) GetByID(ctx context.Context, taskID int64) (models.Task, error) {
	if s.getByIDFn == nil {
		return models.Task{ID: taskID}, nil
	}
	return s.getByIDFn(ctx, taskID)
}

func (s stubTaskStore) List(ctx context.Context) ([]models.Task, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx)
}

type stubSubmissionStore struct {
	getByTaskAndUserFn func(ctx context.Context, taskID, userID int64) (models.Submission, error)
	listByUserFn       func(ctx context.Context, userID int64) ([]models.Submission, error)
	listPendingFn      func(ctx context.Context) ([]models.Submission, error)
}

func (s stubSubmissionStore) GetByTaskAndUser(ctx context.Context, taskID, userID int64) (models.Submission, error) {
	if s.getByTaskAndUserFn == nil {
		return models.Submission{}, sql.ErrNoRows
	}
	return s.getByTaskAndUserFn(ctx, taskID, userID)
}

func (s stubSubmissionStore) ListByUser(ctx context.Context, userID int64) ([]models.Submission, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

func (s stubSubmissionStore) ListPending(ctx context.Context) ([]models.Submission, error) {
	if s.listPendingFn == nil {
		return nil, nil
	}
	return s.listPendingFn(ctx)
}

type stubAuctionStore struct {
	getByIDFn  func(ctx context.Context, auctionID int64) (models.Auction, error)
	listOpenFn func(ctx context.Context, now time.Time) ([]models.Auction, error)
}

func (s stubAuctionStore) GetByID(ctx context.Context, auctionID int64) (models.Auction, error) {
	if s.getByIDFn == nil {
		return models.Auction{}, sql.ErrNoRows
	}
	return s.getByIDFn(ctx, auctionID)
}

func (s stubAuctionStore) ListOpen(ctx context.Context, now time.Time) ([]models.Auction, error) {
	if s.listOpenFn == nil {
		return nil, nil
	}
	return s.listOpenFn(ctx, now)
}

type stubBidStore struct {
	listByAuctionFn func(ctx context.Context, auctionID int64) ([]models.Bid, error)
	highestFn       func(ctx context.Context, auctionID int64) (models.Bid, error)
	latestByUserFn  func(ctx context.Context, auctionID, userID int64) (models.Bid, error)
}

func (s stubBidStore) ListByAuction(ctx context.Context, auctionID int64) ([]models.Bid, error) {
	if s.listByAuctionFn == nil {
		return nil, nil
	}
	return s.listByAuctionFn(ctx, auctionID)
}

func (s stubBidStore) Highest(ctx context.Context, auctionID int64) (models.Bid, error) {
	if s.highestFn == nil {
		return models.Bid{}, sql.ErrNoRows
	}
	return s.highestFn(ctx, auctionID)
}

func (s stubBidStore) LatestByUser(ctx context.Context, auctionID, userID int64) (models.Bid, error) {
	if s.latestByUserFn == nil {
		return models.Bid{}, sql.ErrNoRows
	}
	return s.latestByUserFn(ctx, auctionID, userID)
}

type stubLedgerStore struct {
	sumByUserFn  func(ctx context.Context, userID int64) (int64, error)
	listByUserFn func(ctx context.Context, userID int64) ([]models.Transaction, error)
}

func (s stubLedgerStore) SumByUser(ctx context.Context, userID int64) (int64, error) {
	if s.sumByUserFn == nil {
		return 0, nil
	}
	return s.sumByUserFn(ctx, userID)
}

func (s stubLedgerStore) ListByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	if s.listByUserFn == nil {
		return nil, nil
	}
	return s.listByUserFn(ctx, userID)
}

type stubAuditStore struct {
	logFn  func(ctx context.Context, tx store.Execer, actorID int64, action, entityType string, entityID int64, data string) error
	listFn func(ctx context.Context, limit, offset int) ([]store.AuditLog, error)
}

func (s stubAuditStore) Log(ctx context.Context, tx store.Execer, actorID int64, action, entityType string, entityID int64, data string) error {
	if s.logFn == nil {
		return nil
	}
	return s.logFn(ctx, tx, actorID, action, entityType, entityID, data)
}

func (s stubAuditStore) List(ctx context.Context, limit, offset int) ([]store.AuditLog, error) {
	if s.listFn == nil {
		return nil, nil
	}
	return s.listFn(ctx, limit, offset)
}

type stubSubmissionService struct {
	submitFn func(ctx context.Context, req services.SubmitRequest) (models.Submission, error)
	reviewFn func(ctx context.Context, req services.ReviewRequest) (models.Submission, error)
}

func (s stubSubmissionService) Submit(ctx context.Context, req services.SubmitRequest) (models.Submission, error) {
	if s.submitFn == nil {
		return models.Submission{}, nil
	}
	return s.submitFn(ctx, req)
}

func (s stubSubmissionService) Review(ctx context.Context, req services.ReviewRequest) (models.Submission, error) {
	if s.reviewFn == nil {
		return models.Submission{}, nil
	}
	return s.reviewFn(ctx, req)
}

type stubAuctionService struct {
	createFn   func(ctx context.Context, req services.CreateAuctionRequest) (models.Auction, error)
	placeBidFn func(ctx context.Context, auctionID, userID, amount int64) (models.Bid, error)
	closeFn    func(ctx context.Context, auctionID int64) (models.Auction, error)
}

func (s stubAuctionService) Create(ctx context.Context, req services.CreateAuctionRequest) (models.Auction, error) {
	if s.createFn == nil {
		return models.Auction{ID: 1, Title: req.Title}, nil
	}
	return s.createFn(ctx, req)
}

func (s stubAuctionService) PlaceBid(ctx context.Context, auctionID, userID, amount int64) (models.Bid, error) {
	if s.placeBidFn == nil {
		return models.Bid{AuctionID: auctionID, UserID: userID, Amount: amount}, nil
	}
	return s.placeBidFn(ctx, auctionID, userID, amount)
}

func (s stubAuctionService) Close(ctx context.Context, auctionID int64) (models.Auction, error) {
	if s.closeFn == nil {
		return models.Auction{ID: auctionID}, nil
	}
	return s.closeFn(ctx, auctionID)
}

type stubStatsService struct {
	adminFn   func(ctx context.Context) (services.AdminStats, error)
	studentFn func(ctx context.Context, userID int64) (services.StudentStats, error)
}

func (s stubStatsService) AdminStats(ctx context.Context) (services.AdminStats, error) {
	if s.adminFn == nil {
		return services.AdminStats{}, nil
	}
	return s.adminFn(ctx)
}

func (s stubStatsService) StudentStats(ctx context.Context, userID int64) (services.StudentStats, error) {
	if s.studentFn == nil {
		return services.StudentStats{}, nil
	}
	return s.studentFn(ctx, userID)
}

type stubSaver struct {
	saveFn func(file multipart.File, header *multipart.FileHeader) (string, error)
}

func (s stubSaver) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if s.saveFn == nil {
		return "/uploads/test-file.pdf", nil
	}
	return s.saveFn(file, header)
}

type testDeps struct {
	txRunner          fakeTxRunner
	users             stubUserStore
	tasks             stubTaskStore
	submissions       stubSubmissionStore
	auctions          stubAuctionStore
	bids              stubBidStore
	ledger            stubLedgerStore
	audit             stubAuditStore
	submissionService stubSubmissionService
	auctionService    stubAuctionService
	statsService      stubStatsService
	saver             stubSaver
}

func newTestHandler(deps testDeps) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		JWTSecret:      "secret",
		TokenTTL:       time.Minute,
		AllowedOrigins: "*",
		MaxUploadBytes: 1 << 20,
	}
	return New(cfg, deps.txRunner, deps.users, deps.tasks, deps.submissions, deps.auctions, deps.bids, deps.ledger, deps.audit, deps.submissionService, deps.auctionService, deps.statsService, deps.saver, websocket.NewHub())
}

// serveAs runs the handler behind the auth middleware with a real token,
// the same way requests arrive in production.
func serveAs(t *testing.T, handler http.HandlerFunc, req *http.Request, userID int64, role string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken("secret", userID, role, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	middleware.Auth("secret")(handler).ServeHTTP(rr, req)
	return rr
}

func withURLParam(req *http.Request, name, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(name, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func int64Ptr(value int64) *int64 {
	return &value
}
