package handlers

import (
	"net/http"

	"github.com/Kroz113/JulyCoins/internal/config"
	"github.com/Kroz113/JulyCoins/internal/db"
	"github.com/Kroz113/JulyCoins/internal/middleware"
	"github.com/Kroz113/JulyCoins/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	cfg               config.Config
	txRunner          db.TxRunner
	users             UserStore
	tasks             TaskStore
	submissions       SubmissionStore
	auctions          AuctionStore
	bids              BidStore
	ledger            LedgerStore
	audit             AuditStore
	submissionService SubmissionService
	auctionService    AuctionService
	statsService      StatsService
	saver             FileSaver
	hub               *websocket.Hub
}

func New(cfg config.Config, txRunner db.TxRunner, users UserStore, tasks TaskStore, submissions SubmissionStore, auctions AuctionStore, bids BidStore, ledger LedgerStore, audit AuditStore, submissionService SubmissionService, auctionService AuctionService, statsService StatsService, saver FileSaver, hub *websocket.Hub) *Handler {
	return &Handler{
		cfg:               cfg,
		txRunner:          txRunner,
		users:             users,
		tasks:             tasks,
		submissions:       submissions,
		auctions:          auctions,
		bids:              bids,
		ledger:            ledger,
		audit:             audit,
		submissionService: submissionService,
		auctionService:    auctionService,
		statsService:      statsService,
		saver:             saver,
		hub:               hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	authn := middleware.Auth(h.cfg.JWTSecret)

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(authn).Get("/me", h.Me)
	})

	router.With(authn, middleware.RequireAdmin).Get("/users", h.ListUsers)
	router.With(authn, middleware.RequireAdmin).Get("/users/{id}/transactions", h.UserTransactions)

	router.With(authn, middleware.RequireAdmin).Post("/tasks", h.CreateTask)
	router.With(authn).Get("/tasks", h.ListTasks)
	router.With(authn).Get("/tasks/{id}", h.GetTask)

	router.With(authn, middleware.RequireStudent).Post("/submissions", h.CreateSubmission)
	router.With(authn).Get("/submissions", h.ListSubmissions)
	router.With(authn, middleware.RequireAdmin).Patch("/submissions/{id}", h.ReviewSubmission)

	router.With(authn, middleware.RequireAdmin).Post("/auctions", h.CreateAuction)
	router.With(authn).Get("/auctions", h.ListAuctions)
	router.With(authn).Get("/auctions/{id}", h.GetAuction)
	router.With(authn, middleware.RequireAdmin).Post("/auctions/{id}/close", h.CloseAuction)
	router.With(authn, middleware.RequireStudent).Post("/bids", h.PlaceBid)

	router.With(authn).Get("/transactions", h.ListTransactions)
	router.With(authn).Get("/balance", h.GetBalance)

	router.With(authn, middleware.RequireAdmin).Get("/admin/stats", h.AdminStats)
	router.With(authn, middleware.RequireAdmin).Get("/admin/audit", h.ListAuditLogs)
	router.With(authn, middleware.RequireStudent).Get("/student/stats", h.StudentStats)

	router.Get("/ws/balances", h.WSBalances)
	router.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(h.cfg.UploadDir))))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
