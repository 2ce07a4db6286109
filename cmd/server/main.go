package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kroz113/JulyCoins/internal/config"
	"github.com/Kroz113/JulyCoins/internal/db"
	"github.com/Kroz113/JulyCoins/internal/handlers"
	"github.com/Kroz113/JulyCoins/internal/services"
	"github.com/Kroz113/JulyCoins/internal/store"
	"github.com/Kroz113/JulyCoins/internal/upload"
	"github.com/Kroz113/JulyCoins/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	tasks := store.NewTaskStore(database)
	submissions := store.NewSubmissionStore(database)
	auctions := store.NewAuctionStore(database)
	bids := store.NewBidStore(database)
	ledger := store.NewLedgerStore(database)
	audit := store.NewAuditStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()

	saver, err := upload.NewSaver(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		log.Fatalf("failed to prepare upload dir: %v", err)
	}

	submissionService := services.NewSubmissionService(txRunner, tasks, submissions, ledger, hub)
	auctionService := services.NewAuctionService(txRunner, auctions, bids, ledger, hub)
	statsService := services.NewStatsService(users, tasks, submissions, auctions, ledger, cfg.InflationRate)

	handler := handlers.New(cfg, txRunner, users, tasks, submissions, auctions, bids, ledger, audit, submissionService, auctionService, statsService, saver, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("JulyCoins API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
