package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mesobgames/crash-backend/internal/api"
	"github.com/mesobgames/crash-backend/internal/api/handlers"
	"github.com/mesobgames/crash-backend/internal/auth"
	"github.com/mesobgames/crash-backend/internal/config"
	"github.com/mesobgames/crash-backend/internal/db"
	"github.com/mesobgames/crash-backend/internal/game"
	"github.com/mesobgames/crash-backend/internal/logger"
	"github.com/mesobgames/crash-backend/internal/metrics"
	"github.com/mesobgames/crash-backend/internal/middleware"
	"github.com/mesobgames/crash-backend/internal/notify"
	"github.com/mesobgames/crash-backend/internal/repository/postgres"
	"github.com/mesobgames/crash-backend/internal/services"
	"github.com/mesobgames/crash-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)

	notifier := notify.NewKafkaNotifier(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer func() { _ = notifier.Close() }()

	// stopped before the notifier closes so queued notifications drain
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	oracle := game.LinearCurve{Rate: cfg.CurveRate, Max: cfg.MaxMultiplier}

	accountSvc := services.NewAccountService(repos.Accounts, cfg.SeedBalance)
	settlementSvc := services.NewSettlementService(
		repos.Ledger,
		repos.AuditLogs,
		oracle,
		notifier,
		wp,
		cfg.FraudTolerance,
		cfg.MaxMultiplier,
	)

	metrics.Init()
	r := api.NewRouter(cfg,
		handlers.NewAuthHandler(tm, accountSvc, cfg.BotToken, cfg.InitDataMaxAge),
		handlers.NewGameHandler(settlementSvc, accountSvc),
		middleware.NewAuthMiddleware(tm),
	)

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
