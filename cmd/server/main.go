package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/config"
	"github.com/wasssssim/verger-du-coin/internal/infra"
	"github.com/wasssssim/verger-du-coin/internal/repository"
	"github.com/wasssssim/verger-du-coin/internal/router"
	"github.com/wasssssim/verger-du-coin/internal/service"
	"github.com/wasssssim/verger-du-coin/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title           Verger du Coin API
// @version         1.0
// @description     Point of sale, stock and loyalty backend of the farm shop.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogger(cfg)

	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBMigrations)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL empty: price cache and receipt emails disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mailCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	mailer := infra.NewMailer(cfg, mailCB)

	// Worker handlers are wired here so the pool sees every infrastructure dependency
	if rdb != nil {
		receipts := worker.NewReceiptWorker(repository.NewSaleRepository(db), mailer, cfg.ShopName, cfg.ReceiptStoragePath)
		pool := worker.NewPool(rdb, map[string]worker.Handler{worker.JobTypeReceipt: receipts})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	if cfg.ReportLocationCode != "" {
		reports := service.NewReportService(
			repository.NewDailyReportRepository(db),
			repository.NewSaleRepository(db),
			repository.NewLocationRepository(db),
		)
		if _, err := worker.StartReportCron(ctx, reports, cfg.ReportLocationCode, cfg.ReportCronAt); err != nil {
			log.Fatal().Err(err).Str("at", cfg.ReportCronAt).Msg("invalid REPORT_CRON_AT")
		}
	}

	r := router.New(cfg, db, rdb, mailCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("Verger du Coin backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel() // stops workers and the report cron
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}

// setupLogger writes JSON in production and a console format elsewhere.
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Env != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
