package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bistro/internal/config"
	"bistro/internal/infra"
	"bistro/internal/repository"
	"bistro/internal/router"
	"bistro/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger: pretty in development, JSON in production
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 15*time.Second)
	client, db, err := infra.NewMongo(connectCtx, cfg.MongoConnectionURI(), cfg.DBName)
	if err == nil {
		err = repository.EnsureIndexes(connectCtx, db)
	}
	connectCancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongodb")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	breaker := infra.NewCircuitBreaker(infra.DefaultBreakerConfig())
	stripe := infra.NewStripeProcessor(cfg.PaymentSecretKey, breaker)

	deps := router.MongoDeps(db)
	deps.Redis = rdb
	deps.Processor = stripe
	deps.BreakerState = func() string { return stripe.BreakerState().String() }

	// Receipt workers need Redis; without it checkout simply skips receipts.
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		deps.Receipts = dispatcher

		handlers := &worker.WorkerHandlers{
			Receipt: worker.NewReceiptWorker(deps.Payments, deps.Menu, dispatcher, cfg.ReceiptStoragePath),
			Email:   worker.NewEmailWorker(infra.NewMailer(cfg)),
		}
		worker.NewPool(rdb, handlers).Start(ctx, cfg.WorkerPoolSize)
	} else {
		log.Warn().Msg("REDIS_URL not set: menu cache and receipt workers disabled")
	}

	r := router.New(ctx, cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("bistro backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := client.Disconnect(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("mongodb disconnect")
	}
	log.Info().Msg("server exited")
}
