package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/audit"
	"github.com/SoyuzCL/pos-panchita/internal/config"
	"github.com/SoyuzCL/pos-panchita/internal/infra"
	"github.com/SoyuzCL/pos-panchita/internal/middleware"
	"github.com/SoyuzCL/pos-panchita/internal/repository"
	"github.com/SoyuzCL/pos-panchita/internal/router"
	"github.com/SoyuzCL/pos-panchita/internal/worker"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev pretty, prod JSON
	if cfg.IsProduction() {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if rdb == nil {
		log.Warn().Msg("REDIS_URL not set: receipt and email jobs are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Worker handlers are wired here (composition root) so the pool has
	// access to the mailer and the sale store.
	var pool *worker.Pool
	if rdb != nil {
		dispatcher := worker.NewDispatcher(rdb)
		pool = worker.NewPool(rdb, map[string]worker.Processor{
			worker.QueueReceipt: worker.NewReceiptWorker(repository.NewSaleRepository(db), dispatcher, worker.ReceiptWorkerConfig{
				StoreName:      cfg.StoreName,
				StoragePath:    cfg.ReceiptStoragePath,
				DefaultEmail:   cfg.ReceiptEmailTo,
				PrinterEnabled: cfg.PrinterEnabled,
			}),
			worker.QueueEmail: worker.NewEmailWorker(infra.NewMailer(cfg), infra.NewCircuitBreaker(5, time.Minute)),
		})
		pool.Start(ctx, cfg.WorkerPoolSize)
	}

	auditWriter := audit.NewWriter(repository.NewActionLogRepository(db), cfg.AuditBufferSize)
	loginLimiter := middleware.NewLoginLimiter()
	go loginLimiter.RunPurge(ctx)

	r := router.New(cfg, router.Deps{
		DB:           db,
		Redis:        rdb,
		Audit:        auditWriter,
		LoginLimiter: loginLimiter,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      gzhttp.GzipHandler(r),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("POS backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// No more requests: flush pending audit entries, then stop the workers.
	auditWriter.Close()
	cancel()
	if pool != nil {
		pool.Wait()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	log.Info().Msg("server exited")
}
