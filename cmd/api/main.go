package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bhavanapatidar/goalsaver/internal/advisor"
	"github.com/bhavanapatidar/goalsaver/internal/config"
	"github.com/bhavanapatidar/goalsaver/internal/handler"
	"github.com/bhavanapatidar/goalsaver/internal/jobs"
	"github.com/bhavanapatidar/goalsaver/internal/ratelimit"
	"github.com/bhavanapatidar/goalsaver/internal/repository"
	"github.com/bhavanapatidar/goalsaver/internal/service"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional audit trail
	var audit service.AuditStore
	if cfg.AuditEnabled() {
		db, err := repository.Open(ctx, cfg.AuditDriver, cfg.AuditDSN)
		if err != nil {
			logger.Fatalf("Failed to connect to audit database: %v", err)
		}
		defer db.Close()

		repo := repository.NewRepository(db, cfg.AuditDriver)
		if err := repo.Migrate(ctx); err != nil {
			logger.Fatalf("Failed to migrate audit database: %v", err)
		}
		audit = repo

		scheduler, err := jobs.NewScheduler(cfg.AuditPruneSchedule, jobs.NewRetentionJob(repo, cfg.AuditRetention, logger))
		if err != nil {
			logger.Fatalf("Failed to schedule audit retention: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
		logger.Infof("Audit trail enabled (%s, retention %s)", cfg.AuditDriver, cfg.AuditRetention)
	}

	// Optional rate limiting
	opts := handler.RouterOptions{Logger: logger, JWTSecret: cfg.JWTSecret}
	if cfg.RateLimitEnabled() {
		limiter, err := ratelimit.NewRedisLimiter(cfg.RedisAddr, cfg.RateLimitRequests, cfg.RateLimitWindow)
		if err != nil {
			logger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer limiter.Close()
		opts.Limiter = limiter
		logger.Infof("Rate limiting enabled (%d requests per %s)", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	if cfg.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set, advisor routes are unauthenticated")
	}

	// Initialize layers
	svc := service.NewService(advisor.New(), audit, logger)
	h := handler.NewHandler(svc, logger)
	r := handler.NewRouter(h, opts)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}
}
