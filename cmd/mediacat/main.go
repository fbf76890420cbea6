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

	"go.uber.org/zap"

	"github.com/kailas-cloud/mediacat/internal/config"
	"github.com/kailas-cloud/mediacat/internal/db/driver"
	logpkg "github.com/kailas-cloud/mediacat/internal/logger"
	"github.com/kailas-cloud/mediacat/internal/metrics"
	recordrepo "github.com/kailas-cloud/mediacat/internal/repository/record"
	chiTransport "github.com/kailas-cloud/mediacat/internal/transport/chi"
	healthuc "github.com/kailas-cloud/mediacat/internal/usecase/health"
	homeuc "github.com/kailas-cloud/mediacat/internal/usecase/home"
	queryuc "github.com/kailas-cloud/mediacat/internal/usecase/query"
	recorduc "github.com/kailas-cloud/mediacat/internal/usecase/record"
	uploaduc "github.com/kailas-cloud/mediacat/internal/usecase/upload"
	"github.com/kailas-cloud/mediacat/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mediacat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.String("storage_path", cfg.Storage.Path),
		zap.Strings("storage_addrs", cfg.Storage.Addrs),
	)

	store, err := driver.Open(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Storage.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Storage not ready", zap.Error(err))
	}
	logger.Info("Connected to storage")

	// Register query metrics explicitly (no init())
	metrics.RegisterQueryMetrics()

	repo := recordrepo.New(store)

	engine := queryuc.NewEngine(
		queryuc.WithFuzzyThreshold(*cfg.Query.FuzzyThreshold),
		queryuc.WithCollation(cfg.CollationTag()),
	)
	querySvc := queryuc.New(repo, engine)
	recordSvc := recorduc.New(repo)

	buckets := make([]homeuc.Bucket, 0, len(cfg.Home.Buckets))
	for _, b := range cfg.Home.Buckets {
		buckets = append(buckets, homeuc.Bucket{Title: b.Title, Tag: b.Tag})
	}
	homeSvc := homeuc.New(repo, buckets)

	uploadSvc, err := uploaduc.New(uploaduc.Config{
		Dir:           cfg.Upload.Dir,
		MaxBytes:      cfg.Upload.MaxBytes,
		AllowedTypes:  cfg.Upload.AllowedTypes,
		PublicBaseURL: cfg.Upload.PublicBaseURL,
	})
	if err != nil {
		logger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	healthSvc := healthuc.New(store, uploadSvc)

	server := chiTransport.NewServer(
		querySvc, recordSvc, homeSvc, uploadSvc, healthSvc,
		chiTransport.Limits{
			DefaultPageSize: cfg.Query.DefaultPageSize,
			MaxPageSize:     cfg.Query.MaxPageSize,
		},
		logger,
	)
	handler := chiTransport.NewRouter(server, chiTransport.RouterConfig{CORSOrigins: cfg.HTTP.CORSOrigins})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
