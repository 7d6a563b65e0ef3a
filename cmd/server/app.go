package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/plasticlens/backend/config"
	httpDelivery "github.com/plasticlens/backend/internal/delivery/http"
	"github.com/plasticlens/backend/internal/delivery/mcp"
	"github.com/plasticlens/backend/internal/domain"
	"github.com/plasticlens/backend/internal/infrastructure/cache"
	"github.com/plasticlens/backend/internal/infrastructure/dataset"
	"github.com/plasticlens/backend/internal/logging"
	"github.com/plasticlens/backend/internal/metrics"
	"github.com/plasticlens/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// app is the wired process: config, logger, dataset and query service.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *usecase.QueryService
	closers []func() error
}

// bootstrap loads configuration and the dataset. A dataset that cannot be
// loaded is fatal.
func bootstrap(ctx context.Context, opts *options) (*app, error) {
	cfg, err := config.Load(opts.configPath, config.Overrides{
		DatasetSource: opts.dataset,
		LogLevel:      opts.logLevel,
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}

	store, err := dataset.Load(ctx, cfg.Dataset.Source, dataset.LoaderConfig{
		FetchTimeout: cfg.Dataset.FetchTimeout,
		Logger:       logger,
	})
	if err != nil {
		logger.Error("failed to load dataset",
			zap.String("source", cfg.Dataset.Source),
			zap.Error(err),
		)
		_ = logger.Sync()
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	metrics.SetDatasetRecords(store.Len())

	var repo domain.CacheRepository
	if cfg.CacheEnabled() {
		memoryCache := cache.NewMemoryCache(cache.WithSizeReporter(metrics.SetCacheEntries))
		a.closers = append(a.closers, memoryCache.Close)
		repo = memoryCache
	}

	a.service = usecase.NewQueryService(store, repo, usecase.QueryServiceConfig{
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})

	logger.Info("plasticlens ready",
		zap.String("version", cfg.MCP.Version),
		zap.String("environment", cfg.Server.Environment),
		zap.Int("records", store.Len()),
		zap.String("cache", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	return a, nil
}

// Close releases background resources and flushes the logger.
func (a *app) Close() {
	for _, closeFn := range a.closers {
		if err := closeFn(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func runMCP(ctx context.Context, opts *options) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: a.cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go a.listen(srv, "metrics")
		defer a.shutdown(srv)
	}

	server := mcp.NewServer(a.service, mcp.Config{
		Name:    a.cfg.MCP.Name,
		Version: a.cfg.MCP.Version,
	}, a.logger)

	a.logger.Info("serving MCP on stdio", zap.String("name", a.cfg.MCP.Name))
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func runHTTP(ctx context.Context, opts *options) error {
	ctx, stop := signalContext(ctx)
	defer stop()

	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	handler := httpDelivery.NewHandler(a.service, a.cfg.MCP.Version)
	router := httpDelivery.SetupRouter(a.cfg, handler, a.logger)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	a.shutdown(srv)
	return nil
}

func (a *app) listen(srv *http.Server, name string) {
	a.logger.Info("listener started", zap.String("name", name), zap.String("addr", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.logger.Error("listener failed", zap.String("name", name), zap.Error(err))
	}
}

func (a *app) shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		a.logger.Warn("graceful shutdown failed", zap.String("addr", srv.Addr), zap.Error(err))
	}
}
