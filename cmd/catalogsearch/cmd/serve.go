package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogsearch/internal/config"
	"github.com/kailas-cloud/catalogsearch/internal/db"
	dbBleve "github.com/kailas-cloud/catalogsearch/internal/db/bleve"
	dbRedis "github.com/kailas-cloud/catalogsearch/internal/db/redis"
	"github.com/kailas-cloud/catalogsearch/internal/metrics"
	"github.com/kailas-cloud/catalogsearch/internal/repository/catalogindex"
	chiTransport "github.com/kailas-cloud/catalogsearch/internal/transport/chi"
	healthuc "github.com/kailas-cloud/catalogsearch/internal/usecase/health"
	indexinguc "github.com/kailas-cloud/catalogsearch/internal/usecase/indexing"
	searchuc "github.com/kailas-cloud/catalogsearch/internal/usecase/search"
	"github.com/kailas-cloud/catalogsearch/internal/version"
)

func newServeCmd(a *app) *cobra.Command {
	var ensureIndex bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx, ensureIndex)
		},
	}
	cmd.Flags().BoolVar(&ensureIndex, "ensure-index", true, "Create the search index on startup when missing")
	return cmd
}

func (a *app) serve(ctx context.Context, ensureIndex bool) error {
	cfg, logger := a.cfg, a.logger

	logger.Info("Starting catalogsearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", a.env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("index", cfg.Index.Name),
		zap.Int("catalog_indexes", len(a.catalog.IndexNames())),
	)

	store, err := newStore(cfg.Database)
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	defer store.Close()

	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	metrics.RegisterAdapterMetrics()

	repo := catalogindex.New(store, cfg.Index.Name)
	indexing := indexinguc.New(a.catalog, a.registry, repo, logger).
		WithWorkers(cfg.Indexing.Workers).
		WithMaxBatchSize(cfg.Index.MaxBatchSize)
	search := searchuc.New(a.catalog, a.registry, repo, logger)
	health := healthuc.New(store, repo)

	if ensureIndex {
		created, err := indexing.EnsureIndex(ctx)
		if err != nil {
			return fmt.Errorf("ensure index: %w", err)
		}
		logger.Info("Search index ready", zap.String("index", cfg.Index.Name), zap.Bool("created", created))
	}

	server := chiTransport.NewServer(indexing, search, health, logger).
		WithPagination(cfg.Index.DefaultPageSize, cfg.Index.MaxPageSize).
		WithMaxBatchSize(cfg.Index.MaxBatchSize)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Router(cfg.Auth.APIKeys),
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
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
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// newStore creates the search engine store selected by the database driver.
func newStore(cfg config.DatabaseConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverBleve:
		return dbBleve.NewStore(dbBleve.Config{Path: cfg.Path})
	case config.DriverRedis:
		return dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.Addrs,
			Password:  cfg.Password,
			KeyPrefix: cfg.KeyPrefix,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}
