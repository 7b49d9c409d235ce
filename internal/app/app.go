package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yash031299/ReviewApplication-sub000/internal/config"
	"github.com/yash031299/ReviewApplication-sub000/internal/event"
	handlerhttp "github.com/yash031299/ReviewApplication-sub000/internal/handler/http"
	"github.com/yash031299/ReviewApplication-sub000/internal/repository"
	"github.com/yash031299/ReviewApplication-sub000/internal/service"
	"github.com/yash031299/ReviewApplication-sub000/pkg/database"
	"github.com/yash031299/ReviewApplication-sub000/pkg/health"
	pkgkafka "github.com/yash031299/ReviewApplication-sub000/pkg/kafka"
)

// App owns every long-lived dependency of the review service.
type App struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	producer *pkgkafka.Producer
	server   *http.Server
}

// NewApp wires the storage backend, event producer, service, and HTTP
// router. Backend selection happens exactly once, here.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var pool *pgxpool.Pool
	var db database.DBTX
	if cfg.StorageBackend == config.BackendPostgres {
		poolCfg := database.DefaultPoolConfig()
		poolCfg.MaxConns = cfg.DBMaxConns
		poolCfg.MinConns = cfg.DBMinConns

		var err error
		pool, err = database.NewPostgresPool(ctx, cfg.PostgresDSN(), poolCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		db = pool
	}

	store, err := repository.New(ctx, cfg.StorageBackend, db)
	if err != nil {
		if pool != nil {
			pool.Close()
		}
		return nil, fmt.Errorf("create review store: %w", err)
	}

	var kafkaProducer *pkgkafka.Producer
	if len(cfg.KafkaBrokers) > 0 && cfg.KafkaBrokers[0] != "" {
		kafkaProducer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
	}

	reviewService := service.NewReviewService(store, event.NewProducer(kafkaProducer, logger), logger)

	healthHandler := health.NewHandler()
	if pool != nil {
		healthHandler.Register("postgres", func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
	}

	router := handlerhttp.NewRouter(reviewService, healthHandler, logger)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   logger,
		pool:     pool,
		producer: kafkaProducer,
		server:   server,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.close()
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.close()
	return nil
}

func (a *App) close() {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Warn("close kafka producer", slog.String("error", err.Error()))
		}
	}
	if a.pool != nil {
		a.pool.Close()
	}
}
