package bank

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/7283111011/FLK2/internal/config"
	"github.com/7283111011/FLK2/internal/questionset"
	"github.com/7283111011/FLK2/internal/questionset/postgres"
	"github.com/7283111011/FLK2/internal/questionset/sqlite"
)

// Open returns the question set repository selected by cfg.Driver and a
// function that releases it.
func Open(ctx context.Context, cfg config.BankConfig, logger *zap.Logger) (questionset.Repository, func(), error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.BankMemory:
		logger.Info("using in-memory question bank")
		return questionset.NewMemoryRepository(), func() {}, nil

	case config.BankSQLite:
		store, err := sqlite.NewStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite bank: %w", err)
		}
		logger.Info("using sqlite question bank", zap.String("path", cfg.SQLitePath))
		return store, func() {
			if err := store.Close(); err != nil {
				logger.Warn("close sqlite bank", zap.Error(err))
			}
		}, nil

	case config.BankPostgres:
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN, postgres.PoolConfig{
			MaxConns:        cfg.MaxConnections,
			MaxConnLifetime: cfg.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres bank: %w", err)
		}
		store := postgres.NewStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("prepare postgres bank: %w", err)
		}
		logger.Info("using postgres question bank")
		return store, pool.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown bank driver %q", cfg.Driver)
}
