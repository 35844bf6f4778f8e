package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veo1/supplier-registry/config"
	"github.com/veo1/supplier-registry/logging"
)

// Open creates the backend named by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig, logCfg config.LogConfig, logger *zap.Logger) (Store, error) {
	gormCfg := &gorm.Config{
		Logger:                 logging.NewGormLogger(logger, logCfg),
		SkipDefaultTransaction: true,
	}

	switch cfg.Driver {
	case config.DriverMemory:
		logger.Warn("using in-memory storage, records will not survive a restart")
		return NewMemoryStore(), nil

	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, unavailable("create sqlite directory", err)
			}
		}
		logger.Info("using sqlite storage", zap.String("path", cfg.SQLite.Path))
		store, err := OpenSQLite(cfg.SQLite.Path, gormCfg)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverPostgres:
		logger.Info("using postgres storage",
			zap.String("host", cfg.Postgres.Host),
			zap.String("dbname", cfg.Postgres.DBName),
		)
		store, err := OpenPostgres(ctx, cfg.Postgres.DSN(), gormCfg)
		if err != nil {
			return nil, err
		}
		return store, nil

	case config.DriverRedis:
		logger.Info("using redis storage",
			zap.String("host", cfg.Redis.Host),
			zap.Int("port", cfg.Redis.Port),
		)
		store, err := NewRedisStore(ctx, RedisConfig{
			Host:      cfg.Redis.Host,
			Port:      cfg.Redis.Port,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Redis.Namespace,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}
