package app

import (
	"database/sql"
	"fmt"

	"go-empower/internal/config"
	"go-empower/internal/shared/connection"
	"go-empower/internal/shared/migration"
	"go-empower/migrations"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and registers every module on router.
// The returned cleanup closes the connections it opened.
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L().Named("app")

	if cfg.MigrateOnStart {
		if err := migrateUp(cfg); err != nil {
			return nil, err
		}
		logger.Info("database migrations applied")
	}

	gormDB, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), cfg.Database.MaxRetries)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Database.MaxRetries)
	if err != nil {
		sqlDB.Close()
		return nil, err
	}
	if redisClient != nil {
		logger.Info("redis connection established")
	} else {
		logger.Warn("REDIS_ADDR not set, stats cache and idempotency disabled")
	}

	registerModules(router, sqlDB, gormDB, redisClient, cfg)

	return func() { closeAll(sqlDB, redisClient, logger) }, nil
}

func migrateUp(cfg config.Config) error {
	runner, err := migration.New(migrations.FS, cfg.Database.URL())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer runner.Close()

	if err := runner.Up(); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func closeAll(db *sql.DB, rdb *redis.Client, logger *zap.Logger) {
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Warn("close redis failed", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		logger.Warn("close database failed", zap.Error(err))
	}
}
