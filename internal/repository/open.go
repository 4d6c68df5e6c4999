package repository

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/database"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

// Open 按 storage.driver 与 storage.session_driver 组装 Repository。
// rdb 在选择 redis 驱动时必须非 nil。返回的 closer 释放数据库连接。
func Open(cfg *config.Config, rdb *redis.Client, logger *zap.Logger) (*Repository, func(), error) {
	closer := func() {}

	var storage StorageRepository
	switch cfg.Storage.Driver {
	case "postgres":
		db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
		if err != nil {
			return nil, closer, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, closer, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
		}
		closer = func() { sqlDB.Close() }

		if _, err := database.RunMigrations(sqlDB, logger); err != nil {
			closer()
			return nil, func() {}, err
		}
		storage = NewStorageRepo(db)
	case "redis":
		if rdb == nil {
			return nil, closer, fmt.Errorf("storage.driver=redis 但 Redis 不可用")
		}
		storage = NewRedisStorageRepo(rdb)
	default:
		storage = NewMemoryStorage()
	}

	var session SessionRepository
	switch cfg.Storage.SessionDriver {
	case "redis":
		if rdb == nil {
			closer()
			return nil, func() {}, fmt.Errorf("storage.session_driver=redis 但 Redis 不可用")
		}
		session = NewRedisSessionRepo(rdb, cfg.Auth.SessionTTL)
	default:
		session = NewMemorySessions()
	}

	logger.Info("存储已就绪",
		zap.String("driver", cfg.Storage.Driver),
		zap.String("session_driver", cfg.Storage.SessionDriver),
	)
	return NewRepository(storage, session), closer, nil
}
