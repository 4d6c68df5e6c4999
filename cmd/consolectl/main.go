// consolectl 运维命令行：检查、迁移、重置共享快照，离线导出
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	applogger "github.com/TBosstradamus/pasha-vorschau-sub000/pkg/logger"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

// app 子命令共享的运行环境
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	repo   *repository.Repository
	close  func()
}

func main() {
	var configPath string

	root := &cobra.Command{
		Use:           "consolectl",
		Short:         "调度台共享快照运维工具",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认 ./config/config.yaml）")

	open := func(ctx context.Context) (*app, error) {
		return openApp(ctx, configPath)
	}
	root.AddCommand(newSnapshotCmd(open), newExportCmd(open))

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func openApp(_ context.Context, configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	// 命令行输出走 stdout，日志只保留告警
	cfg.Log.Format = "console"
	if cfg.Log.Level == "info" || cfg.Log.Level == "debug" {
		cfg.Log.Level = "warn"
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, err
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return nil, err
		}
	}
	repo, closeRepo, err := repository.Open(cfg, rdb, logger)
	if err != nil {
		if rdb != nil {
			rdb.Close()
		}
		return nil, err
	}

	return &app{
		cfg:    cfg,
		logger: logger,
		repo:   repo,
		close: func() {
			closeRepo()
			if rdb != nil {
				rdb.Close()
			}
			logger.Sync()
		},
	}, nil
}
