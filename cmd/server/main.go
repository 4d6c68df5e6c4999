package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/TBosstradamus/pasha-vorschau-sub000/config"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/api/handler"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/api/router"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/repository"
	"github.com/TBosstradamus/pasha-vorschau-sub000/internal/service"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/broker"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/jwt"
	applogger "github.com/TBosstradamus/pasha-vorschau-sub000/pkg/logger"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/metrics"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/pubsub"
	"github.com/TBosstradamus/pasha-vorschau-sub000/pkg/redis"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("DISPATCH_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("storage", cfg.Storage.Driver),
	)

	// 3. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Warn("Redis 连接失败，黑名单、限流与跨进程同步将不可用", zap.Error(err))
			rdb = nil
		}
	}

	// 4. 打开存储
	repo, closeRepo, err := repository.Open(cfg, rdb, logger)
	if err != nil {
		logger.Fatal("存储初始化失败", zap.Error(err))
	}

	// 5. 事件总线：有 Redis 时跨进程广播，否则进程内广播
	var bus pubsub.Bus = pubsub.NewMemoryBus()
	if rdb != nil {
		bus = rdb.NewBus(cfg.Sync.Channel)
	}

	// 6. 指标
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// 7. 依赖注入: Repository → Service → Handler
	deps := service.Deps{
		Config:  cfg,
		Repo:    repo,
		Bus:     bus,
		JWT:     jwt.NewManager(&cfg.Auth),
		Metrics: metrics.New(reg),
		Logger:  logger,
	}
	if rdb != nil {
		deps.Blacklist = rdb
	}
	var producer *broker.Producer
	if cfg.Audit.Enabled() {
		producer = broker.NewProducer(logger, cfg.Audit.Brokers, cfg.Audit.Topic)
		deps.Audit = producer
	}
	svc := service.NewService(deps)
	h := handler.NewHandler(svc)

	reaperCtx, stopReaper := context.WithCancel(context.Background())
	go svc.Tabs.RunReaper(reaperCtx, cfg.Auth.TabReapInterval)

	// 8. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(router.Deps{
		Config:    cfg,
		Handler:   h,
		Tabs:      svc.Tabs,
		JWT:       deps.JWT,
		Blacklist: deps.Blacklist,
		Redis:     rdb,
		Gatherer:  reg,
		Logger:    logger,
	})

	// 9. 启动 HTTP 服务器（优雅关闭）
	// WriteTimeout 为 0：SSE 连接长期保持
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	// 先关闭标签页，SSE 连接随之结束
	stopReaper()
	svc.Tabs.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if producer != nil {
		producer.Close()
	}
	closeRepo()
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
