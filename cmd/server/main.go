package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SlpAus/daily-play-backend/api"
	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/health"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/internal/platform/shutdown"
	"github.com/SlpAus/daily-play-backend/internal/platform/startup"
	"github.com/SlpAus/daily-play-backend/internal/rollover"
	"github.com/SlpAus/daily-play-backend/pkg/lifecycle"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env仅用于本地开发，缺失不是错误
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}

	database.InitDB(cfg.Database)
	database.InitRedis(cfg.Database.Redis)

	// 阻塞式获取初始Run ID：缓存是必需依赖，拿不到就不启动
	health.InitializeRunID()

	if err := startup.InitializeApplication(cfg); err != nil {
		panic(fmt.Sprintf("应用初始化失败，无法启动: %v", err))
	}

	// 后台服务统一挂在生命周期管理器上
	manager := lifecycle.NewManager()

	healthHandle, err := manager.NewServiceHandle("redis-health-checker")
	if err != nil {
		panic(err)
	}
	health.StartRedisHealthCheck(healthHandle)

	metricsHandle, err := manager.NewServiceHandle("metrics-reporter")
	if err != nil {
		panic(err)
	}
	metrics.StartReporter(metricsHandle)

	rolloverHandle, err := manager.NewServiceHandle("rollover-scheduler")
	if err != nil {
		panic(err)
	}
	if err := rollover.StartScheduler(cfg.Scheduler.RolloverCron, rolloverHandle); err != nil {
		panic(fmt.Sprintf("启动周轮转调度器失败: %v", err))
	}

	gin.SetMode(ginMode(cfg.Server.Mode))
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.Cors.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api.SetupRoutes(r)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		logger.Infof("服务器已准备就绪，开始监听 %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic("Failed to start server: " + err.Error())
		}
	}()

	coordinator := shutdown.NewCoordinator(manager)
	coordinator.ListenForSignalsAndShutdown(server)
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}
