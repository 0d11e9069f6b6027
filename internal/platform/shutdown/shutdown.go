package shutdown

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SlpAus/daily-play-backend/pkg/lifecycle"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

// Coordinator 编排应用的优雅停机流程。
type Coordinator struct {
	Manager *lifecycle.Manager
}

// NewCoordinator 创建停机协调器。
func NewCoordinator(manager *lifecycle.Manager) *Coordinator {
	return &Coordinator{Manager: manager}
}

// ListenForSignalsAndShutdown 阻塞监听停机信号并完成停机。
// 先关HTTP让在途请求收尾，再广播停机信号让后台服务
// （轮转调度器、指标汇报器、健康检查器）退出。
func (c *Coordinator) ListenForSignalsAndShutdown(server *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	logger.Info("收到关闭信号，开始优雅停机...")

	httpTimeout := 15 * time.Second
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), httpTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("HTTP服务器关闭错误: %v", err)
	} else {
		logger.Info("HTTP服务器已关闭。")
	}

	gracefulTimeout := 30 * time.Second
	c.Manager.Shutdown()

	remaining := c.Manager.WaitWithTimeout(gracefulTimeout)
	if len(remaining) == 0 {
		logger.Info("所有后台服务已优雅关闭。")
	} else {
		logger.Warnf("停机超时，以下服务未能按时退出: %v", remaining)
	}

	logger.Info("优雅停机完成。")
}
