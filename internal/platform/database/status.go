package database

import (
	"sync"

	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

// statusManager 线程安全地维护Redis的健康状态。
// 运行期间Redis不可用时写路径仍然照常落库，只是缓存失效操作会被跳过；
// 健康检查器负责在恢复后刷新状态。
type statusManager struct {
	mu             sync.RWMutex
	isRedisHealthy bool
	lastKnownRunID string
}

var globalStatus = &statusManager{
	isRedisHealthy: true, // 启动流程已经验证过连接
}

// IsRedisHealthy 返回当前Redis的健康状态。
func IsRedisHealthy() bool {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.isRedisHealthy
}

// SetInitialRunID 在启动时记录初始的Redis run_id。
func SetInitialRunID(runID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()
	globalStatus.lastKnownRunID = runID
}

// UpdateStatus 线程安全地更新健康状态，状态翻转时打印日志。
func UpdateStatus(isHealthy bool, newRunID string) {
	globalStatus.mu.Lock()
	defer globalStatus.mu.Unlock()

	if globalStatus.isRedisHealthy != isHealthy {
		globalStatus.isRedisHealthy = isHealthy
		if isHealthy {
			logger.Info("健康检查: Redis服务状态已更新为 [可用]")
		} else {
			logger.Error("健康检查: Redis服务状态已更新为 [不可用]")
		}
	}

	if isHealthy {
		globalStatus.lastKnownRunID = newRunID
	}
}

// GetLastKnownRunID 线程安全地读取已知的run_id。
func GetLastKnownRunID() string {
	globalStatus.mu.RLock()
	defer globalStatus.mu.RUnlock()
	return globalStatus.lastKnownRunID
}
