package health

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/pkg/lifecycle"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

const (
	checkInterval = 5 * time.Second
	pingTimeout   = 2 * time.Second
)

var runIDPattern = regexp.MustCompile(`run_id:([a-f0-9]+)`)

// getRedisRunID 从Redis服务器信息中提取run_id。
func getRedisRunID() (string, error) {
	ctx, cancel := context.WithTimeout(database.Ctx, pingTimeout)
	defer cancel()
	info, err := database.RDB.Info(ctx, "server").Result()
	if err != nil {
		return "", err
	}
	matches := runIDPattern.FindStringSubmatch(info)
	if len(matches) < 2 {
		return "", fmt.Errorf("无法在Redis INFO中找到run_id")
	}
	return matches[1], nil
}

// InitializeRunID 启动时阻塞式获取初始run_id。
// 共享缓存是必需依赖，拿不到就拒绝启动。
func InitializeRunID() {
	runID, err := getRedisRunID()
	if err != nil {
		panic(fmt.Sprintf("无法在启动时获取Redis Run ID，请检查Redis服务: %v", err))
	}
	database.SetInitialRunID(runID)
	logger.Infof("获取初始Redis Run ID成功: %s", runID)
}

// PerformCheck 执行一次健康检查。
// run_id变化说明Redis重启、缓存已全部蒸发。本服务的缓存都是
// 带TTL的读穿缓存，冷缓存只是慢不是错，记一条日志并恢复可用即可。
func PerformCheck() {
	currentRunID, err := getRedisRunID()
	if err != nil {
		database.UpdateStatus(false, "")
		return
	}

	lastKnownRunID := database.GetLastKnownRunID()
	if currentRunID != lastKnownRunID && lastKnownRunID != "" {
		logger.Warnf("检测到Redis重启 (run_id: %s -> %s)，读穿缓存将自动回源重建", lastKnownRunID, currentRunID)
	}
	database.UpdateStatus(true, currentRunID)
}

// StartRedisHealthCheck 启动后台健康检查循环。
func StartRedisHealthCheck(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		logger.Info("Redis健康检查器已启动")
		for {
			if err := handle.Sleep(checkInterval); err != nil {
				return
			}
			PerformCheck()
		}
	}()
}
