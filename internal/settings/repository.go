package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// --- Redis 键名常量 ---

const (
	// SnapshotKey 缓存设置单例的JSON快照。
	SnapshotKey = "settings:snapshot"
)

// cacheTTL 是快照缓存的生存时间，由setup时注入配置值。
var cacheTTL = 30 * time.Second

// GetSnapshot 以读穿方式获取设置快照。
// 缓存命中后仍会用一条轻量的updated_at查询确认新鲜度，
// 管理端改动因此最多延迟一次读取即可见。
func GetSnapshot() (Snapshot, error) {
	cached, err := database.RDB.Get(database.Ctx, SnapshotKey).Result()
	if err == nil {
		var snap Snapshot
		if jsonErr := json.Unmarshal([]byte(cached), &snap); jsonErr == nil {
			if isFresh(snap.UpdatedAt) {
				metrics.IncrCounter(metrics.CounterCacheHit)
				return snap, nil
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		// 缓存故障时直接回源数据库，不中断请求
		logger.Warnf("读取设置缓存失败，回源数据库: %v", err)
	}

	metrics.IncrCounter(metrics.CounterCacheMiss)
	return loadAndCache()
}

// isFresh 比较缓存快照与数据库行的updatedAt。
func isFresh(cachedUpdatedAt time.Time) bool {
	var updatedAt time.Time
	err := database.DB.Model(&Settings{}).
		Where("id = ?", singletonID).
		Pluck("updated_at", &updatedAt).Error
	if err != nil {
		return false
	}
	return !updatedAt.After(cachedUpdatedAt)
}

// loadAndCache 从数据库读取设置行并回填缓存。
func loadAndCache() (Snapshot, error) {
	var row Settings
	if err := database.DB.First(&row, singletonID).Error; err != nil {
		return Snapshot{}, fmt.Errorf("无法加载游戏设置: %w", err)
	}
	snap := newSnapshot(&row)

	if data, err := json.Marshal(snap); err == nil {
		if err := database.RDB.Set(database.Ctx, SnapshotKey, data, cacheTTL).Err(); err != nil {
			logger.Warnf("回填设置缓存失败: %v", err)
		}
	}
	return snap, nil
}

// InvalidateCache 删除快照缓存，写路径在每次设置变更后调用。
// 缓存不可用时跳过：快照自带updated_at新鲜度校验，恢复后会自动回源。
func InvalidateCache() {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Del(database.Ctx, SnapshotKey).Err(); err != nil {
		logger.Warnf("删除设置缓存失败: %v", err)
	}
}
