// Package metrics 实现一个只进不等的指标汇集器。
// 核心路径通过带缓冲的channel投递事件，满了直接丢弃，绝不阻塞提交流程；
// 后台汇报器批量把计数写入Redis哈希，供运维侧抓取。
package metrics

import (
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/pkg/lifecycle"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

// --- 计数器名 ---

const (
	CounterCacheHit          = "cache_hit"
	CounterCacheMiss         = "cache_miss"
	CounterSubmissions       = "submissions_total"
	CounterQuotaRejections   = "quota_rejections_total"
	CounterRolloverPlayers   = "rollover_players_total"
	CounterReferralRedeems   = "referral_redeems_total"
	CounterDataInconsistency = "data_inconsistency_total"
)

// --- Redis 键名 ---

const (
	// CountersKey 是存放所有计数器的哈希。Field: 计数器名, Value: 累计值
	CountersKey = "metrics:counters"
	// MultiplierKey 是倍率分布直方图。Field: 桶标签(如"1.5"), Value: 次数
	MultiplierKey = "metrics:multiplier_histogram"
)

type event struct {
	key   string
	field string
	delta int64
}

// eventChan 的容量决定了突发流量下的丢点上限。
var eventChan = make(chan event, 4096)

// IncrCounter 累加一个计数器。不阻塞，队列满时丢弃。
func IncrCounter(name string) {
	select {
	case eventChan <- event{key: CountersKey, field: name, delta: 1}:
	default:
	}
}

// ObserveMultiplier 记录一次应用的倍率，按0.1精度分桶。
func ObserveMultiplier(multiplier float64) {
	bucket := fmt.Sprintf("%.1f", multiplier)
	select {
	case eventChan <- event{key: MultiplierKey, field: bucket, delta: 1}:
	default:
	}
}

// StartReporter 启动后台汇报循环。
// 事件被就地聚合后每秒冲刷一次，停机时做最后一次冲刷。
func StartReporter(handle *lifecycle.Handle) {
	go func() {
		defer handle.Close()
		logger.Info("指标汇报器已启动")

		pending := make(map[string]map[string]int64)
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()

		for {
			select {
			case <-handle.Done():
				flush(pending)
				return
			case ev := <-eventChan:
				if pending[ev.key] == nil {
					pending[ev.key] = make(map[string]int64)
				}
				pending[ev.key][ev.field] += ev.delta
			case <-ticker.C:
				flush(pending)
				pending = make(map[string]map[string]int64)
			}
		}
	}()
}

// flush 把聚合后的增量写入Redis。失败只记日志，指标允许丢失。
func flush(pending map[string]map[string]int64) {
	if len(pending) == 0 {
		return
	}
	if !database.IsRedisHealthy() {
		return
	}
	pipe := database.RDB.Pipeline()
	for key, fields := range pending {
		for field, delta := range fields {
			pipe.HIncrBy(database.Ctx, key, field, delta)
		}
	}
	if _, err := pipe.Exec(database.Ctx); err != nil {
		logger.Warnf("指标冲刷失败: %v", err)
	}
}
