package player

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// --- Redis 键名 ---

const (
	// cacheKeyPrefix 下缓存每个钱包的账本行JSON。
	cacheKeyPrefix = "player:"
)

// cacheTTL 是账本行缓存的生存时间，短TTL换取多副本下的简单正确性。
var cacheTTL = 30 * time.Second

// SetCacheTTL 由setup在启动时注入配置值。
func SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		cacheTTL = ttl
	}
}

func cacheKey(walletAddress string) string {
	return cacheKeyPrefix + walletAddress
}

// GetOrCreate 按钱包地址取账本行，不存在则以零值计数器建档。
// launchDate 来自当前设置快照，建档时固化到行上。
func GetOrCreate(walletAddress string, launchDate time.Time) (*Player, error) {
	if cached := getCached(walletAddress); cached != nil {
		return cached, nil
	}

	var row Player
	err := database.DB.Where("wallet_address = ?", walletAddress).First(&row).Error
	if err == nil {
		putCache(&row)
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("查询玩家账本失败: %w", err)
	}

	row = Player{
		WalletAddress: walletAddress,
		LaunchDate:    launchDate,
	}
	if err := database.DB.Create(&row).Error; err != nil {
		// 并发建档撞唯一键时读回已有行即可
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := database.DB.Where("wallet_address = ?", walletAddress).First(&row).Error; err != nil {
				return nil, fmt.Errorf("读取并发创建的玩家账本失败: %w", err)
			}
			return &row, nil
		}
		return nil, fmt.Errorf("创建玩家账本失败: %w", err)
	}
	return &row, nil
}

// Find 按钱包地址取账本行，不自动建档。找不到时返回gorm.ErrRecordNotFound。
func Find(walletAddress string) (*Player, error) {
	var row Player
	if err := database.DB.Where("wallet_address = ?", walletAddress).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// Save 写回账本行并使缓存失效。
// 失效失败只记日志：短暂的陈旧读优于拒绝一次已成功的游玩。
func Save(row *Player) error {
	if err := database.DB.Save(row).Error; err != nil {
		return fmt.Errorf("保存玩家账本失败: %w", err)
	}
	InvalidateCache(row.WalletAddress)
	return nil
}

// FindDueForRollover 选出所有尚未滚动到weekIndex的账本行。
func FindDueForRollover(weekIndex int64) ([]Player, error) {
	var rows []Player
	err := database.DB.
		Where("last_reset_week_number IS NULL OR last_reset_week_number < ?", weekIndex).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("查询待轮转玩家失败: %w", err)
	}
	return rows, nil
}

// InvalidateCache 删除单个钱包的账本缓存。
func InvalidateCache(walletAddress string) {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.RDB.Del(database.Ctx, cacheKey(walletAddress)).Err(); err != nil {
		logger.Warnf("删除玩家缓存失败 (wallet=%s): %v", walletAddress, err)
	}
}

// --- 缓存读写 ---

func getCached(walletAddress string) *Player {
	cached, err := database.RDB.Get(database.Ctx, cacheKey(walletAddress)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Warnf("读取玩家缓存失败 (wallet=%s): %v", walletAddress, err)
		}
		return nil
	}
	var row Player
	if err := json.Unmarshal([]byte(cached), &row); err != nil {
		return nil
	}
	metrics.IncrCounter(metrics.CounterCacheHit)
	return &row
}

func putCache(row *Player) {
	metrics.IncrCounter(metrics.CounterCacheMiss)
	data, err := json.Marshal(row)
	if err != nil {
		return
	}
	if err := database.RDB.Set(database.Ctx, cacheKey(row.WalletAddress), data, cacheTTL).Err(); err != nil {
		logger.Warnf("写入玩家缓存失败 (wallet=%s): %v", row.WalletAddress, err)
	}
}
