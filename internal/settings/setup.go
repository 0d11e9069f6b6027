package settings

import (
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

// PrimeModule 负责初始化settings模块：迁移表结构、落库默认单例、预热缓存。
func PrimeModule(cfg *config.Config) error {
	if err := database.DB.AutoMigrate(&Settings{}); err != nil {
		return fmt.Errorf("无法迁移settings表: %w", err)
	}

	if cfg.Game.CacheTTLSeconds > 0 {
		cacheTTL = time.Duration(cfg.Game.CacheTTLSeconds) * time.Second
	}

	if err := seedSingleton(cfg.Game); err != nil {
		return err
	}

	if _, err := loadAndCache(); err != nil {
		return err
	}
	logger.Info("Settings模块初始化完成")
	return nil
}

// seedSingleton 在单例缺失时按配置默认值建档。已存在的行不被覆盖。
func seedSingleton(game config.GameConfig) error {
	var count int64
	if err := database.DB.Model(&Settings{}).Where("id = ?", singletonID).Count(&count).Error; err != nil {
		return fmt.Errorf("无法检查settings单例: %w", err)
	}
	if count > 0 {
		return nil
	}

	launch := time.Now().UTC()
	if game.LaunchDate != "" {
		parsed, err := time.Parse("2006-01-02", game.LaunchDate)
		if err != nil {
			return fmt.Errorf("配置中的launchDate无法解析: %w", err)
		}
		launch = parsed
	}

	row := Settings{
		ID:                        singletonID,
		LaunchDate:                launch,
		StreakBaseMultiplier:      game.StreakBaseMultiplier,
		StreakIncrementPerDay:     game.StreakIncrementPerDay,
		WeeklyResetEnabled:        game.WeeklyResetEnabled,
		WeeklyResetDay:            game.WeeklyResetDay,
		ReferralExtraPlaysDefault: game.ReferralExtraPlays,
		GameState:                 GameStateActive,
	}
	if game.SecondsPerDay > 0 {
		spd := game.SecondsPerDay
		row.SecondsPerDay = &spd
	}

	if err := database.DB.Create(&row).Error; err != nil {
		return fmt.Errorf("无法创建settings单例: %w", err)
	}
	logger.Infof("已按配置创建游戏设置单例 (launchDate=%s)", launch.Format("2006-01-02"))
	return nil
}
