package startup

import (
	"time"

	"github.com/SlpAus/daily-play-backend/internal/game"
	"github.com/SlpAus/daily-play-backend/internal/leaderboard"
	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/referral"
	"github.com/SlpAus/daily-play-backend/internal/rollover"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
)

// InitializeApplication 是应用启动初始化的总入口。
// 各模块按依赖顺序自底向上priming：设置先行，其余模块依赖它的快照。
func InitializeApplication(cfg *config.Config) error {
	logger.Info("开始应用初始化...")

	if err := settings.PrimeModule(cfg); err != nil {
		return err
	}
	if err := player.PrimeModule(); err != nil {
		return err
	}
	if err := game.PrimeModule(); err != nil {
		return err
	}
	if err := referral.PrimeModule(cfg.Referral); err != nil {
		return err
	}
	if err := rollover.PrimeModule(); err != nil {
		return err
	}

	player.SetCacheTTL(time.Duration(cfg.Game.CacheTTLSeconds) * time.Second)
	leaderboard.SetCacheTTL(time.Duration(cfg.Game.LeaderboardTTLSeconds) * time.Second)

	logger.Info("应用初始化完成！")
	return nil
}
