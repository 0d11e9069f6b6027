package rollover

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RunSweep 执行一次周轮转清扫，返回本次处理的玩家数。
// 幂等：同一周界内重复调用（定时器提前、多副本竞发、手动触发）
// 只会有第一次真正推进，之后的调用选不出任何待处理玩家。
// 补扫按存量的lastResetWeekNumber判定，一次跨越多个周界也只折算一次。
func RunSweep(now time.Time) (int, error) {
	snap, err := settings.GetSnapshot()
	if err != nil {
		return 0, err
	}
	return sweep(snap, now)
}

// sweep 在给定设置快照下执行清扫。
// 未发生过轮转（currentWeekNumber为空）视同已处理到第0周：
// 首次折算发生在周序号推进到1时，第0周进行中绝不折算。
func sweep(snap settings.Snapshot, now time.Time) (int, error) {
	if !snap.WeeklyResetEnabled {
		return 0, nil
	}

	cal := snap.Calendar()
	weekIndex := cal.WeekIndex(now)

	processedWeek := int64(0)
	if snap.CurrentWeekNumberSet {
		processedWeek = snap.CurrentWeekNumber
	}
	if weekIndex <= processedWeek {
		return 0, nil
	}

	// 先推进设置行：条件更新让竞发的副本收敛出一个赢家。
	// 即使推进后玩家处理中途失败，重跑也安全，
	// 选择谓词只认每行自己的lastResetWeekNumber。
	advanced, err := settings.AdvanceWeekNumber(weekIndex)
	if err != nil {
		return 0, err
	}
	if !advanced {
		return 0, nil
	}
	logger.Infof("周轮转开始: 推进到周 %d", weekIndex)

	due, err := player.FindDueForRollover(weekIndex)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range due {
		if err := rolloverPlayer(&due[i], weekIndex); err != nil {
			// 单个玩家失败不中断整轮，下次清扫会重选到它
			logger.Errorf("玩家轮转失败 (wallet=%s): %v", due[i].WalletAddress, err)
			continue
		}
		processed++
		metrics.IncrCounter(metrics.CounterRolloverPlayers)
	}

	invalidateLeaderboardCache()
	logger.Infof("周轮转完成: 处理了 %d 名玩家", processed)
	return processed, nil
}

// rolloverPlayer 归档并清零单个玩家的周期字段。
func rolloverPlayer(p *player.Player, weekIndex int64) error {
	snapshot := buildSnapshot(p, weekIndex)

	// 周内零次游玩的玩家也推进lastResetWeekNumber（零增量折算），
	// 避免未处理周数无限积压，所以快照行哪怕全零也照写。
	err := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&snapshot).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("写入周快照失败: %w", err)
	}

	applyReset(p, weekIndex)
	return player.Save(p)
}

// buildSnapshot 在清零之前捕获周期成绩。
// 折算后的终身累计一并入档，便于对账。
func buildSnapshot(p *player.Player, weekIndex int64) WeeklySnapshot {
	return WeeklySnapshot{
		WeekNumber:          weekIndex - 1,
		PlayerID:            p.ID,
		WalletAddress:       p.WalletAddress,
		WeeklyScore:         p.WeeklyScore,
		WeeklyStreak:        p.WeeklyStreak,
		WeeklyLongestStreak: p.WeeklyLongestStreak,
		LifetimeTotalScore:  p.LifetimeTotalScore + p.WeeklyScore,
	}
}

// applyReset 把周期分数折入终身累计并清零周期字段。
// 每个跨越的周界恰好折算一次：判据是行上的lastResetWeekNumber，
// 与清扫被调用了多少次无关。
func applyReset(p *player.Player, weekIndex int64) {
	p.LifetimeTotalScore += p.WeeklyScore
	p.WeeklyScore = 0
	p.WeeklyStreak = 0
	p.WeeklyLongestStreak = 0
	p.LastResetWeekNumber = &weekIndex
}

func invalidateLeaderboardCache() {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.DeleteKeysByPrefix(database.Ctx, database.LeaderboardCachePrefix); err != nil {
		logger.Warnf("失效排行榜缓存失败: %v", err)
	}
}
