package settings

import (
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
)

// UpdateInput 描述管理端可修改的设置字段。
// 指针为nil表示不修改该字段。
type UpdateInput struct {
	LaunchDate                *time.Time `json:"launchDate"`
	SecondsPerDay             *int       `json:"secondsPerDay"`
	StreakBaseMultiplier      *float64   `json:"streakBaseMultiplier"`
	StreakIncrementPerDay     *float64   `json:"streakIncrementPerDay"`
	WeeklyResetEnabled        *bool      `json:"weeklyResetEnabled"`
	WeeklyResetDay            *int       `json:"weeklyResetDay"`
	ReferralExtraPlaysDefault *int       `json:"referralExtraPlaysDefault"`
	GameState                 *GameState `json:"gameState"`
}

// UpdateSettings 应用管理端的设置修改并使缓存失效。
func UpdateSettings(input UpdateInput) (Snapshot, error) {
	var row Settings
	if err := database.DB.First(&row, singletonID).Error; err != nil {
		return Snapshot{}, apperror.Wrap(apperror.KindInfrastructure, "无法加载游戏设置", err)
	}

	if input.LaunchDate != nil {
		row.LaunchDate = *input.LaunchDate
	}
	if input.SecondsPerDay != nil {
		if *input.SecondsPerDay <= 0 {
			row.SecondsPerDay = nil
		} else {
			row.SecondsPerDay = input.SecondsPerDay
		}
	}
	if input.StreakBaseMultiplier != nil {
		row.StreakBaseMultiplier = *input.StreakBaseMultiplier
	}
	if input.StreakIncrementPerDay != nil {
		row.StreakIncrementPerDay = *input.StreakIncrementPerDay
	}
	if input.WeeklyResetEnabled != nil {
		row.WeeklyResetEnabled = *input.WeeklyResetEnabled
	}
	if input.WeeklyResetDay != nil {
		if *input.WeeklyResetDay < 0 || *input.WeeklyResetDay > 6 {
			return Snapshot{}, apperror.New(apperror.KindValidation, "weeklyResetDay必须在0-6之间")
		}
		row.WeeklyResetDay = *input.WeeklyResetDay
	}
	if input.ReferralExtraPlaysDefault != nil {
		row.ReferralExtraPlaysDefault = *input.ReferralExtraPlaysDefault
	}
	if input.GameState != nil {
		switch *input.GameState {
		case GameStateActive, GameStateInMaintenance, GameStateDisabled, GameStateHidden:
			row.GameState = *input.GameState
		default:
			return Snapshot{}, apperror.New(apperror.KindValidation, fmt.Sprintf("无效的游戏状态: %s", *input.GameState))
		}
	}

	if err := database.DB.Save(&row).Error; err != nil {
		return Snapshot{}, apperror.Wrap(apperror.KindInfrastructure, "保存游戏设置失败", err)
	}
	InvalidateCache()

	return newSnapshot(&row), nil
}

// AdvanceWeekNumber 把已处理周序号推进到newIndex。
// 使用条件更新：只有当存量值仍小于newIndex（或为空）时才写入，
// 多副本同时触发轮转时以此收敛到同一个赢家。
// 返回是否真的发生了推进。
func AdvanceWeekNumber(newIndex int64) (bool, error) {
	result := database.DB.Model(&Settings{}).
		Where("id = ? AND (current_week_number IS NULL OR current_week_number < ?)", singletonID, newIndex).
		Update("current_week_number", newIndex)
	if result.Error != nil {
		return false, apperror.Wrap(apperror.KindInfrastructure, "推进周序号失败", result.Error)
	}
	if result.RowsAffected > 0 {
		InvalidateCache()
		return true, nil
	}
	return false, nil
}
