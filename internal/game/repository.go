package game

import (
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CountSessionsSince 回数玩家自since（含）以来被接受的提交数。
// 这是配额判定的用量来源：账本行上的分数字段只是派生缓存，
// 部分写入不会让配额失守。
func CountSessionsSince(playerID uint, since time.Time) (int64, error) {
	var count int64
	err := database.DB.Model(&PlaySession{}).
		Where("player_id = ? AND play_date >= ?", playerID, since).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("回数游玩次数失败: %w", err)
	}
	return count, nil
}

// createSession 写入一条不可变的游玩日志。
func createSession(session *PlaySession) error {
	if err := database.DB.Create(session).Error; err != nil {
		return fmt.Errorf("写入游玩日志失败: %w", err)
	}
	return nil
}

// createStreakRecordIdempotent 写入当日连击档案。
// (playerId, streakDate)唯一约束下的撞键是并发同日写入的正常现象，吞掉即可。
func createStreakRecordIdempotent(record *StreakRecord) error {
	err := database.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(record).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("写入连击档案失败: %w", err)
	}
	return nil
}

// FindSessionsByPlayer 按时间倒序取玩家的游玩历史。
func FindSessionsByPlayer(playerID uint, limit int) ([]PlaySession, error) {
	var sessions []PlaySession
	err := database.DB.
		Where("player_id = ?", playerID).
		Order("id DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("查询游玩历史失败: %w", err)
	}
	return sessions, nil
}
