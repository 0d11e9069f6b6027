package game

import (
	"time"
)

// PlaySession 是追加式的游玩日志，每次被接受的提交写入一行。
// 一经写入不再修改；配额引擎用它回数已用次数，它才是用量的权威账本。
type PlaySession struct {
	ID uint `gorm:"primarykey"`

	// SessionUUID 是对外暴露的会话标识（UUID v7）。
	SessionUUID string `gorm:"uniqueIndex;type:varchar(36);not null"`

	PlayerID uint `gorm:"index;not null"`

	// Score 是客户端上报的原始分数。
	Score int64

	// PlayDate 是本次游玩所在虚拟日的起点时刻。
	PlayDate time.Time `gorm:"index"`

	// WeekNumber 仅在周榜模式开启时记录本次游玩所在的周序号。
	WeekNumber *int64

	// StreakMultiplier 是本次实际应用的倍率。
	StreakMultiplier float64

	// FinalScore = floor(Score × StreakMultiplier)。
	FinalScore int64

	// GameData 是客户端附带的不透明数据，原样存储。
	GameData string `gorm:"type:text"`

	CreatedAt time.Time
}

// StreakRecord 每个玩家每个虚拟日至多一行，记录当日游玩时的连击数。
// (PlayerID, StreakDate) 上的唯一约束吸收并发的同日重复写入：
// 撞键不是错误，而是良性的no-op。
type StreakRecord struct {
	ID uint `gorm:"primarykey"`

	PlayerID   uint      `gorm:"uniqueIndex:idx_streak_player_day;not null"`
	StreakDate time.Time `gorm:"uniqueIndex:idx_streak_player_day;not null"`

	StreakCount int

	CreatedAt time.Time
}
