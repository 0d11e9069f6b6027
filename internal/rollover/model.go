package rollover

import (
	"time"
)

// WeeklySnapshot 归档一个玩家在一个已结束周期的成绩。
// (PlayerID, WeekNumber) 上写一次即不再改动；并发清扫撞键按no-op处理。
type WeeklySnapshot struct {
	ID uint `gorm:"primarykey"`

	// WeekNumber 是被关闭的周期的序号。
	// 停机后补扫跨越多个周界时，积累的周期作为一条快照
	// 归档在最近一个已结束的周序号下。
	WeekNumber int64 `gorm:"uniqueIndex:idx_snapshot_player_week;not null"`

	PlayerID      uint   `gorm:"uniqueIndex:idx_snapshot_player_week;not null"`
	WalletAddress string `gorm:"index;type:varchar(64)"`

	WeeklyScore         int64
	WeeklyStreak        int
	WeeklyLongestStreak int

	// LifetimeTotalScore 是折算完成后的终身累计，便于审计。
	LifetimeTotalScore int64

	CreatedAt time.Time
}
