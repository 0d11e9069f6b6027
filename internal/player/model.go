package player

import (
	"time"
)

// Player 是每个钱包地址一行的账本（ledger）。
// 它是追加式游玩日志（PlaySession）的派生汇总：配额判定永远
// 回数日志本身，这里的分数/连击字段只是读路径的物化视图。
type Player struct {
	ID uint `gorm:"primarykey"`

	// WalletAddress 是自然键，大小写按原样存储和比较。
	WalletAddress string `gorm:"uniqueIndex;type:varchar(64);not null"`

	// TotalScore 是终身模式下的累计分数（遗留字段，周榜关闭时使用）。
	TotalScore int64

	// LifetimeTotalScore 跨周重置永远保留的累计分数。
	LifetimeTotalScore int64

	// WeeklyScore 是当前周期内的分数，轮转时并入LifetimeTotalScore后清零。
	WeeklyScore int64

	// 终身连击计数。
	CurrentStreak int
	LongestStreak int

	// 当前周期内的连击计数，轮转时清零。
	WeeklyStreak        int
	WeeklyLongestStreak int

	// LastPlayDate 是最近一次游玩所在虚拟日的起点时刻。
	LastPlayDate *time.Time

	// LastResetWeekNumber 是该行最近一次完成轮转的周序号。
	// 为空表示建档以来还没有经历过轮转。
	LastResetWeekNumber *int64

	// LaunchDate 在建档时从Settings复制，保证既有玩家不受
	// 管理端事后改动发布日的影响。
	LaunchDate time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
