package referral

import (
	"time"
)

// Grant 记录一个钱包通过推荐码获得的额外游玩次数。
// 每个钱包最多一行（唯一约束），ExtraPlaysUsed单调递增且不超过ExtraPlaysTotal。
type Grant struct {
	ID uint `gorm:"primarykey"`

	WalletAddress string `gorm:"uniqueIndex;type:varchar(64);not null"`

	// Code 是兑换时使用的推荐码，仅建档时校验一次。
	Code string `gorm:"type:varchar(64);not null"`

	ExtraPlaysTotal int
	ExtraPlaysUsed  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining 返回尚未消耗的额外游玩次数。
func (g *Grant) Remaining() int {
	remaining := g.ExtraPlaysTotal - g.ExtraPlaysUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
