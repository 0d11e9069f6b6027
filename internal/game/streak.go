package game

import (
	"time"

	"github.com/SlpAus/daily-play-backend/internal/gameclock"
)

// StreakTransition 描述一次游玩对某条连击线造成的状态变化。
// 终身线和周线使用完全相同的转移规则，只是各自独立调用。
type StreakTransition struct {
	// Resulting 是这次游玩之后的连击数。
	Resulting int
	// Basis 是计算倍率时使用的连击基数：增加之前的连击数。
	// 连续第4天游玩的玩家拿到的是3天连击的倍率，而不是4天的。
	Basis int
}

// TransitionStreak 判定在now游玩会让连击线如何演化。
// 它是纯函数：读路径（状态预览）和写路径（提交）共用同一份逻辑，
// 玩家看到的倍率和实际结算的倍率不可能分叉。
func TransitionStreak(lastPlay *time.Time, storedStreak int, now time.Time, cal gameclock.Calendar) StreakTransition {
	if lastPlay == nil {
		// 从未玩过：开启新连击，享受基础倍率
		return StreakTransition{Resulting: 1, Basis: 0}
	}

	lastDay := cal.DayIndex(*lastPlay)
	today := cal.DayIndex(now)

	switch {
	case lastDay == today:
		// 今天已经玩过：连击不变
		return StreakTransition{Resulting: storedStreak, Basis: storedStreak}
	case lastDay == today-1:
		// 连续：连击+1，倍率按增加前的基数结算
		return StreakTransition{Resulting: storedStreak + 1, Basis: storedStreak}
	default:
		// 断档≥2个虚拟日：连击归1，回到基础倍率
		return StreakTransition{Resulting: 1, Basis: 0}
	}
}

// Multiplier 把连击基数换算成分数倍率。
// 对所有基数b≥0单调不减，且永远不低于基础倍率。
func Multiplier(basis int, baseMultiplier, incrementPerDay float64) float64 {
	if basis <= 1 {
		return baseMultiplier
	}
	return baseMultiplier + float64(basis-1)*incrementPerDay
}
