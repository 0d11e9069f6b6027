package game

import (
	"math"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/gameclock"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/referral"
	"github.com/SlpAus/daily-play-backend/internal/settings"
)

// PlanInput 汇集一次游玩判定所需的全部输入。
// 全部字段在入口处加载一次，判定过程不再触碰数据库。
type PlanInput struct {
	Now            time.Time
	Settings       settings.Snapshot
	Player         *player.Player
	TotalPlaysUsed int64
	Grant          *referral.Grant
}

// PlayPlan 是一次游玩的完整判定结果。
// 状态查询把它直接翻译成响应，提交把它原样落库。
// 两条路径共享同一个计算，这是预测与实际一致性的来源。
type PlayPlan struct {
	Calendar gameclock.Calendar
	// Today 是now所在虚拟日的起点，也是落库用的比较键。
	Today time.Time
	// WeekIndex 是now所在的虚拟周序号（仅周榜模式下使用）。
	WeekIndex int64

	Quota             QuotaResult
	NextAvailableAt   time.Time
	SecondsToNextPlay int64

	// Lifetime / Weekly 是两条并行连击线的转移结果。
	Lifetime StreakTransition
	Weekly   StreakTransition

	// Multiplier 按终身连击线的基数结算：周轮转只清零周线，
	// 不应该打断玩家实际的登录连击倍率。
	Multiplier float64
}

// BuildPlayPlan 判定"在now游玩一次会发生什么"。纯函数。
func BuildPlayPlan(in PlanInput) PlayPlan {
	cal := in.Settings.Calendar()
	today := cal.Normalize(in.Now)

	grantTotal, grantUsed := 0, 0
	if in.Grant != nil {
		grantTotal = in.Grant.ExtraPlaysTotal
		grantUsed = in.Grant.ExtraPlaysUsed
	}

	quota := ComputeQuota(QuotaInput{
		DayIndex:       cal.DayIndex(in.Now),
		TotalPlaysUsed: in.TotalPlaysUsed,
		GrantTotal:     grantTotal,
		GrantUsed:      grantUsed,
	})

	plan := PlayPlan{
		Calendar:  cal,
		Today:     today,
		WeekIndex: cal.WeekIndex(in.Now),
		Quota:     quota,
		Lifetime:  TransitionStreak(in.Player.LastPlayDate, in.Player.CurrentStreak, in.Now, cal),
		Weekly:    TransitionStreak(in.Player.LastPlayDate, in.Player.WeeklyStreak, in.Now, cal),
	}

	// 日历周模式下周界可以落在一个虚拟日中间：轮转刚把周线清零时，
	// 同一虚拟日内的再次游玩会走"当日已玩"分支拿到存量0。
	// 本周期内游玩过的玩家周连击至少为1。
	if plan.Weekly.Resulting < 1 {
		plan.Weekly.Resulting = 1
	}

	plan.Multiplier = Multiplier(plan.Lifetime.Basis, in.Settings.StreakBaseMultiplier, in.Settings.StreakIncrementPerDay)

	if !quota.CanPlay {
		plan.NextAvailableAt = cal.DayStart(cal.DayIndex(in.Now) + 1)
		plan.SecondsToNextPlay = gameclock.SecondsUntil(in.Now, plan.NextAvailableAt)
	}
	return plan
}

// FinalScore 按计划的倍率结算原始分数，向下取整。
func (p PlayPlan) FinalScore(rawScore int64) int64 {
	return int64(math.Floor(float64(rawScore) * p.Multiplier))
}
