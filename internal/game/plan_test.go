package game

import (
	"testing"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/referral"
	"github.com/SlpAus/daily-play-backend/internal/settings"
)

// testSnapshot 构造一份加速到120秒/日的设置快照。
func testSnapshot() settings.Snapshot {
	return settings.Snapshot{
		LaunchDate:            time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		SecondsPerDay:         120,
		StreakBaseMultiplier:  1.0,
		StreakIncrementPerDay: 0.1,
		WeeklyResetEnabled:    true,
		WeeklyResetDay:        1,
		GameState:             settings.GameStateActive,
	}
}

func TestBuildPlayPlanFirstPlay(t *testing.T) {
	snap := testSnapshot()
	launch := snap.LaunchDate
	now := launch.Add(30 * time.Second) // 第0日

	plan := BuildPlayPlan(PlanInput{
		Now:      now,
		Settings: snap,
		Player:   &player.Player{WalletAddress: "0x0000000000000000000000000000000000000001"},
	})

	if !plan.Quota.CanPlay || plan.Quota.PlaysRemaining != 1 {
		t.Fatalf("第0日新玩家应有1次额度: %+v", plan.Quota)
	}
	if plan.Lifetime.Resulting != 1 || plan.Weekly.Resulting != 1 {
		t.Fatalf("首次游玩连击应为1: lifetime=%+v weekly=%+v", plan.Lifetime, plan.Weekly)
	}
	if plan.Multiplier != 1.0 {
		t.Fatalf("首次游玩应享受基础倍率, got %v", plan.Multiplier)
	}
	if !plan.Today.Equal(launch) {
		t.Fatalf("Today应为第0日起点: %v", plan.Today)
	}
}

func TestBuildPlayPlanQuotaExhausted(t *testing.T) {
	snap := testSnapshot()
	launch := snap.LaunchDate
	lastPlay := launch
	now := launch.Add(50 * time.Second) // 仍在第0日

	plan := BuildPlayPlan(PlanInput{
		Now:            now,
		Settings:       snap,
		Player:         &player.Player{CurrentStreak: 1, WeeklyStreak: 1, LastPlayDate: &lastPlay},
		TotalPlaysUsed: 1,
	})

	if plan.Quota.CanPlay {
		t.Fatalf("额度已用尽仍可游玩: %+v", plan.Quota)
	}
	wantNext := launch.Add(120 * time.Second)
	if !plan.NextAvailableAt.Equal(wantNext) {
		t.Fatalf("NextAvailableAt = %v, want %v", plan.NextAvailableAt, wantNext)
	}
	if plan.SecondsToNextPlay != 70 {
		t.Fatalf("SecondsToNextPlay = %d, want 70", plan.SecondsToNextPlay)
	}
	// 当日重复判定不改变连击
	if plan.Lifetime.Resulting != 1 || plan.Lifetime.Basis != 1 {
		t.Fatalf("当日重复判定连击应保持不变: %+v", plan.Lifetime)
	}
}

// 状态预览与实际提交必须共用一份判定：对相同输入构建两次
// 计划，倍率和连击必须一字不差。
func TestBuildPlayPlanProjectionConsistency(t *testing.T) {
	snap := testSnapshot()
	launch := snap.LaunchDate
	day2 := launch.Add(2 * 120 * time.Second)
	lastPlay := launch.Add(120 * time.Second) // 第1日

	in := PlanInput{
		Now:            day2.Add(10 * time.Second),
		Settings:       snap,
		Player:         &player.Player{CurrentStreak: 2, WeeklyStreak: 2, LastPlayDate: &lastPlay},
		TotalPlaysUsed: 2,
	}

	status := BuildPlayPlan(in)
	submit := BuildPlayPlan(in)

	if status.Multiplier != submit.Multiplier {
		t.Fatalf("预览与提交倍率分叉: %v vs %v", status.Multiplier, submit.Multiplier)
	}
	if status.Lifetime != submit.Lifetime {
		t.Fatalf("预览与提交连击分叉: %+v vs %+v", status.Lifetime, submit.Lifetime)
	}
	if submit.Lifetime.Resulting != 3 {
		t.Fatalf("连续第3天游玩连击应为3: %+v", submit.Lifetime)
	}
	// 倍率按增加前的基数2结算
	if submit.Multiplier != 1.1 {
		t.Fatalf("Multiplier = %v, want 1.1", submit.Multiplier)
	}
}

func TestBuildPlayPlanNextDayProjection(t *testing.T) {
	snap := testSnapshot()
	launch := snap.LaunchDate
	lastPlay := launch // 第0日玩过
	now := launch.Add(130 * time.Second)

	plan := BuildPlayPlan(PlanInput{
		Now:            now,
		Settings:       snap,
		Player:         &player.Player{CurrentStreak: 1, WeeklyStreak: 1, LastPlayDate: &lastPlay},
		TotalPlaysUsed: 1,
	})

	if plan.Lifetime.Resulting != 2 {
		t.Fatalf("次日游玩连击应为2: %+v", plan.Lifetime)
	}
	// 基数1仍是基础倍率
	if plan.Multiplier != 1.0 {
		t.Fatalf("Multiplier = %v, want 1.0", plan.Multiplier)
	}
	// 第1日解锁2次基础额度，已用1次
	if plan.Quota.PlaysRemaining != 1 || !plan.Quota.CanPlay {
		t.Fatalf("第1日额度判定错误: %+v", plan.Quota)
	}
}

func TestBuildPlayPlanWithReferralGrant(t *testing.T) {
	snap := testSnapshot()
	launch := snap.LaunchDate
	lastPlay := launch
	now := launch.Add(40 * time.Second)

	plan := BuildPlayPlan(PlanInput{
		Now:            now,
		Settings:       snap,
		Player:         &player.Player{CurrentStreak: 1, WeeklyStreak: 1, LastPlayDate: &lastPlay},
		TotalPlaysUsed: 1,
		Grant:          &referral.Grant{ExtraPlaysTotal: 3, ExtraPlaysUsed: 0},
	})

	// 基础额度已用尽，3个推荐单位仍然可用
	if !plan.Quota.CanPlay || plan.Quota.PlaysRemaining != 3 {
		t.Fatalf("推荐额度应叠加在基础额度之上: %+v", plan.Quota)
	}
	if plan.Quota.BaseRemaining != 0 || plan.Quota.ReferralRemaining != 3 {
		t.Fatalf("额度拆分错误: %+v", plan.Quota)
	}
}

// 日历周模式下周界落在一个真实日中间：周界前玩过、轮转清零周线后
// 同日再判定时，周连击不应卡在0。
func TestBuildPlayPlanWeeklyStreakAfterMidDayReset(t *testing.T) {
	snap := testSnapshot()
	snap.SecondsPerDay = 0 // 真实日长，周界在周一01:00 UTC

	// 2025-01-06是周一。00:30玩过一次，01:00轮转清零周线，02:00再判定。
	lastPlay := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 1, 6, 2, 0, 0, 0, time.UTC)

	plan := BuildPlayPlan(PlanInput{
		Now:            now,
		Settings:       snap,
		Player:         &player.Player{CurrentStreak: 5, WeeklyStreak: 0, LastPlayDate: &lastPlay},
		TotalPlaysUsed: 1,
	})

	if plan.Weekly.Resulting < 1 {
		t.Fatalf("本周期内游玩过的玩家周连击至少为1, got %d", plan.Weekly.Resulting)
	}
	// 终身线不受周轮转影响
	if plan.Lifetime.Resulting != 5 {
		t.Fatalf("终身连击判定错误: %+v", plan.Lifetime)
	}
}

func TestFinalScoreFloors(t *testing.T) {
	tests := []struct {
		name       string
		raw        int64
		multiplier float64
		want       int64
	}{
		{"基础倍率", 1000, 1.0, 1000},
		{"向下取整", 999, 1.1, 1098},
		{"零分", 0, 1.5, 0},
		{"高倍率", 12345, 1.9, 23455},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PlayPlan{Multiplier: tt.multiplier}
			if got := p.FinalScore(tt.raw); got != tt.want {
				t.Fatalf("FinalScore(%d, x%v) = %d, want %d", tt.raw, tt.multiplier, got, tt.want)
			}
		})
	}
}
