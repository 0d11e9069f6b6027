package settings

import (
	"time"

	"github.com/SlpAus/daily-play-backend/internal/gameclock"
)

// Snapshot 是设置单例的不可变快照。
// 每个操作在入口处加载一次快照并通过参数传递，
// 避免操作中途管理端改动造成同一次请求内的时间换算不一致。
type Snapshot struct {
	LaunchDate                time.Time
	SecondsPerDay             int // 0表示未设置（真实日长）
	StreakBaseMultiplier      float64
	StreakIncrementPerDay     float64
	WeeklyResetEnabled        bool
	WeeklyResetDay            int
	CurrentWeekNumber         int64
	CurrentWeekNumberSet      bool
	ReferralExtraPlaysDefault int
	GameState                 GameState
	UpdatedAt                 time.Time
}

// newSnapshot 从持久化模型构造快照。
func newSnapshot(s *Settings) Snapshot {
	snap := Snapshot{
		LaunchDate:                s.LaunchDate,
		StreakBaseMultiplier:      s.StreakBaseMultiplier,
		StreakIncrementPerDay:     s.StreakIncrementPerDay,
		WeeklyResetEnabled:        s.WeeklyResetEnabled,
		WeeklyResetDay:            s.WeeklyResetDay,
		ReferralExtraPlaysDefault: s.ReferralExtraPlaysDefault,
		GameState:                 s.GameState,
		UpdatedAt:                 s.UpdatedAt,
	}
	if s.SecondsPerDay != nil {
		snap.SecondsPerDay = *s.SecondsPerDay
	}
	if s.CurrentWeekNumber != nil {
		snap.CurrentWeekNumber = *s.CurrentWeekNumber
		snap.CurrentWeekNumberSet = true
	}
	return snap
}

// Calendar 根据快照构造时间换算策略。
func (s Snapshot) Calendar() gameclock.Calendar {
	return gameclock.NewCalendar(s.LaunchDate, s.SecondsPerDay, s.WeeklyResetDay)
}

// AcceptsSubmissions 返回当前游戏状态是否接受成绩提交。
func (s Snapshot) AcceptsSubmissions() bool {
	return s.GameState == GameStateActive || s.GameState == GameStateHidden
}
