// Package gameclock 实现虚拟日/虚拟周的纯时间换算。
// 一个“虚拟日”的长度可配置（用于加速测试），默认为真实的86400秒。
// 这里的所有函数都是纯函数，上层各模块的正确性都归结于此。
package gameclock

import (
	"time"
)

// RealSecondsPerDay 是未配置加速时的真实日长。
const RealSecondsPerDay = 86400

// Calendar 把钱包游戏的时间策略固化为一个不可变的值对象。
// 它由Settings快照构造，在一次操作内保持一致。
type Calendar struct {
	// Launch 是发布日的UTC午夜锚点，所有虚拟日从这里起算。
	Launch time.Time
	// DayMs 是一个虚拟日的毫秒长度。
	DayMs int64
	// CalendarWeeks 为true时按真实日历周计算周序号（secondsPerDay未设置），
	// 否则周界与7×DayMs的节奏严格对齐。
	CalendarWeeks bool
	// WeeklyResetDay 是日历周模式下每周的起始日（0=周日）。
	WeeklyResetDay time.Weekday
}

// NewCalendar 根据设置构造Calendar。secondsPerDay<=0视为未设置。
func NewCalendar(launch time.Time, secondsPerDay int, weeklyResetDay int) Calendar {
	dayMs := int64(RealSecondsPerDay) * 1000
	calendarWeeks := true
	if secondsPerDay > 0 {
		dayMs = int64(secondsPerDay) * 1000
		calendarWeeks = false
	}
	return Calendar{
		Launch:         LaunchMidnightUTC(launch),
		DayMs:          dayMs,
		CalendarWeeks:  calendarWeeks,
		WeeklyResetDay: time.Weekday(weeklyResetDay % 7),
	}
}

// LaunchMidnightUTC 把任意时刻截断到它所在UTC日的午夜。
func LaunchMidnightUTC(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DayIndex 返回t所在的虚拟日序号。发布前的时刻一律归入第0日。
func (c Calendar) DayIndex(t time.Time) int64 {
	elapsed := t.UTC().Sub(c.Launch).Milliseconds()
	if elapsed < 0 {
		return 0
	}
	return elapsed / c.DayMs
}

// DayStart 返回第index个虚拟日的起始时刻。
func (c Calendar) DayStart(index int64) time.Time {
	return c.Launch.Add(time.Duration(index*c.DayMs) * time.Millisecond)
}

// Normalize 把任意时刻折算到其所在虚拟日的起点。
// 这是全系统“同一天”判断的唯一比较键。
func (c Calendar) Normalize(t time.Time) time.Time {
	return c.DayStart(c.DayIndex(t))
}

// SameDay 判断两个时刻是否落在同一个虚拟日内。
func (c Calendar) SameDay(a, b time.Time) bool {
	return c.DayIndex(a) == c.DayIndex(b)
}

// WeekIndex 返回t所在的虚拟周序号。
// 虚拟周模式下周界与发布起点的7×DayMs对齐；
// 日历周模式下每周从WeeklyResetDay的01:00 UTC开始，
// 1小时的偏移吸收时钟偏斜，避免恰好在午夜运行的清扫重复触发。
func (c Calendar) WeekIndex(t time.Time) int64 {
	if !c.CalendarWeeks {
		return c.DayIndex(t) / 7
	}
	launchWeek := c.calendarWeekStart(c.Launch)
	nowWeek := c.calendarWeekStart(t.UTC())
	if nowWeek.Before(launchWeek) {
		return 0
	}
	return int64(nowWeek.Sub(launchWeek).Hours()) / (7 * 24)
}

// WeekStart 返回t所在虚拟周的起始时刻。
func (c Calendar) WeekStart(t time.Time) time.Time {
	if !c.CalendarWeeks {
		return c.DayStart(c.WeekIndex(t) * 7)
	}
	return c.calendarWeekStart(t.UTC())
}

// NextWeekStart 返回t之后最近的一个周界，供排行榜展示下次重置时间。
func (c Calendar) NextWeekStart(t time.Time) time.Time {
	if !c.CalendarWeeks {
		return c.DayStart((c.WeekIndex(t) + 1) * 7)
	}
	return c.calendarWeekStart(t.UTC()).AddDate(0, 0, 7)
}

// calendarWeekStart 返回t之前（含）最近的WeeklyResetDay 01:00 UTC。
func (c Calendar) calendarWeekStart(t time.Time) time.Time {
	u := t.UTC()
	anchor := time.Date(u.Year(), u.Month(), u.Day(), 1, 0, 0, 0, time.UTC)
	for anchor.Weekday() != c.WeeklyResetDay {
		anchor = anchor.AddDate(0, 0, -1)
	}
	if anchor.After(u) {
		anchor = anchor.AddDate(0, 0, -7)
	}
	return anchor
}

// SecondsUntil 返回从now到target的整秒数，已过去的目标返回0。
func SecondsUntil(now, target time.Time) int64 {
	d := target.Sub(now)
	if d <= 0 {
		return 0
	}
	return int64(d.Seconds())
}
