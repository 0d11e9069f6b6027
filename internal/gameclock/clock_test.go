package gameclock

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("解析时间失败: %v", err)
	}
	return ts
}

func TestDayIndexVirtual(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(launch, 60, 1) // 60秒一天

	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"发布瞬间", launch, 0},
		{"第0日中段", launch.Add(30 * time.Second), 0},
		{"第1日起点", launch.Add(60 * time.Second), 1},
		{"第1日末尾", launch.Add(119 * time.Second), 1},
		{"第10日", launch.Add(600 * time.Second), 10},
		{"发布之前", launch.Add(-5 * time.Second), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.DayIndex(tt.at); got != tt.want {
				t.Fatalf("DayIndex(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestDayIndexRealDays(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(launch, 0, 1) // 未配置加速：真实日长

	if got := cal.DayIndex(mustParse(t, "2025-01-01T23:59:59Z")); got != 0 {
		t.Fatalf("发布当日 DayIndex = %d, want 0", got)
	}
	if got := cal.DayIndex(mustParse(t, "2025-01-02T00:00:00Z")); got != 1 {
		t.Fatalf("次日午夜 DayIndex = %d, want 1", got)
	}
	if got := cal.DayIndex(mustParse(t, "2025-01-31T12:00:00Z")); got != 30 {
		t.Fatalf("一个月后 DayIndex = %d, want 30", got)
	}
}

func TestLaunchMidnightUTC(t *testing.T) {
	in := mustParse(t, "2025-03-15T18:45:30Z")
	want := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	if got := LaunchMidnightUTC(in); !got.Equal(want) {
		t.Fatalf("LaunchMidnightUTC = %v, want %v", got, want)
	}
}

func TestNormalizeAndSameDay(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(launch, 120, 1)

	a := launch.Add(125 * time.Second) // 第1日
	b := launch.Add(239 * time.Second) // 第1日末尾
	c := launch.Add(240 * time.Second) // 第2日

	if !cal.SameDay(a, b) {
		t.Fatalf("同一虚拟日内的两个时刻应判为同一天")
	}
	if cal.SameDay(b, c) {
		t.Fatalf("跨越日界的两个时刻不应判为同一天")
	}
	if got, want := cal.Normalize(a), launch.Add(120*time.Second); !got.Equal(want) {
		t.Fatalf("Normalize = %v, want %v", got, want)
	}
}

func TestWeekIndexVirtual(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(launch, 60, 1)

	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"第0周", launch.Add(6 * 60 * time.Second), 0},
		{"第1周起点", launch.Add(7 * 60 * time.Second), 1},
		{"第2周", launch.Add(15 * 60 * time.Second), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.WeekIndex(tt.at); got != tt.want {
				t.Fatalf("WeekIndex = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWeekIndexCalendar(t *testing.T) {
	// 2025-01-01是周三；周重置日为周一
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cal := NewCalendar(launch, 0, 1)

	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"发布当周", mustParse(t, "2025-01-03T12:00:00Z"), 0},
		{"周一01:00前仍在第0周", mustParse(t, "2025-01-06T00:59:59Z"), 0},
		{"周一01:00进入第1周", mustParse(t, "2025-01-06T01:00:00Z"), 1},
		{"再过一周", mustParse(t, "2025-01-13T02:00:00Z"), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cal.WeekIndex(tt.at); got != tt.want {
				t.Fatalf("WeekIndex(%v) = %d, want %d", tt.at, got, tt.want)
			}
		})
	}
}

func TestWeekStartAndNextWeekStart(t *testing.T) {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("虚拟周", func(t *testing.T) {
		cal := NewCalendar(launch, 60, 1)
		at := launch.Add(10 * 60 * time.Second) // 第1周
		if got, want := cal.WeekStart(at), launch.Add(7*60*time.Second); !got.Equal(want) {
			t.Fatalf("WeekStart = %v, want %v", got, want)
		}
		if got, want := cal.NextWeekStart(at), launch.Add(14*60*time.Second); !got.Equal(want) {
			t.Fatalf("NextWeekStart = %v, want %v", got, want)
		}
	})

	t.Run("日历周", func(t *testing.T) {
		cal := NewCalendar(launch, 0, 1)
		at := mustParse(t, "2025-01-08T12:00:00Z")
		if got, want := cal.WeekStart(at), mustParse(t, "2025-01-06T01:00:00Z"); !got.Equal(want) {
			t.Fatalf("WeekStart = %v, want %v", got, want)
		}
		if got, want := cal.NextWeekStart(at), mustParse(t, "2025-01-13T01:00:00Z"); !got.Equal(want) {
			t.Fatalf("NextWeekStart = %v, want %v", got, want)
		}
	})
}

func TestSecondsUntil(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := SecondsUntil(now, now.Add(90*time.Second)); got != 90 {
		t.Fatalf("SecondsUntil = %d, want 90", got)
	}
	if got := SecondsUntil(now, now.Add(-time.Second)); got != 0 {
		t.Fatalf("已过去的目标应返回0, got %d", got)
	}
}
