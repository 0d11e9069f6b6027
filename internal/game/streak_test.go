package game

import (
	"testing"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/gameclock"
)

func testCalendar() gameclock.Calendar {
	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return gameclock.NewCalendar(launch, 60, 1)
}

func TestTransitionStreak(t *testing.T) {
	cal := testCalendar()
	day := func(index int64) time.Time { return cal.DayStart(index) }
	ptr := func(ts time.Time) *time.Time { return &ts }

	tests := []struct {
		name          string
		lastPlay      *time.Time
		storedStreak  int
		now           time.Time
		wantResulting int
		wantBasis     int
	}{
		{"从未玩过", nil, 0, day(5), 1, 0},
		{"当日重复游玩", ptr(day(3)), 3, day(3).Add(30 * time.Second), 3, 3},
		{"次日连续", ptr(day(3)), 3, day(4), 4, 3},
		{"断档两天归零", ptr(day(3)), 3, day(6), 1, 0},
		{"断档一个月归零", ptr(day(3)), 9, day(33), 1, 0},
		{"第1天接第0天", ptr(day(0)), 1, day(1).Add(10 * time.Second), 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TransitionStreak(tt.lastPlay, tt.storedStreak, tt.now, cal)
			if got.Resulting != tt.wantResulting || got.Basis != tt.wantBasis {
				t.Fatalf("TransitionStreak = {Resulting:%d Basis:%d}, want {Resulting:%d Basis:%d}",
					got.Resulting, got.Basis, tt.wantResulting, tt.wantBasis)
			}
		})
	}
}

func TestMultiplier(t *testing.T) {
	const base, inc = 1.0, 0.1

	tests := []struct {
		name  string
		basis int
		want  float64
	}{
		{"基数0", 0, 1.0},
		{"基数1", 1, 1.0},
		{"基数2", 2, 1.1},
		{"基数5", 5, 1.4},
		{"基数10", 10, 1.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Multiplier(tt.basis, base, inc)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Fatalf("Multiplier(%d) = %v, want %v", tt.basis, got, tt.want)
			}
		})
	}
}

func TestMultiplierMonotoneAndBounded(t *testing.T) {
	const base, inc = 1.5, 0.25
	prev := 0.0
	for basis := 0; basis <= 30; basis++ {
		got := Multiplier(basis, base, inc)
		if got < base {
			t.Fatalf("Multiplier(%d) = %v 低于基础倍率 %v", basis, got, base)
		}
		if got < prev {
			t.Fatalf("Multiplier在基数%d处不单调: %v < %v", basis, got, prev)
		}
		prev = got
	}
}
