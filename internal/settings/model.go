package settings

import (
	"time"
)

// GameState 表示游戏面向玩家的开放状态。
type GameState string

const (
	GameStateActive        GameState = "ACTIVE"
	GameStateInMaintenance GameState = "IN_MAINTENANCE"
	GameStateDisabled      GameState = "DISABLED"
	GameStateHidden        GameState = "HIDDEN"
)

// Settings 定义了游戏全局设置在数据库中的持久化模型。
// 这张表中有且只有一条记录（id=1），由管理端和每周轮转清扫修改。
type Settings struct {
	ID uint `gorm:"primarykey"`

	// LaunchDate 是发布日（UTC午夜锚点），虚拟日从这里起算。
	LaunchDate time.Time

	// SecondsPerDay 是可选的虚拟日长度覆盖值。
	// 为空表示真实的86400秒日长；设置后用于测试加速。
	SecondsPerDay *int

	// StreakBaseMultiplier 是连续登录加成的基础倍率。
	StreakBaseMultiplier float64

	// StreakIncrementPerDay 是连续天数每多一天增加的倍率。
	StreakIncrementPerDay float64

	// WeeklyResetEnabled 控制周榜模式是否开启。
	WeeklyResetEnabled bool

	// WeeklyResetDay 是日历周模式下的每周起始日（0=周日）。
	// 仅在SecondsPerDay为空时生效。
	WeeklyResetDay int

	// CurrentWeekNumber 是系统已经处理完轮转的最后一个周序号。
	// 为空表示尚未发生过任何轮转。仅由轮转清扫推进。
	CurrentWeekNumber *int64

	// ReferralExtraPlaysDefault 是新建推荐资格时默认授予的额外游玩次数。
	ReferralExtraPlaysDefault int

	// GameState 控制游戏是否接受提交。
	GameState GameState `gorm:"type:varchar(20)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// singletonID 是设置单例的固定主键。
const singletonID = 1
