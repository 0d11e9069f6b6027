package rollover

import (
	"testing"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestBuildSnapshotCapturesWeekFields(t *testing.T) {
	p := &player.Player{
		ID:                  7,
		WalletAddress:       "0x00000000000000000000000000000000000000aa",
		LifetimeTotalScore:  10000,
		WeeklyScore:         5000,
		WeeklyStreak:        4,
		WeeklyLongestStreak: 6,
	}

	snap := buildSnapshot(p, 3)

	if snap.WeekNumber != 2 {
		t.Fatalf("快照归档的是刚结束的周: WeekNumber = %d, want 2", snap.WeekNumber)
	}
	if snap.PlayerID != 7 || snap.WalletAddress != p.WalletAddress {
		t.Fatalf("快照玩家标识错误: %+v", snap)
	}
	if snap.WeeklyScore != 5000 || snap.WeeklyStreak != 4 || snap.WeeklyLongestStreak != 6 {
		t.Fatalf("快照周期字段错误: %+v", snap)
	}
	// 入档的终身累计是折算之后的值
	if snap.LifetimeTotalScore != 15000 {
		t.Fatalf("LifetimeTotalScore = %d, want 15000", snap.LifetimeTotalScore)
	}
}

func TestApplyResetFoldsAndZeroes(t *testing.T) {
	p := &player.Player{
		LifetimeTotalScore:  10000,
		WeeklyScore:         5000,
		WeeklyStreak:        4,
		WeeklyLongestStreak: 6,
		CurrentStreak:       12,
		LongestStreak:       15,
	}

	applyReset(p, 3)

	if p.LifetimeTotalScore != 15000 {
		t.Fatalf("周期分数应折入终身累计: %d", p.LifetimeTotalScore)
	}
	if p.WeeklyScore != 0 || p.WeeklyStreak != 0 || p.WeeklyLongestStreak != 0 {
		t.Fatalf("周期字段未清零: %+v", p)
	}
	// 终身连击不受周轮转影响
	if p.CurrentStreak != 12 || p.LongestStreak != 15 {
		t.Fatalf("终身连击被轮转破坏: %+v", p)
	}
	if p.LastResetWeekNumber == nil || *p.LastResetWeekNumber != 3 {
		t.Fatalf("LastResetWeekNumber未推进: %v", p.LastResetWeekNumber)
	}
}

// 多个周期轮转后，终身累计等于各周分数之和，不会丢也不会重。
func TestApplyResetPreservesTotalAcrossWeeks(t *testing.T) {
	p := &player.Player{LifetimeTotalScore: 0}

	weeks := []int64{5000, 1500, 0, 2750}
	for i, score := range weeks {
		p.WeeklyScore = score
		applyReset(p, int64(i)+1)
	}

	if p.LifetimeTotalScore != 9250 {
		t.Fatalf("LifetimeTotalScore = %d, want 9250", p.LifetimeTotalScore)
	}
}

// 跨越多个周界的补扫也只折算一次：清零之后重复应用是无增量的。
func TestApplyResetIdempotentAfterZeroing(t *testing.T) {
	p := &player.Player{LifetimeTotalScore: 100, WeeklyScore: 50}

	applyReset(p, 2)
	applyReset(p, 2)

	if p.LifetimeTotalScore != 150 {
		t.Fatalf("重复折算改变了终身累计: %d", p.LifetimeTotalScore)
	}
}

// setupSweepDB 用内存SQLite替换全局数据库句柄，并把缓存标记为
// 不可用，让所有缓存失效操作按降级路径跳过。
func setupSweepDB(t *testing.T) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&settings.Settings{}, &player.Player{}, &WeeklySnapshot{}); err != nil {
		t.Fatalf("迁移表结构失败: %v", err)
	}
	database.DB = db
	database.UpdateStatus(false, "")
}

// 发布后第0周进行中（currentWeekNumber尚为空）不允许折算；
// 跨过第一个周界后恰好折算一次，紧接着的重复调用是零增量的no-op。
func TestSweepWeekZeroGateAndRepeatNoOp(t *testing.T) {
	setupSweepDB(t)

	launch := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	spd := 60
	row := settings.Settings{
		ID:                 1,
		LaunchDate:         launch,
		SecondsPerDay:      &spd,
		WeeklyResetEnabled: true,
		WeeklyResetDay:     1,
		GameState:          settings.GameStateActive,
	}
	if err := database.DB.Create(&row).Error; err != nil {
		t.Fatalf("写入设置单例失败: %v", err)
	}

	seed := player.Player{
		WalletAddress: "0x52908400098527886E0F7030069857D2E4169EE7",
		WeeklyScore:   500,
		WeeklyStreak:  2,
		CurrentStreak: 3,
		LaunchDate:    launch,
	}
	if err := database.DB.Create(&seed).Error; err != nil {
		t.Fatalf("写入玩家失败: %v", err)
	}

	snap := settings.Snapshot{
		LaunchDate:         launch,
		SecondsPerDay:      60,
		WeeklyResetEnabled: true,
		WeeklyResetDay:     1,
		GameState:          settings.GameStateActive,
	}

	// 第0周进行中：不折算、不归档、不推进周序号
	processed, err := sweep(snap, launch.Add(30*time.Second))
	if err != nil {
		t.Fatalf("第0周清扫出错: %v", err)
	}
	if processed != 0 {
		t.Fatalf("第0周不应处理任何玩家, got %d", processed)
	}
	var p player.Player
	if err := database.DB.First(&p, seed.ID).Error; err != nil {
		t.Fatalf("读回玩家失败: %v", err)
	}
	if p.WeeklyScore != 500 || p.LifetimeTotalScore != 0 {
		t.Fatalf("第0周玩家被错误折算: weekly=%d lifetime=%d", p.WeeklyScore, p.LifetimeTotalScore)
	}
	var snapshotCount int64
	database.DB.Model(&WeeklySnapshot{}).Count(&snapshotCount)
	if snapshotCount != 0 {
		t.Fatalf("第0周不应写入周快照, got %d", snapshotCount)
	}
	var s settings.Settings
	if err := database.DB.First(&s, 1).Error; err != nil {
		t.Fatalf("读回设置失败: %v", err)
	}
	if s.CurrentWeekNumber != nil {
		t.Fatalf("第0周不应推进周序号, got %d", *s.CurrentWeekNumber)
	}

	// 跨过第一个周界：恰好折算一次
	afterBoundary := launch.Add(7*60*time.Second + 10*time.Second)
	processed, err = sweep(snap, afterBoundary)
	if err != nil {
		t.Fatalf("第1周清扫出错: %v", err)
	}
	if processed != 1 {
		t.Fatalf("第1周应处理1名玩家, got %d", processed)
	}
	if err := database.DB.First(&p, seed.ID).Error; err != nil {
		t.Fatalf("读回玩家失败: %v", err)
	}
	if p.WeeklyScore != 0 || p.WeeklyStreak != 0 || p.LifetimeTotalScore != 500 {
		t.Fatalf("折算结果错误: %+v", p)
	}
	if p.CurrentStreak != 3 {
		t.Fatalf("终身连击被轮转破坏: %d", p.CurrentStreak)
	}
	if p.LastResetWeekNumber == nil || *p.LastResetWeekNumber != 1 {
		t.Fatalf("lastResetWeekNumber未推进: %v", p.LastResetWeekNumber)
	}
	var archived WeeklySnapshot
	if err := database.DB.First(&archived).Error; err != nil {
		t.Fatalf("读回周快照失败: %v", err)
	}
	if archived.WeekNumber != 0 || archived.WeeklyScore != 500 {
		t.Fatalf("周快照归档错误: %+v", archived)
	}

	// 紧接着用同一份（已陈旧）快照重复调用：
	// 设置行的条件更新选不出赢家，整轮是零增量的no-op
	processed, err = sweep(snap, afterBoundary.Add(10*time.Second))
	if err != nil {
		t.Fatalf("重复清扫出错: %v", err)
	}
	if processed != 0 {
		t.Fatalf("重复清扫不应处理任何玩家, got %d", processed)
	}
	if err := database.DB.First(&p, seed.ID).Error; err != nil {
		t.Fatalf("读回玩家失败: %v", err)
	}
	if p.LifetimeTotalScore != 500 {
		t.Fatalf("重复清扫改变了终身累计: %d", p.LifetimeTotalScore)
	}
	database.DB.Model(&WeeklySnapshot{}).Count(&snapshotCount)
	if snapshotCount != 1 {
		t.Fatalf("重复清扫追加了周快照, got %d", snapshotCount)
	}

	// 新鲜快照同样被周序号闸门挡住
	week := int64(1)
	fresh := snap
	fresh.CurrentWeekNumber = week
	fresh.CurrentWeekNumberSet = true
	processed, err = sweep(fresh, afterBoundary.Add(20*time.Second))
	if err != nil {
		t.Fatalf("新鲜快照清扫出错: %v", err)
	}
	if processed != 0 {
		t.Fatalf("同一周内的再次清扫应为no-op, got %d", processed)
	}
}
