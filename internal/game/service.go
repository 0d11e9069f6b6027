package game

import (
	"errors"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/referral"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatusDTO 是GetStatus的结果。
type StatusDTO struct {
	PlaysRemaining     int64
	CanPlay            bool
	CurrentStreak      int
	LongestStreak      int
	TotalScore         int64
	LifetimeTotalScore int64
	StreakMultiplier   float64
	NextAvailableAt    *time.Time
	SecondsToNextPlay  int64
	WeeklyResetEnabled bool
	WeeklyScore        int64
	WeeklyStreak       int
}

// SubmissionDTO 是SubmitScore的结果，回传实际应用的倍率和结算分。
type SubmissionDTO struct {
	SessionID        string
	FinalScore       int64
	StreakMultiplier float64
}

// GetStatus 返回钱包当前的游玩状态，账本行不存在时惰性建档。
// 这里的倍率是纯预测：同一个PlayPlan计算在提交路径原样复用，
// 所以没有并发写介入时预测值与结算值必然一致。
func GetStatus(walletAddress string, now time.Time) (*StatusDTO, error) {
	snap, err := settings.GetSnapshot()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "无法加载游戏设置", err)
	}

	plan, p, _, err := loadPlan(walletAddress, snap, now)
	if err != nil {
		return nil, err
	}

	dto := &StatusDTO{
		PlaysRemaining:     plan.Quota.PlaysRemaining,
		CanPlay:            plan.Quota.CanPlay,
		CurrentStreak:      plan.Lifetime.Resulting,
		LongestStreak:      p.LongestStreak,
		TotalScore:         p.TotalScore,
		LifetimeTotalScore: p.LifetimeTotalScore,
		StreakMultiplier:   plan.Multiplier,
		SecondsToNextPlay:  plan.SecondsToNextPlay,
		WeeklyResetEnabled: snap.WeeklyResetEnabled,
		WeeklyScore:        p.WeeklyScore,
		WeeklyStreak:       p.WeeklyStreak,
	}
	if !plan.Quota.CanPlay {
		next := plan.NextAvailableAt
		dto.NextAvailableAt = &next
	}
	return dto, nil
}

// SubmitScore 是成绩提交的写路径。
// 顺序固定：校验 → 配额 → 判定 → 写会话 → 写连击档案(幂等) →
// 消耗推荐单位 → 更新账本 → 失效缓存。会话先于账本落库，
// 读侧缓存未命中回源时最差只会短暂少算派生分数，不会放水配额。
func SubmitScore(walletAddress string, rawScore int64, gameData string, now time.Time) (*SubmissionDTO, error) {
	if rawScore < 0 {
		return nil, apperror.New(apperror.KindValidation, "分数不能为负")
	}

	snap, err := settings.GetSnapshot()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "无法加载游戏设置", err)
	}
	if !snap.AcceptsSubmissions() {
		return nil, apperror.New(apperror.KindUnavailable, "游戏当前不接受提交").
			WithDetail("gameState", string(snap.GameState))
	}

	// 同一钱包的并发提交在进程内串行化
	mu := lockWallet(walletAddress)
	defer mu.Unlock()

	plan, p, grant, err := loadPlan(walletAddress, snap, now)
	if err != nil {
		return nil, err
	}

	if !plan.Quota.CanPlay {
		metrics.IncrCounter(metrics.CounterQuotaRejections)
		return nil, apperror.New(apperror.KindQuotaExhausted, "今日游玩次数已用尽").
			WithDetail("secondsToNextPlay", plan.SecondsToNextPlay).
			WithDetail("nextAvailableAt", plan.NextAvailableAt.UTC().Format(time.RFC3339))
	}

	finalScore := plan.FinalScore(rawScore)

	sessionUUID, err := uuid.NewV7()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "无法生成会话ID", err)
	}

	session := PlaySession{
		SessionUUID:      sessionUUID.String(),
		PlayerID:         p.ID,
		Score:            rawScore,
		PlayDate:         plan.Today,
		StreakMultiplier: plan.Multiplier,
		FinalScore:       finalScore,
		GameData:         gameData,
	}
	if snap.WeeklyResetEnabled {
		week := plan.WeekIndex
		session.WeekNumber = &week
	}
	if err := createSession(&session); err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "持久化游玩会话失败", err)
	}

	if err := createStreakRecordIdempotent(&StreakRecord{
		PlayerID:    p.ID,
		StreakDate:  plan.Today,
		StreakCount: plan.Lifetime.Resulting,
	}); err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "持久化连击档案失败", err)
	}

	// 推荐单位按次机会性消耗，不影响哪些提交计入基础配额：
	// 基础/推荐的归属只在配额引擎的读路径上对账
	if grant != nil && grant.Remaining() > 0 {
		if err := referral.ConsumeOne(walletAddress); err != nil {
			return nil, apperror.Wrap(apperror.KindInfrastructure, "消耗推荐单位失败", err)
		}
	}

	applyPlanToLedger(p, plan, finalScore, snap.WeeklyResetEnabled)
	if err := player.Save(p); err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "更新玩家账本失败", err)
	}

	invalidateLeaderboardCache()

	metrics.IncrCounter(metrics.CounterSubmissions)
	metrics.ObserveMultiplier(plan.Multiplier)

	return &SubmissionDTO{
		SessionID:        session.SessionUUID,
		FinalScore:       finalScore,
		StreakMultiplier: plan.Multiplier,
	}, nil
}

// HistoryEntryDTO 是单条游玩历史。
type HistoryEntryDTO struct {
	SessionID        string
	Score            int64
	FinalScore       int64
	StreakMultiplier float64
	PlayDate         time.Time
	WeekNumber       *int64
	CreatedAt        time.Time
}

// GetHistory 返回钱包的游玩历史。
// 这是不自动建档的读路径：没有账本行就是NotFound。
func GetHistory(walletAddress string, limit int) ([]HistoryEntryDTO, error) {
	p, err := player.Find(walletAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.New(apperror.KindNotFound, "该钱包没有游玩记录")
		}
		return nil, apperror.Wrap(apperror.KindInfrastructure, "查询玩家失败", err)
	}

	sessions, err := FindSessionsByPlayer(p.ID, limit)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "查询游玩历史失败", err)
	}

	entries := make([]HistoryEntryDTO, 0, len(sessions))
	for _, s := range sessions {
		entries = append(entries, HistoryEntryDTO{
			SessionID:        s.SessionUUID,
			Score:            s.Score,
			FinalScore:       s.FinalScore,
			StreakMultiplier: s.StreakMultiplier,
			PlayDate:         s.PlayDate,
			WeekNumber:       s.WeekNumber,
			CreatedAt:        s.CreatedAt,
		})
	}
	return entries, nil
}

// loadPlan 加载一次游玩判定所需的全部状态并构建计划。
func loadPlan(walletAddress string, snap settings.Snapshot, now time.Time) (PlayPlan, *player.Player, *referral.Grant, error) {
	cal := snap.Calendar()

	p, err := player.GetOrCreate(walletAddress, cal.Launch)
	if err != nil {
		return PlayPlan{}, nil, nil, apperror.Wrap(apperror.KindInfrastructure, "加载玩家账本失败", err)
	}

	totalPlaysUsed, err := CountSessionsSince(p.ID, cal.Launch)
	if err != nil {
		return PlayPlan{}, nil, nil, apperror.Wrap(apperror.KindInfrastructure, "回数游玩次数失败", err)
	}

	grant, err := referral.FindGrant(walletAddress)
	if err != nil {
		return PlayPlan{}, nil, nil, apperror.Wrap(apperror.KindInfrastructure, "查询推荐资格失败", err)
	}

	plan := BuildPlayPlan(PlanInput{
		Now:            now,
		Settings:       snap,
		Player:         p,
		TotalPlaysUsed: totalPlaysUsed,
		Grant:          grant,
	})

	if plan.Quota.ClampEngaged {
		// 历史部分写入造成的偏斜：钳制修正后继续，但要让运维看见
		metrics.IncrCounter(metrics.CounterDataInconsistency)
		logger.Warnf("检测到推荐用量偏斜并已钳制 (wallet=%s)", walletAddress)
	}
	return plan, p, grant, nil
}

// applyPlanToLedger 把判定结果落到账本行上。
// 周榜模式下本周分数只进WeeklyScore，终身累计由周轮转折算；
// 终身模式下TotalScore与LifetimeTotalScore同步累加。
func applyPlanToLedger(p *player.Player, plan PlayPlan, finalScore int64, weeklyMode bool) {
	p.TotalScore += finalScore
	if weeklyMode {
		p.WeeklyScore += finalScore
		p.WeeklyStreak = plan.Weekly.Resulting
		if p.WeeklyStreak > p.WeeklyLongestStreak {
			p.WeeklyLongestStreak = p.WeeklyStreak
		}
	} else {
		p.LifetimeTotalScore += finalScore
	}

	p.CurrentStreak = plan.Lifetime.Resulting
	if p.CurrentStreak > p.LongestStreak {
		p.LongestStreak = p.CurrentStreak
	}

	today := plan.Today
	p.LastPlayDate = &today
}

// invalidateLeaderboardCache 粗粒度地清掉所有排行榜页缓存。
// 失败只记日志：短暂陈旧优于拒绝一次成功的游玩。
func invalidateLeaderboardCache() {
	if !database.IsRedisHealthy() {
		return
	}
	if err := database.DeleteKeysByPrefix(database.Ctx, database.LeaderboardCachePrefix); err != nil {
		logger.Warnf("失效排行榜缓存失败: %v", err)
	}
}
