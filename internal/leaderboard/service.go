package leaderboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/game"
	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/internal/player"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/SlpAus/daily-play-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// cacheTTL 是排行榜页缓存的生存时间，由setup注入配置值。
var cacheTTL = 60 * time.Second

// SetCacheTTL 由setup在启动时注入配置值。
func SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		cacheTTL = ttl
	}
}

// EntryDTO 是排行榜中的一行。
type EntryDTO struct {
	Rank          int64   `json:"rank"`
	WalletAddress string  `json:"walletAddress"`
	Score         int64   `json:"score"`
	Streak        int     `json:"streak"`
	LongestStreak int     `json:"longestStreak"`
	Multiplier    float64 `json:"multiplier"`
}

// PageDTO 是一页榜单及其分页信息，整页作为缓存单元。
type PageDTO struct {
	Entries      []EntryDTO `json:"entries"`
	Page         int        `json:"page"`
	Limit        int        `json:"limit"`
	TotalPlayers int64      `json:"totalPlayers"`
	TotalPages   int64      `json:"totalPages"`
}

// ResultDTO 是GetLeaderboard的完整结果。
// UserRank/UserEntry按请求钱包即时计算，不进页缓存。
type ResultDTO struct {
	PageDTO
	WeeklyMode    bool       `json:"weeklyMode"`
	UserRank      *int64     `json:"userRank"`
	UserEntry     *EntryDTO  `json:"userEntry"`
	NextResetTime *time.Time `json:"nextResetTime"`
}

// GetLeaderboard 返回一页榜单。
// 排序键由模式决定（周榜=weeklyScore，终身榜=totalScore），降序，
// 同分按建档先后升序破平，保证分页在并列分数下仍然确定。
func GetLeaderboard(limit, page int, walletAddress string, now time.Time) (*ResultDTO, error) {
	snap, err := settings.GetSnapshot()
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "无法加载游戏设置", err)
	}
	weekly := snap.WeeklyResetEnabled

	pageData, err := getPage(snap, weekly, limit, page)
	if err != nil {
		return nil, err
	}

	result := &ResultDTO{
		PageDTO:    *pageData,
		WeeklyMode: weekly,
	}

	if weekly {
		next := snap.Calendar().NextWeekStart(now)
		result.NextResetTime = &next
	}

	if walletAddress != "" {
		rank, entry, err := lookupUser(snap, weekly, walletAddress)
		if err != nil {
			return nil, err
		}
		result.UserRank = rank
		result.UserEntry = entry
	}
	return result, nil
}

// getPage 以读穿方式取一页榜单，提交写路径会按前缀整体失效这些键。
func getPage(snap settings.Snapshot, weekly bool, limit, page int) (*PageDTO, error) {
	key := pageCacheKey(weekly, limit, page)

	cached, err := database.RDB.Get(database.Ctx, key).Result()
	if err == nil {
		var pageData PageDTO
		if jsonErr := json.Unmarshal([]byte(cached), &pageData); jsonErr == nil {
			metrics.IncrCounter(metrics.CounterCacheHit)
			return &pageData, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		logger.Warnf("读取排行榜缓存失败，回源数据库: %v", err)
	}
	metrics.IncrCounter(metrics.CounterCacheMiss)

	pageData, err := queryPage(snap, weekly, limit, page)
	if err != nil {
		return nil, err
	}

	if data, jsonErr := json.Marshal(pageData); jsonErr == nil {
		if err := database.RDB.Set(database.Ctx, key, data, cacheTTL).Err(); err != nil {
			logger.Warnf("写入排行榜缓存失败: %v", err)
		}
	}
	return pageData, nil
}

func pageCacheKey(weekly bool, limit, page int) string {
	mode := "lifetime"
	if weekly {
		mode = "weekly"
	}
	return fmt.Sprintf("%spage:%s:%d:%d", database.LeaderboardCachePrefix, mode, limit, page)
}

func scoreColumn(weekly bool) string {
	if weekly {
		return "weekly_score"
	}
	return "total_score"
}

// queryPage 从数据库查询一页榜单。
func queryPage(snap settings.Snapshot, weekly bool, limit, page int) (*PageDTO, error) {
	var total int64
	if err := database.DB.Model(&player.Player{}).Count(&total).Error; err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "统计玩家总数失败", err)
	}

	column := scoreColumn(weekly)
	var rows []player.Player
	err := database.DB.
		Order(column + " DESC, id ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "查询排行榜失败", err)
	}

	entries := make([]EntryDTO, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, formatEntry(snap, weekly, &row, int64((page-1)*limit+i+1)))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &PageDTO{
		Entries:      entries,
		Page:         page,
		Limit:        limit,
		TotalPlayers: total,
		TotalPages:   totalPages,
	}, nil
}

// lookupUser 即时计算请求钱包的名次和榜单条目。
// 没有账本行不是错误，只是没有名次。
func lookupUser(snap settings.Snapshot, weekly bool, walletAddress string) (*int64, *EntryDTO, error) {
	p, err := player.Find(walletAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, apperror.Wrap(apperror.KindInfrastructure, "查询玩家失败", err)
	}

	column := scoreColumn(weekly)
	score := p.TotalScore
	if weekly {
		score = p.WeeklyScore
	}

	// 名次 = 比我高的人数 + 同分但建档更早的人数 + 1
	var ahead int64
	err = database.DB.Model(&player.Player{}).
		Where(column+" > ? OR ("+column+" = ? AND id < ?)", score, score, p.ID).
		Count(&ahead).Error
	if err != nil {
		return nil, nil, apperror.Wrap(apperror.KindInfrastructure, "计算玩家名次失败", err)
	}

	rank := ahead + 1
	entry := formatEntry(snap, weekly, p, rank)
	return &rank, &entry, nil
}

func formatEntry(snap settings.Snapshot, weekly bool, p *player.Player, rank int64) EntryDTO {
	entry := EntryDTO{
		Rank:          rank,
		WalletAddress: p.WalletAddress,
		Multiplier:    game.Multiplier(p.CurrentStreak, snap.StreakBaseMultiplier, snap.StreakIncrementPerDay),
	}
	if weekly {
		entry.Score = p.WeeklyScore
		entry.Streak = p.WeeklyStreak
		entry.LongestStreak = p.WeeklyLongestStreak
	} else {
		entry.Score = p.TotalScore
		entry.Streak = p.CurrentStreak
		entry.LongestStreak = p.LongestStreak
	}
	return entry
}
