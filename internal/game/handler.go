package game

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/SlpAus/daily-play-backend/pkg/walletaddr"
	"github.com/gin-gonic/gin"
)

// --- API 请求/响应模型 ---

type submitRequestBody struct {
	WalletAddress string `json:"walletAddress" binding:"required,wallet"`
	Score         *int64 `json:"score" binding:"required"`
	GameData      string `json:"gameData"`
}

type statusResponse struct {
	PlaysRemaining     int64   `json:"playsRemaining"`
	CanPlay            bool    `json:"canPlay"`
	CurrentStreak      int     `json:"currentStreak"`
	LongestStreak      int     `json:"longestStreak"`
	TotalScore         int64   `json:"totalScore"`
	LifetimeTotalScore int64   `json:"lifetimeTotalScore"`
	StreakMultiplier   float64 `json:"streakMultiplier"`
	NextAvailableAt    *string `json:"nextAvailableAt"`
	SecondsToNextPlay  int64   `json:"secondsToNextPlay"`
	WeeklyResetEnabled bool    `json:"weeklyResetEnabled"`
	WeeklyScore        int64   `json:"weeklyScore"`
	WeeklyStreak       int     `json:"weeklyStreak"`
}

type submitResponse struct {
	SessionID        string  `json:"sessionId"`
	FinalScore       int64   `json:"finalScore"`
	StreakMultiplier float64 `json:"streakMultiplier"`
}

type historyEntryResponse struct {
	SessionID        string  `json:"sessionId"`
	Score            int64   `json:"score"`
	FinalScore       int64   `json:"finalScore"`
	StreakMultiplier float64 `json:"streakMultiplier"`
	PlayDate         string  `json:"playDate"`
	WeekNumber       *int64  `json:"weekNumber"`
	PlayedAt         string  `json:"playedAt"`
}

// --- 控制器函数 ---

// GetWalletStatus 返回钱包的游玩状态。
func GetWalletStatus(c *gin.Context) {
	walletAddress := c.Param("wallet")
	if !walletaddr.IsValid(walletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的钱包地址"})
		return
	}

	dto, err := GetStatus(walletAddress, time.Now())
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	resp := statusResponse{
		PlaysRemaining:     dto.PlaysRemaining,
		CanPlay:            dto.CanPlay,
		CurrentStreak:      dto.CurrentStreak,
		LongestStreak:      dto.LongestStreak,
		TotalScore:         dto.TotalScore,
		LifetimeTotalScore: dto.LifetimeTotalScore,
		StreakMultiplier:   dto.StreakMultiplier,
		SecondsToNextPlay:  dto.SecondsToNextPlay,
		WeeklyResetEnabled: dto.WeeklyResetEnabled,
		WeeklyScore:        dto.WeeklyScore,
		WeeklyStreak:       dto.WeeklyStreak,
	}
	if dto.NextAvailableAt != nil {
		formatted := dto.NextAvailableAt.UTC().Format(time.RFC3339)
		resp.NextAvailableAt = &formatted
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitScoreHandler 处理成绩提交。
// 配额耗尽返回429（限流信号），而不是笼统的400。
func SubmitScoreHandler(c *gin.Context) {
	var body submitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	dto, err := SubmitScore(body.WalletAddress, *body.Score, body.GameData, time.Now())
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	c.JSON(http.StatusOK, submitResponse{
		SessionID:        dto.SessionID,
		FinalScore:       dto.FinalScore,
		StreakMultiplier: dto.StreakMultiplier,
	})
}

// GetWalletHistory 返回钱包的游玩历史。
func GetWalletHistory(c *gin.Context) {
	walletAddress := c.Param("wallet")
	if !walletaddr.IsValid(walletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的钱包地址"})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	entries, err := GetHistory(walletAddress, limit)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	responses := make([]historyEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, historyEntryResponse{
			SessionID:        entry.SessionID,
			Score:            entry.Score,
			FinalScore:       entry.FinalScore,
			StreakMultiplier: entry.StreakMultiplier,
			PlayDate:         entry.PlayDate.UTC().Format(time.RFC3339),
			WeekNumber:       entry.WeekNumber,
			PlayedAt:         entry.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	c.JSON(http.StatusOK, gin.H{"entries": responses})
}
