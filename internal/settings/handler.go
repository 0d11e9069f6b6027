package settings

import (
	"net/http"

	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// settingsResponse 是管理端查看设置时的响应模型。
type settingsResponse struct {
	LaunchDate                string  `json:"launchDate"`
	SecondsPerDay             int     `json:"secondsPerDay"`
	StreakBaseMultiplier      float64 `json:"streakBaseMultiplier"`
	StreakIncrementPerDay     float64 `json:"streakIncrementPerDay"`
	WeeklyResetEnabled        bool    `json:"weeklyResetEnabled"`
	WeeklyResetDay            int     `json:"weeklyResetDay"`
	CurrentWeekNumber         *int64  `json:"currentWeekNumber"`
	ReferralExtraPlaysDefault int     `json:"referralExtraPlaysDefault"`
	GameState                 string  `json:"gameState"`
}

func formatSnapshot(snap Snapshot) settingsResponse {
	resp := settingsResponse{
		LaunchDate:                snap.LaunchDate.UTC().Format("2006-01-02"),
		SecondsPerDay:             snap.SecondsPerDay,
		StreakBaseMultiplier:      snap.StreakBaseMultiplier,
		StreakIncrementPerDay:     snap.StreakIncrementPerDay,
		WeeklyResetEnabled:        snap.WeeklyResetEnabled,
		WeeklyResetDay:            snap.WeeklyResetDay,
		ReferralExtraPlaysDefault: snap.ReferralExtraPlaysDefault,
		GameState:                 string(snap.GameState),
	}
	if snap.CurrentWeekNumberSet {
		week := snap.CurrentWeekNumber
		resp.CurrentWeekNumber = &week
	}
	return resp
}

// GetSettings 返回当前的游戏设置。
func GetSettings(c *gin.Context) {
	snap, err := GetSnapshot()
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, formatSnapshot(snap))
}

// PutSettings 应用管理端的设置修改。
func PutSettings(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}

	snap, err := UpdateSettings(input)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, formatSnapshot(snap))
}
