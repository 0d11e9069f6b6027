package leaderboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/SlpAus/daily-play-backend/pkg/walletaddr"
	"github.com/gin-gonic/gin"
)

const maxPageLimit = 200

// GetLeaderboardHandler 返回一页排行榜。
// 可选的wallet参数附带返回请求者自己的名次。
func GetLeaderboardHandler(c *gin.Context) {
	limit := config.Cfg.Game.LeaderboardDefaultLimit
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= maxPageLimit {
			limit = parsed
		}
	}
	if limit <= 0 {
		limit = 50
	}

	page := 1
	if raw := c.Query("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			page = parsed
		}
	}

	walletAddress := c.Query("wallet")
	if walletAddress != "" && !walletaddr.IsValid(walletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的钱包地址"})
		return
	}

	result, err := GetLeaderboard(limit, page, walletAddress, time.Now())
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, result)
}
