package api

import (
	"net/http"

	"github.com/SlpAus/daily-play-backend/internal/game"
	"github.com/SlpAus/daily-play-backend/internal/leaderboard"
	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/referral"
	"github.com/SlpAus/daily-play-backend/internal/rollover"
	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/gin-gonic/gin"
)

// SetupRoutes 注册项目的所有API路由。
func SetupRoutes(router *gin.Engine) {
	router.GET("/healthz", func(c *gin.Context) {
		status := http.StatusOK
		redisHealthy := database.IsRedisHealthy()
		if !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"redis": redisHealthy})
	})

	api := router.Group("/api")
	{
		// 游戏主路径 /api/game
		gameRoutes := api.Group("/game")
		{
			gameRoutes.GET("/status/:wallet", game.GetWalletStatus)
			gameRoutes.POST("/submit", game.SubmitScoreHandler)
			gameRoutes.GET("/history/:wallet", game.GetWalletHistory)
			gameRoutes.GET("/leaderboard", leaderboard.GetLeaderboardHandler)
		}

		// 推荐码相关 /api/referral
		referralRoutes := api.Group("/referral")
		{
			referralRoutes.POST("/redeem", referral.RedeemCode)
			referralRoutes.GET("/:wallet", referral.GetGrant)
		}

		// 管理端 /api/admin
		// TODO: 接入管理端鉴权中间件后再对外开放
		adminRoutes := api.Group("/admin")
		{
			adminRoutes.GET("/settings", settings.GetSettings)
			adminRoutes.PUT("/settings", settings.PutSettings)
			adminRoutes.POST("/rollover", rollover.TriggerSweep)
		}
	}
}
