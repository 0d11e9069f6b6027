package referral

import (
	"errors"
	"net/http"

	"github.com/SlpAus/daily-play-backend/internal/settings"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"github.com/SlpAus/daily-play-backend/pkg/walletaddr"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// redeemRequestBody 定义了兑换推荐码的请求体。
type redeemRequestBody struct {
	WalletAddress string `json:"walletAddress" binding:"required"`
	Code          string `json:"code" binding:"required"`
}

// grantResponse 是推荐资格的响应模型。
type grantResponse struct {
	WalletAddress   string `json:"walletAddress"`
	Code            string `json:"code"`
	ExtraPlaysTotal int    `json:"extraPlaysTotal"`
	ExtraPlaysUsed  int    `json:"extraPlaysUsed"`
	Remaining       int    `json:"remaining"`
}

func formatGrant(grant *Grant) grantResponse {
	return grantResponse{
		WalletAddress:   grant.WalletAddress,
		Code:            grant.Code,
		ExtraPlaysTotal: grant.ExtraPlaysTotal,
		ExtraPlaysUsed:  grant.ExtraPlaysUsed,
		Remaining:       grant.Remaining(),
	}
}

// RedeemCode 处理推荐码兑换。
func RedeemCode(c *gin.Context) {
	var body redeemRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误: " + err.Error()})
		return
	}
	if !walletaddr.IsValid(body.WalletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的钱包地址"})
		return
	}

	snap, err := settings.GetSnapshot()
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	grant, err := Redeem(c.Request.Context(), body.WalletAddress, body.Code, snap.ReferralExtraPlaysDefault)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, formatGrant(grant))
}

// GetGrant 返回钱包的推荐资格状态。
func GetGrant(c *gin.Context) {
	walletAddress := c.Param("wallet")
	if !walletaddr.IsValid(walletAddress) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的钱包地址"})
		return
	}

	grant, err := FindGrant(walletAddress)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查询推荐资格失败"})
		return
	}
	if grant == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "该钱包没有推荐资格", "code": string(apperror.KindNotFound)})
		return
	}
	c.JSON(http.StatusOK, formatGrant(grant))
}
