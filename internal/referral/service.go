package referral

import (
	"context"
	"errors"
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/internal/platform/metrics"
	"github.com/SlpAus/daily-play-backend/pkg/apperror"
	"gorm.io/gorm"
)

// activeOracle 由setup注入，Redeem建档时咨询。
var activeOracle Oracle

// FindGrant 返回钱包的推荐资格，没有则返回nil（不是错误）。
func FindGrant(walletAddress string) (*Grant, error) {
	var grant Grant
	err := database.DB.Where("wallet_address = ?", walletAddress).First(&grant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询推荐资格失败: %w", err)
	}
	return &grant, nil
}

// Redeem 为钱包兑换推荐码，创建一次性的Grant。
// 每个钱包只允许兑换一次，唯一约束兜底并发重复兑换。
func Redeem(ctx context.Context, walletAddress, code string, extraPlays int) (*Grant, error) {
	existing, err := FindGrant(walletAddress)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "查询推荐资格失败", err)
	}
	if existing != nil {
		return nil, apperror.New(apperror.KindValidation, "该钱包已经兑换过推荐码")
	}

	valid, err := activeOracle.Validate(ctx, code)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindInfrastructure, "推荐码校验失败", err)
	}
	if !valid {
		return nil, apperror.New(apperror.KindValidation, "无效的推荐码")
	}

	grant := Grant{
		WalletAddress:   walletAddress,
		Code:            code,
		ExtraPlaysTotal: extraPlays,
	}
	if err := database.DB.Create(&grant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.New(apperror.KindValidation, "该钱包已经兑换过推荐码")
		}
		return nil, apperror.Wrap(apperror.KindInfrastructure, "创建推荐资格失败", err)
	}

	metrics.IncrCounter(metrics.CounterReferralRedeems)
	return &grant, nil
}

// ConsumeOne 机会性地消耗一个推荐单位。
// 条件更新保证used永不超过total；没有剩余单位时静默跳过。
// 推荐单位与基础配额的归属对账只发生在配额引擎的读路径上。
func ConsumeOne(walletAddress string) error {
	result := database.DB.Model(&Grant{}).
		Where("wallet_address = ? AND extra_plays_used < extra_plays_total", walletAddress).
		Update("extra_plays_used", gorm.Expr("extra_plays_used + 1"))
	if result.Error != nil {
		return fmt.Errorf("消耗推荐单位失败: %w", result.Error)
	}
	return nil
}
