package game

import (
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
	"github.com/SlpAus/daily-play-backend/pkg/walletaddr"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// PrimeModule 负责初始化game模块：迁移表结构并注册钱包地址校验器。
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&PlaySession{}, &StreakRecord{}); err != nil {
		return fmt.Errorf("无法迁移game相关表: %w", err)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("wallet", walletaddr.Validator); err != nil {
			return fmt.Errorf("注册钱包地址校验器失败: %w", err)
		}
	}

	fmt.Println("Game数据库表迁移成功。")
	return nil
}
