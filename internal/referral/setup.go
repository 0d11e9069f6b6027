package referral

import (
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/SlpAus/daily-play-backend/internal/platform/database"
)

// PrimeModule 负责初始化referral模块：迁移表结构并装配推荐码校验实现。
func PrimeModule(cfg config.ReferralConfig) error {
	if err := database.DB.AutoMigrate(&Grant{}); err != nil {
		return fmt.Errorf("无法迁移referral表: %w", err)
	}
	activeOracle = NewOracle(cfg)
	fmt.Println("Referral数据库表迁移成功。")
	return nil
}
