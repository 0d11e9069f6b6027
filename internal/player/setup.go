package player

import (
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
)

// PrimeModule 负责初始化player模块的数据库表结构。
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&Player{}); err != nil {
		return fmt.Errorf("无法迁移player表: %w", err)
	}
	fmt.Println("Player数据库表迁移成功。")
	return nil
}
