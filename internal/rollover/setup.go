package rollover

import (
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/database"
)

// PrimeModule 负责初始化rollover模块的数据库表结构。
func PrimeModule() error {
	if err := database.DB.AutoMigrate(&WeeklySnapshot{}); err != nil {
		return fmt.Errorf("无法迁移weekly_snapshot表: %w", err)
	}
	fmt.Println("WeeklySnapshot数据库表迁移成功。")
	return nil
}
