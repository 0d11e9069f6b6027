package database

import (
	"fmt"
	"log"
	"os"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB 是全局的gorm数据库句柄，供项目其他部分使用。
var DB *gorm.DB

// InitDB 根据配置初始化数据库连接。
// 默认使用SQLite，生产环境通过database.driver=postgres切换。
func InitDB(cfg config.DatabaseConfig) {
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: 0,
			LogLevel:      logger.Silent,
			Colorful:      true,
		},
	)

	gormCfg := &gorm.Config{
		Logger:         newLogger,
		TranslateError: true, // 统一各驱动的唯一键冲突错误为gorm.ErrDuplicatedKey
	}

	var err error
	switch cfg.Driver {
	case "postgres":
		DB, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), gormCfg)
	default:
		DB, err = gorm.Open(sqlite.Open(cfg.Sqlite.Path), gormCfg)
	}

	if err != nil {
		panic(fmt.Sprintf("连接数据库失败 (driver=%s): %v", cfg.Driver, err))
	}

	fmt.Println("数据库连接成功！")
}
