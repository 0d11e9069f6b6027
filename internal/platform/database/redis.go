package database

import (
	"context"
	"fmt"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
	"github.com/redis/go-redis/v9"
)

// RDB 是全局的Redis客户端实例。
// 共享缓存是多副本部署下的必需依赖：没有它，各副本会各自引导出
// 互相矛盾的内存状态，所以连接失败时进程必须直接退出。
var RDB *redis.Client

// Ctx 是用于Redis操作的全局上下文。
var Ctx = context.Background()

// InitRedis 初始化与Redis的连接，失败即panic。
func InitRedis(cfg config.RedisConfig) {
	RDB = redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if _, err := RDB.Ping(Ctx).Result(); err != nil {
		panic("无法连接到Redis: " + err.Error())
	}

	fmt.Println("Redis 连接成功！")
}
