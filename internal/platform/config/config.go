package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 结构体定义了应用程序的所有配置项，与config.yaml的结构对应。
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Log       LogConfig       `mapstructure:"log"`
	Game      GameConfig      `mapstructure:"game"`
	Referral  ReferralConfig  `mapstructure:"referral"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig 定义了HTTP服务器相关的配置。
type ServerConfig struct {
	Mode    string     `mapstructure:"mode"` // debug / release
	Address string     `mapstructure:"address"`
	Cors    CorsConfig `mapstructure:"cors"`
}

// CorsConfig 定义了CORS相关的配置。
type CorsConfig struct {
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

// DatabaseConfig 定义了数据库和缓存相关的配置。
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"` // sqlite / postgres
	Sqlite   SqliteConfig   `mapstructure:"sqlite"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// SqliteConfig 定义了SQLite的配置。
type SqliteConfig struct {
	Path string `mapstructure:"path"`
}

// PostgresConfig 定义了PostgreSQL的配置。
type PostgresConfig struct {
	DSN string `mapstructure:"dsn"`
}

// RedisConfig 定义了Redis的配置。
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig 定义了日志相关的配置。
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json / text
	Output string `mapstructure:"output"` // stdout / stderr / 文件路径
}

// GameConfig 提供游戏设置单例首次落库时的默认值。
// 落库之后以数据库中的Settings行为准，这里只影响首次启动。
type GameConfig struct {
	LaunchDate              string  `mapstructure:"launchDate"` // YYYY-MM-DD，UTC
	SecondsPerDay           int     `mapstructure:"secondsPerDay"`
	StreakBaseMultiplier    float64 `mapstructure:"streakBaseMultiplier"`
	StreakIncrementPerDay   float64 `mapstructure:"streakIncrementPerDay"`
	WeeklyResetEnabled      bool    `mapstructure:"weeklyResetEnabled"`
	WeeklyResetDay          int     `mapstructure:"weeklyResetDay"` // 0=周日
	ReferralExtraPlays      int     `mapstructure:"referralExtraPlays"`
	CacheTTLSeconds         int     `mapstructure:"cacheTTLSeconds"`
	LeaderboardTTLSeconds   int     `mapstructure:"leaderboardTTLSeconds"`
	LeaderboardDefaultLimit int     `mapstructure:"leaderboardDefaultLimit"`
}

// ReferralConfig 定义了推荐码有效性校验服务的配置。
type ReferralConfig struct {
	Mode        string   `mapstructure:"mode"` // http / static
	OracleURL   string   `mapstructure:"oracleUrl"`
	TimeoutMS   int      `mapstructure:"timeoutMs"`
	StaticCodes []string `mapstructure:"staticCodes"` // static模式下的白名单
}

// SchedulerConfig 定义了后台任务调度的配置。
type SchedulerConfig struct {
	RolloverCron string `mapstructure:"rolloverCron"` // cron表达式，默认每小时
}

// Cfg 保存已加载的全局配置。
var Cfg *Config

// OracleTimeout 返回推荐码校验的超时时长。
func (r ReferralConfig) OracleTimeout() time.Duration {
	if r.TimeoutMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(r.TimeoutMS) * time.Millisecond
}

// LoadConfig 查找并解析config.yaml，支持环境变量覆盖。
func LoadConfig() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	// 默认值保证在没有配置文件的环境（测试、本地）下也能启动
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.cors.allowedOrigins", []string{"http://localhost:3000"})
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.sqlite.path", "game.db")
	v.SetDefault("database.redis.address", "localhost:6379")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.output", "stdout")
	v.SetDefault("game.streakBaseMultiplier", 1.0)
	v.SetDefault("game.streakIncrementPerDay", 0.1)
	v.SetDefault("game.weeklyResetEnabled", true)
	v.SetDefault("game.weeklyResetDay", 1)
	v.SetDefault("game.referralExtraPlays", 3)
	v.SetDefault("game.cacheTTLSeconds", 30)
	v.SetDefault("game.leaderboardTTLSeconds", 60)
	v.SetDefault("game.leaderboardDefaultLimit", 50)
	v.SetDefault("referral.mode", "static")
	v.SetDefault("scheduler.rolloverCron", "0 0 * * * *")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 配置文件缺失不是错误，全部走默认值+环境变量
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	Cfg = &cfg
	return Cfg, nil
}
