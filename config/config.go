package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

var Cfg *Config

// Config 应用配置结构
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Data      DataConfig      `mapstructure:"data"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Redis     RedisConfig     `mapstructure:"redis"`
	SQLite    SQLiteConfig    `mapstructure:"sqlite"`
	Log       LogConfig       `mapstructure:"log"`
}

// AppConfig 应用配置
type AppConfig struct {
	Name         string        `mapstructure:"name"`
	Version      string        `mapstructure:"version"`
	Mode         string        `mapstructure:"mode"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DataConfig 数据目录配置
type DataConfig struct {
	RawPath    string `mapstructure:"raw_path"`
	CuratedDir string `mapstructure:"curated_dir"`
}

// GeneratorConfig 订单生成器配置
type GeneratorConfig struct {
	Seed         int64   `mapstructure:"seed"`
	Days         int     `mapstructure:"days"`
	UserMin      int64   `mapstructure:"user_min"`
	UserMax      int64   `mapstructure:"user_max"`
	WeekdayMean  float64 `mapstructure:"weekday_mean"`
	WeekendMean  float64 `mapstructure:"weekend_mean"`
	VolumeStdDev float64 `mapstructure:"volume_stddev"`
	MinPerDay    int     `mapstructure:"min_per_day"`
	PromoRate    float64 `mapstructure:"promo_rate"`
	StartHour    int     `mapstructure:"start_hour"`
	EndHour      int     `mapstructure:"end_hour"`
}

// RedisConfig Redis 配置（仪表盘缓存，可选）
type RedisConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	CacheTTL     time.Duration `mapstructure:"cache_ttl"`
}

// SQLiteConfig ETL 运行记录库配置
type SQLiteConfig struct {
	Path    string `mapstructure:"path"`
	LogMode bool   `mapstructure:"log_mode"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load 加载配置文件
// 如果 configPath 为空，则根据环境变量 APP_ENV 自动选择配置文件
// APP_ENV 可选值: dev(默认), test, prod
func Load(configPath string) error {
	if configPath == "" {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "dev"
		}

		switch env {
		case "prod", "production":
			configPath = "config/config.prod.yaml"
		case "test", "testing":
			configPath = "config/config.test.yaml"
		case "dev", "development", "":
			configPath = "config/config.yaml"
		default:
			configPath = fmt.Sprintf("config/config.%s.yaml", env)
		}
	}

	viper.SetConfigType("yaml")
	viper.SetConfigFile(configPath)

	// 设置默认值
	setDefaults()

	// 支持环境变量覆盖配置
	viper.SetEnvPrefix("APP")
	viper.AutomaticEnv()

	// 配置文件允许缺失，此时全部使用默认值
	if _, err := os.Stat(configPath); err == nil {
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("读取配置文件失败 [%s]: %w", configPath, err)
		}
	}

	// 解析配置到结构体
	Cfg = &Config{}
	if err := viper.Unmarshal(Cfg); err != nil {
		return fmt.Errorf("解析配置文件失败: %w", err)
	}

	return nil
}

// setDefaults 设置默认值
func setDefaults() {
	viper.SetDefault("app.name", "sales-pulse")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.mode", "release")
	viper.SetDefault("app.port", 8080)
	viper.SetDefault("app.read_timeout", "10s")
	viper.SetDefault("app.write_timeout", "10s")

	viper.SetDefault("data.raw_path", "data/raw/orders.csv")
	viper.SetDefault("data.curated_dir", "data/curated")

	viper.SetDefault("generator.seed", 42)
	viper.SetDefault("generator.days", 90)
	viper.SetDefault("generator.user_min", 1001)
	viper.SetDefault("generator.user_max", 2200)
	viper.SetDefault("generator.weekday_mean", 450)
	viper.SetDefault("generator.weekend_mean", 650)
	viper.SetDefault("generator.volume_stddev", 60)
	viper.SetDefault("generator.min_per_day", 200)
	viper.SetDefault("generator.promo_rate", 0.3)
	viper.SetDefault("generator.start_hour", 8)
	viper.SetDefault("generator.end_hour", 22)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.pool_size", 10)
	viper.SetDefault("redis.cache_ttl", "10m")

	viper.SetDefault("sqlite.path", "data/salespulse.db")
	viper.SetDefault("sqlite.log_mode", false)

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("log.output", "stdout")
}

// GetAddr 获取 Redis 地址
func (c *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
