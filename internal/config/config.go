// Package config 提供配置管理
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config 应用配置，全部来自环境变量
type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	JWT        JWTConfig
	Scheduler  SchedulerConfig
	Attendance AttendanceConfig
	Share      ShareConfig
	Metrics    MetricsConfig
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name      string `env:"APP_NAME" envDefault:"paigong"`
	Env       string `env:"APP_ENV" envDefault:"development"`
	Port      int    `env:"APP_PORT" envDefault:"7021"`
	LogLevel  string `env:"APP_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"APP_LOG_FORMAT" envDefault:"console"`
}

// DatabaseConfig 数据库配置
// Host 为空时以内存仓储运行，不连数据库
type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" envDefault:""`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	Name            string        `env:"DB_NAME" envDefault:"paigong"`
	User            string        `env:"DB_USER" envDefault:"paigong"`
	Password        string        `env:"DB_PASSWORD" envDefault:""`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"5m"`
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Enabled 判断是否配置了数据库
func (c *DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// JWTConfig 会话令牌配置
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"paigong"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
}

// SchedulerConfig 排班引擎配置
type SchedulerConfig struct {
	OptimizerMaxIterations int `env:"SCHEDULER_OPTIMIZER_MAX_ITERATIONS" envDefault:"20"`
}

// AttendanceConfig 打卡配置
type AttendanceConfig struct {
	MaxDistanceMeters float64       `env:"ATTENDANCE_MAX_DISTANCE_METERS" envDefault:"200"`
	RequireSelfie     bool          `env:"ATTENDANCE_REQUIRE_SELFIE" envDefault:"false"`
	LateGrace         time.Duration `env:"ATTENDANCE_LATE_GRACE" envDefault:"5m"`
	Timezone          string        `env:"ATTENDANCE_TIMEZONE" envDefault:"Asia/Shanghai"`
}

// Location 解析门店时区，名称无效时返回错误
func (c *AttendanceConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("解析门店时区失败: %w", err)
	}
	return loc, nil
}

// ShareConfig 排班分享链接配置
type ShareConfig struct {
	TTL time.Duration `env:"SHARE_TTL" envDefault:"336h"` // 14天
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" envDefault:"true"`
	Path    string `env:"METRICS_PATH" envDefault:"/metrics"`
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("解析环境变量配置失败: %w", err)
	}
	return cfg, nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
