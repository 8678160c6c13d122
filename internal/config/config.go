// Package config 提供配置管理
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/paiban/schichtplan/pkg/scheduler/target"
)

// Config 应用配置
type Config struct {
	App       AppConfig       `yaml:"app"`
	Database  DatabaseConfig  `yaml:"database"`
	API       APIConfig       `yaml:"api"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name     string `yaml:"name"`
	Env      string `yaml:"env"`
	Port     int    `yaml:"port"`
	LogLevel string `yaml:"log_level"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnectTimeout  time.Duration `yaml:"connect_timeout"`
	SlowQuery       time.Duration `yaml:"slow_query"` // 超过该耗时的 SQL 记警告
}

// DSN 返回数据库连接字符串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// APIConfig API配置
type APIConfig struct {
	Timeout     time.Duration `yaml:"timeout"`
	MaxBodySize int64         `yaml:"max_body_size"`
	RateLimit   float64       `yaml:"rate_limit"` // 每秒请求数，0 为不限
	Keys        []string      `yaml:"keys"`       // 为空时不校验 API 密钥
	CORS        CORSConfig    `yaml:"cors"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	Enabled bool     `yaml:"enabled"`
	Origins []string `yaml:"origins"`
}

// SchedulerConfig 排班引擎配置
type SchedulerConfig struct {
	TimeLimit          time.Duration    `yaml:"time_limit"`
	Seed               int              `yaml:"seed"`
	Workers            int              `yaml:"workers"`
	LinearizationLevel int              `yaml:"linearization_level"`
	RelativeGap        float64          `yaml:"relative_gap"`
	LogSearch          bool             `yaml:"log_search"`
	MaxExtraPerDay     int              `yaml:"max_extra_per_day"`
	FallbackHours      *decimal.Decimal `yaml:"fallback_hours"` // 默认 144；设为 none 时缺少目标工时直接报错
	LegacyPolicies     bool             `yaml:"legacy_policies"`
	WeightsFile        string           `yaml:"weights_file"`
	ShiftCodes         []string         `yaml:"shift_codes"`
	CoverageDay        int              `yaml:"coverage_day"`
	CoverageNight      int              `yaml:"coverage_night"`
	HistoryDays        int              `yaml:"history_days"`
	DisabledRules      []string         `yaml:"disabled_rules"`
}

// MetricsConfig 监控配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Load 从环境变量加载配置，存在 .env 文件时先读取
func Load() (*Config, error) {
	return LoadFiles(".env")
}

// LoadFiles 读取给定的 env 文件（不存在的文件被忽略）后从环境变量加载配置
func LoadFiles(files ...string) (*Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("读取 %s 失败: %w", f, err)
		}
	}

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "schichtplan"),
			Env:      getEnv("APP_ENV", "development"),
			Port:     getEnvInt("APP_PORT", 7012),
			LogLevel: getEnv("APP_LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvInt("DB_PORT", 5432),
			Name:            getEnv("DB_NAME", "schichtplan"),
			User:            getEnv("DB_USER", "schichtplan"),
			Password:        getEnv("DB_PASSWORD", ""),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 2),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectTimeout:  getEnvDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			SlowQuery:       getEnvDuration("DB_SLOW_QUERY", 250*time.Millisecond),
		},
		API: APIConfig{
			Timeout:     getEnvDuration("API_TIMEOUT", 60*time.Second),
			MaxBodySize: int64(getEnvInt("API_MAX_BODY_SIZE", 4<<20)),
			RateLimit:   getEnvFloat("API_RATE_LIMIT", 10),
			Keys:        getEnvList("API_KEYS", nil),
			CORS: CORSConfig{
				Enabled: getEnvBool("API_CORS_ENABLED", true),
				Origins: getEnvList("API_CORS_ORIGINS", []string{"*"}),
			},
		},
		Scheduler: SchedulerConfig{
			TimeLimit:          getEnvDuration("SCHEDULER_TIME_LIMIT", 20*time.Second),
			Seed:               getEnvInt("SCHEDULER_SEED", 0),
			Workers:            getEnvInt("SCHEDULER_WORKERS", 1),
			LinearizationLevel: getEnvInt("SCHEDULER_LINEARIZATION_LEVEL", 2),
			RelativeGap:        getEnvFloat("SCHEDULER_RELATIVE_GAP", 0),
			LogSearch:          getEnvBool("SCHEDULER_LOG_SEARCH", false),
			MaxExtraPerDay:     getEnvInt("SCHEDULER_MAX_EXTRA_PER_DAY", 2),
			LegacyPolicies:     getEnvBool("SCHEDULER_LEGACY_POLICIES", true),
			WeightsFile:        getEnv("SCHEDULER_WEIGHTS_FILE", ""),
			ShiftCodes:         getEnvList("SCHEDULER_SHIFT_CODES", []string{"T", "N", "Z"}),
			CoverageDay:        getEnvInt("SCHEDULER_COVERAGE_DAY", 2),
			CoverageNight:      getEnvInt("SCHEDULER_COVERAGE_NIGHT", 2),
			HistoryDays:        getEnvInt("SCHEDULER_HISTORY_DAYS", 180),
			DisabledRules:      getEnvList("SCHEDULER_DISABLED_RULES", nil),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
			Path:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	fallback, err := parseFallbackHours(getEnv("SCHEDULER_FALLBACK_HOURS", target.DefaultFallbackHours.String()))
	if err != nil {
		return nil, err
	}
	cfg.Scheduler.FallbackHours = fallback

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseFallbackHours none/off 关闭回退
func parseFallbackHours(v string) (*decimal.Decimal, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "off", "false":
		return nil, nil
	}
	h, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return nil, fmt.Errorf("SCHEDULER_FALLBACK_HOURS 无效: %w", err)
	}
	return &h, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	s := c.Scheduler
	switch {
	case s.TimeLimit <= 0:
		return fmt.Errorf("SCHEDULER_TIME_LIMIT 必须为正")
	case s.Workers < 1:
		return fmt.Errorf("SCHEDULER_WORKERS 至少为 1")
	case s.MaxExtraPerDay < 0:
		return fmt.Errorf("SCHEDULER_MAX_EXTRA_PER_DAY 不能为负")
	case s.CoverageDay < 0 || s.CoverageNight < 0:
		return fmt.Errorf("覆盖人数不能为负")
	case s.FallbackHours != nil && s.FallbackHours.IsNegative():
		return fmt.Errorf("SCHEDULER_FALLBACK_HOURS 不能为负")
	}
	return nil
}

// IsDevelopment 检查是否为开发环境
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// IsProduction 检查是否为生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// 辅助函数
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
