// Package logger 提供统一的日志框架
package logger

import (
	"context"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level 日志级别
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json/console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: time.RFC3339,
	}
}

// Init 初始化日志器
func Init(cfg Config) {
	once.Do(func() {
		level := parseLevel(cfg.Level)
		zerolog.SetGlobalLevel(level)

		var output io.Writer
		switch cfg.Output {
		case "stderr":
			output = os.Stderr
		case "file":
			if cfg.FilePath != "" {
				f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
				if err == nil {
					output = f
				} else {
					output = os.Stdout
				}
			} else {
				output = os.Stdout
			}
		default:
			output = os.Stdout
		}

		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{
				Out:        output,
				TimeFormat: cfg.TimeFormat,
			}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

// parseLevel 解析日志级别
func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get 获取日志器，未初始化时使用默认配置
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// WithContext 从上下文创建日志器
func WithContext(ctx context.Context) *zerolog.Logger {
	l := Get().With().Logger()

	// 添加请求ID
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		l = l.With().Str("request_id", reqID).Logger()
	}

	return &l
}

type ctxKey string

// RequestIDKey 请求ID在上下文中的键
const RequestIDKey ctxKey = "request_id"

// Debug 记录调试日志
func Debug() *zerolog.Event {
	return Get().Debug()
}

// Info 记录信息日志
func Info() *zerolog.Event {
	return Get().Info()
}

// Warn 记录警告日志
func Warn() *zerolog.Event {
	return Get().Warn()
}

// Error 记录错误日志
func Error() *zerolog.Event {
	return Get().Error()
}

// Fatal 记录致命错误日志
func Fatal() *zerolog.Event {
	return Get().Fatal()
}

// WithError 添加错误信息
func WithError(err error) *zerolog.Event {
	return Get().Error().Err(err)
}

// WithField 添加字段
func WithField(key string, value interface{}) *zerolog.Logger {
	l := Get().With().Interface(key, value).Logger()
	return &l
}

// WithFields 添加多个字段
func WithFields(fields map[string]interface{}) *zerolog.Logger {
	ctx := Get().With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	l := ctx.Logger()
	return &l
}

// SchedulerLogger 排班引擎专用日志器
type SchedulerLogger struct {
	base *zerolog.Logger
}

// NewSchedulerLogger 创建排班引擎日志器
func NewSchedulerLogger() *SchedulerLogger {
	l := Get().With().Str("component", "schichtplan").Logger()
	return &SchedulerLogger{base: &l}
}

// StartSchedule 记录排班开始
func (l *SchedulerLogger) StartSchedule(planID string, employees, days int) {
	l.base.Info().
		Str("plan_id", planID).
		Int("employees", employees).
		Int("days", days).
		Msg("开始生成月度排班")
}

// ModelBuilt 记录模型构建完成
func (l *SchedulerLogger) ModelBuilt(planID string, hard, soft, variables int) {
	l.base.Debug().
		Str("plan_id", planID).
		Int("hard", hard).
		Int("soft", soft).
		Int("variables", variables).
		Msg("约束模型已构建")
}

// RuleKept 记录无法关闭的规则（未知或硬约束）
func (l *SchedulerLogger) RuleKept(rule string) {
	l.base.Warn().
		Str("rule", rule).
		Msg("规则未知或为硬约束，保持启用")
}

// TargetFallback 记录目标工时回退
func (l *SchedulerLogger) TargetFallback(kennung string, hours string) {
	l.base.Warn().
		Str("kennung", kennung).
		Str("fallback_hours", hours).
		Msg("缺少月度目标工时，使用回退值")
}

// SolverStatus 记录求解器状态
func (l *SchedulerLogger) SolverStatus(planID, status string, objective, bound float64, wall time.Duration) {
	l.base.Info().
		Str("plan_id", planID).
		Str("status", status).
		Float64("objective", objective).
		Float64("best_bound", bound).
		Dur("wall_time", wall).
		Msg("求解结束")
}

// Suboptimal 记录非最优解警告
func (l *SchedulerLogger) Suboptimal(planID string, objective, bound float64) {
	l.base.Warn().
		Str("plan_id", planID).
		Float64("objective", objective).
		Float64("best_bound", bound).
		Msg("时间预算内未证明最优，返回可行解")
}

// Infeasible 记录无可行解
func (l *SchedulerLogger) Infeasible(planID, diagnostic string) {
	l.base.Error().
		Str("plan_id", planID).
		Str("diagnostic", diagnostic).
		Msg("无可行排班方案")
}

// PostFill 记录补班结果
func (l *SchedulerLogger) PostFill(planID string, placed, unmet int) {
	l.base.Info().
		Str("plan_id", planID).
		Int("placed", placed).
		Int("unmet_deficit", unmet).
		Msg("Z 补班完成")
}

// ConstraintViolation 记录约束违反
func (l *SchedulerLogger) ConstraintViolation(constraint, details string) {
	l.base.Warn().
		Str("constraint", constraint).
		Str("details", details).
		Msg("约束违反")
}

// ScheduleComplete 记录排班完成
func (l *SchedulerLogger) ScheduleComplete(planID string, duration time.Duration, objective float64) {
	l.base.Info().
		Str("plan_id", planID).
		Dur("duration", duration).
		Float64("objective", objective).
		Msg("排班生成完成")
}
