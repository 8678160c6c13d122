// Package database PostgreSQL 连接、表结构与带耗时记录的查询
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paiban/schichtplan/internal/config"
	"github.com/paiban/schichtplan/internal/metrics"
	"github.com/paiban/schichtplan/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

// Tables 排班使用的表
var Tables = []string{"mitarbeiter", "wuensche", "sollstunden", "schichtarten", "schichtplaene", "schichten"}

// DB 数据库连接封装
type DB struct {
	*sql.DB
	cfg  *config.DatabaseConfig
	slow time.Duration
}

// New 打开连接池并检查连通性
func New(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("打开数据库连接失败: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("数据库 %s@%s:%d 不可达: %w", cfg.Name, cfg.Host, cfg.Port, err)
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Dur("slow_query", cfg.SlowQuery).
		Msg("数据库连接成功")

	return &DB{DB: db, cfg: cfg, slow: cfg.SlowQuery}, nil
}

// Close 关闭数据库连接
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	logger.Info().Msg("关闭数据库连接")
	return db.DB.Close()
}

// Health 健康检查
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Transaction 在事务中执行 fn；fn 出错或 panic 时回滚
func (db *DB) Transaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("开始事务失败: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("事务回滚失败: %v (原始错误: %w)", rbErr, err)
		}
		logger.Warn().Err(err).Msg("事务已回滚")
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("事务提交失败: %w", err)
	}
	return nil
}

// Migrate 创建排班所需的表（已存在时跳过）
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.DB.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("初始化表结构失败: %w", err)
	}
	logger.Info().Strs("tables", Tables).Msg("表结构已就绪")
	return nil
}

// ExecContext 执行写入并记录耗时
func (db *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := db.DB.ExecContext(ctx, query, args...)
	db.observe(query, time.Since(start), err)
	return result, err
}

// QueryContext 执行查询并记录耗时
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := db.DB.QueryContext(ctx, query, args...)
	db.observe(query, time.Since(start), err)
	return rows, err
}

// QueryRowContext 执行单行查询并记录耗时
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := db.DB.QueryRowContext(ctx, query, args...)
	db.observe(query, time.Since(start), row.Err())
	return row
}

// observe 按表与语句类型记录耗时，超过阈值或出错时写日志
func (db *DB) observe(query string, d time.Duration, err error) {
	table, stmt := tableOf(query), statementOf(query)
	metrics.RecordQuery(table, stmt, d)

	switch {
	case err != nil && err != sql.ErrNoRows:
		logger.Error().Err(err).
			Str("table", table).
			Str("statement", stmt).
			Str("query", truncateQuery(query)).
			Msg("SQL 执行失败")
	case db.slow > 0 && d > db.slow:
		logger.Warn().
			Str("table", table).
			Str("statement", stmt).
			Str("query", truncateQuery(query)).
			Dur("duration", d).
			Msg("慢SQL查询")
	}
}

// statementOf SQL 的首个关键字（小写）
func statementOf(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "unknown"
	}
	return strings.ToLower(fields[0])
}

// tableOf 查询涉及的第一个排班表，按出现位置
func tableOf(query string) string {
	q := strings.ToLower(query)
	best, pos := "other", -1
	for _, t := range Tables {
		for from := 0; ; {
			i := strings.Index(q[from:], t)
			if i < 0 {
				break
			}
			i += from
			end := i + len(t)
			if isIdentBoundary(q, i-1) && isIdentBoundary(q, end) {
				if pos < 0 || i < pos {
					best, pos = t, i
				}
				break
			}
			from = end
		}
	}
	return best
}

func isIdentBoundary(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c == '_' || c >= 'a' && c <= 'z' || c >= '0' && c <= '9')
}

// truncateQuery 截断长查询
func truncateQuery(query string) string {
	if len(query) > 200 {
		return query[:200] + "..."
	}
	return query
}
