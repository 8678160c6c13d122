package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TargetRepository 月度目标工时，实现 target.Source
type TargetRepository struct {
	db DB
}

// NewTargetRepository 创建目标工时仓储
func NewTargetRepository(db DB) *TargetRepository {
	return &TargetRepository{db: db}
}

// TargetHours 返回员工某月目标工时，没有记录时返回 nil
func (r *TargetRepository) TargetHours(ctx context.Context, employeeID uuid.UUID, _ string, year int, month time.Month) (*decimal.Decimal, error) {
	query := `SELECT stunden FROM sollstunden WHERE mitarbeiter_id = $1 AND jahr = $2 AND monat = $3`

	var hours decimal.Decimal
	err := r.db.QueryRowContext(ctx, query, employeeID, year, int(month)).Scan(&hours)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询目标工时失败: %w", err)
	}
	return &hours, nil
}

// Set 写入目标工时
func (r *TargetRepository) Set(ctx context.Context, employeeID uuid.UUID, year int, month time.Month, hours decimal.Decimal) error {
	query := `
		INSERT INTO sollstunden (mitarbeiter_id, jahr, monat, stunden)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (mitarbeiter_id, jahr, monat) DO UPDATE SET stunden = EXCLUDED.stunden
	`
	if _, err := r.db.ExecContext(ctx, query, employeeID, year, int(month), hours); err != nil {
		return fmt.Errorf("保存目标工时失败: %w", err)
	}
	return nil
}
