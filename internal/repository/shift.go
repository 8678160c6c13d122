package repository

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/paiban/schichtplan/pkg/model"
)

// ShiftTypeRepository 班次类型仓储
type ShiftTypeRepository struct {
	db DB
}

// NewShiftTypeRepository 创建班次类型仓储
func NewShiftTypeRepository(db DB) *ShiftTypeRepository {
	return &ShiftTypeRepository{db: db}
}

// List 按代码读取班次类型，缺失的代码由组装阶段报告
func (r *ShiftTypeRepository) List(ctx context.Context, codes []string) ([]model.ShiftType, error) {
	query := `
		SELECT code, name, stunden, beginn::text
		FROM schichtarten
		WHERE $1::text[] IS NULL OR code = ANY($1)
		ORDER BY code
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(nilIfEmpty(codes)))
	if err != nil {
		return nil, fmt.Errorf("查询班次类型失败: %w", err)
	}
	defer rows.Close()

	var types []model.ShiftType
	for rows.Next() {
		st, err := scanShiftType(rows)
		if err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

func scanShiftType(row Scanner) (model.ShiftType, error) {
	var (
		st    model.ShiftType
		start string
	)
	if err := row.Scan(&st.Code, &st.Name, &st.Hours, &start); err != nil {
		return st, fmt.Errorf("扫描班次类型失败: %w", err)
	}
	tod, err := model.ParseTimeOfDay(start)
	if err != nil {
		return st, fmt.Errorf("班次 %s: %w", st.Code, err)
	}
	st.Start = tod
	return st, nil
}
