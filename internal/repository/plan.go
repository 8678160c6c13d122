package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler"
)

// PlanRepository 计划仓储：保存生成结果，提供衔接班次与历史
type PlanRepository struct {
	db TxRunner
}

// NewPlanRepository 创建计划仓储
func NewPlanRepository(db TxRunner) *PlanRepository {
	return &PlanRepository{db: db}
}

// LastShifts 计划开始前一天各员工的班次（以最近保存的计划为准）
func (r *PlanRepository) LastShifts(ctx context.Context, start time.Time) (map[string]model.Kind, error) {
	query := `
		SELECT DISTINCT ON (s.kennung) s.kennung, s.code
		FROM schichten s
		JOIN schichtplaene p ON p.id = s.plan_id
		WHERE s.datum = $1::date - 1
		ORDER BY s.kennung, p.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, start.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("查询衔接班次失败: %w", err)
	}
	defer rows.Close()

	out := make(map[string]model.Kind)
	for rows.Next() {
		var kennung, code string
		if err := rows.Scan(&kennung, &code); err != nil {
			return nil, fmt.Errorf("扫描衔接班次失败: %w", err)
		}
		if k, ok := model.ParseKind(code); ok {
			out[kennung] = k
		}
	}
	return out, rows.Err()
}

// History 返回 [from, before) 内已保存的班次
func (r *PlanRepository) History(ctx context.Context, from, before time.Time) ([]model.HistoricShift, error) {
	query := `
		SELECT kennung, datum, code
		FROM schichten
		WHERE datum >= $1 AND datum < $2
		ORDER BY datum, kennung
	`

	rows, err := r.db.QueryContext(ctx, query, from.Format(model.DateLayout), before.Format(model.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("查询历史班次失败: %w", err)
	}
	defer rows.Close()

	var history []model.HistoricShift
	for rows.Next() {
		h, ok, err := scanHistoric(rows)
		if err != nil {
			return nil, err
		}
		if ok {
			history = append(history, h)
		}
	}
	return history, rows.Err()
}

func scanHistoric(row Scanner) (model.HistoricShift, bool, error) {
	var (
		h    model.HistoricShift
		date time.Time
		code string
	)
	if err := row.Scan(&h.Kennung, &date, &code); err != nil {
		return h, false, fmt.Errorf("扫描历史班次失败: %w", err)
	}
	h.Date = date.Format(model.DateLayout)
	k, ok := model.ParseKind(code)
	h.Kind = k
	return h, ok, nil
}

// Save 在一个事务中写入计划头与全部 (员工, 日期, 班次) 记录
func (r *PlanRepository) Save(ctx context.Context, p *model.Problem, result *scheduler.Result) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schichtplaene (id, start_datum, end_datum, status, objective, best_bound, warnings)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			result.ID,
			p.Horizon.Start().Format(model.DateLayout),
			p.Horizon.End().Format(model.DateLayout),
			string(result.Status),
			result.Objective,
			result.BestBound,
			pq.Array(result.Warnings),
		)
		if err != nil {
			return fmt.Errorf("保存计划失败: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, pq.CopyIn("schichten", "plan_id", "mitarbeiter_id", "kennung", "datum", "code"))
		if err != nil {
			return fmt.Errorf("准备批量写入失败: %w", err)
		}
		defer stmt.Close()

		for _, a := range result.Assignments {
			if _, err := stmt.ExecContext(ctx, result.ID, a.EmployeeID, a.Kennung, a.Date, p.Catalog.Code(a.Kind)); err != nil {
				return fmt.Errorf("写入班次 %s %s 失败: %w", a.Kennung, a.Date, err)
			}
		}
		if _, err := stmt.ExecContext(ctx); err != nil {
			return fmt.Errorf("提交批量写入失败: %w", err)
		}
		return nil
	})
}

// Get 读取已保存的计划及其班次
func (r *PlanRepository) Get(ctx context.Context, id uuid.UUID) (*model.Schichtplan, error) {
	plan := &model.Schichtplan{}
	var start, end time.Time
	var warnings pq.StringArray
	err := r.db.QueryRowContext(ctx, `
		SELECT id, start_datum, end_datum, status, objective, best_bound, warnings, created_at
		FROM schichtplaene WHERE id = $1`, id).
		Scan(&plan.ID, &start, &end, &plan.Status, &plan.Objective, &plan.BestBound, &warnings, &plan.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFound("schichtplan", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("查询计划失败: %w", err)
	}
	plan.StartDate = start.Format(model.DateLayout)
	plan.EndDate = end.Format(model.DateLayout)
	plan.Warnings = warnings
	plan.UpdatedAt = plan.CreatedAt

	rows, err := r.db.QueryContext(ctx, `
		SELECT mitarbeiter_id, kennung, datum, code
		FROM schichten WHERE plan_id = $1
		ORDER BY kennung, datum`, id)
	if err != nil {
		return nil, fmt.Errorf("查询计划班次失败: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a    model.Assignment
			date time.Time
			code string
		)
		if err := rows.Scan(&a.EmployeeID, &a.Kennung, &date, &code); err != nil {
			return nil, fmt.Errorf("扫描计划班次失败: %w", err)
		}
		a.Date = date.Format(model.DateLayout)
		a.Kind, _ = model.ParseKind(code)
		plan.Assignments = append(plan.Assignments, a)
	}
	return plan, rows.Err()
}
