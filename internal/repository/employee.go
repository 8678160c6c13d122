package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/preference"
)

// EmployeeRepository 员工仓储
type EmployeeRepository struct {
	db DB
}

// NewEmployeeRepository 创建员工仓储
func NewEmployeeRepository(db DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// ListActive 按标识排序列出在职员工；kennungen 为空时返回全部
func (r *EmployeeRepository) ListActive(ctx context.Context, kennungen []string) ([]*model.Employee, error) {
	query := `
		SELECT id, kennung, name, preferences
		FROM mitarbeiter
		WHERE active AND ($1::text[] IS NULL OR kennung = ANY($1))
		ORDER BY kennung
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(nilIfEmpty(kennungen)))
	if err != nil {
		return nil, fmt.Errorf("查询员工失败: %w", err)
	}
	defer rows.Close()

	var employees []*model.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// Upsert 按标识插入或更新员工
func (r *EmployeeRepository) Upsert(ctx context.Context, emp *model.Employee) error {
	if emp.ID == uuid.Nil {
		emp.ID = uuid.New()
	}
	prefsJSON, err := json.Marshal(emp.Preferences)
	if err != nil {
		return fmt.Errorf("序列化偏好失败: %w", err)
	}

	query := `
		INSERT INTO mitarbeiter (id, kennung, name, preferences)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (kennung) DO UPDATE SET name = EXCLUDED.name, preferences = EXCLUDED.preferences
	`
	if _, err := r.db.ExecContext(ctx, query, emp.ID, emp.Kennung, emp.Name, prefsJSON); err != nil {
		return fmt.Errorf("保存员工 %s 失败: %w", emp.Kennung, err)
	}
	return nil
}

// scanEmployee 扫描员工行；偏好 JSONB 可能是对象，也可能是字符串化的 JSON
func scanEmployee(row Scanner) (*model.Employee, error) {
	emp := &model.Employee{}
	var prefs []byte
	if err := row.Scan(&emp.ID, &emp.Kennung, &emp.Name, &prefs); err != nil {
		return nil, fmt.Errorf("扫描员工数据失败: %w", err)
	}
	emp.Preferences = preference.ParseRaw(prefs)
	return emp, nil
}
