package repository

import (
	"context"
	"time"

	"github.com/paiban/schichtplan/pkg/scheduler/input"
)

// Query 读取某个计划周期所需数据的条件
type Query struct {
	Start       time.Time
	End         time.Time
	Kennungen   []string // 为空时取全部在职员工
	ShiftCodes  []string
	HistoryDays int
}

// Loader 从数据库组装 input.Request
type Loader struct {
	Employees  *EmployeeRepository
	Wishes     *WishRepository
	Targets    *TargetRepository
	ShiftTypes *ShiftTypeRepository
	Plans      *PlanRepository
}

// NewLoader 创建加载器
func NewLoader(db TxRunner) *Loader {
	return &Loader{
		Employees:  NewEmployeeRepository(db),
		Wishes:     NewWishRepository(db),
		Targets:    NewTargetRepository(db),
		ShiftTypes: NewShiftTypeRepository(db),
		Plans:      NewPlanRepository(db),
	}
}

// Request 读取名册、愿望、班次目录、衔接班次与历史；目标工时在组装时按需查询
func (l *Loader) Request(ctx context.Context, q Query) (input.Request, error) {
	req := input.Request{
		Start:   q.Start,
		End:     q.End,
		Targets: l.Targets,
	}

	employees, err := l.Employees.ListActive(ctx, q.Kennungen)
	if err != nil {
		return req, err
	}
	wishes, err := l.Wishes.ListRange(ctx, q.Start, q.End)
	if err != nil {
		return req, err
	}
	AttachWishes(employees, wishes)
	req.Employees = employees

	if req.ShiftTypes, err = l.ShiftTypes.List(ctx, q.ShiftCodes); err != nil {
		return req, err
	}
	if req.LastShifts, err = l.Plans.LastShifts(ctx, q.Start); err != nil {
		return req, err
	}
	if q.HistoryDays > 0 {
		from := q.Start.AddDate(0, 0, -q.HistoryDays)
		if req.History, err = l.Plans.History(ctx, from, q.Start); err != nil {
			return req, err
		}
	}
	return req, nil
}
