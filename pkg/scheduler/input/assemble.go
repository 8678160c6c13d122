// Package input 将名册、愿望、目标工时和班次目录组装为不可变的排班问题
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/logger"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/preference"
	"github.com/paiban/schichtplan/pkg/scheduler/target"
)

// Request 组装请求
type Request struct {
	Employees  []*model.Employee
	Start      time.Time
	End        time.Time
	ShiftTypes []model.ShiftType
	Targets    target.Source
	// FallbackHours 为 nil 时缺少目标工时直接报错
	FallbackHours *decimal.Decimal
	Coverage      *model.Coverage
	LastShifts    map[string]model.Kind
	History       []model.HistoricShift
	Preferences   *preference.Config
}

// Assemble 组装排班问题，不与求解器交互
func Assemble(ctx context.Context, req Request) (*model.Problem, error) {
	catalog, missing := model.NewCatalog(req.ShiftTypes)
	if len(missing) > 0 {
		return nil, apperrors.MissingShiftTypes(missing...)
	}
	if req.End.Before(req.Start) {
		return nil, apperrors.New(apperrors.CodeInvalidTimeRange,
			fmt.Sprintf("结束日期 %s 早于开始日期 %s", req.End.Format(model.DateLayout), req.Start.Format(model.DateLayout)))
	}

	horizon := model.NewHorizon(req.Start, req.End)

	coverage := model.DefaultCoverage()
	if req.Coverage != nil {
		coverage = *req.Coverage
	}
	if coverage.Day < 0 || coverage.Night < 0 {
		return nil, apperrors.InvalidInput("coverage", "人数不能为负")
	}

	prefCfg := preference.DefaultConfig()
	if req.Preferences != nil {
		prefCfg = *req.Preferences
	}
	normalizer := preference.NewNormalizer(prefCfg)
	log := logger.NewSchedulerLogger()

	problem := &model.Problem{
		Horizon:    horizon,
		Employees:  make([]*model.PlannedEmployee, 0, len(req.Employees)),
		Catalog:    catalog,
		Coverage:   coverage,
		LastShifts: make(map[string]model.Kind),
		History:    req.History,
	}

	seen := make(map[string]bool, len(req.Employees))
	year, month := horizon.Start().Year(), horizon.Start().Month()

	for _, emp := range req.Employees {
		if emp == nil {
			continue
		}
		if emp.Kennung == "" {
			return nil, apperrors.InvalidInput("kennung", "员工标识不能为空")
		}
		if seen[emp.Kennung] {
			return nil, apperrors.InvalidInput("kennung", fmt.Sprintf("员工标识 %s 重复", emp.Kennung))
		}
		seen[emp.Kennung] = true

		prefs := normalizer.Normalize(emp.Kennung, emp.Preferences)
		if err := preference.Validate(emp.Kennung, prefs); err != nil {
			return nil, err
		}

		var hours *decimal.Decimal
		if req.Targets != nil {
			h, err := req.Targets.TargetHours(ctx, emp.ID, emp.Kennung, year, month)
			if err != nil {
				logger.Warn().Err(err).Str("kennung", emp.Kennung).Msg("读取目标工时失败")
			} else {
				hours = h
			}
		}
		res, ok := target.Derive(hours, req.FallbackHours, catalog)
		if !ok {
			return nil, apperrors.MissingTarget(emp.Kennung)
		}
		if res.Fallback {
			log.TargetFallback(emp.Kennung, res.Hours.String())
		}

		planned := &model.PlannedEmployee{
			ID:             emp.ID,
			Kennung:        emp.Kennung,
			Name:           emp.Name,
			Prefs:          prefs,
			TargetHours:    res.Hours,
			TargetShifts:   res.Shifts,
			TargetFallback: res.Fallback,
			Wishes:         indexWishes(horizon, emp.Wishes),
		}
		planned.WishCount = len(planned.Wishes)
		problem.Employees = append(problem.Employees, planned)

		if k, ok := req.LastShifts[emp.Kennung]; ok {
			problem.LastShifts[emp.Kennung] = k
		}
	}

	return problem, nil
}

// indexWishes 按日期下标索引愿望，计划周期外的愿望被忽略；同一天多条时保留约束最强的一条
func indexWishes(h model.Horizon, wishes []model.Wish) map[int]model.Wish {
	out := make(map[int]model.Wish)
	for _, w := range wishes {
		d, ok := h.IndexOf(w.Date)
		if !ok {
			continue
		}
		if prev, exists := out[d]; exists && strength(prev) >= strength(w) {
			continue
		}
		out[d] = w
	}
	return out
}

func strength(w model.Wish) int {
	switch {
	case w.ForcesOff():
		return 3
	case w.Kind == model.WishNoDay || w.Kind == model.WishNoNight:
		return 2
	}
	return 1
}
