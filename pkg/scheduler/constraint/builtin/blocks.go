package builtin

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// WeekendNightBlockConstraint 周末夜班成对（周五+周六或周六+周日）以及周末夜班数量目标
type WeekendNightBlockConstraint struct {
	*BaseConstraint
	deviation int64
	over      int64
}

// NewWeekendNightBlockConstraint 创建周末夜班块目标项
func NewWeekendNightBlockConstraint(w Weights) *WeekendNightBlockConstraint {
	return &WeekendNightBlockConstraint{
		BaseConstraint: newSoft("周末夜班成对", constraint.TypeWeekendNightBlock, w.WeekendNightBlock),
		deviation:      w.WeekendNightDeviation,
		over:           w.WeekendNightOver,
	}
}

// Post 写入模型
func (c *WeekendNightBlockConstraint) Post(m *constraint.Model) error {
	groups := m.Problem.Horizon.ExtendedWeekends()
	all := extendedWeekendDays(m.Problem.Horizon)
	for e, emp := range m.Problem.Employees {
		if !emp.Prefs.WeekendNightBlock || !solverManaged(emp) {
			continue
		}
		for _, days := range groups {
			for i, d := range days {
				// 孤立夜班: iso ≥ N[d] − Σ 同一周末相邻的 N
				expr := cpmodel.NewLinearExpr().AddTerm(m.X(e, d, model.KindNight), 1)
				if i > 0 && days[i-1] == d-1 {
					expr.AddTerm(m.X(e, d-1, model.KindNight), -1)
				}
				if i+1 < len(days) && days[i+1] == d+1 {
					expr.AddTerm(m.X(e, d+1, model.KindNight), -1)
				}
				iso := m.NewIntVar(1)
				m.Builder.AddGreaterOrEqual(iso, expr)
				m.Penalize(iso, int64(c.weight))
			}
		}

		target := emp.Prefs.WeekendNightTarget
		if target <= 0 {
			continue
		}
		nights := m.Count(e, all, model.KindNight)
		m.Penalize(m.AbsDiffConst(nights, target, len(all)+target), c.deviation)
		m.Penalize(m.Excess(m.Count(e, all, model.KindNight), target, len(all)), c.over)
	}
	return nil
}

// DayBlocksConstraint 连续三个及以上白班的惩罚
type DayBlocksConstraint struct {
	*BaseConstraint
	four int64
}

// NewDayBlocksConstraint 创建连续白班目标项
func NewDayBlocksConstraint(w Weights) *DayBlocksConstraint {
	return &DayBlocksConstraint{
		BaseConstraint: newSoft("连续白班", constraint.TypeDayBlocks, w.DayBlock3),
		four:           w.DayBlock4,
	}
}

// Post 写入模型
func (c *DayBlocksConstraint) Post(m *constraint.Model) error {
	n := m.Problem.Horizon.Len()
	for e, emp := range m.Problem.Employees {
		if !solverManaged(emp) || !emp.Prefs.CanDay {
			continue
		}
		for d := 0; d+2 < n; d++ {
			b3 := m.NewIntVar(1)
			m.Builder.AddGreaterOrEqual(b3, cpmodel.NewLinearExpr().
				AddTerm(m.Count(e, []int{d, d + 1, d + 2}, model.KindDay), 1).
				AddTerm(cpmodel.NewConstant(2), -1))
			m.Penalize(b3, int64(c.weight))

			if d+3 < n {
				b4 := m.NewIntVar(1)
				m.Builder.AddGreaterOrEqual(b4, cpmodel.NewLinearExpr().
					AddTerm(m.Count(e, []int{d, d + 1, d + 2, d + 3}, model.KindDay), 1).
					AddTerm(cpmodel.NewConstant(3), -1))
				m.Penalize(b4, c.four)
			}
		}
	}
	return nil
}
