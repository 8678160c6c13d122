package builtin

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// ExclusivityConstraint 每人每天恰好一种状态 (T / N / 休息)
type ExclusivityConstraint struct {
	*BaseConstraint
}

// NewExclusivityConstraint 创建单日唯一约束
func NewExclusivityConstraint() *ExclusivityConstraint {
	return &ExclusivityConstraint{BaseConstraint: newHard("每日唯一班次", constraint.TypeExclusivity)}
}

// Post 写入模型
func (c *ExclusivityConstraint) Post(m *constraint.Model) error {
	for e := range m.Problem.Employees {
		for d := 0; d < m.Problem.Horizon.Len(); d++ {
			m.Builder.AddExactlyOne(m.Slots(e, d)...)
		}
	}
	return nil
}

// NightRestConstraint 夜班后次日不得上白班（含计划前一天的夜班或夜间 Z）
type NightRestConstraint struct {
	*BaseConstraint
}

// NewNightRestConstraint 创建夜班后休息约束
func NewNightRestConstraint() *NightRestConstraint {
	return &NightRestConstraint{BaseConstraint: newHard("夜班后不接白班", constraint.TypeNightRest)}
}

// Post 写入模型
func (c *NightRestConstraint) Post(m *constraint.Model) error {
	n := m.Problem.Horizon.Len()
	for e, emp := range m.Problem.Employees {
		last := m.Problem.LastShift(emp.Kennung)
		if n > 0 && (last == model.KindNight || (last == model.KindExtra && m.Problem.Catalog.ExtraNightLike())) {
			m.Forbid(e, 0, model.KindDay)
		}
		for d := 0; d+1 < n; d++ {
			// N[d] + T[d+1] ≤ 1
			m.AtMost(cpmodel.NewLinearExpr().
				AddTerm(m.X(e, d, model.KindNight), 1).
				AddTerm(m.X(e, d+1, model.KindDay), 1), 1)
		}
	}
	return nil
}
