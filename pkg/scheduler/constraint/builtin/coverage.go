package builtin

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// CoverageConstraint 每天每班恰好 N 名计数员工（默认 2）
type CoverageConstraint struct {
	*BaseConstraint
}

// NewCoverageConstraint 创建人数覆盖约束
func NewCoverageConstraint() *CoverageConstraint {
	return &CoverageConstraint{BaseConstraint: newHard("每班人数覆盖", constraint.TypeCoverage)}
}

// Post 写入模型
func (c *CoverageConstraint) Post(m *constraint.Model) error {
	for _, k := range regularKinds {
		counting := m.Problem.CountingEmployees(k)
		required := m.Problem.Coverage.For(k)
		for d := 0; d < m.Problem.Horizon.Len(); d++ {
			expr := cpmodel.NewLinearExpr()
			for _, e := range counting {
				expr.AddTerm(m.X(e, d, k), 1)
			}
			m.Exactly(expr, required)
		}
	}
	return nil
}
