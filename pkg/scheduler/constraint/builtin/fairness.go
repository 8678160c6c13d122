package builtin

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// FairnessConstraint 组内两两班次数之差的绝对值
type FairnessConstraint struct {
	*BaseConstraint
	cohort model.Cohort
}

// NewDayFairnessConstraint 白班公平
func NewDayFairnessConstraint(w Weights) *FairnessConstraint {
	return &FairnessConstraint{
		BaseConstraint: newSoft("白班公平", constraint.TypeFairnessDay, w.FairnessDay),
		cohort:         model.CohortDay,
	}
}

// NewNightFairnessConstraint 夜班公平
func NewNightFairnessConstraint(w Weights) *FairnessConstraint {
	return &FairnessConstraint{
		BaseConstraint: newSoft("夜班公平", constraint.TypeFairnessNight, w.FairnessNight),
		cohort:         model.CohortNight,
	}
}

// NewWeekendFairnessConstraint 周末（周五至周日 T+N）公平
func NewWeekendFairnessConstraint(w Weights) *FairnessConstraint {
	return &FairnessConstraint{
		BaseConstraint: newSoft("周末公平", constraint.TypeFairnessWeekend, w.FairnessWeekend),
		cohort:         model.CohortWeekend,
	}
}

// Post 写入模型
func (c *FairnessConstraint) Post(m *constraint.Model) error {
	members := m.Problem.Cohort(c.cohort)
	if len(members) < 2 {
		return nil
	}
	counts := make([]*cpmodel.LinearExpr, len(members))
	for i, e := range members {
		counts[i] = c.count(m, e)
	}
	ub := m.Problem.Horizon.Len()
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			m.Penalize(m.AbsDiff(counts[i], counts[j], ub), int64(c.weight))
		}
	}
	return nil
}

func (c *FairnessConstraint) count(m *constraint.Model, e int) *cpmodel.LinearExpr {
	switch c.cohort {
	case model.CohortDay:
		return m.CountAll(e, model.KindDay)
	case model.CohortNight:
		return m.CountAll(e, model.KindNight)
	}
	return m.Count(e, extendedWeekendDays(m.Problem.Horizon), model.KindDay, model.KindNight)
}
