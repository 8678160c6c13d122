package builtin

import (
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// TargetDeviationConstraint |T+N − 目标班次| 以及设置了分种类目标时的 |T − target_day|、|N − target_night|
type TargetDeviationConstraint struct {
	*BaseConstraint
	perKind int64
}

// NewTargetDeviationConstraint 创建目标偏差目标项
func NewTargetDeviationConstraint(w Weights) *TargetDeviationConstraint {
	return &TargetDeviationConstraint{
		BaseConstraint: newSoft("目标班次偏差", constraint.TypeTargetDeviation, w.TargetDeviation),
		perKind:        w.KindTargetDeviation,
	}
}

// Post 写入模型
func (c *TargetDeviationConstraint) Post(m *constraint.Model) error {
	n := m.Problem.Horizon.Len()
	for e, emp := range m.Problem.Employees {
		if !solverManaged(emp) {
			continue
		}
		total := m.CountAll(e, model.KindDay, model.KindNight)
		m.Penalize(m.AbsDiffConst(total, emp.TargetShifts, n+emp.TargetShifts), int64(c.weight))

		if emp.Prefs.TargetDay != nil {
			dev := m.AbsDiffConst(m.CountAll(e, model.KindDay), *emp.Prefs.TargetDay, n+*emp.Prefs.TargetDay)
			m.Penalize(dev, c.perKind)
		}
		if emp.Prefs.TargetNight != nil {
			dev := m.AbsDiffConst(m.CountAll(e, model.KindNight), *emp.Prefs.TargetNight, n+*emp.Prefs.TargetNight)
			m.Penalize(dev, c.perKind)
		}
	}
	return nil
}

// TypeBExcessConstraint B 模式员工白班、夜班各自超过阈值的部分
type TypeBExcessConstraint struct {
	*BaseConstraint
	night     int64
	threshold int
}

// NewTypeBExcessConstraint 创建 B 模式超额目标项
func NewTypeBExcessConstraint(w Weights) *TypeBExcessConstraint {
	return &TypeBExcessConstraint{
		BaseConstraint: newSoft("B 模式超额", constraint.TypeTypeBExcess, w.TypeBExcessDay),
		night:          w.TypeBExcessNight,
		threshold:      w.TypeBThreshold,
	}
}

// Post 写入模型
func (c *TypeBExcessConstraint) Post(m *constraint.Model) error {
	n := m.Problem.Horizon.Len()
	for e, emp := range m.Problem.Employees {
		if emp.Prefs.ShiftPattern != model.PatternB || !solverManaged(emp) {
			continue
		}
		m.Penalize(m.Excess(m.CountAll(e, model.KindDay), c.threshold, n), int64(c.weight))
		m.Penalize(m.Excess(m.CountAll(e, model.KindNight), c.threshold, n), c.night)
	}
	return nil
}
