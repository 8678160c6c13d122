package builtin

import (
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// CapabilityConstraint 不能上白班/夜班的员工不排对应班次
type CapabilityConstraint struct {
	*BaseConstraint
}

// NewCapabilityConstraint 创建能力约束
func NewCapabilityConstraint() *CapabilityConstraint {
	return &CapabilityConstraint{BaseConstraint: newHard("班次能力", constraint.TypeCapability)}
}

// Post 写入模型
func (c *CapabilityConstraint) Post(m *constraint.Model) error {
	forbidWhere(m, func(e *model.PlannedEmployee, _ model.Day, k model.Kind) bool {
		return e.CapabilityAllows(k)
	})
	return nil
}

// CategoryConstraint 长期病假与仅补班员工不排 T/N
type CategoryConstraint struct {
	*BaseConstraint
}

// NewCategoryConstraint 创建类别约束
func NewCategoryConstraint() *CategoryConstraint {
	return &CategoryConstraint{BaseConstraint: newHard("员工类别", constraint.TypeCategory)}
}

// Post 写入模型
func (c *CategoryConstraint) Post(m *constraint.Model) error {
	forbidWhere(m, func(e *model.PlannedEmployee, _ model.Day, k model.Kind) bool {
		return e.CategoryAllows(k)
	})
	return nil
}

// WeekdayPolicyConstraint 星期相关策略：仅周末夜班、周一至周四只补班、只上工作日白班、周末只夜班
type WeekdayPolicyConstraint struct {
	*BaseConstraint
}

// NewWeekdayPolicyConstraint 创建星期策略约束
func NewWeekdayPolicyConstraint() *WeekdayPolicyConstraint {
	return &WeekdayPolicyConstraint{BaseConstraint: newHard("星期策略", constraint.TypeWeekdayPolicy)}
}

// Post 写入模型
func (c *WeekdayPolicyConstraint) Post(m *constraint.Model) error {
	forbidWhere(m, func(e *model.PlannedEmployee, day model.Day, k model.Kind) bool {
		return e.PolicyAllows(day, k)
	})
	return nil
}

// AvailabilityConstraint 可用性与允许的星期
type AvailabilityConstraint struct {
	*BaseConstraint
}

// NewAvailabilityConstraint 创建可用性约束
func NewAvailabilityConstraint() *AvailabilityConstraint {
	return &AvailabilityConstraint{BaseConstraint: newHard("可用性", constraint.TypeAvailability)}
}

// Post 写入模型
func (c *AvailabilityConstraint) Post(m *constraint.Model) error {
	forbidWhere(m, func(e *model.PlannedEmployee, day model.Day, _ model.Kind) bool {
		return e.AvailabilityAllows(day) && e.Prefs.AllowsWeekday(day.Weekday)
	})
	return nil
}

// OffDaysConstraint 休假、病假、已批准的不排与调休强制休息；不上白班/夜班愿望禁止对应班次
type OffDaysConstraint struct {
	*BaseConstraint
}

// NewOffDaysConstraint 创建休息日约束
func NewOffDaysConstraint() *OffDaysConstraint {
	return &OffDaysConstraint{BaseConstraint: newHard("休息日", constraint.TypeOffDays)}
}

// Post 写入模型
func (c *OffDaysConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		for d := 0; d < m.Problem.Horizon.Len(); d++ {
			w, ok := emp.Wish(d)
			if !ok {
				continue
			}
			if w.ForcesOff() {
				m.Force(e, d, model.KindFree)
				continue
			}
			for _, k := range regularKinds {
				if w.Forbids(k) {
					m.Forbid(e, d, k)
				}
			}
		}
	}
	return nil
}
