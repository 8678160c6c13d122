package builtin

import (
	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// MaxShiftsPerMonthConstraint 每月 T+N 上限
type MaxShiftsPerMonthConstraint struct {
	*BaseConstraint
}

// NewMaxShiftsPerMonthConstraint 创建每月最多班次约束
func NewMaxShiftsPerMonthConstraint() *MaxShiftsPerMonthConstraint {
	return &MaxShiftsPerMonthConstraint{BaseConstraint: newHard("每月最多班次", constraint.TypeMaxShifts)}
}

// Post 写入模型
func (c *MaxShiftsPerMonthConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		if emp.Prefs.MaxShifts == nil {
			continue
		}
		m.AtMost(m.CountAll(e, model.KindDay, model.KindNight), *emp.Prefs.MaxShifts)
	}
	return nil
}

// MaxWeekendsConstraint 每月最多工作的周末数（周六/周日按 ISO 周分组）
type MaxWeekendsConstraint struct {
	*BaseConstraint
}

// NewMaxWeekendsConstraint 创建最多周末约束
func NewMaxWeekendsConstraint() *MaxWeekendsConstraint {
	return &MaxWeekendsConstraint{BaseConstraint: newHard("每月最多周末", constraint.TypeMaxWeekends)}
}

// Post 写入模型
func (c *MaxWeekendsConstraint) Post(m *constraint.Model) error {
	weekends := m.Problem.Horizon.Weekends()
	for e, emp := range m.Problem.Employees {
		if emp.Prefs.MaxWeekends == nil || *emp.Prefs.MaxWeekends >= len(weekends) {
			continue
		}
		worked := cpmodel.NewLinearExpr()
		for _, days := range weekends {
			w := m.Builder.NewBoolVar()
			for _, d := range days {
				for _, k := range regularKinds {
					m.Builder.AddImplication(m.X(e, d, k), w)
				}
			}
			worked.AddTerm(w, 1)
		}
		m.AtMost(worked, *emp.Prefs.MaxWeekends)
	}
	return nil
}

// MaxConsecutiveDaysConstraint 最多连续工作天数（只看完全落在周期内的滑动窗口）
type MaxConsecutiveDaysConstraint struct {
	*BaseConstraint
}

// NewMaxConsecutiveDaysConstraint 创建最多连续天数约束
func NewMaxConsecutiveDaysConstraint() *MaxConsecutiveDaysConstraint {
	return &MaxConsecutiveDaysConstraint{BaseConstraint: newHard("最多连续工作天数", constraint.TypeMaxConsecutiveDays)}
}

// Post 写入模型
func (c *MaxConsecutiveDaysConstraint) Post(m *constraint.Model) error {
	n := m.Problem.Horizon.Len()
	for e, emp := range m.Problem.Employees {
		if emp.Prefs.MaxConsecutive == nil {
			continue
		}
		limit := *emp.Prefs.MaxConsecutive
		window := limit + 1
		for start := 0; start+window <= n; start++ {
			days := make([]int, window)
			for i := range days {
				days[i] = start + i
			}
			m.AtMost(m.Count(e, days, model.KindDay, model.KindNight), limit)
		}
	}
	return nil
}

// MinShiftsConstraint 每月最少白班/夜班数（B 模式默认各 4 个）
type MinShiftsConstraint struct {
	*BaseConstraint
}

// NewMinShiftsConstraint 创建最少班次约束
func NewMinShiftsConstraint() *MinShiftsConstraint {
	return &MinShiftsConstraint{BaseConstraint: newHard("每月最少白班/夜班", constraint.TypeMinShifts)}
}

// Post 写入模型
func (c *MinShiftsConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		if !solverManaged(emp) {
			continue
		}
		if emp.Prefs.MinDay != nil && *emp.Prefs.MinDay > 0 {
			m.AtLeast(m.CountAll(e, model.KindDay), *emp.Prefs.MinDay)
		}
		if emp.Prefs.MinNight != nil && *emp.Prefs.MinNight > 0 {
			m.AtLeast(m.CountAll(e, model.KindNight), *emp.Prefs.MinNight)
		}
	}
	return nil
}

// MinWeekendNightsConstraint 周五至周日夜班下限
type MinWeekendNightsConstraint struct {
	*BaseConstraint
}

// NewMinWeekendNightsConstraint 创建周末夜班下限约束
func NewMinWeekendNightsConstraint() *MinWeekendNightsConstraint {
	return &MinWeekendNightsConstraint{BaseConstraint: newHard("周末夜班下限", constraint.TypeMinWeekendNights)}
}

// Post 写入模型
func (c *MinWeekendNightsConstraint) Post(m *constraint.Model) error {
	days := extendedWeekendDays(m.Problem.Horizon)
	for e, emp := range m.Problem.Employees {
		if emp.Prefs.MinWeekendNights <= 0 || !solverManaged(emp) {
			continue
		}
		m.AtLeast(m.Count(e, days, model.KindNight), emp.Prefs.MinWeekendNights)
	}
	return nil
}

// extendedWeekendDays 所有周五/周六/周日的下标
func extendedWeekendDays(h model.Horizon) []int {
	var days []int
	for _, d := range h.Days {
		if d.IsExtendedWeekend {
			days = append(days, d.Index)
		}
	}
	return days
}
