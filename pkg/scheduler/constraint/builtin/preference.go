package builtin

import (
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
)

// WishConstraint 日级愿望：偏好白班/夜班、愿意加班、未批准的不排
type WishConstraint struct {
	*BaseConstraint
	w Weights
}

// NewWishConstraint 创建愿望目标项
func NewWishConstraint(w Weights) *WishConstraint {
	return &WishConstraint{
		BaseConstraint: newSoft("员工愿望", constraint.TypeWishes, w.PreferDay),
		w:              w,
	}
}

// Post 写入模型
func (c *WishConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		mult := c.w.PriorityMultiplier(emp.Prefs.Priority)
		for d := 0; d < m.Problem.Horizon.Len(); d++ {
			wish, ok := emp.Wish(d)
			if !ok {
				continue
			}
			switch wish.Kind {
			case model.WishPreferDay:
				w := scale(c.w.PreferDay, mult)
				m.Penalize(m.X(e, d, model.KindDay), -w)
				m.Penalize(m.X(e, d, model.KindNight), w)
			case model.WishPreferNight:
				w := scale(c.w.PreferNight, mult)
				m.Penalize(m.X(e, d, model.KindNight), -w)
				m.Penalize(m.X(e, d, model.KindDay), w)
			case model.WishPreferExtra:
				w := scale(c.w.PreferExtra, mult)
				m.Penalize(m.X(e, d, model.KindDay), -w)
				m.Penalize(m.X(e, d, model.KindNight), -w)
			case model.WishNothing:
				if wish.Approved {
					continue
				}
				w := scale(c.w.UnapprovedNothing, mult)
				m.Penalize(m.X(e, d, model.KindDay), w)
				m.Penalize(m.X(e, d, model.KindNight), w)
			}
		}
	}
	return nil
}

// FewWishesBonusConstraint 愿望越少，每个 T/N 的奖励越高
type FewWishesBonusConstraint struct {
	*BaseConstraint
	w Weights
}

// NewFewWishesBonusConstraint 创建少愿望奖励
func NewFewWishesBonusConstraint(w Weights) *FewWishesBonusConstraint {
	return &FewWishesBonusConstraint{
		BaseConstraint: newSoft("少愿望奖励", constraint.TypeFewWishesBonus, w.FewWishesNone),
		w:              w,
	}
}

// Post 写入模型
func (c *FewWishesBonusConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		if !solverManaged(emp) {
			continue
		}
		bonus := scale(c.w.FewWishesBonus(emp.WishCount), c.w.PriorityMultiplier(emp.Prefs.Priority))
		if bonus == 0 {
			continue
		}
		m.Penalize(m.CountAll(e, model.KindDay, model.KindNight), -bonus)
	}
	return nil
}

// FixedWeekdayConstraint 固定星期上白班的奖励
type FixedWeekdayConstraint struct {
	*BaseConstraint
}

// NewFixedWeekdayConstraint 创建固定星期白班目标项
func NewFixedWeekdayConstraint(w Weights) *FixedWeekdayConstraint {
	return &FixedWeekdayConstraint{BaseConstraint: newSoft("固定星期白班", constraint.TypeFixedWeekday, w.FixedWeekday)}
}

// Post 写入模型
func (c *FixedWeekdayConstraint) Post(m *constraint.Model) error {
	for e, emp := range m.Problem.Employees {
		if len(emp.Prefs.FixedDayWeekdays) == 0 {
			continue
		}
		for _, day := range m.Problem.Horizon.Days {
			if emp.Prefs.IsFixedDayWeekday(day.Weekday) {
				m.Penalize(m.X(e, day.Index, model.KindDay), -int64(c.weight))
			}
		}
	}
	return nil
}
