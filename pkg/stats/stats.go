package stats

import (
	"github.com/shopspring/decimal"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
)

// WishOutcome 愿望及其结果
type WishOutcome struct {
	Date     string         `json:"date"`
	Kind     model.WishKind `json:"kind"`
	Assigned model.Kind     `json:"assigned"`
}

// EmployeeStat 员工统计
type EmployeeStat struct {
	Kennung          string          `json:"kennung"`
	Name             string          `json:"name"`
	Day              int             `json:"day"`
	Night            int             `json:"night"`
	Extra            int             `json:"extra"`
	Total            int             `json:"total"`
	Weekend          int             `json:"weekend"` // 周五至周日 T+N
	Hours            decimal.Decimal `json:"hours"`
	TargetShifts     int             `json:"target_shifts"`
	TargetHours      decimal.Decimal `json:"target_hours"`
	Deviation        int             `json:"deviation"` // Total − TargetShifts
	FixedWeekdayHits int             `json:"fixed_weekday_hits"`
	WishesHonored    []WishOutcome   `json:"wishes_honored,omitempty"`
	WishesViolated   []WishOutcome   `json:"wishes_violated,omitempty"`
}

// Statistics 计划统计
type Statistics struct {
	Employees   []EmployeeStat  `json:"employees"`
	Fairness    FairnessMetrics `json:"fairness"`
	Coverage    CoverageMetrics `json:"coverage"`
	WishPenalty int64           `json:"wish_penalty"` // 违反愿望产生的目标惩罚（按权重与优先级）
}

// Compute 统计计划
func Compute(p *model.Problem, plan *model.Plan, w builtin.Weights) *Statistics {
	s := &Statistics{Employees: make([]EmployeeStat, len(p.Employees))}
	for e, emp := range p.Employees {
		st := EmployeeStat{
			Kennung:      emp.Kennung,
			Name:         emp.Name,
			TargetShifts: emp.TargetShifts,
			TargetHours:  emp.TargetHours,
			Hours:        decimal.Zero,
		}
		mult := w.PriorityMultiplier(emp.Prefs.Priority)
		for _, day := range p.Horizon.Days {
			k := plan.Get(e, day.Index)
			switch k {
			case model.KindDay:
				st.Day++
				if emp.Prefs.IsFixedDayWeekday(day.Weekday) {
					st.FixedWeekdayHits++
				}
			case model.KindNight:
				st.Night++
			case model.KindExtra:
				st.Extra++
			}
			if k.IsRegular() && day.IsExtendedWeekend {
				st.Weekend++
			}
			if t := p.Catalog.Get(k); t != nil && k.IsWork() {
				st.Hours = st.Hours.Add(t.Hours)
			}

			wish, ok := emp.Wish(day.Index)
			if !ok {
				continue
			}
			outcome := WishOutcome{Date: day.Key, Kind: wish.Kind, Assigned: k}
			if honored(wish, k) {
				st.WishesHonored = append(st.WishesHonored, outcome)
			} else {
				st.WishesViolated = append(st.WishesViolated, outcome)
			}
			s.WishPenalty += penalty(w, wish, k, mult)
		}
		st.Total = st.Day + st.Night + st.Extra
		st.Deviation = st.Total - st.TargetShifts
		s.Employees[e] = st
	}

	s.Fairness = NewFairnessAnalyzer().Analyze(p, s.Employees)
	s.Coverage = NewCoverageAnalyzer().Analyze(p, plan)
	return s
}

// honored 愿望是否被满足
func honored(w model.Wish, k model.Kind) bool {
	switch w.Kind {
	case model.WishVacation, model.WishSick, model.WishCompDay, model.WishNothing:
		return k == model.KindFree
	case model.WishPreferDay:
		return k == model.KindDay
	case model.WishPreferNight:
		return k == model.KindNight
	case model.WishPreferExtra:
		return k.IsWork()
	case model.WishNoDay:
		return k != model.KindDay
	case model.WishNoNight:
		return k != model.KindNight
	}
	return true
}

// penalty 与目标函数一致的愿望违反惩罚
func penalty(w builtin.Weights, wish model.Wish, k model.Kind, mult decimal.Decimal) int64 {
	var base int64
	switch {
	case wish.Kind == model.WishPreferDay && k == model.KindNight:
		base = w.PreferDay
	case wish.Kind == model.WishPreferNight && k == model.KindDay:
		base = w.PreferNight
	case wish.Kind == model.WishNothing && !wish.Approved && k.IsRegular():
		base = w.UnapprovedNothing
	default:
		return 0
	}
	return decimal.NewFromInt(base).Mul(mult).Round(0).IntPart()
}

// Violations 所有员工被违反的愿望数
func (s *Statistics) Violations() int {
	n := 0
	for _, e := range s.Employees {
		n += len(e.WishesViolated)
	}
	return n
}
