package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Coverage 每日每班需要的计数员工人数
type Coverage struct {
	Day   int `json:"day"`
	Night int `json:"night"`
}

// DefaultCoverage 默认每班两人
func DefaultCoverage() Coverage {
	return Coverage{Day: 2, Night: 2}
}

// For 返回某种类的覆盖人数
func (c Coverage) For(k Kind) int {
	switch k {
	case KindDay:
		return c.Day
	case KindNight:
		return c.Night
	}
	return 0
}

// HistoricShift 历史班次（用于学习偏好）
type HistoricShift struct {
	Kennung string `json:"kennung" db:"kennung"`
	Date    string `json:"date" db:"date"`
	Kind    Kind   `json:"kind" db:"kind"`
}

// PlannedEmployee 经过规范化并带有目标的员工
type PlannedEmployee struct {
	ID             uuid.UUID       `json:"id"`
	Kennung        string          `json:"kennung"`
	Name           string          `json:"name"`
	Prefs          Preferences     `json:"preferences"`
	TargetHours    decimal.Decimal `json:"target_hours"`
	TargetShifts   int             `json:"target_shifts"`
	TargetFallback bool            `json:"target_fallback"`
	Wishes         map[int]Wish    `json:"-"` // 按日期下标
	WishCount      int             `json:"wish_count"`
}

// Wish 某日的愿望
func (e *PlannedEmployee) Wish(d int) (Wish, bool) {
	w, ok := e.Wishes[d]
	return w, ok
}

// ForcedOff 某日是否强制休息
func (e *PlannedEmployee) ForcedOff(d int) bool {
	w, ok := e.Wishes[d]
	return ok && w.ForcesOff()
}

// SolverManaged 是否由求解器排 T/N，月度下限只对这些员工生效（长期病假与仅补班员工除外）
func (e *PlannedEmployee) SolverManaged() bool {
	return e.Prefs.Category != CategoryLongSick && e.Prefs.Category != CategoryExtra
}

// CategoryAllows 类别门槛：长期病假不排任何班，仅补班员工不排 T/N
func (e *PlannedEmployee) CategoryAllows(k Kind) bool {
	switch e.Prefs.Category {
	case CategoryLongSick:
		return false
	case CategoryExtra:
		return k == KindExtra
	}
	return true
}

// CapabilityAllows 能力门槛
func (e *PlannedEmployee) CapabilityAllows(k Kind) bool {
	return e.Prefs.Can(k)
}

// AvailabilityAllows 可用性门槛
func (e *PlannedEmployee) AvailabilityAllows(day Day) bool {
	switch e.Prefs.Availability {
	case AvailabilityWeekendOnly:
		return day.IsWeekend
	case AvailabilityWeekdaysOnly:
		return !day.IsWeekend
	}
	return true
}

// PolicyAllows 星期相关策略门槛（仅周末夜班、周一至周四只补班、只上工作日白班、周末只夜班）
func (e *PlannedEmployee) PolicyAllows(day Day, k Kind) bool {
	p := e.Prefs
	switch k {
	case KindDay:
		if p.WeekdayOnlyExtras && !day.IsExtendedWeekend {
			return false
		}
		if p.DayOnlyWeekday && day.IsWeekend {
			return false
		}
		if p.WeekendNightsOnly && day.IsExtendedWeekend {
			return false
		}
	case KindNight:
		if p.NightOnlyWeekend && !day.IsExtendedWeekend {
			return false
		}
		if p.WeekdayOnlyExtras && !day.IsExtendedWeekend {
			return false
		}
		if p.DayOnlyWeekday {
			return false
		}
	}
	return true
}

// WishAllows 愿望门槛
func (e *PlannedEmployee) WishAllows(d int, k Kind) bool {
	w, ok := e.Wishes[d]
	if !ok {
		return true
	}
	return !w.ForcesOff() && !w.Forbids(k)
}

// Allows 某日能否排 T 或 N（所有静态门槛的合取）
func (e *PlannedEmployee) Allows(day Day, k Kind) bool {
	return e.CategoryAllows(k) &&
		e.CapabilityAllows(k) &&
		e.AvailabilityAllows(day) &&
		e.Prefs.AllowsWeekday(day.Weekday) &&
		e.PolicyAllows(day, k) &&
		e.WishAllows(day.Index, k)
}

// AllowsExtra 某日能否排 Z；nightLike 为补班的夜间性质
func (e *PlannedEmployee) AllowsExtra(day Day, nightLike bool) bool {
	if day.IsWeekend || e.Prefs.NoExtraDuty || !e.CategoryAllows(KindExtra) {
		return false
	}
	if e.Prefs.Availability == AvailabilityWeekendOnly {
		return false
	}
	like := KindDay
	if nightLike {
		like = KindNight
	}
	if !e.Prefs.Can(like) || !e.Prefs.InAllowedWeekdays(day.Weekday) {
		return false
	}
	if nightLike && e.Prefs.NightOnlyWeekend && !day.IsExtendedWeekend {
		return false
	}
	return e.WishAllows(day.Index, like)
}

// Problem 一次生成的不可变输入
type Problem struct {
	Horizon    Horizon            `json:"horizon"`
	Employees  []*PlannedEmployee `json:"employees"`
	Catalog    Catalog            `json:"catalog"`
	Coverage   Coverage           `json:"coverage"`
	LastShifts map[string]Kind    `json:"last_shifts,omitempty"` // 计划开始前一天的班次
	History    []HistoricShift    `json:"history,omitempty"`
}

// LastShift 计划开始前一天的班次
func (p *Problem) LastShift(kennung string) Kind {
	if k, ok := p.LastShifts[kennung]; ok {
		return k
	}
	return KindFree
}

// CountingEmployees 计入某种类覆盖的员工下标
func (p *Problem) CountingEmployees(k Kind) []int {
	var idx []int
	for i, e := range p.Employees {
		if e.Prefs.CountsFor(k) {
			idx = append(idx, i)
		}
	}
	return idx
}

// Cohort 公平性比较的员工组
type Cohort string

const (
	CohortDay     Cohort = "day"
	CohortNight   Cohort = "night"
	CohortWeekend Cohort = "weekend"
)

// InCohort 员工是否参与某组的公平性比较（仅核心团队）
func (e *PlannedEmployee) InCohort(c Cohort) bool {
	p := e.Prefs
	if !p.IsCoreTeam() {
		return false
	}
	switch c {
	case CohortDay:
		return p.CanDay && p.CountsForDayCoverage && !p.WeekdayOnlyExtras
	case CohortNight:
		return p.CanNight && p.CountsForNightCoverage &&
			!p.NightOnlyWeekend && !p.WeekdayOnlyExtras && !p.DayOnlyWeekday
	case CohortWeekend:
		return (p.CanDay || p.CanNight) &&
			p.Availability != AvailabilityWeekdaysOnly && !p.DayOnlyWeekday
	}
	return false
}

// Cohort 某公平性组的员工下标
func (p *Problem) Cohort(c Cohort) []int {
	var idx []int
	for i, e := range p.Employees {
		if e.InCohort(c) {
			idx = append(idx, i)
		}
	}
	return idx
}
