// Package diagnostics 对排班问题做静态容量分析，生成无解时的诊断报告
package diagnostics

import (
	"fmt"
	"strings"

	"github.com/paiban/schichtplan/pkg/model"
)

// DateCapacity 某日可用人数与需求
type DateCapacity struct {
	Date          string `json:"date"`
	DayCapacity   int    `json:"day_capacity"`
	NightCapacity int    `json:"night_capacity"`
	Combined      int    `json:"combined"` // 能上 T 或 N 的不同员工数
	DayRequired   int    `json:"day_required"`
	NightRequired int    `json:"night_required"`
	OnLeave       int    `json:"on_leave"` // 强制休息的员工数
}

// Feasible 该日静态上是否可行
func (c DateCapacity) Feasible() bool {
	return c.DayCapacity >= c.DayRequired &&
		c.NightCapacity >= c.NightRequired &&
		c.Combined >= c.DayRequired+c.NightRequired
}

// EmployeeWindow 员工的可排窗口与下限
type EmployeeWindow struct {
	Kennung          string `json:"kennung"`
	DayAvailable     int    `json:"day_available"`
	NightAvailable   int    `json:"night_available"`
	AnyAvailable     int    `json:"any_available"`
	MinDay           int    `json:"min_day"`
	MinNight         int    `json:"min_night"`
	WeekendNights    int    `json:"weekend_nights_available"`
	MinWeekendNights int    `json:"min_weekend_nights"`
}

// Feasible 下限是否可能满足
func (w EmployeeWindow) Feasible() bool {
	return w.DayAvailable >= w.MinDay &&
		w.NightAvailable >= w.MinNight &&
		w.AnyAvailable >= w.MinDay+w.MinNight &&
		w.WeekendNights >= w.MinWeekendNights
}

// Report 诊断报告
type Report struct {
	Dates         []DateCapacity       `json:"dates"`
	Windows       []EmployeeWindow     `json:"windows"`
	Cohorts       map[model.Cohort]int `json:"cohorts"`
	TotalCapacity int                  `json:"total_capacity"`
	TotalRequired int                  `json:"total_required"`
	Reasons       []string             `json:"reasons,omitempty"`
	RosterSize    int                  `json:"roster_size"`
	CountingDay   int                  `json:"counting_day"`
	CountingNight int                  `json:"counting_night"`
}

// Infeasible 静态分析是否已证明无解
func (r *Report) Infeasible() bool {
	return len(r.Reasons) > 0
}

// Analyze 静态分析问题
func Analyze(p *model.Problem) *Report {
	r := &Report{
		Cohorts:       make(map[model.Cohort]int),
		RosterSize:    len(p.Employees),
		CountingDay:   len(p.CountingEmployees(model.KindDay)),
		CountingNight: len(p.CountingEmployees(model.KindNight)),
	}

	for _, day := range p.Horizon.Days {
		c := DateCapacity{
			Date:          day.Key,
			DayRequired:   p.Coverage.Day,
			NightRequired: p.Coverage.Night,
		}
		for _, e := range p.Employees {
			if e.ForcedOff(day.Index) {
				c.OnLeave++
			}
			canDay := e.Prefs.CountsFor(model.KindDay) && e.Allows(day, model.KindDay)
			canNight := e.Prefs.CountsFor(model.KindNight) && e.Allows(day, model.KindNight)
			if canDay {
				c.DayCapacity++
			}
			if canNight {
				c.NightCapacity++
			}
			if canDay || canNight {
				c.Combined++
			}
		}
		if !c.Feasible() {
			r.Reasons = append(r.Reasons, fmt.Sprintf(
				"%s: 白班可用 %d/需 %d，夜班可用 %d/需 %d，合计可用 %d，休息 %d",
				c.Date, c.DayCapacity, c.DayRequired, c.NightCapacity, c.NightRequired, c.Combined, c.OnLeave))
		}
		r.Dates = append(r.Dates, c)
		r.TotalRequired += c.DayRequired + c.NightRequired
	}

	for _, e := range p.Employees {
		w := window(p, e)
		r.Windows = append(r.Windows, w)
		if !w.Feasible() {
			r.Reasons = append(r.Reasons, fmt.Sprintf(
				"%s: 可排白班 %d/至少 %d，可排夜班 %d/至少 %d，周末夜班 %d/至少 %d",
				w.Kennung, w.DayAvailable, w.MinDay, w.NightAvailable, w.MinNight,
				w.WeekendNights, w.MinWeekendNights))
		}
		if e.Prefs.CountsFor(model.KindDay) || e.Prefs.CountsFor(model.KindNight) {
			capacity := w.AnyAvailable
			if e.Prefs.MaxShifts != nil && *e.Prefs.MaxShifts < capacity {
				capacity = *e.Prefs.MaxShifts
			}
			r.TotalCapacity += capacity
		}
	}
	if r.TotalCapacity < r.TotalRequired {
		r.Reasons = append(r.Reasons, fmt.Sprintf("总容量 %d 小于总需求 %d", r.TotalCapacity, r.TotalRequired))
	}

	for _, c := range []model.Cohort{model.CohortDay, model.CohortNight, model.CohortWeekend} {
		r.Cohorts[c] = len(p.Cohort(c))
	}
	return r
}

func window(p *model.Problem, e *model.PlannedEmployee) EmployeeWindow {
	w := EmployeeWindow{Kennung: e.Kennung}
	// 月度下限只约束求解器排班的员工
	if e.SolverManaged() {
		w.MinWeekendNights = e.Prefs.MinWeekendNights
		if e.Prefs.MinDay != nil {
			w.MinDay = *e.Prefs.MinDay
		}
		if e.Prefs.MinNight != nil {
			w.MinNight = *e.Prefs.MinNight
		}
	}
	for _, day := range p.Horizon.Days {
		canDay := e.Allows(day, model.KindDay)
		canNight := e.Allows(day, model.KindNight)
		if canDay {
			w.DayAvailable++
		}
		if canNight {
			w.NightAvailable++
			if day.IsExtendedWeekend {
				w.WeekendNights++
			}
		}
		if canDay || canNight {
			w.AnyAvailable++
		}
	}
	if e.Prefs.MaxShifts != nil && *e.Prefs.MaxShifts < w.AnyAvailable {
		w.AnyAvailable = *e.Prefs.MaxShifts
	}
	return w
}

// Text 人工阅读的诊断文本
func (r *Report) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "员工 %d 人，计入白班覆盖 %d 人，计入夜班覆盖 %d 人\n", r.RosterSize, r.CountingDay, r.CountingNight)
	fmt.Fprintf(&sb, "总容量 %d，总需求 %d\n", r.TotalCapacity, r.TotalRequired)
	fmt.Fprintf(&sb, "公平性比较组: 白班 %d，夜班 %d，周末 %d\n",
		r.Cohorts[model.CohortDay], r.Cohorts[model.CohortNight], r.Cohorts[model.CohortWeekend])

	if len(r.Reasons) > 0 {
		sb.WriteString("可能的原因:\n")
		for _, reason := range r.Reasons {
			fmt.Fprintf(&sb, "  - %s\n", reason)
		}
	} else {
		sb.WriteString("静态容量检查未发现问题，冲突来自规则组合（夜班后休息、连续天数、周末上限等）\n")
	}

	sb.WriteString("休息人数较多的日期:\n")
	listed := 0
	for _, c := range r.Dates {
		if c.OnLeave == 0 || c.Combined-(c.DayRequired+c.NightRequired) > 1 {
			continue
		}
		fmt.Fprintf(&sb, "  %s: 休息 %d，可用 %d（白 %d / 夜 %d）\n", c.Date, c.OnLeave, c.Combined, c.DayCapacity, c.NightCapacity)
		listed++
	}
	if listed == 0 {
		sb.WriteString("  无\n")
	}

	for _, w := range r.Windows {
		if w.MinDay == 0 && w.MinNight == 0 && w.MinWeekendNights == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s 窗口: 白 %d/%d，夜 %d/%d，周末夜 %d/%d\n",
			w.Kennung, w.DayAvailable, w.MinDay, w.NightAvailable, w.MinNight, w.WeekendNights, w.MinWeekendNights)
	}
	return sb.String()
}
