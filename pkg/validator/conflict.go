// Package validator 检查排班计划是否满足全部硬性规则
package validator

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/paiban/schichtplan/pkg/model"
)

// ConflictType 冲突类型
type ConflictType string

const (
	ConflictUnknownKind  ConflictType = "unknown_kind"   // 非法班次
	ConflictCoverage     ConflictType = "coverage"       // 覆盖人数不符
	ConflictNightRest    ConflictType = "night_rest"     // 夜班后接白班
	ConflictOffDay       ConflictType = "off_day"        // 休假/批准的不排被排班
	ConflictConsecutive  ConflictType = "consecutive"    // 连续天数过多
	ConflictMinShifts    ConflictType = "min_shifts"     // 未达最少白班/夜班
	ConflictMaxShifts    ConflictType = "max_shifts"     // 超过每月最多班次
	ConflictMaxWeekends  ConflictType = "max_weekends"   // 超过每月最多周末
	ConflictExtraPerDay  ConflictType = "extra_per_day"  // 单日 Z 过多
	ConflictExtraAfter   ConflictType = "extra_after"    // Z 紧跟夜班，或夜间 Z 后接白班
	ConflictExtraWeekend ConflictType = "extra_weekend"  // 周末排 Z
	ConflictAvailability ConflictType = "availability"   // 不可用、能力或类别不允许
	ConflictWeekendNight ConflictType = "weekend_nights" // 周末夜班不足
)

// Conflict 冲突信息
type Conflict struct {
	Type       ConflictType `json:"type"`
	Severity   string       `json:"severity"` // error/warning
	EmployeeID uuid.UUID    `json:"employee_id,omitempty"`
	Kennung    string       `json:"kennung,omitempty"`
	Date       string       `json:"date,omitempty"`
	Message    string       `json:"message"`
}

// DetectorConfig 检测器配置
type DetectorConfig struct {
	MaxExtraPerDay int  // 每日最多 Z 数
	CheckCoverage  bool // 是否检查覆盖人数
	CheckGates     bool // 是否检查能力、类别、可用性等门槛
}

// DefaultDetectorConfig 返回默认配置
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		MaxExtraPerDay: 2,
		CheckCoverage:  true,
		CheckGates:     true,
	}
}

// ConflictDetector 冲突检测器
type ConflictDetector struct {
	config *DetectorConfig
}

// NewConflictDetector 创建冲突检测器
func NewConflictDetector(config *DetectorConfig) *ConflictDetector {
	if config == nil {
		config = DefaultDetectorConfig()
	}
	return &ConflictDetector{config: config}
}

// Check 使用默认配置检查计划
func Check(p *model.Problem, plan *model.Plan) []Conflict {
	return NewConflictDetector(nil).DetectAll(p, plan)
}

// DetectAll 检测所有冲突
func (d *ConflictDetector) DetectAll(p *model.Problem, plan *model.Plan) []Conflict {
	var conflicts []Conflict

	conflicts = append(conflicts, d.detectUnknownKinds(p, plan)...)
	if d.config.CheckCoverage {
		conflicts = append(conflicts, d.detectCoverage(p, plan)...)
	}
	conflicts = append(conflicts, d.detectExtraPerDay(p, plan)...)

	for e := range p.Employees {
		conflicts = append(conflicts, d.detectSequences(p, plan, e)...)
		conflicts = append(conflicts, d.detectOffDays(p, plan, e)...)
		conflicts = append(conflicts, d.detectConsecutiveDays(p, plan, e)...)
		conflicts = append(conflicts, d.detectMonthlyLimits(p, plan, e)...)
		if d.config.CheckGates {
			conflicts = append(conflicts, d.detectGates(p, plan, e)...)
		}
	}
	return conflicts
}

func newConflict(t ConflictType, emp *model.PlannedEmployee, date, msg string) Conflict {
	c := Conflict{Type: t, Severity: "error", Date: date, Message: msg}
	if emp != nil {
		c.EmployeeID = emp.ID
		c.Kennung = emp.Kennung
	}
	return c
}

// detectUnknownKinds 每个格子恰好一个合法种类
func (d *ConflictDetector) detectUnknownKinds(p *model.Problem, plan *model.Plan) []Conflict {
	var conflicts []Conflict
	if len(plan.Grid) != len(p.Employees) {
		return append(conflicts, newConflict(ConflictUnknownKind, nil, "",
			fmt.Sprintf("计划有 %d 行，员工 %d 人", len(plan.Grid), len(p.Employees))))
	}
	for e, emp := range p.Employees {
		if len(plan.Grid[e]) != p.Horizon.Len() {
			conflicts = append(conflicts, newConflict(ConflictUnknownKind, emp, "",
				fmt.Sprintf("计划有 %d 天，周期 %d 天", len(plan.Grid[e]), p.Horizon.Len())))
			continue
		}
		for day, k := range plan.Grid[e] {
			if !k.IsWork() && k != model.KindFree {
				conflicts = append(conflicts, newConflict(ConflictUnknownKind, emp, p.Horizon.Days[day].Key,
					fmt.Sprintf("非法班次 %q", k)))
			}
		}
	}
	return conflicts
}

// detectCoverage 每天计数员工的 T 和 N 恰好等于覆盖人数
func (d *ConflictDetector) detectCoverage(p *model.Problem, plan *model.Plan) []Conflict {
	var conflicts []Conflict
	for _, k := range []model.Kind{model.KindDay, model.KindNight} {
		counting := p.CountingEmployees(k)
		for _, day := range p.Horizon.Days {
			n := 0
			for _, e := range counting {
				if plan.Get(e, day.Index) == k {
					n++
				}
			}
			if want := p.Coverage.For(k); n != want {
				conflicts = append(conflicts, newConflict(ConflictCoverage, nil, day.Key,
					fmt.Sprintf("%s 班计数人数 %d，应为 %d", k, n, want)))
			}
		}
	}
	return conflicts
}

// detectExtraPerDay 单日 Z 数上限
func (d *ConflictDetector) detectExtraPerDay(p *model.Problem, plan *model.Plan) []Conflict {
	var conflicts []Conflict
	for _, day := range p.Horizon.Days {
		if n := plan.CountOn(day.Index, model.KindExtra); n > d.config.MaxExtraPerDay {
			conflicts = append(conflicts, newConflict(ConflictExtraPerDay, nil, day.Key,
				fmt.Sprintf("当天 Z 班 %d 个，超过 %d 个", n, d.config.MaxExtraPerDay)))
		}
	}
	return conflicts
}

// detectSequences 夜班后不接白班或 Z（含计划前一天），夜间性质的 Z 后不接白班
func (d *ConflictDetector) detectSequences(p *model.Problem, plan *model.Plan, e int) []Conflict {
	var conflicts []Conflict
	emp := p.Employees[e]
	extraNight := p.Catalog.ExtraNightLike()
	prev := p.LastShift(emp.Kennung)
	for _, day := range p.Horizon.Days {
		cur := plan.Get(e, day.Index)
		switch {
		case prev == model.KindNight && cur == model.KindDay:
			conflicts = append(conflicts, newConflict(ConflictNightRest, emp, day.Key, "夜班后次日排了白班"))
		case prev == model.KindNight && cur == model.KindExtra:
			conflicts = append(conflicts, newConflict(ConflictExtraAfter, emp, day.Key, "夜班后次日排了 Z 班"))
		case prev == model.KindExtra && extraNight && cur == model.KindDay:
			conflicts = append(conflicts, newConflict(ConflictExtraAfter, emp, day.Key, "夜间 Z 班后次日排了白班"))
		}
		if cur == model.KindExtra && day.IsWeekend {
			conflicts = append(conflicts, newConflict(ConflictExtraWeekend, emp, day.Key, "周末排了 Z 班"))
		}
		prev = cur
	}
	return conflicts
}

// detectOffDays 休假、病假、批准的不排与调休必须休息；不上白班/夜班愿望
func (d *ConflictDetector) detectOffDays(p *model.Problem, plan *model.Plan, e int) []Conflict {
	var conflicts []Conflict
	emp := p.Employees[e]
	for _, day := range p.Horizon.Days {
		w, ok := emp.Wish(day.Index)
		if !ok {
			continue
		}
		k := plan.Get(e, day.Index)
		if w.ForcesOff() && k != model.KindFree {
			conflicts = append(conflicts, newConflict(ConflictOffDay, emp, day.Key,
				fmt.Sprintf("愿望 %s 要求休息，实际排了 %s", w.Kind, k)))
			continue
		}
		if k.IsRegular() && w.Forbids(k) {
			conflicts = append(conflicts, newConflict(ConflictOffDay, emp, day.Key,
				fmt.Sprintf("愿望 %s 不允许 %s", w.Kind, k)))
		}
	}
	return conflicts
}

// detectConsecutiveDays 任一长度为 max+1 的窗口内工作天数不超过 max（所有种类）
func (d *ConflictDetector) detectConsecutiveDays(p *model.Problem, plan *model.Plan, e int) []Conflict {
	emp := p.Employees[e]
	if emp.Prefs.MaxConsecutive == nil {
		return nil
	}
	limit := *emp.Prefs.MaxConsecutive
	run, start := 0, 0
	for _, day := range p.Horizon.Days {
		if !plan.Get(e, day.Index).IsWork() {
			run = 0
			continue
		}
		if run == 0 {
			start = day.Index
		}
		run++
		if run == limit+1 {
			return []Conflict{newConflict(ConflictConsecutive, emp, p.Horizon.Days[start].Key,
				fmt.Sprintf("连续工作超过 %d 天", limit))}
		}
	}
	return nil
}

// detectMonthlyLimits 最少白班/夜班、每月最多班次、最多周末、周末夜班下限
func (d *ConflictDetector) detectMonthlyLimits(p *model.Problem, plan *model.Plan, e int) []Conflict {
	var conflicts []Conflict
	emp := p.Employees[e]
	prefs := emp.Prefs
	managed := emp.SolverManaged()

	days := plan.Count(e, model.KindDay)
	nights := plan.Count(e, model.KindNight)
	if managed && prefs.MinDay != nil && days < *prefs.MinDay {
		conflicts = append(conflicts, newConflict(ConflictMinShifts, emp, "",
			fmt.Sprintf("白班 %d 个，少于 %d 个", days, *prefs.MinDay)))
	}
	if managed && prefs.MinNight != nil && nights < *prefs.MinNight {
		conflicts = append(conflicts, newConflict(ConflictMinShifts, emp, "",
			fmt.Sprintf("夜班 %d 个，少于 %d 个", nights, *prefs.MinNight)))
	}
	if prefs.MaxShifts != nil {
		if total := plan.Count(e, model.KindDay, model.KindNight, model.KindExtra); total > *prefs.MaxShifts {
			conflicts = append(conflicts, newConflict(ConflictMaxShifts, emp, "",
				fmt.Sprintf("共 %d 个班次，超过 %d 个", total, *prefs.MaxShifts)))
		}
	}
	if prefs.MaxWeekends != nil {
		worked := 0
		for _, group := range p.Horizon.Weekends() {
			for _, day := range group {
				if plan.Get(e, day).IsRegular() {
					worked++
					break
				}
			}
		}
		if worked > *prefs.MaxWeekends {
			conflicts = append(conflicts, newConflict(ConflictMaxWeekends, emp, "",
				fmt.Sprintf("工作了 %d 个周末，超过 %d 个", worked, *prefs.MaxWeekends)))
		}
	}
	if managed && prefs.MinWeekendNights > 0 {
		n := 0
		for _, day := range p.Horizon.Days {
			if day.IsExtendedWeekend && plan.Get(e, day.Index) == model.KindNight {
				n++
			}
		}
		if n < prefs.MinWeekendNights {
			conflicts = append(conflicts, newConflict(ConflictWeekendNight, emp, "",
				fmt.Sprintf("周末夜班 %d 个，少于 %d 个", n, prefs.MinWeekendNights)))
		}
	}
	return conflicts
}

// detectGates 能力、类别、可用性、星期策略；Z 按其昼夜性质检查
func (d *ConflictDetector) detectGates(p *model.Problem, plan *model.Plan, e int) []Conflict {
	var conflicts []Conflict
	emp := p.Employees[e]
	extraNight := p.Catalog.ExtraNightLike()
	for _, day := range p.Horizon.Days {
		k := plan.Get(e, day.Index)
		var ok bool
		switch {
		case k.IsRegular():
			ok = emp.CategoryAllows(k) && emp.CapabilityAllows(k) && emp.AvailabilityAllows(day) &&
				emp.Prefs.AllowsWeekday(day.Weekday) && emp.PolicyAllows(day, k)
		case k == model.KindExtra:
			// 周末与休息日单独报告
			ok = day.IsWeekend || emp.ForcedOff(day.Index) || emp.AllowsExtra(day, extraNight)
		default:
			continue
		}
		if !ok {
			conflicts = append(conflicts, newConflict(ConflictAvailability, emp, day.Key,
				fmt.Sprintf("%s 不允许在%s排 %s", emp.Kennung, model.WeekdayNames[day.Weekday], k)))
		}
	}
	return conflicts
}

// Summary 冲突摘要
func Summary(conflicts []Conflict) string {
	if len(conflicts) == 0 {
		return "无冲突"
	}
	parts := make([]string, 0, len(conflicts))
	for _, c := range conflicts {
		prefix := string(c.Type)
		if c.Kennung != "" {
			prefix += " " + c.Kennung
		}
		if c.Date != "" {
			prefix += " " + c.Date
		}
		parts = append(parts, prefix+": "+c.Message)
	}
	return strings.Join(parts, "; ")
}
