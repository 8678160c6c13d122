package model

import (
	"github.com/google/uuid"
)

// Category 员工类别
type Category string

const (
	CategoryCore     Category = "core"      // 核心团队 (Kernteam)
	CategoryHybrid   Category = "hybrid"    // 混合
	CategoryExtra    Category = "extra"     // 仅补班 (Zusatz)
	CategoryLongSick Category = "long_sick" // 长期病假 (dauerkrank)
)

// Availability 可用性
type Availability string

const (
	AvailabilityFull         Availability = "full"
	AvailabilityPartTime     Availability = "part_time"
	AvailabilityWeekendOnly  Availability = "weekend_only"
	AvailabilityWeekdaysOnly Availability = "weekdays_only"
)

// ShiftPattern 班次模式
type ShiftPattern string

const (
	PatternA ShiftPattern = "A"
	PatternB ShiftPattern = "B" // 每月至少若干白班和夜班
)

// Priority 计划优先级
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// RawPreferences 原始偏好（JSON/JSONB 解码结果，值可能是字符串化的 JSON）
type RawPreferences map[string]interface{}

// Employee 员工
type Employee struct {
	ID          uuid.UUID      `json:"id" db:"id"`
	Kennung     string         `json:"kennung" db:"kennung"`
	Name        string         `json:"name" db:"name"`
	Preferences RawPreferences `json:"preferences,omitempty" db:"preferences"`
	Wishes      []Wish         `json:"wishes,omitempty" db:"-"`
}

// Preferences 规范化后的员工偏好
type Preferences struct {
	CanDay                 bool         `json:"can_day"`
	CanNight               bool         `json:"can_night"`
	Category               Category     `json:"category"`
	Availability           Availability `json:"availability"`
	CountsForDayCoverage   bool         `json:"counts_for_day_coverage"`
	CountsForNightCoverage bool         `json:"counts_for_night_coverage"`
	FixedDayWeekdays       []int        `json:"fixed_day_weekdays,omitempty"`
	AllowedWeekdays        []int        `json:"allowed_weekdays,omitempty"` // nil 表示不限
	NightOnlyWeekend       bool         `json:"night_only_weekend"`
	WeekdayOnlyExtras      bool         `json:"weekday_only_extras"`
	MaxWeekends            *int         `json:"max_weekends,omitempty"`
	MaxShifts              *int         `json:"max_shifts,omitempty"`
	MaxConsecutive         *int         `json:"max_consecutive,omitempty"`
	WeekendNightBlock      bool         `json:"weekend_night_block"`
	NoExtraDuty            bool         `json:"no_extra_duty"`
	ShiftPattern           ShiftPattern `json:"shift_type"`
	MinDay                 *int         `json:"min_day,omitempty"`
	MinNight               *int         `json:"min_night,omitempty"`
	TargetDay              *int         `json:"target_day,omitempty"`
	TargetNight            *int         `json:"target_night,omitempty"`
	Priority               Priority     `json:"priority"`

	// 特殊策略
	DayOnlyWeekday     bool `json:"day_only_weekday"`     // 只上周一至周五白班
	WeekendNightsOnly  bool `json:"weekend_nights_only"`  // 周五至周日只上夜班
	MinWeekendNights   int  `json:"min_weekend_nights"`   // 周五至周日夜班下限（硬）
	WeekendNightTarget int  `json:"weekend_night_target"` // 周五至周日夜班目标（软）
}

// CountsFor 该员工是否计入某种类的人数覆盖
func (p Preferences) CountsFor(k Kind) bool {
	switch k {
	case KindDay:
		return p.CountsForDayCoverage
	case KindNight:
		return p.CountsForNightCoverage
	}
	return false
}

// Can 能力开关
func (p Preferences) Can(k Kind) bool {
	switch k {
	case KindDay:
		return p.CanDay
	case KindNight:
		return p.CanNight
	}
	return false
}

// AllowsWeekday T/N 的星期门槛；设置了固定白班星期时不再限制
func (p Preferences) AllowsWeekday(wd int) bool {
	if len(p.FixedDayWeekdays) > 0 {
		return true
	}
	return p.InAllowedWeekdays(wd)
}

// InAllowedWeekdays 是否在允许的星期内，不看固定白班星期（补班使用）
func (p Preferences) InAllowedWeekdays(wd int) bool {
	if len(p.AllowedWeekdays) == 0 {
		return true
	}
	return containsInt(p.AllowedWeekdays, wd)
}

// IsFixedDayWeekday 是否为固定白班星期
func (p Preferences) IsFixedDayWeekday(wd int) bool {
	return containsInt(p.FixedDayWeekdays, wd)
}

// IsCoreTeam 是否为核心团队
func (p Preferences) IsCoreTeam() bool {
	return p.Category == CategoryCore
}

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// IntPtr 返回整数指针
func IntPtr(v int) *int {
	return &v
}
