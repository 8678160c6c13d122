package model

import (
	"time"
)

// Day 计划周期中的一天
type Day struct {
	Index             int       `json:"index"`
	Date              time.Time `json:"date"`
	Key               string    `json:"key"`     // YYYY-MM-DD
	Weekday           int       `json:"weekday"` // 周一=0
	IsWeekend         bool      `json:"is_weekend"`
	IsExtendedWeekend bool      `json:"is_extended_weekend"` // 周五至周日
}

// Horizon 有序的计划日期
type Horizon struct {
	Days  []Day `json:"days"`
	index map[string]int
}

// NewHorizon 创建 [start, end] 的计划周期，end 早于 start 时为空
func NewHorizon(start, end time.Time) Horizon {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	h := Horizon{index: make(map[string]int)}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		wd := Weekday(d)
		day := Day{
			Index:             len(h.Days),
			Date:              d,
			Key:               d.Format(DateLayout),
			Weekday:           wd,
			IsWeekend:         wd >= 5,
			IsExtendedWeekend: wd >= 4,
		}
		h.index[day.Key] = day.Index
		h.Days = append(h.Days, day)
	}
	return h
}

// MonthHorizon 创建某月的计划周期
func MonthHorizon(year int, month time.Month) Horizon {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return NewHorizon(start, start.AddDate(0, 1, -1))
}

// Len 天数
func (h Horizon) Len() int {
	return len(h.Days)
}

// Start 第一天
func (h Horizon) Start() time.Time {
	if len(h.Days) == 0 {
		return time.Time{}
	}
	return h.Days[0].Date
}

// End 最后一天
func (h Horizon) End() time.Time {
	if len(h.Days) == 0 {
		return time.Time{}
	}
	return h.Days[len(h.Days)-1].Date
}

// IndexOf 查找日期下标
func (h Horizon) IndexOf(key string) (int, bool) {
	if h.index == nil {
		for _, d := range h.Days {
			if d.Key == key {
				return d.Index, true
			}
		}
		return 0, false
	}
	i, ok := h.index[key]
	return i, ok
}

// Weekends 按 ISO 周分组的周六/周日下标
func (h Horizon) Weekends() [][]int {
	return h.groupByISOWeek(func(d Day) bool { return d.IsWeekend })
}

// ExtendedWeekends 按 ISO 周分组的周五/周六/周日下标
func (h Horizon) ExtendedWeekends() [][]int {
	return h.groupByISOWeek(func(d Day) bool { return d.IsExtendedWeekend })
}

func (h Horizon) groupByISOWeek(include func(Day) bool) [][]int {
	var groups [][]int
	lastYear, lastWeek := -1, -1
	for _, d := range h.Days {
		if !include(d) {
			continue
		}
		y, w := d.Date.ISOWeek()
		if y != lastYear || w != lastWeek {
			groups = append(groups, nil)
			lastYear, lastWeek = y, w
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], d.Index)
	}
	return groups
}
