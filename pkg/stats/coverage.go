package stats

import (
	"fmt"
	"strings"

	"github.com/paiban/schichtplan/pkg/model"
)

// CoverageMetrics 覆盖率指标
type CoverageMetrics struct {
	RequiredShifts  int           `json:"required_shifts"`  // 需求 T/N 人次
	CoveredShifts   int           `json:"covered_shifts"`   // 计数员工实际覆盖人次（不超过需求）
	OverallCoverage float64       `json:"overall_coverage"` // 整体覆盖率 (%)
	ExtraShifts     int           `json:"extra_shifts"`     // Z 班总数
	Daily           []DayCoverage `json:"daily"`
	Understaffed    []DayCoverage `json:"understaffed,omitempty"` // 人手不足的日期
}

// DayCoverage 每日覆盖情况
type DayCoverage struct {
	Date          string `json:"date"`
	Weekday       string `json:"weekday"`
	Day           int    `json:"day"`   // 计数员工白班人数
	Night         int    `json:"night"` // 计数员工夜班人数
	Extra         int    `json:"extra"`
	DayRequired   int    `json:"day_required"`
	NightRequired int    `json:"night_required"`
}

// Short 是否人手不足
func (d DayCoverage) Short() bool {
	return d.Day < d.DayRequired || d.Night < d.NightRequired
}

// CoverageAnalyzer 覆盖率分析器
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析每日覆盖
func (c *CoverageAnalyzer) Analyze(p *model.Problem, plan *model.Plan) CoverageMetrics {
	var m CoverageMetrics
	countsDay := make(map[int]bool)
	countsNight := make(map[int]bool)
	for _, e := range p.CountingEmployees(model.KindDay) {
		countsDay[e] = true
	}
	for _, e := range p.CountingEmployees(model.KindNight) {
		countsNight[e] = true
	}

	for _, day := range p.Horizon.Days {
		dc := DayCoverage{
			Date:          day.Key,
			Weekday:       model.WeekdayNames[day.Weekday],
			DayRequired:   p.Coverage.Day,
			NightRequired: p.Coverage.Night,
		}
		for e := range p.Employees {
			switch plan.Get(e, day.Index) {
			case model.KindDay:
				if countsDay[e] {
					dc.Day++
				}
			case model.KindNight:
				if countsNight[e] {
					dc.Night++
				}
			case model.KindExtra:
				dc.Extra++
			}
		}
		m.RequiredShifts += dc.DayRequired + dc.NightRequired
		m.CoveredShifts += minInt(dc.Day, dc.DayRequired) + minInt(dc.Night, dc.NightRequired)
		m.ExtraShifts += dc.Extra
		m.Daily = append(m.Daily, dc)
		if dc.Short() {
			m.Understaffed = append(m.Understaffed, dc)
		}
	}

	m.OverallCoverage = 100
	if m.RequiredShifts > 0 {
		m.OverallCoverage = float64(m.CoveredShifts) / float64(m.RequiredShifts) * 100
	}
	return m
}

// GenerateCoverageReport 生成覆盖率文本报告
func (c *CoverageAnalyzer) GenerateCoverageReport(m CoverageMetrics) string {
	var sb strings.Builder
	sb.WriteString("=== 覆盖率分析报告 ===\n\n")
	sb.WriteString("【整体覆盖情况】\n")
	fmt.Fprintf(&sb, "  需求人次: %d\n", m.RequiredShifts)
	fmt.Fprintf(&sb, "  已覆盖: %d\n", m.CoveredShifts)
	fmt.Fprintf(&sb, "  覆盖率: %.1f%%\n", m.OverallCoverage)
	fmt.Fprintf(&sb, "  Z 班: %d\n", m.ExtraShifts)

	if len(m.Understaffed) > 0 {
		sb.WriteString("\n【人手不足日期】\n")
		for _, d := range m.Understaffed {
			fmt.Fprintf(&sb, "  - %s (%s) 白班 %d/%d，夜班 %d/%d\n",
				d.Date, d.Weekday, d.Day, d.DayRequired, d.Night, d.NightRequired)
		}
	}
	return sb.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
