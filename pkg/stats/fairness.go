// Package stats 提供排班统计分析功能
package stats

import (
	"math"
	"sort"

	"github.com/paiban/schichtplan/pkg/model"
)

// FairnessMetrics 公平性指标（只统计核心团队的各比较组）
type FairnessMetrics struct {
	DayGini     float64 `json:"day_gini"`     // 白班基尼系数 (0=完全公平, 1=完全不公平)
	NightGini   float64 `json:"night_gini"`   // 夜班基尼系数
	WeekendGini float64 `json:"weekend_gini"` // 周末（周五至周日）基尼系数

	WorkloadGini      float64 `json:"workload_gini"`       // T+N+Z 基尼系数
	WorkloadStdDev    float64 `json:"workload_std_dev"`    // 班次数标准差
	AvgShifts         float64 `json:"avg_shifts"`          // 人均班次
	MaxShifts         float64 `json:"max_shifts"`          // 最多班次
	MinShifts         float64 `json:"min_shifts"`          // 最少班次
	ShiftsRange       float64 `json:"shifts_range"`        // 极差
	OverallFairness   float64 `json:"overall_fairness"`    // 综合公平性评分 (0-100)
	DayCohortSize     int     `json:"day_cohort_size"`     // 白班比较组人数
	NightCohortSize   int     `json:"night_cohort_size"`   // 夜班比较组人数
	WeekendCohortSize int     `json:"weekend_cohort_size"` // 周末比较组人数
}

// FairnessAnalyzer 公平性分析器
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析计划的公平性
func (f *FairnessAnalyzer) Analyze(p *model.Problem, employees []EmployeeStat) FairnessMetrics {
	var m FairnessMetrics

	collect := func(c model.Cohort, value func(EmployeeStat) int) []float64 {
		var values []float64
		for _, e := range p.Cohort(c) {
			values = append(values, float64(value(employees[e])))
		}
		return values
	}

	day := collect(model.CohortDay, func(s EmployeeStat) int { return s.Day })
	night := collect(model.CohortNight, func(s EmployeeStat) int { return s.Night })
	weekend := collect(model.CohortWeekend, func(s EmployeeStat) int { return s.Weekend })
	m.DayCohortSize, m.NightCohortSize, m.WeekendCohortSize = len(day), len(night), len(weekend)
	m.DayGini = f.calculateGini(day)
	m.NightGini = f.calculateGini(night)
	m.WeekendGini = f.calculateGini(weekend)

	var totals []float64
	for i, e := range p.Employees {
		if e.Prefs.IsCoreTeam() {
			totals = append(totals, float64(employees[i].Total))
		}
	}
	m.AvgShifts = f.calculateMean(totals)
	m.WorkloadStdDev = math.Sqrt(f.calculateVariance(totals, m.AvgShifts))
	m.MaxShifts, m.MinShifts = f.calculateRange(totals)
	m.ShiftsRange = m.MaxShifts - m.MinShifts
	m.WorkloadGini = f.calculateGini(totals)
	m.OverallFairness = f.calculateOverallScore(m.WorkloadGini, m.NightGini, m.WeekendGini, m.WorkloadStdDev, m.AvgShifts)
	return m
}

// calculateMean 计算平均值
func (f *FairnessAnalyzer) calculateMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// calculateVariance 计算方差
func (f *FairnessAnalyzer) calculateVariance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// calculateRange 计算极值
func (f *FairnessAnalyzer) calculateRange(values []float64) (hi, lo float64) {
	if len(values) == 0 {
		return 0, 0
	}
	hi, lo = values[0], values[0]
	for _, v := range values[1:] {
		if v > hi {
			hi = v
		}
		if v < lo {
			lo = v
		}
	}
	return
}

// calculateGini 计算基尼系数
func (f *FairnessAnalyzer) calculateGini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}

	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

// calculateOverallScore 计算综合公平性评分
func (f *FairnessAnalyzer) calculateOverallScore(workloadGini, nightGini, weekendGini, stdDev, avg float64) float64 {
	const (
		workloadWeight = 0.4
		nightWeight    = 0.25
		weekendWeight  = 0.25
		stdDevWeight   = 0.1
	)

	workloadScore := (1 - workloadGini) * 100
	nightScore := (1 - nightGini) * 100
	weekendScore := (1 - weekendGini) * 100

	// 变异系数越低分数越高
	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := workloadWeight*workloadScore +
		nightWeight*nightScore +
		weekendWeight*weekendScore +
		stdDevWeight*cvScore

	return math.Max(0, math.Min(100, score))
}
