package stats

import (
	"math"
	"testing"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
)

func TestFairnessAnalyzer_Gini(t *testing.T) {
	analyzer := NewFairnessAnalyzer()

	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"空", nil, 0},
		{"全为零", []float64{0, 0, 0}, 0},
		{"完全平均", []float64{4, 4, 4, 4}, 0},
		{"一人全部", []float64{0, 0, 0, 8}, 0.75},
		{"二比一", []float64{2, 4}, 1.0 / 6.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := analyzer.calculateGini(tt.values)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("calculateGini(%v) = %f, want %f", tt.values, got, tt.want)
			}
		})
	}
}

func TestFairnessAnalyzer_Analyze(t *testing.T) {
	emps := modeltest.Roster(3, 2)
	emps[2].Prefs.Category = model.CategoryHybrid
	p := modeltest.Problem("2026-06-01", 7, emps...)

	stats := []EmployeeStat{
		{Day: 2, Night: 2, Total: 4, Weekend: 1},
		{Day: 2, Night: 2, Total: 4, Weekend: 1},
		{Day: 7, Night: 0, Total: 7, Weekend: 3},
	}
	m := NewFairnessAnalyzer().Analyze(p, stats)

	if m.DayCohortSize != 2 {
		t.Errorf("Expected day cohort of 2 core members, got %d", m.DayCohortSize)
	}
	if m.DayGini != 0 || m.NightGini != 0 || m.WeekendGini != 0 {
		t.Errorf("Expected perfectly fair core cohort, got %+v", m)
	}
	if m.OverallFairness != 100 {
		t.Errorf("Expected overall score 100, got %f", m.OverallFairness)
	}
	if m.AvgShifts != 4 {
		t.Errorf("Expected avg 4, got %f", m.AvgShifts)
	}
}

func TestFairnessAnalyzer_Unfair(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 7, modeltest.Roster(2, 2)...)
	stats := []EmployeeStat{
		{Day: 6, Total: 6},
		{Day: 0, Night: 2, Total: 2},
	}
	m := NewFairnessAnalyzer().Analyze(p, stats)

	if m.DayGini <= 0 {
		t.Errorf("Expected positive day gini, got %f", m.DayGini)
	}
	if m.ShiftsRange != 4 {
		t.Errorf("Expected range 4, got %f", m.ShiftsRange)
	}
	if m.OverallFairness >= 100 {
		t.Errorf("Expected score below 100, got %f", m.OverallFairness)
	}
}
