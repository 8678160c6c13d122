package stats

import (
	"strings"
	"testing"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	emps := modeltest.Roster(5, 2)
	emps[4].Prefs.CountsForDayCoverage = false
	p := modeltest.Problem("2026-06-01", 2, emps...)
	plan := model.NewPlan(p)

	// 第一天完整覆盖；第二天白班只有一名计数员工
	plan.Set(0, 0, model.KindDay)
	plan.Set(1, 0, model.KindDay)
	plan.Set(2, 0, model.KindNight)
	plan.Set(3, 0, model.KindNight)
	plan.Set(0, 1, model.KindDay)
	plan.Set(4, 1, model.KindDay)
	plan.Set(1, 1, model.KindNight)
	plan.Set(3, 1, model.KindNight)
	plan.Set(2, 1, model.KindExtra)

	analyzer := NewCoverageAnalyzer()
	m := analyzer.Analyze(p, plan)

	if m.RequiredShifts != 8 {
		t.Errorf("Expected 8 required, got %d", m.RequiredShifts)
	}
	if m.CoveredShifts != 7 {
		t.Errorf("Expected 7 covered, got %d", m.CoveredShifts)
	}
	if m.ExtraShifts != 1 {
		t.Errorf("Expected 1 extra shift, got %d", m.ExtraShifts)
	}
	if len(m.Understaffed) != 1 || m.Understaffed[0].Date != "2026-06-02" {
		t.Errorf("Expected 2026-06-02 understaffed, got %+v", m.Understaffed)
	}

	report := analyzer.GenerateCoverageReport(m)
	if !strings.Contains(report, "87.5%") || !strings.Contains(report, "2026-06-02 (Di)") {
		t.Errorf("unexpected report:\n%s", report)
	}
}

func TestCoverageAnalyzer_Empty(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 1)
	p.Coverage = model.Coverage{}
	m := NewCoverageAnalyzer().Analyze(p, model.NewPlan(p))
	if m.OverallCoverage != 100 {
		t.Errorf("Expected 100%% coverage, got %f", m.OverallCoverage)
	}
}
