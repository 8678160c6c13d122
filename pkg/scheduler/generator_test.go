package scheduler

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/input"
	"github.com/paiban/schichtplan/pkg/scheduler/preference"
	"github.com/paiban/schichtplan/pkg/scheduler/solver"
	"github.com/paiban/schichtplan/pkg/scheduler/target"
	"github.com/paiban/schichtplan/pkg/validator"
)

func testGenerator() *Generator {
	opts := DefaultOptions()
	opts.Solver.TimeLimit = 15 * time.Second
	return NewGenerator(opts)
}

func generate(t *testing.T, p *model.Problem) *Result {
	t.Helper()
	result, err := testGenerator().Generate(context.Background(), p)
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.True(t, result.Status.HasSolution())
	assert.Empty(t, validator.Check(p, result.Plan))
	return result
}

func TestGenerate_MinimumViableRoster(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 7, modeltest.Roster(4, 7)...)

	result := generate(t, p)
	for d := 0; d < 7; d++ {
		assert.Equal(t, 2, result.Plan.CountOn(d, model.KindDay), "day %d", d)
		assert.Equal(t, 2, result.Plan.CountOn(d, model.KindNight), "day %d", d)
	}
	total := 0
	for e := range p.Employees {
		total += result.Plan.Count(e, model.KindDay, model.KindNight)
	}
	assert.Equal(t, 28, total)
	assert.Len(t, result.Assignments, 28)
}

func TestGenerate_VacationHonored(t *testing.T) {
	emps := modeltest.Roster(5, 6)
	p := modeltest.Problem("2026-06-01", 7, emps...)
	modeltest.AddWish(p, emps[0], 3, model.WishVacation, true)

	result := generate(t, p)
	assert.Equal(t, model.KindFree, result.Plan.Get(0, 3))
	assert.Equal(t, 2, result.Plan.CountOn(3, model.KindDay))
	assert.Equal(t, 2, result.Plan.CountOn(3, model.KindNight))
}

func TestGenerate_NightToDay(t *testing.T) {
	emp := modeltest.Employee("MA1", 2)
	emp.Prefs.CountsForDayCoverage = false
	emp.Prefs.CountsForNightCoverage = false
	p := modeltest.Problem("2026-06-01", 2, emp)
	p.Coverage = model.Coverage{}
	modeltest.AddWish(p, emp, 0, model.WishPreferNight, false)
	modeltest.AddWish(p, emp, 1, model.WishPreferDay, false)

	result := generate(t, p)
	assert.Equal(t, model.KindNight, result.Plan.Get(0, 0))
	assert.NotEqual(t, model.KindDay, result.Plan.Get(0, 1))
}

func TestGenerate_TypeBMinimum(t *testing.T) {
	emps := modeltest.Roster(6, 20)
	emps[5].Prefs.ShiftPattern = model.PatternB
	emps[5].Prefs.MinDay = model.IntPtr(4)
	emps[5].Prefs.MinNight = model.IntPtr(4)
	p := modeltest.Problem("2026-06-01", 30, emps...)

	result := generate(t, p)
	assert.GreaterOrEqual(t, result.Plan.Count(5, model.KindDay), 4)
	assert.GreaterOrEqual(t, result.Plan.Count(5, model.KindNight), 4)
	assert.Equal(t, 6, result.Stats.Fairness.DayCohortSize)
}

func TestGenerate_PreferDayHonored(t *testing.T) {
	emps := modeltest.Roster(6, 5)
	p := modeltest.Problem("2026-06-01", 7, emps...)
	modeltest.AddWish(p, emps[2], 5, model.WishPreferDay, false)

	result := generate(t, p)
	assert.Equal(t, model.KindDay, result.Plan.Get(2, 5))
	require.Len(t, result.Stats.Employees[2].WishesHonored, 1)
	assert.Zero(t, result.Stats.WishPenalty)
}

func TestGenerate_PostFill(t *testing.T) {
	emps := modeltest.Roster(5, 6)
	emps[4].Prefs.CountsForDayCoverage = false
	emps[4].Prefs.CountsForNightCoverage = false
	emps[4].Prefs.Category = model.CategoryExtra
	p := modeltest.Problem("2026-06-01", 7, emps...)

	result := generate(t, p)
	assert.Equal(t, 0, result.Plan.Count(4, model.KindDay, model.KindNight))
	assert.Equal(t, 5, result.Plan.Count(4, model.KindExtra), "仅补班员工在周一至周五补 Z")
	for _, day := range p.Horizon.Days {
		if day.IsWeekend {
			assert.Zero(t, result.Plan.CountOn(day.Index, model.KindExtra))
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 5, modeltest.Roster(5, 4)...)

	first := generate(t, p)
	second := generate(t, p)
	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Objective, second.Objective)
}

func TestGenerate_SingleDayInfeasible(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 1, modeltest.Roster(3, 1)...)

	_, err := testGenerator().Generate(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNoFeasibleSolution))
	assert.Contains(t, apperrors.GetDetails(err), "2026-06-01")
}

func TestGenerate_AllOnVacation(t *testing.T) {
	emps := modeltest.Roster(5, 4)
	p := modeltest.Problem("2026-06-01", 5, emps...)
	for _, e := range emps {
		modeltest.AddWish(p, e, 2, model.WishVacation, false)
	}

	_, err := testGenerator().Generate(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNoFeasibleSolution))
	assert.Contains(t, apperrors.GetDetails(err), "2026-06-03")
}

// stubSolver 返回固定结果
type stubSolver struct {
	result *solver.Result
}

func (s stubSolver) Name() string { return "stub" }

func (s stubSolver) Solve(context.Context, *constraint.Model) (*solver.Result, error) {
	return s.result, nil
}

func TestGenerate_SolverUnknown(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 2, modeltest.Roster(4, 2)...)
	g := testGenerator().WithSolver(stubSolver{result: &solver.Result{Status: solver.StatusUnknown}})

	_, err := g.Generate(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeNoFeasibleSolution))
	assert.NotEmpty(t, apperrors.GetDetails(err))
}

func TestGenerate_RejectsInvalidPlan(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 2, modeltest.Roster(4, 2)...)
	g := testGenerator().WithSolver(stubSolver{result: &solver.Result{
		Status: solver.StatusFeasible,
		Plan:   model.NewPlan(p),
	}})

	_, err := g.Generate(context.Background(), p)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInternal))
}

func TestGenerator_Rules(t *testing.T) {
	g := testGenerator()
	assert.Len(t, g.Rules(), 24)
	assert.Equal(t, int64(25000), g.Weights().PreferDay)
}

func TestGenerator_DisabledRules(t *testing.T) {
	opts := DefaultOptions()
	opts.DisabledRules = []constraint.Type{constraint.TypeFairnessDay, constraint.TypeCoverage, "unbekannt"}
	g := NewGenerator(opts)

	rules := g.Rules()
	assert.Len(t, rules, 23)
	types := make(map[constraint.Type]bool, len(rules))
	for _, r := range rules {
		types[r.Type] = true
	}
	assert.False(t, types[constraint.TypeFairnessDay])
	assert.True(t, types[constraint.TypeCoverage], "硬约束不能关闭")
}

// assembleMonth 从原始偏好经规范化组装 MA1..MAn，目标工时走默认回退
func assembleMonth(t *testing.T, n, days int, raws map[string]string) *model.Problem {
	t.Helper()
	emps := make([]*model.Employee, n)
	for i := range emps {
		kennung := fmt.Sprintf("MA%d", i+1)
		emps[i] = &model.Employee{
			ID:          uuid.New(),
			Kennung:     kennung,
			Preferences: preference.ParseRaw([]byte(raws[kennung])),
		}
	}
	fallback := target.DefaultFallbackHours
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	p, err := input.Assemble(context.Background(), input.Request{
		Employees: emps,
		Start:     start,
		End:       start.AddDate(0, 0, days-1),
		ShiftTypes: []model.ShiftType{
			{Code: "T", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 6}},
			{Code: "N", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 18}},
			{Code: "Z", Hours: decimal.NewFromInt(8), Start: model.TimeOfDay{Hour: 8}},
		},
		Targets:       target.StaticSource{},
		FallbackHours: &fallback,
	})
	require.NoError(t, err)
	return p
}

func TestGenerate_NormalizedLegacyPolicies(t *testing.T) {
	p := assembleMonth(t, 10, 30, map[string]string{
		"MA2":  `{"fixed_day_weekdays":"[2]","allowed_weekdays":"[0]"}`,
		"MA9":  `{"category":"zusatz","shift_type":"B"}`,
		"MA10": `{"availability":"dauerkrank"}`,
	})
	ma6, ma7 := p.Employees[5], p.Employees[6]
	require.True(t, ma6.Prefs.DayOnlyWeekday)
	require.True(t, ma7.Prefs.WeekendNightsOnly)
	require.Equal(t, 2, ma7.Prefs.MinWeekendNights)
	require.Equal(t, 5, *ma6.Prefs.MaxConsecutive)
	require.Equal(t, 4, *ma6.Prefs.MaxWeekends)
	require.NotNil(t, p.Employees[8].Prefs.MinDay)

	result := generate(t, p)
	plan := result.Plan

	weekendNights := 0
	for _, day := range p.Horizon.Days {
		d := day.Index
		assert.Equal(t, 2, plan.CountOn(d, model.KindDay), day.Key)
		assert.Equal(t, 2, plan.CountOn(d, model.KindNight), day.Key)

		assert.NotEqual(t, model.KindNight, plan.Get(5, d), "MA6 %s", day.Key)
		if day.IsWeekend {
			assert.Equal(t, model.KindFree, plan.Get(5, d), "MA6 %s", day.Key)
		}
		assert.NotEqual(t, model.KindDay, plan.Get(6, d), "MA7 %s", day.Key)
		if plan.Get(6, d) == model.KindNight {
			assert.True(t, day.IsExtendedWeekend, "MA7 %s", day.Key)
			weekendNights++
		}
	}
	assert.GreaterOrEqual(t, weekendNights, 2)
	assert.Zero(t, plan.Count(8, model.KindDay, model.KindNight), "补班员工不排 T/N")
	assert.Zero(t, plan.Count(9, model.KindDay, model.KindNight, model.KindExtra), "长期病假")
	assert.True(t, p.Employees[0].TargetFallback)
	assert.Equal(t, 12, p.Employees[0].TargetShifts)
}

func TestGenerate_LongSickLegacyEmployee(t *testing.T) {
	p := assembleMonth(t, 7, 14, map[string]string{
		"MA7": `{"kategorie":"dauerkrank"}`,
	})
	require.Equal(t, model.CategoryLongSick, p.Employees[6].Prefs.Category)
	require.Equal(t, 2, p.Employees[6].Prefs.MinWeekendNights)

	result := generate(t, p)
	assert.Zero(t, result.Plan.Count(6, model.KindDay, model.KindNight))
}
