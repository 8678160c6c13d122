package postfill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
)

// 2026-06-01 为周一，7 天覆盖周一至周日
func newProblem(emps ...*model.PlannedEmployee) *model.Problem {
	return modeltest.Problem("2026-06-01", 7, emps...)
}

func TestFill_Order(t *testing.T) {
	ma1 := modeltest.Employee("MA1", 3)
	ma2 := modeltest.Employee("MA2", 2)
	p := newProblem(ma1, ma2)
	modeltest.AddWish(p, ma2, 3, model.WishPreferExtra, false)

	out, summary := NewFiller(DefaultOptions()).Fill(p, model.NewPlan(p))

	assert.Equal(t, 5, summary.Placed)
	assert.Empty(t, summary.Unmet)
	for _, d := range []int{0, 1, 2} {
		assert.Equal(t, model.KindExtra, out.Get(0, d), "MA1 day %d", d)
	}
	assert.Equal(t, model.KindExtra, out.Get(1, 3), "愿意加班的日期优先")
	assert.Equal(t, model.KindExtra, out.Get(1, 4), "其次选择 Z 较少的日期")
}

func TestFill_DoesNotMutateInput(t *testing.T) {
	p := newProblem(modeltest.Employee("MA1", 2))
	plan := model.NewPlan(p)

	out, _ := NewFiller(DefaultOptions()).Fill(p, plan)
	assert.Equal(t, 2, out.Count(0, model.KindExtra))
	assert.Equal(t, 0, plan.Count(0, model.KindExtra))
}

func TestFill_Unmet(t *testing.T) {
	ma1 := modeltest.Employee("MA1", 10)
	ma2 := modeltest.Employee("MA2", 3)
	ma2.Prefs.NoExtraDuty = true
	p := newProblem(ma1, ma2)

	out, summary := NewFiller(DefaultOptions()).Fill(p, model.NewPlan(p))

	assert.Equal(t, 5, summary.Placed, "只能排周一至周五")
	require.Len(t, summary.Unmet, 1)
	assert.Equal(t, Shortfall{Kennung: "MA1", Missing: 5}, summary.Unmet[0])
	assert.Equal(t, 0, out.Count(1, model.KindExtra))
}

func TestFill_DeficitCountsRegularShifts(t *testing.T) {
	p := newProblem(modeltest.Employee("MA1", 3))
	plan := model.NewPlan(p)
	plan.Set(0, 5, model.KindDay)
	plan.Set(0, 6, model.KindDay)

	out, summary := NewFiller(DefaultOptions()).Fill(p, plan)
	assert.Equal(t, 1, summary.Placed)
	assert.Equal(t, 1, out.Count(0, model.KindExtra))
}

func TestFill_NoExtraShiftType(t *testing.T) {
	p := newProblem(modeltest.Employee("MA1", 3))
	p.Catalog.Extra = nil

	out, summary := NewFiller(DefaultOptions()).Fill(p, model.NewPlan(p))
	assert.Zero(t, summary.Placed)
	assert.Equal(t, 0, out.Count(0, model.KindExtra))
}

func TestLegal(t *testing.T) {
	f := NewFiller(DefaultOptions())

	t.Run("周末不排", func(t *testing.T) {
		p := newProblem(modeltest.Employee("MA1", 3))
		plan := model.NewPlan(p)
		assert.True(t, f.Legal(p, plan, 0, 4, false))
		assert.False(t, f.Legal(p, plan, 0, 5, false))
		assert.False(t, f.Legal(p, plan, 0, 6, false))
	})

	t.Run("夜班之后不排", func(t *testing.T) {
		p := newProblem(modeltest.Employee("MA1", 3))
		plan := model.NewPlan(p)
		plan.Set(0, 1, model.KindNight)
		assert.False(t, f.Legal(p, plan, 0, 2, false))
		assert.False(t, f.Legal(p, plan, 0, 1, false), "已占用")
	})

	t.Run("计划前一天夜班", func(t *testing.T) {
		p := newProblem(modeltest.Employee("MA1", 3))
		p.LastShifts["MA1"] = model.KindNight
		assert.False(t, f.Legal(p, model.NewPlan(p), 0, 0, false))
	})

	t.Run("夜间性质的 Z 后不接白班", func(t *testing.T) {
		p := newProblem(modeltest.Employee("MA1", 3))
		plan := model.NewPlan(p)
		plan.Set(0, 2, model.KindDay)
		assert.False(t, f.Legal(p, plan, 0, 1, true))
		assert.True(t, f.Legal(p, plan, 0, 1, false))
	})

	t.Run("每天最多两个 Z", func(t *testing.T) {
		p := newProblem(modeltest.Roster(3, 3)...)
		plan := model.NewPlan(p)
		plan.Set(0, 2, model.KindExtra)
		plan.Set(1, 2, model.KindExtra)
		assert.False(t, f.Legal(p, plan, 2, 2, false))
	})

	t.Run("最多连续天数", func(t *testing.T) {
		emp := modeltest.Employee("MA1", 3)
		emp.Prefs.MaxConsecutive = model.IntPtr(2)
		p := newProblem(emp)
		plan := model.NewPlan(p)
		plan.Set(0, 0, model.KindDay)
		plan.Set(0, 1, model.KindDay)
		assert.False(t, f.Legal(p, plan, 0, 2, false))
		assert.True(t, f.Legal(p, plan, 0, 3, false))
	})

	t.Run("每月最多班次含 Z", func(t *testing.T) {
		emp := modeltest.Employee("MA1", 3)
		emp.Prefs.MaxShifts = model.IntPtr(1)
		p := newProblem(emp)
		plan := model.NewPlan(p)
		plan.Set(0, 5, model.KindDay)
		assert.False(t, f.Legal(p, plan, 0, 2, false))
	})

	t.Run("休假与允许的星期", func(t *testing.T) {
		emp := modeltest.Employee("MA1", 3)
		emp.Prefs.AllowedWeekdays = []int{0, 1}
		p := newProblem(emp)
		modeltest.AddWish(p, emp, 1, model.WishVacation, false)
		plan := model.NewPlan(p)
		assert.True(t, f.Legal(p, plan, 0, 0, false))
		assert.False(t, f.Legal(p, plan, 0, 1, false))
		assert.False(t, f.Legal(p, plan, 0, 2, false))
	})

	t.Run("仅周末可用", func(t *testing.T) {
		emp := modeltest.Employee("MA1", 3)
		emp.Prefs.Availability = model.AvailabilityWeekendOnly
		p := newProblem(emp)
		assert.False(t, f.Legal(p, model.NewPlan(p), 0, 0, false))
	})
}
