package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
	"github.com/paiban/schichtplan/pkg/scheduler"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/stats"
)

func TestParseMonth(t *testing.T) {
	now := time.Date(2026, time.December, 15, 0, 0, 0, 0, time.UTC)

	y, m, err := parseMonth("", now)
	require.NoError(t, err)
	assert.Equal(t, 2027, y)
	assert.Equal(t, time.January, m)

	y, m, err = parseMonth("2026-06", now)
	require.NoError(t, err)
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.June, m)

	_, _, err = parseMonth("06/2026", now)
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"MA1", "MA2"}, splitList(" MA1, ,MA2 "))
	assert.Nil(t, splitList(""))
}

func TestPrintPlan(t *testing.T) {
	emps := modeltest.Roster(2, 1)
	p := modeltest.Problem("2026-06-01", 2, emps...)
	plan := model.NewPlan(p)
	plan.Set(0, 0, model.KindDay)
	plan.Set(1, 1, model.KindNight)

	result := &scheduler.Result{
		Plan:  plan,
		Stats: stats.Compute(p, plan, builtin.DefaultWeights()),
	}

	var buf bytes.Buffer
	printPlan(&buf, p, result)
	out := buf.String()

	assert.Contains(t, out, "2026-06-01 ~ 2026-06-02")
	assert.Contains(t, out, "Mo01")
	assert.Contains(t, out, "Di02")
	assert.Contains(t, out, "MA1")
	assert.Contains(t, out, "MA2")
}
