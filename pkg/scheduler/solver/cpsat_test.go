package solver

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
)

func buildModel(t *testing.T, p *model.Problem) *constraint.Model {
	t.Helper()
	manager := constraint.NewManager()
	builtin.RegisterHardConstraints(manager)
	m := constraint.NewModel(p)
	require.NoError(t, manager.PostAll(m))
	return m
}

func TestCPSATSolver_Solve(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 7, modeltest.Roster(2, 3)...)
	p.Coverage = model.Coverage{Day: 1, Night: 1}

	s := NewCPSATSolver(Options{TimeLimit: 10 * time.Second})
	result, err := s.Solve(context.Background(), buildModel(t, p))
	require.NoError(t, err)
	require.True(t, result.Status.HasSolution(), "status %s", result.Status)
	require.NotNil(t, result.Plan)

	for d := 0; d < p.Horizon.Len(); d++ {
		assert.Equal(t, 1, result.Plan.CountOn(d, model.KindDay))
		assert.Equal(t, 1, result.Plan.CountOn(d, model.KindNight))
	}
	for e := range p.Employees {
		for d := 0; d+1 < p.Horizon.Len(); d++ {
			if result.Plan.Get(e, d) == model.KindNight {
				assert.NotEqual(t, model.KindDay, result.Plan.Get(e, d+1))
			}
		}
	}
}

func TestCPSATSolver_Infeasible(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 3, modeltest.Roster(2, 1)...)
	p.Coverage = model.Coverage{Day: 2, Night: 1}

	result, err := NewCPSATSolver(DefaultOptions()).Solve(context.Background(), buildModel(t, p))
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, result.Status)
	assert.Nil(t, result.Plan)
}

func TestCPSATSolver_ExpiredContext(t *testing.T) {
	p := modeltest.Problem("2026-06-01", 2, modeltest.Roster(2, 1)...)
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := NewCPSATSolver(DefaultOptions()).Solve(ctx, buildModel(t, p))
	require.Error(t, err)
}

func TestCPSATSolver_TimeLimit(t *testing.T) {
	s := NewCPSATSolver(Options{TimeLimit: time.Minute})
	assert.Equal(t, time.Minute, s.timeLimit(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	assert.LessOrEqual(t, s.timeLimit(ctx), 5*time.Second)

	assert.Equal(t, DefaultTimeLimit, NewCPSATSolver(Options{}).timeLimit(context.Background()))
}

func TestResult_Gap(t *testing.T) {
	assert.Equal(t, 0.0, (&Result{Objective: -100, BestBound: -100}).Gap())
	assert.InDelta(t, 10.0/90.0, (&Result{Objective: -90, BestBound: -100}).Gap(), 1e-9)
}
