package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/model/modeltest"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/validator"
)

// fixture 三人三天，每天 1 T 1 N：
//
//	      Mo  Di  Mi
//	MA1   T   N   .
//	MA2   N   .   T
//	MA3   .   T   N
func fixture(t *testing.T) (*model.Problem, *model.Plan) {
	t.Helper()
	p := modeltest.Problem("2026-06-01", 3, modeltest.Roster(3, 1)...)
	p.Coverage = model.Coverage{Day: 1, Night: 1}

	plan := model.NewPlan(p)
	grid := [][]model.Kind{
		{model.KindDay, model.KindNight, model.KindFree},
		{model.KindNight, model.KindFree, model.KindDay},
		{model.KindFree, model.KindDay, model.KindNight},
	}
	for e, row := range grid {
		for d, k := range row {
			plan.Set(e, d, k)
		}
	}
	require.Empty(t, validator.Check(p, plan))
	return p, plan
}

func newEvaluator() *Evaluator {
	return NewEvaluator(builtin.DefaultWeights(), nil)
}

func TestEvaluate_TakeOver(t *testing.T) {
	p, plan := fixture(t)

	ev, err := newEvaluator().Evaluate(p, plan, Request{Date: "2026-06-01", From: "MA1", To: "MA3"})
	require.NoError(t, err)

	assert.True(t, ev.Feasible)
	assert.Equal(t, TypeTakeOver, ev.Type)
	assert.Empty(t, ev.Conflicts)
	assert.Equal(t, "-12", ev.From.HoursChange.String())
	assert.Equal(t, "12", ev.To.HoursChange.String())
	assert.Equal(t, 1, ev.From.DeviationBefore)
	assert.Equal(t, 0, ev.From.DeviationAfter)
	assert.Equal(t, 2, ev.To.DeviationAfter)
	assert.Equal(t, 100.0, ev.Score)

	// 原计划不变
	assert.Equal(t, model.KindDay, plan.Get(0, 0))
	assert.Equal(t, model.KindDay, ev.Plan().Get(2, 0))
	assert.Equal(t, model.KindFree, ev.Plan().Get(0, 0))
}

func TestEvaluate_NightRestConflict(t *testing.T) {
	p, plan := fixture(t)

	ev, err := newEvaluator().Evaluate(p, plan, Request{Date: "2026-06-01", From: "MA2", To: "MA3"})
	require.NoError(t, err)

	assert.False(t, ev.Feasible)
	require.Len(t, ev.Conflicts, 1)
	assert.Equal(t, validator.ConflictNightRest, ev.Conflicts[0].Type)
	assert.Equal(t, "MA3", ev.Conflicts[0].Kennung)
	assert.Zero(t, ev.Score)

	ok, msg := newEvaluator().CanSwap(p, plan, Request{Date: "2026-06-01", From: "MA2", To: "MA3"})
	assert.False(t, ok)
	assert.NotEmpty(t, msg)
}

func TestEvaluate_Exchange(t *testing.T) {
	p, plan := fixture(t)

	req := Request{Date: "2026-06-01", From: "MA1", To: "MA3", ExchangeDate: "2026-06-03"}
	ev, err := newEvaluator().Evaluate(p, plan, req)
	require.NoError(t, err)

	assert.True(t, ev.Feasible)
	assert.Equal(t, TypeExchange, ev.Type)
	assert.Equal(t, model.KindNight, ev.Plan().Get(0, 2))
	assert.Equal(t, model.KindFree, ev.Plan().Get(2, 2))
	assert.Equal(t, ev.From.DeviationBefore, ev.From.DeviationAfter)
	assert.True(t, ev.From.HoursChange.IsZero())
}

func TestEvaluate_WishViolation(t *testing.T) {
	p, plan := fixture(t)
	modeltest.AddWish(p, p.Employees[2], 0, model.WishNothing, false)

	ev, err := newEvaluator().Evaluate(p, plan, Request{Date: "2026-06-01", From: "MA1", To: "MA3"})
	require.NoError(t, err)

	assert.True(t, ev.Feasible)
	assert.Equal(t, 1, ev.To.WishViolationsChange)
	assert.Positive(t, ev.WishPenaltyChange)
	assert.Equal(t, 85.0, ev.Score)
}

func TestEvaluate_InvalidRequests(t *testing.T) {
	p, plan := fixture(t)
	tests := []struct {
		name string
		req  Request
		code apperrors.Code
	}{
		{"unknown from", Request{Date: "2026-06-01", From: "MA9", To: "MA3"}, apperrors.CodeNotFound},
		{"same person", Request{Date: "2026-06-01", From: "MA1", To: "MA1"}, apperrors.CodeInvalidInput},
		{"outside horizon", Request{Date: "2026-07-01", From: "MA1", To: "MA3"}, apperrors.CodeInvalidInput},
		{"from is free", Request{Date: "2026-06-01", From: "MA3", To: "MA1"}, apperrors.CodeInvalidInput},
		{"to is busy", Request{Date: "2026-06-01", From: "MA1", To: "MA2"}, apperrors.CodeInvalidInput},
		{"exchange same day", Request{Date: "2026-06-01", From: "MA1", To: "MA3", ExchangeDate: "2026-06-01"}, apperrors.CodeInvalidInput},
		{"exchange from busy", Request{Date: "2026-06-01", From: "MA1", To: "MA3", ExchangeDate: "2026-06-02"}, apperrors.CodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newEvaluator().Evaluate(p, plan, tt.req)
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, tt.code), err.Error())
		})
	}
}

func TestNewConflicts(t *testing.T) {
	a := validator.Conflict{Type: validator.ConflictCoverage, Date: "2026-06-01", Message: "x"}
	b := validator.Conflict{Type: validator.ConflictNightRest, Kennung: "MA1", Date: "2026-06-02", Message: "y"}

	assert.Equal(t, []validator.Conflict{b}, newConflicts([]validator.Conflict{a}, []validator.Conflict{a, b}))
	assert.Empty(t, newConflicts([]validator.Conflict{a, b}, []validator.Conflict{b}))
}

func TestRecommend(t *testing.T) {
	p, plan := fixture(t)
	r := NewRecommender(newEvaluator())

	recs, err := r.Recommend(p, plan, "MA1", "2026-06-01", DefaultRecommendOptions())
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].Rank)
	assert.Equal(t, TypeTakeOver, recs[0].Evaluation.Type)
	assert.Equal(t, TypeExchange, recs[1].Evaluation.Type)
	assert.Equal(t, "2026-06-03", recs[1].Evaluation.Request.ExchangeDate)

	opts := DefaultRecommendOptions()
	opts.AllowExchange = false
	recs, err = r.Recommend(p, plan, "MA1", "2026-06-01", opts)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "MA3", recs[0].Evaluation.To.Kennung)

	opts.Exclude = []string{"MA3"}
	recs, err = r.Recommend(p, plan, "MA1", "2026-06-01", opts)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = r.Recommend(p, plan, "MA3", "2026-06-01", DefaultRecommendOptions())
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}

func TestFindReplacement(t *testing.T) {
	p, plan := fixture(t)
	rec, err := NewRecommender(newEvaluator()).FindReplacement(p, plan, "MA2", "2026-06-01")
	require.NoError(t, err)
	assert.Nil(t, rec)

	rec, err = NewRecommender(newEvaluator()).FindReplacement(p, plan, "MA1", "2026-06-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "MA3", rec.Evaluation.To.Kennung)
}
