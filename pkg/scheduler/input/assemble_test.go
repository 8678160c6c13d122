package input

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/target"
)

type failingSource struct{}

func (failingSource) TargetHours(context.Context, uuid.UUID, string, int, time.Month) (*decimal.Decimal, error) {
	return nil, errors.New("connection refused")
}

func TestAssemble(t *testing.T) {
	req := newRequest()
	req.Employees[0].Wishes = []model.Wish{
		{Date: "2026-06-03", Kind: model.WishVacation},
		{Date: "2026-07-01", Kind: model.WishVacation},
		{Date: "2026-06-04", Kind: model.WishPreferDay},
		{Date: "2026-06-04", Kind: model.WishNothing, Approved: true},
	}
	req.LastShifts = map[string]model.Kind{"MA1": model.KindNight, "MA9": model.KindNight}

	p, err := Assemble(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 30, p.Horizon.Len())
	require.Len(t, p.Employees, 2)
	assert.Equal(t, "MA1", p.Employees[0].Kennung)
	assert.Equal(t, model.DefaultCoverage(), p.Coverage)

	ma1 := p.Employees[0]
	assert.Equal(t, 10, ma1.TargetShifts)
	assert.False(t, ma1.TargetFallback)
	assert.Equal(t, 2, ma1.WishCount, "周期外的愿望被忽略")
	assert.True(t, ma1.ForcedOff(2))
	assert.True(t, ma1.ForcedOff(3), "同日保留约束最强的愿望")

	ma2 := p.Employees[1]
	assert.True(t, ma2.TargetFallback)
	assert.Equal(t, 12, ma2.TargetShifts)

	assert.Equal(t, model.KindNight, p.LastShift("MA1"))
	assert.Equal(t, model.KindFree, p.LastShift("MA9"))
}

func TestAssemble_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		code   apperrors.Code
	}{
		{
			name:   "缺少夜班类型",
			mutate: func(r *Request) { r.ShiftTypes = r.ShiftTypes[:1] },
			code:   apperrors.CodeMissingShiftTypes,
		},
		{
			name:   "结束早于开始",
			mutate: func(r *Request) { r.End = r.Start.AddDate(0, 0, -1) },
			code:   apperrors.CodeInvalidTimeRange,
		},
		{
			name:   "没有回退值且缺少目标",
			mutate: func(r *Request) { r.FallbackHours = nil },
			code:   apperrors.CodeMissingTarget,
		},
		{
			name: "结构上不可能的偏好",
			mutate: func(r *Request) {
				r.Employees[0].Preferences = model.RawPreferences{"shift_type": "B", "can_day": false}
			},
			code: apperrors.CodeInvalidPreference,
		},
		{
			name:   "重复标识",
			mutate: func(r *Request) { r.Employees[1].Kennung = "MA1" },
			code:   apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest()
			tt.mutate(&req)
			_, err := Assemble(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.code, apperrors.GetCode(err))
		})
	}
}

func TestAssemble_SourceErrorUsesFallback(t *testing.T) {
	req := newRequest()
	req.Targets = failingSource{}

	p, err := Assemble(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, p.Employees[0].TargetFallback)
}

// 辅助函数

func newRequest() Request {
	fallback := target.DefaultFallbackHours
	return Request{
		Employees: []*model.Employee{
			{ID: uuid.New(), Kennung: "MA1", Name: "Anna"},
			{ID: uuid.New(), Kennung: "MA2", Name: "Ben"},
		},
		Start: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		ShiftTypes: []model.ShiftType{
			{Code: "T", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 6}},
			{Code: "N", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 18}},
			{Code: "Z", Hours: decimal.NewFromInt(8), Start: model.TimeOfDay{Hour: 8}},
		},
		Targets:       target.StaticSource{"MA1": decimal.NewFromInt(120)},
		FallbackHours: &fallback,
	}
}
