// Package target 将月度目标工时换算为目标班次数
package target

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/paiban/schichtplan/pkg/model"
)

// DefaultFallbackHours 缺少目标工时时的回退值
var DefaultFallbackHours = decimal.NewFromInt(144)

// Source 月度目标工时来源
type Source interface {
	// TargetHours 返回员工某月的目标工时，未知时返回 nil
	TargetHours(ctx context.Context, employeeID uuid.UUID, kennung string, year int, month time.Month) (*decimal.Decimal, error)
}

// StaticSource 按员工标识给出固定目标工时
type StaticSource map[string]decimal.Decimal

// TargetHours 实现 Source
func (s StaticSource) TargetHours(_ context.Context, _ uuid.UUID, kennung string, _ int, _ time.Month) (*decimal.Decimal, error) {
	if h, ok := s[kennung]; ok {
		return &h, nil
	}
	return nil, nil
}

// Result 换算结果
type Result struct {
	Hours    decimal.Decimal
	Shifts   int
	Fallback bool
}

// Derive 目标班次 = round(工时 / ((h_T + h_N) / 2))，采用银行家舍入
func Derive(hours *decimal.Decimal, fallback *decimal.Decimal, catalog model.Catalog) (Result, bool) {
	res := Result{}
	switch {
	case hours != nil:
		res.Hours = *hours
	case fallback != nil:
		res.Hours = *fallback
		res.Fallback = true
	default:
		return res, false
	}

	avg := catalog.AverageHours()
	if avg.Sign() <= 0 {
		return res, true
	}
	res.Shifts = int(res.Hours.Div(avg).RoundBank(0).IntPart())
	if res.Shifts < 0 {
		res.Shifts = 0
	}
	return res, true
}
