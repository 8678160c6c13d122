// Package arbeitszeit 工时记录的辅助计算（法定休息、净工时）
package arbeitszeit

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
)

const (
	firstThreshold  = 6 * time.Hour
	firstPause      = 30 * time.Minute
	secondThreshold = 9 * time.Hour
	secondPause     = 45 * time.Minute

	maxSpan = 16 * time.Hour
)

// Pause 按出勤时长计算法定休息
//
//	≤ 6:00        0
//	6:00 – 6:30   线性增长至 30 分钟
//	6:30 – 9:00   30 分钟
//	9:00 – 9:15   线性增长至 45 分钟
//	> 9:15        45 分钟
//
// 线性段保证扣除休息后的净工时不会因多出勤而减少
func Pause(presence time.Duration) time.Duration {
	switch {
	case presence <= firstThreshold:
		return 0
	case presence <= firstThreshold+firstPause:
		return presence - firstThreshold
	case presence <= secondThreshold:
		return firstPause
	case presence <= secondThreshold+(secondPause-firstPause):
		return firstPause + presence - secondThreshold
	default:
		return secondPause
	}
}

// Span 起止时间之间的出勤时长，结束早于开始时视为跨午夜
func Span(start, end model.TimeOfDay) time.Duration {
	minutes := end.Minutes() - start.Minutes()
	if minutes < 0 {
		minutes += 24 * 60
	}
	return time.Duration(minutes) * time.Minute
}

// Entry 一天的工时记录
type Entry struct {
	Start model.TimeOfDay
	End   model.TimeOfDay
	// ManualPause 非空时覆盖法定休息，但不低于法定值
	ManualPause *time.Duration
}

// EffectivePause 实际扣除的休息
func (e Entry) EffectivePause() time.Duration {
	legal := Pause(Span(e.Start, e.End))
	if e.ManualPause != nil && *e.ManualPause > legal {
		return *e.ManualPause
	}
	return legal
}

// Net 净工时
func (e Entry) Net() time.Duration {
	net := Span(e.Start, e.End) - e.EffectivePause()
	if net < 0 {
		return 0
	}
	return net
}

// NetHours 净工时（小时，保留两位小数）
func (e Entry) NetHours() decimal.Decimal {
	return Hours(e.Net())
}

// Validate 检查出勤是否超过 16 小时
func (e Entry) Validate() error {
	if span := Span(e.Start, e.End); span > maxSpan {
		return apperrors.InvalidInput("arbeitsende", "Arbeitszeit darf 16 Stunden nicht überschreiten: "+Format(span))
	}
	return nil
}

// Hours 将时长转换为小时数
func Hours(d time.Duration) decimal.Decimal {
	return decimal.NewFromInt(int64(d / time.Minute)).Div(decimal.NewFromInt(60)).Round(2)
}

// Format 以 H:MMh 格式输出
func Format(d time.Duration) string {
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%d:%02dh", minutes/60, minutes%60)
}
