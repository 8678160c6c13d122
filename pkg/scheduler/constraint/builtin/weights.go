package builtin

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/paiban/schichtplan/pkg/model"
)

// Weights 软目标权重（整数，最小化）
type Weights struct {
	TargetDeviation     int64 `yaml:"target_deviation" json:"target_deviation"`
	KindTargetDeviation int64 `yaml:"kind_target_deviation" json:"kind_target_deviation"`
	TypeBExcessDay      int64 `yaml:"type_b_excess_day" json:"type_b_excess_day"`
	TypeBExcessNight    int64 `yaml:"type_b_excess_night" json:"type_b_excess_night"`
	TypeBThreshold      int   `yaml:"type_b_threshold" json:"type_b_threshold"`

	FairnessDay     int64 `yaml:"fairness_day" json:"fairness_day"`
	FairnessNight   int64 `yaml:"fairness_night" json:"fairness_night"`
	FairnessWeekend int64 `yaml:"fairness_weekend" json:"fairness_weekend"`

	PreferDay         int64 `yaml:"prefer_day" json:"prefer_day"`
	PreferNight       int64 `yaml:"prefer_night" json:"prefer_night"`
	PreferExtra       int64 `yaml:"prefer_extra" json:"prefer_extra"`
	UnapprovedNothing int64 `yaml:"unapproved_nothing" json:"unapproved_nothing"`

	FewWishesNone int64 `yaml:"few_wishes_none" json:"few_wishes_none"`
	FewWishesLow  int64 `yaml:"few_wishes_low" json:"few_wishes_low"`
	FewWishesMid  int64 `yaml:"few_wishes_mid" json:"few_wishes_mid"`

	FixedWeekday int64 `yaml:"fixed_weekday" json:"fixed_weekday"`

	WeekendNightBlock     int64 `yaml:"weekend_night_block" json:"weekend_night_block"`
	WeekendNightDeviation int64 `yaml:"weekend_night_deviation" json:"weekend_night_deviation"`
	WeekendNightOver      int64 `yaml:"weekend_night_over" json:"weekend_night_over"`

	DayBlock3 int64 `yaml:"day_block_3" json:"day_block_3"`
	DayBlock4 int64 `yaml:"day_block_4" json:"day_block_4"`

	History int64 `yaml:"history" json:"history"`

	PriorityHigh        decimal.Decimal `yaml:"priority_high" json:"priority_high"`
	PriorityLow         decimal.Decimal `yaml:"priority_low" json:"priority_low"`
	HistoryPriorityHigh decimal.Decimal `yaml:"history_priority_high" json:"history_priority_high"`
	HistoryPriorityLow  decimal.Decimal `yaml:"history_priority_low" json:"history_priority_low"`
}

// DefaultWeights 默认权重
func DefaultWeights() Weights {
	return Weights{
		TargetDeviation:     2000,
		KindTargetDeviation: 1000,
		TypeBExcessDay:      2000,
		TypeBExcessNight:    2000,
		TypeBThreshold:      6,

		FairnessDay:     2500,
		FairnessNight:   1500,
		FairnessWeekend: 2000,

		PreferDay:         25000,
		PreferNight:       25000,
		PreferExtra:       5000,
		UnapprovedNothing: 10000,

		FewWishesNone: 5000,
		FewWishesLow:  3000,
		FewWishesMid:  1000,

		FixedWeekday: 30000,

		WeekendNightBlock:     5000,
		WeekendNightDeviation: 15000,
		WeekendNightOver:      20000,

		DayBlock3: 1500,
		DayBlock4: 3000,

		History: 5,

		PriorityHigh:        decimal.RequireFromString("1.5"),
		PriorityLow:         decimal.RequireFromString("0.8"),
		HistoryPriorityHigh: decimal.RequireFromString("1.5"),
		HistoryPriorityLow:  decimal.RequireFromString("0.5"),
	}
}

// LoadWeights 从 YAML 文件读取权重，未出现的键保留默认值
func LoadWeights(path string) (Weights, error) {
	w := DefaultWeights()
	if path == "" {
		return w, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return w, fmt.Errorf("读取权重文件失败: %w", err)
	}
	if err := yaml.Unmarshal(data, &w); err != nil {
		return w, fmt.Errorf("解析权重文件失败: %w", err)
	}
	if w.TypeBThreshold < 0 {
		return w, fmt.Errorf("type_b_threshold 不能为负: %d", w.TypeBThreshold)
	}
	return w, nil
}

// PriorityMultiplier 愿望类目标项的优先级倍率
func (w Weights) PriorityMultiplier(p model.Priority) decimal.Decimal {
	switch p {
	case model.PriorityHigh:
		return w.PriorityHigh
	case model.PriorityLow:
		return w.PriorityLow
	}
	return decimal.NewFromInt(1)
}

// HistoryMultiplier 历史偏好项的优先级倍率
func (w Weights) HistoryMultiplier(p model.Priority) decimal.Decimal {
	switch p {
	case model.PriorityHigh:
		return w.HistoryPriorityHigh
	case model.PriorityLow:
		return w.HistoryPriorityLow
	}
	return decimal.NewFromInt(1)
}

// FewWishesBonus 按愿望数量的奖励：0 个、1–4 个、5–14 个
func (w Weights) FewWishesBonus(wishes int) int64 {
	switch {
	case wishes == 0:
		return w.FewWishesNone
	case wishes <= 4:
		return w.FewWishesLow
	case wishes <= 14:
		return w.FewWishesMid
	}
	return 0
}
