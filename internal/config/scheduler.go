package config

import (
	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint/builtin"
	"github.com/paiban/schichtplan/pkg/scheduler/postfill"
	"github.com/paiban/schichtplan/pkg/scheduler/preference"
	"github.com/paiban/schichtplan/pkg/scheduler/solver"
)

// GeneratorOptions 生成器参数，权重文件为空时使用默认权重
func (s SchedulerConfig) GeneratorOptions() (scheduler.Options, error) {
	weights, err := builtin.LoadWeights(s.WeightsFile)
	if err != nil {
		return scheduler.Options{}, err
	}
	disabled := make([]constraint.Type, 0, len(s.DisabledRules))
	for _, r := range s.DisabledRules {
		disabled = append(disabled, constraint.Type(r))
	}
	return scheduler.Options{
		Weights:       weights,
		DisabledRules: disabled,
		Solver: solver.Options{
			TimeLimit:          s.TimeLimit,
			Workers:            s.Workers,
			Seed:               s.Seed,
			LinearizationLevel: s.LinearizationLevel,
			RelativeGap:        s.RelativeGap,
			LogSearch:          s.LogSearch,
		},
		PostFill: postfill.Options{MaxPerDay: s.MaxExtraPerDay},
	}, nil
}

// PreferenceConfig 偏好规范化配置
func (s SchedulerConfig) PreferenceConfig() preference.Config {
	cfg := preference.DefaultConfig()
	cfg.LegacyPolicies = s.LegacyPolicies
	return cfg
}

// Coverage 每日覆盖人数
func (s SchedulerConfig) Coverage() model.Coverage {
	return model.Coverage{Day: s.CoverageDay, Night: s.CoverageNight}
}
