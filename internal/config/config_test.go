package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/schichtplan/pkg/model"
	"github.com/paiban/schichtplan/pkg/scheduler/constraint"
	"github.com/paiban/schichtplan/pkg/scheduler/input"
	"github.com/paiban/schichtplan/pkg/scheduler/target"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadFiles()
	require.NoError(t, err)

	assert.Equal(t, "schichtplan", cfg.App.Name)
	assert.Equal(t, 20*time.Second, cfg.Scheduler.TimeLimit)
	assert.Equal(t, 1, cfg.Scheduler.Workers)
	assert.Equal(t, 2, cfg.Scheduler.MaxExtraPerDay)
	assert.Equal(t, []string{"T", "N", "Z"}, cfg.Scheduler.ShiftCodes)
	require.NotNil(t, cfg.Scheduler.FallbackHours)
	assert.Equal(t, "144", cfg.Scheduler.FallbackHours.String())
	assert.True(t, cfg.Scheduler.LegacyPolicies)
}

func TestLoad_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "SCHEDULER_TIME_LIMIT=45s\nSCHEDULER_FALLBACK_HOURS=151.5\nSCHEDULER_SHIFT_CODES=T, N\nSCHEDULER_LEGACY_POLICIES=false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	for _, key := range []string{"SCHEDULER_TIME_LIMIT", "SCHEDULER_FALLBACK_HOURS", "SCHEDULER_SHIFT_CODES", "SCHEDULER_LEGACY_POLICIES"} {
		key := key
		t.Cleanup(func() { os.Unsetenv(key) })
	}

	cfg, err := LoadFiles(path)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Second, cfg.Scheduler.TimeLimit)
	require.NotNil(t, cfg.Scheduler.FallbackHours)
	assert.Equal(t, "151.5", cfg.Scheduler.FallbackHours.String())
	assert.Equal(t, []string{"T", "N"}, cfg.Scheduler.ShiftCodes)
	assert.False(t, cfg.Scheduler.PreferenceConfig().LegacyPolicies)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("SCHEDULER_WORKERS", "0")
	_, err := LoadFiles()
	assert.Error(t, err)
}

func TestLoad_InvalidFallback(t *testing.T) {
	t.Setenv("SCHEDULER_FALLBACK_HOURS", "abc")
	_, err := LoadFiles()
	assert.Error(t, err)
}

func TestLoad_DisabledRules(t *testing.T) {
	t.Setenv("SCHEDULER_DISABLED_RULES", "fairness_day, history_affinity")
	cfg, err := LoadFiles()
	require.NoError(t, err)

	opts, err := cfg.Scheduler.GeneratorOptions()
	require.NoError(t, err)
	assert.Equal(t, []constraint.Type{constraint.TypeFairnessDay, constraint.TypeHistoryAffinity}, opts.DisabledRules)
}

func TestLoad_FallbackDisabled(t *testing.T) {
	t.Setenv("SCHEDULER_FALLBACK_HOURS", "none")
	cfg, err := LoadFiles()
	require.NoError(t, err)
	assert.Nil(t, cfg.Scheduler.FallbackHours)
}

func TestLoad_DefaultFallbackFeedsAssemble(t *testing.T) {
	cfg, err := LoadFiles()
	require.NoError(t, err)

	p, err := input.Assemble(context.Background(), input.Request{
		Employees: []*model.Employee{{ID: uuid.New(), Kennung: "MA1"}},
		Start:     time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		ShiftTypes: []model.ShiftType{
			{Code: "T", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 6}},
			{Code: "N", Hours: decimal.NewFromInt(12), Start: model.TimeOfDay{Hour: 18}},
			{Code: "Z", Hours: decimal.NewFromInt(8), Start: model.TimeOfDay{Hour: 8}},
		},
		Targets:       target.StaticSource{},
		FallbackHours: cfg.Scheduler.FallbackHours,
	})
	require.NoError(t, err)
	assert.True(t, p.Employees[0].TargetFallback)
	assert.Equal(t, 12, p.Employees[0].TargetShifts)
}

func TestSchedulerConfig_GeneratorOptions(t *testing.T) {
	cfg, err := LoadFiles()
	require.NoError(t, err)

	opts, err := cfg.Scheduler.GeneratorOptions()
	require.NoError(t, err)
	assert.Equal(t, cfg.Scheduler.TimeLimit, opts.Solver.TimeLimit)
	assert.Equal(t, 2, opts.PostFill.MaxPerDay)
	assert.Equal(t, int64(25000), opts.Weights.PreferDay)
	assert.Equal(t, 2, cfg.Scheduler.Coverage().Day)
	assert.Empty(t, opts.DisabledRules)

	cfg.Scheduler.WeightsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Scheduler.GeneratorOptions()
	assert.Error(t, err)
}
