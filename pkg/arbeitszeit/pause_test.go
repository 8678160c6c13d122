package arbeitszeit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/paiban/schichtplan/pkg/errors"
	"github.com/paiban/schichtplan/pkg/model"
)

func TestPause(t *testing.T) {
	tests := []struct {
		presence time.Duration
		want     time.Duration
	}{
		{0, 0},
		{6 * time.Hour, 0},
		{6*time.Hour + 10*time.Minute, 10 * time.Minute},
		{6*time.Hour + 30*time.Minute, 30 * time.Minute},
		{8 * time.Hour, 30 * time.Minute},
		{9 * time.Hour, 30 * time.Minute},
		{9*time.Hour + 5*time.Minute, 35 * time.Minute},
		{9*time.Hour + 15*time.Minute, 45 * time.Minute},
		{12 * time.Hour, 45 * time.Minute},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Pause(tt.presence), "presence %s", tt.presence)
	}
}

func TestPause_NetNeverDecreases(t *testing.T) {
	prev := time.Duration(0)
	for m := 0; m <= 12*60; m++ {
		presence := time.Duration(m) * time.Minute
		net := presence - Pause(presence)
		require.GreaterOrEqual(t, net, prev, "presence %s", presence)
		prev = net
	}
}

func tod(t *testing.T, s string) model.TimeOfDay {
	t.Helper()
	v, err := model.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}

func TestEntry(t *testing.T) {
	day := Entry{Start: tod(t, "06:00"), End: tod(t, "18:00")}
	assert.Equal(t, 12*time.Hour, Span(day.Start, day.End))
	assert.Equal(t, 45*time.Minute, day.EffectivePause())
	assert.Equal(t, "11.25", day.NetHours().String())
	assert.Equal(t, "11:15h", Format(day.Net()))

	night := Entry{Start: tod(t, "18:00"), End: tod(t, "06:00")}
	assert.Equal(t, 12*time.Hour, Span(night.Start, night.End))
	assert.NoError(t, night.Validate())

	manual := 60 * time.Minute
	day.ManualPause = &manual
	assert.Equal(t, time.Hour, day.EffectivePause())

	short := 10 * time.Minute
	day.ManualPause = &short
	assert.Equal(t, 45*time.Minute, day.EffectivePause())
}

func TestEntry_TooLong(t *testing.T) {
	e := Entry{Start: tod(t, "05:00"), End: tod(t, "22:00")}
	err := e.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidInput))
}
