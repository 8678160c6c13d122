package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paiban/schichtplan/pkg/model"
)

// fakeRow 按顺序把值写入 Scan 的目标
type fakeRow []interface{}

func (r fakeRow) Scan(dest ...interface{}) error {
	if len(dest) != len(r) {
		return fmt.Errorf("expected %d columns, got %d", len(r), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r[i].(uuid.UUID)
		case *string:
			*p = r[i].(string)
		case *[]byte:
			*p = r[i].([]byte)
		case *bool:
			*p = r[i].(bool)
		case *time.Time:
			*p = r[i].(time.Time)
		case *decimal.Decimal:
			*p = r[i].(decimal.Decimal)
		default:
			return fmt.Errorf("unsupported dest %T", d)
		}
	}
	return nil
}

func TestScanEmployee(t *testing.T) {
	id := uuid.New()
	prefs := []byte(`{"can_day": "true", "allowed_weekdays": "[0, 2]"}`)

	emp, err := scanEmployee(fakeRow{id, "MA1", "Anna", prefs})
	require.NoError(t, err)
	assert.Equal(t, id, emp.ID)
	assert.Equal(t, "MA1", emp.Kennung)
	assert.Contains(t, emp.Preferences, "can_day")

	emp, err = scanEmployee(fakeRow{id, "MA2", "", []byte(nil)})
	require.NoError(t, err)
	assert.Empty(t, emp.Preferences)

	_, err = scanEmployee(fakeRow{id})
	assert.Error(t, err)
}

func TestScanWish(t *testing.T) {
	id := uuid.New()
	date := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	got, wish, ok, err := scanWish(fakeRow{id, date, "urlaub", true})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, id, got)
	assert.Equal(t, model.Wish{Date: "2026-06-03", Kind: model.WishVacation, Approved: true}, wish)

	_, _, ok, err = scanWish(fakeRow{id, date, "unbekannt", false})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScanShiftType(t *testing.T) {
	st, err := scanShiftType(fakeRow{"N", "Nacht", decimal.NewFromInt(12), "19:00:00"})
	require.NoError(t, err)
	assert.Equal(t, 19, st.Start.Hour)
	assert.True(t, st.NightLike())
	assert.True(t, st.Hours.Equal(decimal.NewFromInt(12)))

	_, err = scanShiftType(fakeRow{"T", "", decimal.NewFromInt(12), "7 Uhr"})
	assert.Error(t, err)
}

func TestScanHistoric(t *testing.T) {
	date := time.Date(2026, 5, 25, 0, 0, 0, 0, time.UTC)

	h, ok, err := scanHistoric(fakeRow{"MA1", date, "Z1"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, model.HistoricShift{Kennung: "MA1", Date: "2026-05-25", Kind: model.KindExtra}, h)

	_, ok, err = scanHistoric(fakeRow{"MA1", date, "X"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAttachWishes(t *testing.T) {
	a := &model.Employee{ID: uuid.New(), Kennung: "MA1"}
	b := &model.Employee{ID: uuid.New(), Kennung: "MA2"}
	wishes := map[uuid.UUID][]model.Wish{
		a.ID: {{Date: "2026-06-01", Kind: model.WishPreferDay}},
	}

	AttachWishes([]*model.Employee{a, b}, wishes)
	assert.Len(t, a.Wishes, 1)
	assert.Empty(t, b.Wishes)
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty([]string{}))
	assert.Equal(t, []string{"T"}, nilIfEmpty([]string{"T"}))
}
