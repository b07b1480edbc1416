package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formdash/internal/model"
)

func TestResolveDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 13, 30, 0, 0, time.UTC)

	t.Run("all is unbounded", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetAll}, now)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("zero value is unbounded", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{}, now)
		assert.Nil(t, from)
		assert.Nil(t, to)
	})

	t.Run("last7days covers seven calendar days inclusive", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetLast7Days}, now)
		require.NotNil(t, from)
		require.NotNil(t, to)
		assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, now, *to)
	})

	t.Run("thisMonth starts at the first", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetThisMonth}, now)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, now, *to)
	})

	t.Run("lastMonth ends just before this month", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetLastMonth}, now)
		assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.True(t, to.Before(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, to.After(time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)))
	})

	t.Run("thisYear", func(t *testing.T) {
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetThisYear}, now)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *from)
		assert.Equal(t, now, *to)
	})

	t.Run("custom passes bounds through", func(t *testing.T) {
		f := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
		from, to := ResolveDateRange(model.DateRange{Preset: model.PresetCustom, From: &f}, now)
		assert.Equal(t, &f, from)
		assert.Nil(t, to)
	})
}
