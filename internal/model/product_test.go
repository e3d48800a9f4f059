package model_test

import (
	"testing"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func months(start, end int) (*int, *int) { return &start, &end }

func TestInSeason_NonSeasonalAlwaysAvailable(t *testing.T) {
	s, e := months(6, 8)
	p := model.Product{IsSeasonal: false, SeasonStartMonth: s, SeasonEndMonth: e}
	for m := time.January; m <= time.December; m++ {
		assert.True(t, p.InSeason(m), "month %d", m)
	}
}

func TestInSeason_PlainWindow(t *testing.T) {
	s, e := months(6, 8)
	p := model.Product{IsSeasonal: true, SeasonStartMonth: s, SeasonEndMonth: e}
	assert.False(t, p.InSeason(time.May))
	assert.True(t, p.InSeason(time.June))
	assert.True(t, p.InSeason(time.August))
	assert.False(t, p.InSeason(time.September))
}

func TestInSeason_WrapsPastDecember(t *testing.T) {
	s, e := months(11, 2)
	p := model.Product{IsSeasonal: true, SeasonStartMonth: s, SeasonEndMonth: e}
	for _, m := range []time.Month{time.November, time.December, time.January, time.February} {
		assert.True(t, p.InSeason(m), "month %d", m)
	}
	for m := time.March; m <= time.October; m++ {
		assert.False(t, p.InSeason(m), "month %d", m)
	}
}

func TestInSeason_MissingBound(t *testing.T) {
	start := 4
	p := model.Product{IsSeasonal: true, SeasonStartMonth: &start}
	assert.True(t, p.InSeason(time.January))
}

func TestStock_AvailableAndLowStock(t *testing.T) {
	st := model.Stock{Quantity: d("10"), ReservedQuantity: d("4"), LowStockThreshold: d("5")}
	assert.Equal(t, "6", st.Available().String())
	assert.False(t, st.IsLowStock())

	st.ReservedQuantity = d("12")
	assert.True(t, st.Available().IsZero())
	assert.True(t, st.IsLowStock())

	st = model.Stock{Quantity: d("5"), LowStockThreshold: d("5")}
	assert.True(t, st.IsLowStock(), "threshold is inclusive")
}

func TestStockMovement_Delta(t *testing.T) {
	in := model.StockMovement{MovementType: model.MovementIn, Quantity: d("-3")}
	out := model.StockMovement{MovementType: model.MovementOut, Quantity: d("2")}
	adj := model.StockMovement{MovementType: model.MovementAdjustment, Quantity: d("7")}

	assert.Equal(t, "3", in.Delta().String())
	assert.Equal(t, "-2", out.Delta().String())
	assert.True(t, adj.Delta().IsZero())
}
