package calculator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayTradeAnalytics/internal/model"
)

const equalityThreshold = 1e-9

func risingSeries(n int) *model.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 100 + float64(i)
		bars[i] = model.Bar{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 * (i + 1)),
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Period: model.DefaultPeriod, Bars: bars}
}

func TestDerive_SMA(t *testing.T) {
	series := risingSeries(25)
	d := Derive(series)
	require.Len(t, d.SMA20, 25)

	for i := 0; i < 19; i++ {
		assert.False(t, d.SMA20[i].Valid, "SMA20[%d] should be null", i)
	}

	closes := series.Closes()
	for i := 19; i < 25; i++ {
		sum := 0.0
		for _, c := range closes[i-19 : i+1] {
			sum += c
		}
		require.True(t, d.SMA20[i].Valid, "SMA20[%d] should be defined", i)
		assert.InDelta(t, sum/20, d.SMA20[i].Float64, equalityThreshold)
	}
	// 25 rising closes 100..124: last 20 are 105..124.
	assert.InDelta(t, 114.5, d.SMA20[24].Float64, equalityThreshold)
}

func TestDerive_EMA(t *testing.T) {
	series := risingSeries(30)
	d := Derive(series)
	require.Len(t, d.EMA20, 30)

	closes := series.Closes()
	assert.Equal(t, closes[0], d.EMA20[0])
	for i := 1; i < len(closes); i++ {
		want := (2.0/21.0)*closes[i] + (19.0/21.0)*d.EMA20[i-1]
		assert.InDelta(t, want, d.EMA20[i], equalityThreshold)
	}
}

func TestDerive_ShortSeries(t *testing.T) {
	d := Derive(risingSeries(7))
	require.Len(t, d.SMA20, 7)
	require.Len(t, d.EMA20, 7)
	for i, v := range d.SMA20 {
		assert.False(t, v.Valid, "SMA20[%d] should be null", i)
	}
	assert.Equal(t, 100.0, d.EMA20[0])
}

func TestDerive_DoesNotMutateInput(t *testing.T) {
	series := risingSeries(20)
	before := append([]model.Bar(nil), series.Bars...)

	d := Derive(series)
	d.Bars[0].Close = -1

	assert.Equal(t, before, series.Bars)
}

func TestDerive_Empty(t *testing.T) {
	d := Derive(&model.PriceSeries{Symbol: "NONE"})
	assert.Empty(t, d.Bars)
	assert.Empty(t, d.SMA20)
	assert.Empty(t, d.EMA20)

	assert.NotNil(t, Derive(nil))
}

func TestCalculateSMA(t *testing.T) {
	tests := []struct {
		name    string
		prices  []float64
		period  int
		want    float64
		wantErr bool
	}{
		{"exact window", []float64{1, 2, 3, 4}, 4, 2.5, false},
		{"trailing window", []float64{1, 2, 3, 4, 5}, 2, 4.5, false},
		{"not enough data", []float64{1, 2}, 3, 0, true},
		{"zero period", []float64{1, 2}, 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalculateSMA(tt.prices, tt.period)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, equalityThreshold)
		})
	}
}
