package calculator

import (
	"errors"

	"github.com/guregu/null/v6"
	"github.com/markcheno/go-talib"

	"DayTradeAnalytics/internal/model"
)

const (
	// MAWindow is the SMA window and EMA span used for derived series.
	MAWindow = 20
)

// CalculateSMA computes the simple moving average of the given prices over the specified period.
func CalculateSMA(prices []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(prices) < period {
		return 0, errors.New("not enough data for SMA calculation")
	}
	sum := 0.0
	for i := len(prices) - period; i < len(prices); i++ {
		sum += prices[i]
	}
	return sum / float64(period), nil
}

// SMASeries returns the trailing simple moving average at every position.
// Positions before the first full window are null; a series shorter than
// the window is entirely null.
func SMASeries(prices []float64, period int) []null.Float {
	out := make([]null.Float, len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}
	sma := talib.Sma(prices, period)
	for i := period - 1; i < len(prices); i++ {
		out[i] = null.FloatFrom(sma[i])
	}
	return out
}

// EMASeries returns the exponential moving average with alpha = 2/(span+1),
// seeded with the first price (no bias adjustment).
func EMASeries(prices []float64, span int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = prices[0]
	for t := 1; t < len(prices); t++ {
		out[t] = alpha*prices[t] + (1-alpha)*out[t-1]
	}
	return out
}

// Derive computes SMA20 and EMA20 over a copy of the series. The input is
// never modified.
func Derive(series *model.PriceSeries) *model.DerivedSeries {
	d := &model.DerivedSeries{}
	if series == nil {
		return d
	}
	d.PriceSeries = *series
	d.Bars = append([]model.Bar(nil), series.Bars...)

	closes := d.Closes()
	d.SMA20 = SMASeries(closes, MAWindow)
	d.EMA20 = EMASeries(closes, MAWindow)
	return d
}
