package calculator

import (
	"errors"
	"math"

	"DayTradeAnalytics/internal/model"
)

const (
	tradingDays52w = 252
	tradingDays30d = 22
)

// Calculate52WeekRange scans the most recent 252 trading days and returns the high and low.
func Calculate52WeekRange(bars []model.Bar) (high, low float64, err error) {
	return highLow(bars, tradingDays52w)
}

// Calculate30DayRange scans the most recent 22 trading days and returns the high and low.
func Calculate30DayRange(bars []model.Bar) (high, low float64, err error) {
	return highLow(bars, tradingDays30d)
}

func highLow(bars []model.Bar, lookback int) (high, low float64, err error) {
	if len(bars) == 0 {
		return 0, 0, errors.New("no daily bars provided")
	}
	start := max(len(bars)-lookback, 0)
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, b := range bars[start:] {
		high = math.Max(high, b.High)
		low = math.Min(low, b.Low)
	}
	return high, low, nil
}
