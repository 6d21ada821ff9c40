package model

import (
	"strings"
	"time"

	"github.com/guregu/null/v6"
)

// Bar represents a single daily observation.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the daily bars of one symbol, oldest first.
type PriceSeries struct {
	Symbol    string
	Period    Period
	Bars      []Bar
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

// Empty reports whether the series carries no bars.
func (s *PriceSeries) Empty() bool { return s.Len() == 0 }

// Closes returns the close prices in series order.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, b := range s.Bars {
		closes[i] = b.Close
	}
	return closes
}

// Last returns the most recent bar.
func (s *PriceSeries) Last() (Bar, bool) {
	if s.Empty() {
		return Bar{}, false
	}
	return s.Bars[len(s.Bars)-1], true
}

// DerivedSeries is a PriceSeries augmented with moving averages.
// SMA20 is null for the first 19 positions; EMA20 is defined from row 0.
type DerivedSeries struct {
	PriceSeries
	SMA20 []null.Float
	EMA20 []float64
}

// NormalizeTicker trims and uppercases a user supplied symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
