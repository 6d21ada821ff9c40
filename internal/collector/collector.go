package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"DayTradeAnalytics/internal/calculator"
	"DayTradeAnalytics/internal/model"
)

// ErrNoProfile is returned when the configured provider has no fundamentals endpoint.
var ErrNoProfile = errors.New("provider does not expose company profiles")

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Period  model.Period
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, period model.Period) *Collector {
	return &Collector{Fetcher: fetcher, Period: period.OrDefault()}
}

// Fetch performs one provider round trip for ticker over period (the
// collector default when empty). Provider failures and unknown symbols
// yield an empty series; only a cancelled context is returned as an error.
func (c *Collector) Fetch(ctx context.Context, ticker string, period model.Period) (*model.PriceSeries, error) {
	if period == "" {
		period = c.Period
	}
	period = period.OrDefault()
	series := &model.PriceSeries{
		Symbol:    model.NormalizeTicker(ticker),
		Period:    period,
		FetchedAt: time.Now(),
	}

	bars, err := c.Fetcher.FetchDailyBars(ctx, series.Symbol, period)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("fetch %s: %w", series.Symbol, ctxErr)
		}
		log.WithFields(log.Fields{
			"ticker": series.Symbol,
			"source": c.Fetcher.Name(),
		}).Warnf("fetch daily bars failed, using empty series: %v", err)
		return series, nil
	}
	series.Bars = normalizeBars(bars)
	return series, nil
}

// Snapshot fetches one year of bars and computes the indicators reported by
// the financial-data tool.
func (c *Collector) Snapshot(ctx context.Context, ticker string) (*model.MarketSnapshot, error) {
	series, err := c.Fetch(ctx, ticker, model.Period1Year)
	if err != nil {
		return nil, err
	}
	last, ok := series.Last()
	if !ok {
		return nil, fmt.Errorf("no price data for %s", series.Symbol)
	}

	snap := &model.MarketSnapshot{
		Symbol:    series.Symbol,
		AsOf:      last.Date,
		LastClose: last.Close,
		Volume:    last.Volume,
	}

	closes := series.Closes()
	if ma, err := calculator.CalculateSMA(closes, calculator.MAWindow); err != nil {
		log.Warnf("SMA20 calculation failed: %v, using last close", err)
		snap.SMA20 = last.Close
	} else {
		snap.SMA20 = ma
	}
	ema := calculator.EMASeries(closes, calculator.MAWindow)
	snap.EMA20 = ema[len(ema)-1]

	if rsi, err := calculator.CalculateRSI(series.Bars, 14); err != nil {
		log.Warnf("RSI calculation failed: %v, defaulting to 50", err)
		snap.RSI14 = 50
	} else {
		snap.RSI14 = rsi
	}

	if h, l, err := calculator.Calculate52WeekRange(series.Bars); err != nil {
		log.Warnf("52-week range calculation failed: %v", err)
		snap.High52w, snap.Low52w = last.Close, last.Close
	} else {
		snap.High52w, snap.Low52w = h, l
	}

	if h, l, err := calculator.Calculate30DayRange(series.Bars); err != nil {
		log.Warnf("30-day range calculation failed: %v", err)
		snap.High30d, snap.Low30d = last.Close, last.Close
	} else {
		snap.High30d, snap.Low30d = h, l
	}

	return snap, nil
}

// Profile returns analyst and fundamentals data when the provider supports it.
func (c *Collector) Profile(ctx context.Context, ticker string) (*model.CompanyProfile, error) {
	pf, ok := c.Fetcher.(ProfileFetcher)
	if !ok {
		return nil, ErrNoProfile
	}
	return pf.FetchProfile(ctx, model.NormalizeTicker(ticker))
}
