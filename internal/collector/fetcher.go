package collector

import (
	"context"
	"sort"
	"time"

	"DayTradeAnalytics/internal/model"
)

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error)
	Name() string
}

// ProfileFetcher is implemented by providers that also expose analyst
// recommendations, fundamentals and company news.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error)
}

// normalizeBars truncates timestamps to calendar dates, sorts ascending and
// keeps the last bar seen for each date.
func normalizeBars(bars []model.Bar) []model.Bar {
	if len(bars) == 0 {
		return nil
	}
	for i := range bars {
		y, m, d := bars[i].Date.Date()
		bars[i].Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			out[len(out)-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}
