package collector

import (
	"context"
	"sync/atomic"
	"time"

	"DayTradeAnalytics/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData []model.Bar
	Profile   *model.CompanyProfile
	Err       error

	calls atomic.Int32
}

func (m *MockFetcher) Name() string { return "mock" }

// Calls returns how many times bars were requested.
func (m *MockFetcher) Calls() int { return int(m.calls.Load()) }

func (m *MockFetcher) FetchDailyBars(_ context.Context, _ string, period model.Period) ([]model.Bar, error) {
	m.calls.Add(1)
	if m.Err != nil {
		return nil, m.Err
	}
	if m.DailyData != nil {
		return append([]model.Bar(nil), m.DailyData...), nil
	}
	return GenerateMockBars(m.Price, period.Days()*5/7), nil
}

func (m *MockFetcher) FetchProfile(_ context.Context, symbol string) (*model.CompanyProfile, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Profile != nil {
		return m.Profile, nil
	}
	return &model.CompanyProfile{Symbol: symbol, Recommendation: "hold"}, nil
}

// GenerateMockBars produces count consecutive daily bars ending yesterday.
func GenerateMockBars(basePrice float64, count int) []model.Bar {
	if basePrice == 0 {
		basePrice = 100
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Date:   today.AddDate(0, 0, -(count - i)),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
