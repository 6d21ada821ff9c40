package chart

import (
	"bytes"
	"testing"
	"time"

	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayTradeAnalytics/internal/calculator"
	"DayTradeAnalytics/internal/model"
)

func sampleSeries(n int) *model.PriceSeries {
	start := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, n)
	for i := range bars {
		c := 200 + float64(i%7)
		bars[i] = model.Bar{Date: start.AddDate(0, 0, i), Open: c - 1, High: c + 2, Low: c - 2, Close: c, Volume: int64(100 + i)}
	}
	return &model.PriceSeries{Symbol: "TSLA", Period: model.Period6Months, Bars: bars}
}

func TestRender_EmptySeries(t *testing.T) {
	empty := &model.PriceSeries{Symbol: "NOPE", Period: model.Period6Months}
	figs := Render(empty, calculator.Derive(empty), "NOPE")

	for i, fig := range figs.All() {
		require.NotNil(t, fig, "figure %d", i)
		var buf bytes.Buffer
		require.NoError(t, fig.Render(&buf), "figure %d", i)
		assert.NotZero(t, buf.Len(), "figure %d", i)
	}
}

func TestRender_NilInputs(t *testing.T) {
	assert.NotNil(t, PriceLine(nil, "X"))
	assert.NotNil(t, Candlestick(nil, "X"))
	assert.NotNil(t, MovingAverages(nil, "X"))
	assert.NotNil(t, Volume(nil, "X"))
}

func TestPriceLine(t *testing.T) {
	fig := PriceLine(sampleSeries(10), "TSLA")
	assert.Equal(t, "TSLA Stock Price (Last 6 Months)", fig.Title.Title)
	require.Len(t, fig.MultiSeries, 1)
	data, ok := fig.MultiSeries[0].Data.([]opts.LineData)
	require.True(t, ok)
	assert.Len(t, data, 10)
}

func TestCandlestick(t *testing.T) {
	series := sampleSeries(3)
	fig := Candlestick(series, "TSLA")
	require.Len(t, fig.MultiSeries, 1)
	data, ok := fig.MultiSeries[0].Data.([]opts.KlineData)
	require.True(t, ok)
	require.Len(t, data, 3)
	b := series.Bars[0]
	assert.Equal(t, [4]float64{b.Open, b.Close, b.Low, b.High}, data[0].Value)
}

func TestMovingAverages(t *testing.T) {
	series := sampleSeries(25)
	fig := MovingAverages(calculator.Derive(series), "TSLA")
	assert.Equal(t, "TSLA Moving Averages (Last 6 Months)", fig.Title.Title)
	require.Len(t, fig.MultiSeries, 3)

	names := []string{fig.MultiSeries[0].Name, fig.MultiSeries[1].Name, fig.MultiSeries[2].Name}
	assert.Equal(t, []string{"Close", "SMA_20", "EMA_20"}, names)

	sma := fig.MultiSeries[1].Data.([]opts.LineData)
	require.Len(t, sma, 25)
	assert.Equal(t, "-", sma[18].Value)
	assert.IsType(t, float64(0), sma[19].Value)
}

func TestRender_RawChartsIgnoreDerivation(t *testing.T) {
	series := sampleSeries(30)
	figs := Render(series, calculator.Derive(series), "TSLA")
	require.Len(t, figs.Price.MultiSeries, 1)
	require.Len(t, figs.Volume.MultiSeries, 1)
	assert.Len(t, series.Bars, 30)
}

func TestRenderPage(t *testing.T) {
	series := sampleSeries(5)
	var buf bytes.Buffer
	require.NoError(t, Render(series, calculator.Derive(series), "TSLA").RenderPage(&buf, "TSLA analysis"))
	assert.Contains(t, buf.String(), "TSLA Trading Volume")
}
