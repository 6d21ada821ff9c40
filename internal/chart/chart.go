// Package chart renders price series into go-echarts figures.
package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"DayTradeAnalytics/internal/model"
)

const dateLayout = "2006-01-02"

// Figure is a self-contained renderable chart.
type Figure interface {
	Render(w io.Writer) error
}

// Figures holds the four charts of one analysis, in display order.
type Figures struct {
	Price    *charts.Line
	Candles  *charts.Kline
	Averages *charts.Line
	Volume   *charts.Bar
}

// Render builds all four figures. The raw series feeds the price, candle
// and volume charts; only the moving-average chart sees derived columns.
func Render(series *model.PriceSeries, derived *model.DerivedSeries, label string) *Figures {
	return &Figures{
		Price:    PriceLine(series, label),
		Candles:  Candlestick(series, label),
		Averages: MovingAverages(derived, label),
		Volume:   Volume(series, label),
	}
}

// All returns the figures in display order.
func (f *Figures) All() []Figure {
	return []Figure{f.Price, f.Candles, f.Averages, f.Volume}
}

// RenderPage writes the four figures as a single HTML document.
func (f *Figures) RenderPage(w io.Writer, title string) error {
	page := components.NewPage()
	page.PageTitle = title
	page.AddCharts(f.Price, f.Candles, f.Averages, f.Volume)
	return page.Render(w)
}

func lookback(series *model.PriceSeries) string {
	if series == nil {
		return model.DefaultPeriod.Label()
	}
	return series.Period.Label()
}

func dates(series *model.PriceSeries) []string {
	if series == nil {
		return []string{}
	}
	out := make([]string, len(series.Bars))
	for i, b := range series.Bars {
		out[i] = b.Date.Format(dateLayout)
	}
	return out
}

func globalOpts(title, yName string) []charts.GlobalOpts {
	return []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "100%", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Scale: opts.Bool(true)}),
	}
}

// PriceLine plots Close vs Date with point markers.
func PriceLine(series *model.PriceSeries, label string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOpts(fmt.Sprintf("%s Stock Price (%s)", label, lookback(series)), "Close")...)

	data := make([]opts.LineData, 0, series.Len())
	for _, b := range barsOf(series) {
		data = append(data, opts.LineData{Value: b.Close})
	}
	line.SetXAxis(dates(series)).
		AddSeries("Close", data, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}))
	return line
}

// Candlestick plots Open/High/Low/Close per Date.
func Candlestick(series *model.PriceSeries, label string) *charts.Kline {
	kline := charts.NewKLine()
	kline.SetGlobalOptions(append(globalOpts(fmt.Sprintf("%s Candlestick Chart (%s)", label, lookback(series)), "Price"),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
	)...)

	data := make([]opts.KlineData, 0, series.Len())
	for _, b := range barsOf(series) {
		// echarts order: open, close, lowest, highest
		data = append(data, opts.KlineData{Value: [4]float64{b.Open, b.Close, b.Low, b.High}})
	}
	kline.SetXAxis(dates(series)).AddSeries("OHLC", data)
	return kline
}

// MovingAverages overlays Close, SMA_20 and EMA_20. Undefined SMA points
// are emitted as gaps.
func MovingAverages(derived *model.DerivedSeries, label string) *charts.Line {
	var series *model.PriceSeries
	if derived != nil {
		series = &derived.PriceSeries
	}
	line := charts.NewLine()
	line.SetGlobalOptions(append(globalOpts(fmt.Sprintf("%s Moving Averages (%s)", label, lookback(series)), "Price (USD)"),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)...)

	n := series.Len()
	closes := make([]opts.LineData, 0, n)
	sma := make([]opts.LineData, 0, n)
	ema := make([]opts.LineData, 0, n)
	for i, b := range barsOf(series) {
		closes = append(closes, opts.LineData{Value: b.Close})
		if i < len(derived.SMA20) && derived.SMA20[i].Valid {
			sma = append(sma, opts.LineData{Value: derived.SMA20[i].Float64})
		} else {
			sma = append(sma, opts.LineData{Value: "-"})
		}
		if i < len(derived.EMA20) {
			ema = append(ema, opts.LineData{Value: derived.EMA20[i]})
		} else {
			ema = append(ema, opts.LineData{Value: "-"})
		}
	}
	line.SetXAxis(dates(series)).
		AddSeries("Close", closes).
		AddSeries("SMA_20", sma).
		AddSeries("EMA_20", ema)
	return line
}

// Volume plots traded volume per Date.
func Volume(series *model.PriceSeries, label string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOpts(fmt.Sprintf("%s Trading Volume (%s)", label, lookback(series)), "Volume")...)

	data := make([]opts.BarData, 0, series.Len())
	for _, b := range barsOf(series) {
		data = append(data, opts.BarData{Value: b.Volume})
	}
	bar.SetXAxis(dates(series)).AddSeries("Volume", data)
	return bar
}

func barsOf(series *model.PriceSeries) []model.Bar {
	if series == nil {
		return nil
	}
	return series.Bars
}
