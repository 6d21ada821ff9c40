package model

import "time"

// MarketSnapshot summarises the latest state of a series for the
// financial-data tool.
type MarketSnapshot struct {
	Symbol    string
	AsOf      time.Time
	LastClose float64
	SMA20     float64
	EMA20     float64
	RSI14     float64
	High30d   float64
	Low30d    float64
	High52w   float64
	Low52w    float64
	Volume    int64
}

// CompanyProfile carries analyst and fundamentals data for one symbol.
type CompanyProfile struct {
	Symbol          string
	LongName        string
	Recommendation  string
	AnalystCount    int
	TargetMeanPrice float64
	MarketCap       float64
	TrailingPE      float64
	ForwardPE       float64
	EPS             float64
	ProfitMargins   float64
	RevenueGrowth   float64
	News            []NewsItem
}

// NewsItem is a single company headline.
type NewsItem struct {
	Title     string
	Publisher string
	Link      string
	Published time.Time
}
