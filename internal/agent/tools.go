package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/search"
)

// MarketData is the financial-data capability behind the finance agent.
type MarketData interface {
	Snapshot(ctx context.Context, ticker string) (*model.MarketSnapshot, error)
	Profile(ctx context.Context, ticker string) (*model.CompanyProfile, error)
}

// WebSearcher is the general web-search capability.
type WebSearcher interface {
	Search(ctx context.Context, query string) ([]search.Result, error)
}

type webSearchArgs struct {
	Query string `json:"query" jsonschema_description:"The search query."`
}

type symbolArgs struct {
	Symbol string `json:"symbol" jsonschema_description:"The stock ticker symbol, e.g. TSLA."`
}

// toolbox binds tool handlers to their data sources. Data failures are
// reported to the model as text so the run can continue.
type toolbox struct {
	market MarketData
	web    WebSearcher
}

func (t toolbox) webSearch(ctx context.Context, args webSearchArgs) (string, error) {
	if t.web == nil {
		return "web search is not available", nil
	}
	results, err := t.web.Search(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("web search failed: %v", err), nil
	}
	return search.Format(results), nil
}

func (t toolbox) stockSnapshot(ctx context.Context, args symbolArgs) (string, error) {
	if t.market == nil {
		return "market data is not available", nil
	}
	snap, err := t.market.Snapshot(ctx, args.Symbol)
	if err != nil {
		return fmt.Sprintf("no price data for %s: %v", args.Symbol, err), nil
	}
	return FormatSnapshot(snap), nil
}

func (t toolbox) companyProfile(ctx context.Context, args symbolArgs) (string, error) {
	if t.market == nil {
		return "market data is not available", nil
	}
	p, err := t.market.Profile(ctx, args.Symbol)
	if err != nil {
		return fmt.Sprintf("no company data for %s: %v", args.Symbol, err), nil
	}
	return FormatProfile(p), nil
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatSnapshot renders price and technicals as a compact table.
func FormatSnapshot(s *model.MarketSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Symbol: %s (as of %s, source: Yahoo Finance)\n", s.Symbol, s.AsOf.Format("2006-01-02"))
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(&b, "| Last close | %s |\n", price(s.LastClose))
	fmt.Fprintf(&b, "| SMA 20 | %s |\n", price(s.SMA20))
	fmt.Fprintf(&b, "| EMA 20 | %s |\n", price(s.EMA20))
	fmt.Fprintf(&b, "| RSI 14 | %s |\n", decimal.NewFromFloat(s.RSI14).StringFixed(1))
	fmt.Fprintf(&b, "| 30-day range | %s - %s |\n", price(s.Low30d), price(s.High30d))
	fmt.Fprintf(&b, "| 52-week range | %s - %s |\n", price(s.Low52w), price(s.High52w))
	fmt.Fprintf(&b, "| Volume | %d |\n", s.Volume)
	return b.String()
}

// FormatProfile renders analyst recommendations, fundamentals and news.
func FormatProfile(p *model.CompanyProfile) string {
	var b strings.Builder
	name := p.LongName
	if name == "" {
		name = p.Symbol
	}
	fmt.Fprintf(&b, "%s (%s), source: Yahoo Finance\n", name, p.Symbol)
	fmt.Fprintf(&b, "Analyst recommendation: %s (%d analysts, mean target %s)\n",
		orNA(p.Recommendation), p.AnalystCount, price(p.TargetMeanPrice))
	fmt.Fprintf(&b, "Market cap: %s | Trailing P/E: %s | Forward P/E: %s | EPS: %s\n",
		decimal.NewFromFloat(p.MarketCap).Round(0).String(), price(p.TrailingPE), price(p.ForwardPE), price(p.EPS))
	fmt.Fprintf(&b, "Profit margin: %s%% | Revenue growth: %s%%\n",
		decimal.NewFromFloat(p.ProfitMargins*100).StringFixed(1),
		decimal.NewFromFloat(p.RevenueGrowth*100).StringFixed(1))
	if len(p.News) > 0 {
		b.WriteString("Company news:\n")
		for _, n := range p.News {
			fmt.Fprintf(&b, "- %s | %s | %s | %s\n", n.Published.Format("2006-01-02"), n.Title, n.Publisher, n.Link)
		}
	}
	return b.String()
}

func orNA(s string) string {
	if s == "" {
		return "n/a"
	}
	return s
}
