package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"DayTradeAnalytics/internal/httpclient"
	"DayTradeAnalytics/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  httpclient.New(proxyURL, httpclient.DefaultTimeout),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
		},
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				GMTOffset int64 `json:"gmtoffset"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func at(values []interface{}, i int) float64 {
	if i >= len(values) {
		return 0
	}
	return toFloat(values[i])
}

func (f *YahooFetcher) get(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.Bar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: missing quote block")
	}
	quote := result.Indicators.Quote[0]
	bars := make([]model.Bar, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		// Bars without a close (holidays, halted sessions) are skipped.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		bars = append(bars, model.Bar{
			// Exchange-local calendar date.
			Date:   time.Unix(ts+result.Meta.GMTOffset, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: int64(at(quote.Volume, i)),
		})
	}
	return normalizeBars(bars), nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, period model.Period) ([]model.Bar, error) {
	return f.fetchChart(ctx, symbol, "1d", string(period.OrDefault()))
}

type yahooRaw struct {
	Raw float64 `json:"raw"`
}

type yahooQuoteSummary struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				LongName string `json:"longName"`
			} `json:"price"`
			FinancialData struct {
				RecommendationKey       string   `json:"recommendationKey"`
				NumberOfAnalystOpinions yahooRaw `json:"numberOfAnalystOpinions"`
				TargetMeanPrice         yahooRaw `json:"targetMeanPrice"`
				ProfitMargins           yahooRaw `json:"profitMargins"`
				RevenueGrowth           yahooRaw `json:"revenueGrowth"`
			} `json:"financialData"`
			SummaryDetail struct {
				MarketCap  yahooRaw `json:"marketCap"`
				TrailingPE yahooRaw `json:"trailingPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				ForwardPE   yahooRaw `json:"forwardPE"`
				TrailingEps yahooRaw `json:"trailingEps"`
			} `json:"defaultKeyStatistics"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

type yahooSearch struct {
	News []struct {
		Title               string `json:"title"`
		Publisher           string `json:"publisher"`
		Link                string `json:"link"`
		ProviderPublishTime int64  `json:"providerPublishTime"`
	} `json:"news"`
}

// FetchProfile returns analyst recommendations, fundamentals and recent news.
func (f *YahooFetcher) FetchProfile(ctx context.Context, symbol string) (*model.CompanyProfile, error) {
	ysym := url.PathEscape(f.yahooSymbol(symbol))
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=price,financialData,summaryDetail,defaultKeyStatistics",
		f.BaseURL, ysym)

	var qs yahooQuoteSummary
	if err := f.get(ctx, u, &qs); err != nil {
		return nil, err
	}
	if qs.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", qs.QuoteSummary.Error.Description)
	}
	if len(qs.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no profile for %s", symbol)
	}
	r := qs.QuoteSummary.Result[0]
	profile := &model.CompanyProfile{
		Symbol:          symbol,
		LongName:        r.Price.LongName,
		Recommendation:  r.FinancialData.RecommendationKey,
		AnalystCount:    int(r.FinancialData.NumberOfAnalystOpinions.Raw),
		TargetMeanPrice: r.FinancialData.TargetMeanPrice.Raw,
		MarketCap:       r.SummaryDetail.MarketCap.Raw,
		TrailingPE:      r.SummaryDetail.TrailingPE.Raw,
		ForwardPE:       r.DefaultKeyStatistics.ForwardPE.Raw,
		EPS:             r.DefaultKeyStatistics.TrailingEps.Raw,
		ProfitMargins:   r.FinancialData.ProfitMargins.Raw,
		RevenueGrowth:   r.FinancialData.RevenueGrowth.Raw,
	}

	news := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=0&newsCount=5", f.BaseURL, url.QueryEscape(symbol))
	var search yahooSearch
	if err := f.get(ctx, news, &search); err != nil {
		// Fundamentals are still useful without headlines.
		return profile, nil
	}
	for _, n := range search.News {
		profile.News = append(profile.News, model.NewsItem{
			Title:     n.Title,
			Publisher: n.Publisher,
			Link:      n.Link,
			Published: time.Unix(n.ProviderPublishTime, 0).UTC(),
		})
	}
	return profile, nil
}
