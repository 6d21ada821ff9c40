package agent

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/search"
)

type fakeMarket struct {
	err error
}

func (f fakeMarket) Snapshot(_ context.Context, ticker string) (*model.MarketSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.MarketSnapshot{
		Symbol:    ticker,
		AsOf:      time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		LastClose: 181.193,
		SMA20:     175.5,
		EMA20:     176.25,
		RSI14:     61.27,
		High30d:   190,
		Low30d:    160,
		High52w:   299.29,
		Low52w:    138.8,
		Volume:    1200000,
	}, nil
}

func (f fakeMarket) Profile(_ context.Context, ticker string) (*model.CompanyProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.CompanyProfile{
		Symbol:          ticker,
		LongName:        "Tesla, Inc.",
		Recommendation:  "hold",
		AnalystCount:    42,
		TargetMeanPrice: 185.456,
		News: []model.NewsItem{{
			Title: "Tesla ships", Publisher: "Reuters", Link: "https://example.com/a",
			Published: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC),
		}},
	}, nil
}

type fakeSearch struct{}

func (fakeSearch) Search(_ context.Context, q string) ([]search.Result, error) {
	return []search.Result{{Title: "Result for " + q, URL: "https://example.com", Snippet: "snippet", Source: "DuckDuckGo"}}, nil
}

func TestCompose_EmptyCredential(t *testing.T) {
	c := NewComposer(Config{}, fakeMarket{}, fakeSearch{})
	for _, cred := range []Credential{"", "   "} {
		g, ok := c.Compose(cred)
		assert.False(t, ok)
		assert.Nil(t, g)
	}
}

func TestCompose_Graph(t *testing.T) {
	c := NewComposer(Config{}, fakeMarket{}, fakeSearch{})
	g, ok := c.Compose("valid-key")
	require.True(t, ok)
	require.NotNil(t, g)

	leaves := g.Leaves()
	require.Len(t, leaves, 2)
	assert.Equal(t, RoleWebSearch, leaves[0].Role)
	assert.Equal(t, RoleFinancial, leaves[1].Role)
	assert.Equal(t, "Web Search Agent", leaves[0].Name)
	assert.Equal(t, "Finance AI Agent", leaves[1].Name)
	assert.Equal(t, DefaultSpecialistModel, leaves[0].Model)

	assert.Equal(t, RoleIntegrator, g.Integrator.Role)
	assert.Equal(t, DefaultIntegratorModel, g.Integrator.Model)
	require.Len(t, g.Integrator.Agent.Tools, 2)

	var names []string
	for _, tool := range g.Integrator.Agent.Tools {
		ft, ok := tool.(agents.FunctionTool)
		require.True(t, ok)
		names = append(names, ft.Name)
	}
	assert.Equal(t, []string{"transfer_task_to_web_search_agent", "transfer_task_to_finance_ai_agent"}, names)

	assert.Len(t, g.WebSearch.Agent.Tools, 1)
	assert.Len(t, g.Financial.Agent.Tools, 2)
	assert.NotEmpty(t, g.WebSearch.Agent.HandoffDescription)
	assert.Len(t, g.Nodes(), 3)
}

func TestCompose_FreshGraphPerCall(t *testing.T) {
	c := NewComposer(Config{IntegratorModel: "custom"}, fakeMarket{}, fakeSearch{})
	a, ok := c.Compose("k1")
	require.True(t, ok)
	b, ok := c.Compose("k2")
	require.True(t, ok)
	assert.NotSame(t, a.Integrator.Agent, b.Integrator.Agent)
	assert.Equal(t, "custom", a.Integrator.Model)
}

func TestInstructionSet_Immutable(t *testing.T) {
	src := []string{"one", "two"}
	set := NewInstructionSet(src...)
	src[0] = "changed"
	got := set.Directives()
	got[1] = "mutated"

	assert.Equal(t, []string{"one", "two"}, set.Directives())
	assert.Equal(t, 2, set.Len())
	assert.Contains(t, set.Text("role"), "- one\n- two\n")
	assert.Contains(t, set.Text("role"), "markdown")
}

func TestInstructions_Content(t *testing.T) {
	assert.Contains(t, webSearchInstructions.Text(webSearchRole), "'Date', 'Title', 'Source' and 'Summary'")
	assert.Contains(t, financialInstructions.Text(financialRole), "at most 5 lines")
	assert.Contains(t, integratorInstructions.Text(integratorRole), "'Link'")
}

func TestCredential_Redacted(t *testing.T) {
	cred := Credential("gsk_secret")
	assert.Equal(t, "[redacted]", cred.String())
	assert.NotContains(t, fmt.Sprintf("%v %s %+v %#v", cred, cred, cred, cred), "gsk_secret")
	assert.Equal(t, "", Credential("").String())
	assert.True(t, Credential("").Empty())
	assert.False(t, cred.Empty())
}

func TestAnalysisPrompt(t *testing.T) {
	assert.Equal(t, "Summarize the analyst recommendation and share the latest news for NVDA", AnalysisPrompt("NVDA"))
}

func TestToolbox_Handlers(t *testing.T) {
	ctx := context.Background()
	tb := toolbox{market: fakeMarket{}, web: fakeSearch{}}

	out, err := tb.stockSnapshot(ctx, symbolArgs{Symbol: "TSLA"})
	require.NoError(t, err)
	assert.Contains(t, out, "| Last close | 181.19 |")
	assert.Contains(t, out, "| RSI 14 | 61.3 |")
	assert.Contains(t, out, "138.80 - 299.29")

	out, err = tb.companyProfile(ctx, symbolArgs{Symbol: "TSLA"})
	require.NoError(t, err)
	assert.Contains(t, out, "Tesla, Inc. (TSLA)")
	assert.Contains(t, out, "hold (42 analysts, mean target 185.46)")
	assert.Contains(t, out, "2024-05-02 | Tesla ships | Reuters")

	out, err = tb.webSearch(ctx, webSearchArgs{Query: "tsla news"})
	require.NoError(t, err)
	assert.Contains(t, out, "Result for tsla news")
}

func TestToolbox_DataErrorsBecomeText(t *testing.T) {
	ctx := context.Background()
	tb := toolbox{market: fakeMarket{err: errors.New("boom")}}

	out, err := tb.stockSnapshot(ctx, symbolArgs{Symbol: "ZZZZ"})
	require.NoError(t, err)
	assert.Contains(t, out, "no price data for ZZZZ")

	out, err = tb.companyProfile(ctx, symbolArgs{Symbol: "ZZZZ"})
	require.NoError(t, err)
	assert.Contains(t, out, "no company data")

	out, err = tb.webSearch(ctx, webSearchArgs{Query: "x"})
	require.NoError(t, err)
	assert.Equal(t, "web search is not available", out)
}
