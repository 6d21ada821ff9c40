// Package search queries the DuckDuckGo instant answer API.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"DayTradeAnalytics/internal/httpclient"
)

const duckDuckGoBaseURL = "https://api.duckduckgo.com"

// Result is one web search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
	Source  string
}

// DuckDuckGo is a web search client.
type DuckDuckGo struct {
	BaseURL    string
	Client     *http.Client
	MaxResults int
}

// NewDuckDuckGo creates a client with optional proxy support.
func NewDuckDuckGo(baseURL, proxyURL string) *DuckDuckGo {
	if baseURL == "" {
		baseURL = duckDuckGoBaseURL
	}
	return &DuckDuckGo{
		BaseURL:    baseURL,
		Client:     httpclient.New(proxyURL, httpclient.DefaultTimeout),
		MaxResults: 8,
	}
}

type ddgTopic struct {
	Text     string     `json:"Text"`
	FirstURL string     `json:"FirstURL"`
	Name     string     `json:"Name"`
	Topics   []ddgTopic `json:"Topics"`
}

type ddgResponse struct {
	Heading        string     `json:"Heading"`
	Abstract       string     `json:"AbstractText"`
	AbstractSource string     `json:"AbstractSource"`
	AbstractURL    string     `json:"AbstractURL"`
	Results        []ddgTopic `json:"Results"`
	RelatedTopics  []ddgTopic `json:"RelatedTopics"`
}

// Search runs query and returns up to MaxResults hits.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	q.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+"/?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo search: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("duckduckgo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var r ddgResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("duckduckgo decode: %w", err)
	}

	var results []Result
	if r.Abstract != "" {
		results = append(results, Result{
			Title:   r.Heading,
			URL:     r.AbstractURL,
			Snippet: r.Abstract,
			Source:  r.AbstractSource,
		})
	}
	for _, t := range flatten(append(r.Results, r.RelatedTopics...)) {
		if d.MaxResults > 0 && len(results) >= d.MaxResults {
			break
		}
		results = append(results, Result{
			Title:   titleOf(t.Text),
			URL:     t.FirstURL,
			Snippet: t.Text,
			Source:  hostOf(t.FirstURL),
		})
	}
	return results, nil
}

// Format renders results as a plain list that the model can cite.
func Format(results []Result) string {
	if len(results) == 0 {
		return "No results found."
	}
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n   Source: %s (%s)\n   %s\n", i+1, r.Title, r.Source, r.URL, r.Snippet)
	}
	return b.String()
}

func flatten(topics []ddgTopic) []ddgTopic {
	var out []ddgTopic
	for _, t := range topics {
		if len(t.Topics) > 0 {
			out = append(out, flatten(t.Topics)...)
			continue
		}
		if t.FirstURL != "" {
			out = append(out, t)
		}
	}
	return out
}

func titleOf(text string) string {
	if i := strings.Index(text, " - "); i > 0 {
		return text[:i]
	}
	return text
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
