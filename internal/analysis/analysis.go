// Package analysis runs the per-request pipeline: fetch the price series,
// derive indicators, query the agent graph, sanitize its answer and render
// the four figures.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/guregu/null/v6"
	log "github.com/sirupsen/logrus"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/calculator"
	"DayTradeAnalytics/internal/chart"
	"DayTradeAnalytics/internal/collector"
	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/recorder"
	"DayTradeAnalytics/internal/sanitize"
)

var (
	// ErrEmptyTicker aborts a request before anything is fetched.
	ErrEmptyTicker = errors.New("please enter a valid stock ticker")
	// ErrMissingCredential marks a report whose AI branch was skipped.
	ErrMissingCredential = errors.New("no API key provided, AI analysis skipped")
)

// Stage is a pipeline step, used in log fields.
type Stage string

const (
	StageAwaitingInput  Stage = "awaiting_input"
	StageFetching       Stage = "fetching"
	StageComposingAgent Stage = "composing_agent"
	StageQuerying       Stage = "querying"
	StageSanitizing     Stage = "sanitizing"
	StageRendering      Stage = "rendering"
	StageDone           Stage = "done"
)

// Querier sends one instruction to an agent graph and returns its text.
type Querier interface {
	Query(ctx context.Context, prompt string) (string, error)
}

// ComposeFunc builds a Querier for a credential, or reports false when the
// credential is empty.
type ComposeFunc func(cred agent.Credential) (Querier, bool)

// ComposeWith adapts an agent.Composer to a ComposeFunc.
func ComposeWith(c *agent.Composer) ComposeFunc {
	return func(cred agent.Credential) (Querier, bool) {
		g, ok := c.Compose(cred)
		if !ok {
			return nil, false
		}
		return g, true
	}
}

// Request is one user submission.
type Request struct {
	Ticker     string
	Credential agent.Credential
	Period     model.Period
	Source     string
}

// Report is the outcome of one analysis: a markdown block followed by four
// figures.
type Report struct {
	ID        string
	Ticker    string
	Series    *model.PriceSeries
	Derived   *model.DerivedSeries
	Markdown  string
	AgentErr  error
	Figures   *chart.Figures
	CreatedAt time.Time
}

// HasAnalysis reports whether the report carries AI text.
func (r *Report) HasAnalysis() bool { return r.Markdown != "" }

// Analyzer wires the pipeline stages together.
type Analyzer struct {
	Collector *collector.Collector
	Compose   ComposeFunc
	Recorder  recorder.Recorder
}

// NewAnalyzer creates an Analyzer. A nil recorder disables history.
func NewAnalyzer(col *collector.Collector, compose ComposeFunc, rec recorder.Recorder) *Analyzer {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Analyzer{Collector: col, Compose: compose, Recorder: rec}
}

// Analyze runs the pipeline for one request. Stages run sequentially on the
// calling goroutine. A remote agent failure is returned as an error; a
// missing credential is reported on Report.AgentErr.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*Report, error) {
	ticker := model.NormalizeTicker(req.Ticker)
	if ticker == "" {
		return nil, ErrEmptyTicker
	}

	report := &Report{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		CreatedAt: time.Now(),
	}
	logger := log.WithFields(log.Fields{
		"request_id": report.ID,
		"ticker":     ticker,
	})
	stage := func(s Stage) { logger.WithField("stage", s).Debug("analysis stage") }

	stage(StageFetching)
	series, err := a.Collector.Fetch(ctx, ticker, req.Period)
	if err != nil {
		return nil, err
	}
	report.Series = series
	report.Derived = calculator.Derive(series)
	if series.Empty() {
		logger.Warn("no price data returned")
	}

	stage(StageComposingAgent)
	querier, ok := a.compose(req.Credential)
	if !ok {
		report.AgentErr = ErrMissingCredential
		logger.Info("no credential supplied, skipping AI analysis")
	} else {
		stage(StageQuerying)
		raw, err := querier.Query(ctx, agent.AnalysisPrompt(ticker))
		if err != nil {
			logger.Errorf("agent query failed: %v", err)
			return nil, fmt.Errorf("analyze %s: %w", ticker, err)
		}
		stage(StageSanitizing)
		report.Markdown = sanitize.Response(raw)
	}

	stage(StageRendering)
	report.Figures = chart.Render(series, report.Derived, ticker)

	stage(StageDone)
	a.record(report, req.Source, logger)
	logger.WithField("rows", series.Len()).Info("analysis complete")
	return report, nil
}

func (a *Analyzer) compose(cred agent.Credential) (Querier, bool) {
	if a.Compose == nil || cred.Empty() {
		return nil, false
	}
	return a.Compose(cred)
}

func (a *Analyzer) record(r *Report, source string, logger *log.Entry) {
	if a.Recorder == nil {
		return
	}
	rec := &recorder.AnalysisRecord{
		ID:        r.ID,
		Ticker:    r.Ticker,
		Period:    string(r.Series.Period),
		Rows:      r.Series.Len(),
		AIText:    r.HasAnalysis(),
		Source:    strings.TrimSpace(source),
		CreatedAt: r.CreatedAt,
	}
	if last, ok := r.Series.Last(); ok {
		n := len(r.Derived.EMA20)
		rec.LastClose = null.FloatFrom(last.Close)
		rec.SMA20 = r.Derived.SMA20[n-1]
		rec.EMA20 = null.FloatFrom(r.Derived.EMA20[n-1])
	}
	if err := a.Recorder.RecordAnalysis(rec); err != nil {
		logger.Errorf("record analysis: %v", err)
	}
}
