package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/analysis"
	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/notifier"
	"DayTradeAnalytics/internal/recorder"
)

const historyLimit = 10

// Analyzer runs one analysis request.
type Analyzer interface {
	Analyze(ctx context.Context, req analysis.Request) (*analysis.Report, error)
}

// Sender delivers a message to the configured chat.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// CredentialFunc returns the credential for a run. It is called once per
// analysis so the key is never cached here.
type CredentialFunc func() agent.Credential

// Scheduler runs the watchlist on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron       *cron.Cron
	Analyzer   Analyzer
	Notifier   Sender
	Recorder   recorder.Recorder
	Credential CredentialFunc
	Symbols    []string
	Ctx        context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, a Analyzer, tn Sender, rec recorder.Recorder, cred CredentialFunc, symbols []string) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	normalized := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s = model.NormalizeTicker(s); s != "" {
			normalized = append(normalized, s)
		}
	}
	return &Scheduler{
		Cron:       cron.New(cron.WithSeconds()),
		Analyzer:   a,
		Notifier:   tn,
		Recorder:   rec,
		Credential: cred,
		Symbols:    normalized,
		Ctx:        ctx,
	}
}

// RegisterWatchlist registers the watchlist task on spec (six-field cron).
func (s *Scheduler) RegisterWatchlist(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchlistTask); err != nil {
		return fmt.Errorf("register watchlist task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.WithField("symbols", s.Symbols).Info("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info("scheduler stopped")
}

// RunWatchlistNow executes the watchlist task immediately.
func (s *Scheduler) RunWatchlistNow() {
	s.watchlistTask()
}

func (s *Scheduler) watchlistTask() {
	log.WithField("count", len(s.Symbols)).Info("running watchlist task")
	for _, symbol := range s.Symbols {
		if s.Ctx.Err() != nil {
			return
		}
		s.trySend(s.analyze(symbol, "watchlist"))
	}
}

// analyze runs one analysis and returns the message to send.
func (s *Scheduler) analyze(ticker, source string) string {
	req := analysis.Request{Ticker: ticker, Source: source}
	if s.Credential != nil {
		req.Credential = s.Credential()
	}
	report, err := s.Analyzer.Analyze(s.Ctx, req)
	if err != nil {
		log.WithField("ticker", ticker).Errorf("watchlist analysis: %v", err)
		return notifier.FormatError(model.NormalizeTicker(ticker), err)
	}
	return notifier.FormatAnalysis(report)
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return notifier.HelpText
	}
	switch fields[0] {
	case "/analyze":
		if len(fields) < 2 {
			return "Usage: /analyze &lt;TICKER&gt;"
		}
		return s.analyze(fields[1], "telegram")
	case "/history":
		records, err := s.Recorder.Recent(historyLimit)
		if err != nil {
			log.Errorf("load history: %v", err)
			return "History is unavailable."
		}
		return notifier.FormatHistory(records)
	default:
		return notifier.HelpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Errorf("send notification: %v", err)
	}
}
