package main

import (
	log "github.com/sirupsen/logrus"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/analysis"
	"DayTradeAnalytics/internal/collector"
	"DayTradeAnalytics/internal/config"
	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/recorder"
	"DayTradeAnalytics/internal/search"
)

// app holds the components shared by all subcommands.
type app struct {
	cfg      *config.Config
	analyzer *analysis.Analyzer
	recorder recorder.Recorder
}

func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.SetupLogging()
	return cfg, nil
}

func newApp(cfg *config.Config) *app {
	var fetcher collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderVsTrader:
		fetcher = collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Infof("data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, model.Period(cfg.DataSource.Period))
	web := search.NewDuckDuckGo(cfg.Search.BaseURL, cfg.Proxy)
	composer := agent.NewComposer(cfg.AgentConfig(), col, web)

	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Warnf("init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	return &app{
		cfg:      cfg,
		analyzer: analysis.NewAnalyzer(col, analysis.ComposeWith(composer), rec),
		recorder: rec,
	}
}

func (a *app) Close() {
	if err := a.recorder.Close(); err != nil {
		log.Errorf("close recorder: %v", err)
	}
}
