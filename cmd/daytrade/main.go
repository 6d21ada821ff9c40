package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/analysis"
	"DayTradeAnalytics/internal/model"
	"DayTradeAnalytics/internal/notifier"
	"DayTradeAnalytics/internal/scheduler"
	"DayTradeAnalytics/internal/web"
)

var configPath string

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:           "daytrade",
	Short:         "Stock day-trade analysis with charts and an AI summary",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the web UI",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		a := newApp(cfg)
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}
		return web.NewServer(a.analyzer).ListenAndServe(ctx, addr)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze TICKER",
	Short: "Analyze one ticker: markdown to stdout, charts to an HTML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		a := newApp(cfg)
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		cred := cfg.Credential()
		if key, _ := cmd.Flags().GetString("api-key"); key != "" {
			cred = agent.Credential(key)
		}
		period, _ := cmd.Flags().GetString("period")

		report, err := a.analyzer.Analyze(ctx, analysis.Request{
			Ticker:     args[0],
			Credential: cred,
			Period:     model.Period(period),
			Source:     "cli",
		})
		if err != nil {
			return err
		}

		out := bufio.NewWriter(cmd.OutOrStdout())
		if report.AgentErr != nil {
			fmt.Fprintf(out, "> %v\n\n", report.AgentErr)
		}
		if report.HasAnalysis() {
			fmt.Fprintln(out, report.Markdown)
		}
		if err := out.Flush(); err != nil {
			return err
		}

		chartsPath, _ := cmd.Flags().GetString("out")
		if chartsPath == "" {
			chartsPath = fmt.Sprintf("%s-charts.html", report.Ticker)
		}
		return writeCharts(report, chartsPath)
	},
}

func writeCharts(report *analysis.Report, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	if err := report.Figures.RenderPage(f, report.Ticker+" analysis"); err != nil {
		f.Close()
		return fmt.Errorf("render charts: %w", err)
	}
	log.Infof("charts written to %s", path)
	return f.Close()
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the watchlist on a schedule and answer Telegram commands",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := cfg.ValidateWatch(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		if len(cfg.Watchlist.Symbols) == 0 {
			return errors.New("watchlist.symbols is empty")
		}
		a := newApp(cfg)
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sched := scheduler.NewScheduler(ctx, a.analyzer, tn, a.recorder, cfg.Credential, cfg.Watchlist.Symbols)
		if err := sched.RegisterWatchlist(cfg.Watchlist.Cron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info("telegram polling started")

		if cfg.Watchlist.RunOnStart {
			log.Info("run_on_start enabled, executing watchlist now")
			go sched.RunWatchlistNow()
		}

		log.Info("watchlist is running, press Ctrl+C to stop")
		<-ctx.Done()
		log.Info("shutdown signal received, stopping")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to the YAML config file")
	serveCmd.Flags().String("addr", "", "listen address (overrides server.addr)")
	analyzeCmd.Flags().String("api-key", "", "LLM API key (defaults to the env var named by llm.api_key_env)")
	analyzeCmd.Flags().String("period", "", "lookback period: 1mo, 3mo, 6mo, 1y or 2y")
	analyzeCmd.Flags().String("out", "", "chart HTML output path (default <TICKER>-charts.html)")
	rootCmd.AddCommand(serveCmd, analyzeCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("%v", err)
	}
}
