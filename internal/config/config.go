package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"DayTradeAnalytics/internal/agent"
	"DayTradeAnalytics/internal/model"
)

const (
	ProviderYahoo    = "yahoo"
	ProviderVsTrader = "vstrader"

	defaultAPIKeyEnv = "GROQ_API_KEY"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	DataSource struct {
		Provider string `yaml:"provider"`
		BaseURL  string `yaml:"base_url"`
		APIKey   string `yaml:"api_key"`
		Period   string `yaml:"period"`
	} `yaml:"data_source"`
	LLM struct {
		BaseURL         string `yaml:"base_url"`
		APIKeyEnv       string `yaml:"api_key_env"`
		WebSearchModel  string `yaml:"web_search_model"`
		FinancialModel  string `yaml:"financial_model"`
		IntegratorModel string `yaml:"integrator_model"`
	} `yaml:"llm"`
	Search struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"search"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	Watchlist struct {
		Symbols    []string `yaml:"symbols"`
		Cron       string   `yaml:"cron"`
		RunOnStart bool     `yaml:"run_on_start"`
	} `yaml:"watchlist"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads a .env file if present, then config from a YAML file, then
// applies environment variable overrides and defaults.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		c.Watchlist.Symbols = strings.Split(v, ",")
	}
	if v := os.Getenv("CRON_WATCHLIST"); v != "" {
		c.Watchlist.Cron = v
	}
	if os.Getenv("RUN_ON_START") == "true" {
		c.Watchlist.RunOnStart = true
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = ProviderYahoo
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = ProviderVsTrader
		}
	}
	if c.DataSource.Period == "" {
		c.DataSource.Period = string(model.DefaultPeriod)
	}
	if c.LLM.APIKeyEnv == "" {
		c.LLM.APIKeyEnv = defaultAPIKeyEnv
	}
	if c.Watchlist.Cron == "" {
		c.Watchlist.Cron = "0 30 16 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/daytrade.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate checks that all fields are consistent.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderYahoo:
	case ProviderVsTrader:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderVsTrader)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if !model.Period(c.DataSource.Period).Valid() {
		return fmt.Errorf("data_source.period %q is not supported", c.DataSource.Period)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ValidateWatch checks the fields the watchlist needs.
func (c *Config) ValidateWatch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	return nil
}

// Credential reads the LLM key from the configured environment variable at
// call time.
func (c *Config) Credential() agent.Credential {
	return agent.Credential(strings.TrimSpace(os.Getenv(c.LLM.APIKeyEnv)))
}

// AgentConfig returns the agent graph settings.
func (c *Config) AgentConfig() agent.Config {
	return agent.Config{
		BaseURL:         c.LLM.BaseURL,
		WebSearchModel:  c.LLM.WebSearchModel,
		FinancialModel:  c.LLM.FinancialModel,
		IntegratorModel: c.LLM.IntegratorModel,
	}
}

// SetupLogging configures the global logger.
func (c *Config) SetupLogging() {
	if lvl, err := log.ParseLevel(c.Log.Level); err == nil {
		log.SetLevel(lvl)
	}
	if c.Log.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
