package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arnet007/StockSentimentPro/internal/market"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the stock dashboard.
type Config struct {
	Server    Server    `yaml:"server"`
	Theme     Theme     `yaml:"theme"`
	Dashboard Dashboard `yaml:"dashboard"`
	Prices    Prices    `yaml:"prices"`
	Alpaca    Alpaca    `yaml:"alpaca"`
	Yahoo     Yahoo     `yaml:"yahoo"`
	Sources   Sources   `yaml:"sources"`
	Archive   Archive   `yaml:"archive"`
	HTTP      HTTP      `yaml:"http"`
	Logging   Logging   `yaml:"logging"`
}

// Server holds network listener configuration.
type Server struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns host:port.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Theme sets the figure template and colours.
type Theme struct {
	Template string `yaml:"template"`
	Height   int    `yaml:"height"`
	Up       string `yaml:"up"`
	Down     string `yaml:"down"`
	Line     string `yaml:"line"`
	Positive string `yaml:"positive"`
	Neutral  string `yaml:"neutral"`
	Negative string `yaml:"negative"`
}

// Dashboard holds the initial selections and list caps of the page.
type Dashboard struct {
	Title               string `yaml:"title"`
	DefaultMarket       string `yaml:"default_market"`
	DefaultTicker       string `yaml:"default_ticker"`
	DefaultTimeframe    string `yaml:"default_timeframe"`
	DefaultChartType    string `yaml:"default_chart_type"`
	DefaultLookbackDays int    `yaml:"default_lookback_days"`
	MaxArticles         int    `yaml:"max_articles"`
	MaxPosts            int    `yaml:"max_posts"`
	CompareLimit        int    `yaml:"compare_limit"`
}

// Price providers.
const (
	ProviderYahoo   = "yahoo"
	ProviderAlpaca  = "alpaca"
	ProviderArchive = "archive"
)

// Prices routes each market to a bar provider.
type Prices struct {
	Default string            `yaml:"default"`
	Routes  map[string]string `yaml:"routes"` // market name -> provider
}

// ProviderFor returns the provider configured for m.
func (p Prices) ProviderFor(m market.Market) string {
	for k, v := range p.Routes {
		if strings.EqualFold(k, string(m)) {
			return v
		}
	}
	return p.Default
}

// Alpaca holds credentials and endpoints for the Alpaca market-data API.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	DataURL   string `yaml:"data_url"`
	Feed      string `yaml:"feed"` // "iex" or "sip"
}

// Enabled reports whether credentials are present.
func (a Alpaca) Enabled() bool {
	return a.APIKey != "" && a.APISecret != ""
}

// Yahoo holds the Yahoo Finance endpoints.
type Yahoo struct {
	ChartURL  string `yaml:"chart_url"`
	SearchURL string `yaml:"search_url"`
}

// Sources toggles the text collectors and their endpoints.
type Sources struct {
	Yahoo         bool   `yaml:"yahoo"`
	Alpaca        bool   `yaml:"alpaca"`
	GoogleNews    bool   `yaml:"google_news"`
	GlobeNewswire bool   `yaml:"globenewswire"`
	StockTwits    bool   `yaml:"stocktwits"`
	Archive       bool   `yaml:"archive"`
	GoogleNewsURL string `yaml:"google_news_url"`
	GlobeURL      string `yaml:"globenewswire_url"`
	StockTwitsURL string `yaml:"stocktwits_url"`
}

// Archive points at an existing read-only parquet data directory.
type Archive struct {
	DataDir string `yaml:"data_dir"`
}

// HTTP configures outbound requests.
type HTTP struct {
	Timeout   string `yaml:"timeout"`
	UserAgent string `yaml:"user_agent"`
}

// TimeoutDuration parses Timeout, defaulting to 10s.
func (h HTTP) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(h.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Defaults
// ---------------------------------------------------------------------------

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: Server{Host: "127.0.0.1", Port: 8501},
		Theme: Theme{
			Template: "plotly_white",
			Height:   450,
			Up:       "#26a69a",
			Down:     "#ef5350",
			Line:     "#1f77b4",
			Positive: "#2e7d32",
			Neutral:  "#757575",
			Negative: "#c62828",
		},
		Dashboard: Dashboard{
			Title:               "Stock Sentiment Dashboard",
			DefaultMarket:       string(market.NSE),
			DefaultTicker:       "RELIANCE.NS",
			DefaultTimeframe:    string(market.OneMonth),
			DefaultChartType:    string(market.Candlestick),
			DefaultLookbackDays: 7,
			MaxArticles:         10,
			MaxPosts:            20,
			CompareLimit:        3,
		},
		Prices: Prices{
			Default: ProviderYahoo,
			Routes:  map[string]string{},
		},
		Alpaca: Alpaca{Feed: "iex"},
		Sources: Sources{
			Yahoo:         true,
			Alpaca:        true,
			GoogleNews:    true,
			GlobeNewswire: true,
			StockTwits:    true,
		},
		HTTP:    HTTP{Timeout: "10s", UserAgent: "Mozilla/5.0"},
		Logging: Logging{Level: "info", Format: "json"},
	}
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path over the
// defaults, applies environment variable overrides, and validates the
// result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// FromEnv returns the defaults with environment overrides applied.
func FromEnv() (*Config, error) {
	cfg := Default()
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("DASHBOARD_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("DASHBOARD_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}

	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.Archive.DataDir = v
	}

	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Alpaca.APISecret = v
	}
	if v := os.Getenv("ALPACA_DATA_URL"); v != "" {
		cfg.Alpaca.DataURL = v
	}
	if v := os.Getenv("ALPACA_FEED"); v != "" {
		cfg.Alpaca.Feed = v
	}

	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		cfg.HTTP.Timeout = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}

	// Standard Alpaca env vars (highest priority, the canonical names used by the SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Alpaca.APISecret = v
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

// Validate checks that every value can be used as-is by the server.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if d, err := time.ParseDuration(c.HTTP.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("http.timeout %q is not a positive duration", c.HTTP.Timeout)
	}
	if c.Theme.Height <= 0 {
		return fmt.Errorf("theme.height must be positive")
	}

	d := c.Dashboard
	if _, err := market.ParseMarket(d.DefaultMarket); err != nil {
		return fmt.Errorf("dashboard.default_market: %w", err)
	}
	if _, err := market.ParseTimeframe(d.DefaultTimeframe); err != nil {
		return fmt.Errorf("dashboard.default_timeframe: %w", err)
	}
	if _, err := market.ParseChartType(d.DefaultChartType); err != nil {
		return fmt.Errorf("dashboard.default_chart_type: %w", err)
	}
	if err := market.ValidateLookback(d.DefaultLookbackDays); err != nil {
		return fmt.Errorf("dashboard.default_lookback_days: %w", err)
	}
	if d.MaxArticles <= 0 || d.MaxPosts <= 0 {
		return fmt.Errorf("dashboard.max_articles and dashboard.max_posts must be positive")
	}
	if d.CompareLimit < 0 {
		return fmt.Errorf("dashboard.compare_limit must not be negative")
	}

	if err := c.validateProvider("prices.default", c.Prices.Default); err != nil {
		return err
	}
	for name, provider := range c.Prices.Routes {
		if _, err := market.ParseMarket(name); err != nil {
			return fmt.Errorf("prices.routes: %w", err)
		}
		if err := c.validateProvider("prices.routes."+name, provider); err != nil {
			return err
		}
	}

	if c.Sources.Archive && c.Archive.DataDir == "" {
		return fmt.Errorf("sources.archive requires archive.data_dir")
	}
	switch c.Alpaca.Feed {
	case "", "iex", "sip":
	default:
		return fmt.Errorf("alpaca.feed %q must be iex or sip", c.Alpaca.Feed)
	}
	return nil
}

func (c *Config) validateProvider(field, provider string) error {
	switch provider {
	case ProviderYahoo:
	case ProviderAlpaca:
		if !c.Alpaca.Enabled() {
			return fmt.Errorf("%s: alpaca provider requires alpaca.api_key and alpaca.api_secret", field)
		}
	case ProviderArchive:
		if c.Archive.DataDir == "" {
			return fmt.Errorf("%s: archive provider requires archive.data_dir", field)
		}
	default:
		return fmt.Errorf("%s: unknown provider %q", field, provider)
	}
	return nil
}
