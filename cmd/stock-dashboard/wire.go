package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/arnet007/StockSentimentPro/internal/chart"
	"github.com/arnet007/StockSentimentPro/internal/config"
	"github.com/arnet007/StockSentimentPro/internal/dashboard"
	"github.com/arnet007/StockSentimentPro/internal/httpapi"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/news"
	"github.com/arnet007/StockSentimentPro/internal/prices"
	"github.com/arnet007/StockSentimentPro/internal/sentiment"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// buildServer wires the fetchers, collectors, scorer, and metrics described
// by cfg into a dashboard server.
func buildServer(cfg *config.Config, log *slog.Logger) (*httpapi.DashboardServer, error) {
	client := util.NewHTTPClient(cfg.HTTP.TimeoutDuration())

	var md *marketdata.Client
	if cfg.Alpaca.Enabled() {
		md = marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    cfg.Alpaca.APIKey,
			APISecret: cfg.Alpaca.APISecret,
			BaseURL:   cfg.Alpaca.DataURL,
		})
	}

	fetcher, err := buildFetcher(cfg, client, md, log)
	if err != nil {
		return nil, err
	}
	collectors := buildCollectors(cfg, client, md)

	names := make([]string, len(collectors))
	for i, c := range collectors {
		names[i] = c.Name()
	}
	log.Info("dashboard wired", "price_default", cfg.Prices.Default, "sources", names, "alpaca", md != nil)

	metrics := httpapi.NewMetrics()
	svc := dashboard.NewService(fetcher, collectors, sentiment.NewVaderScorer(), themeFrom(cfg.Theme),
		dashboard.Options{
			MaxArticles:  cfg.Dashboard.MaxArticles,
			MaxPosts:     cfg.Dashboard.MaxPosts,
			CompareLimit: cfg.Dashboard.CompareLimit,
		}, metrics, log)

	defaults, err := defaultsFrom(cfg.Dashboard)
	if err != nil {
		return nil, err
	}
	return httpapi.NewDashboardServer(svc, defaults, metrics, log), nil
}

// defaultsFrom normalises the configured initial selections.
func defaultsFrom(d config.Dashboard) (httpapi.Defaults, error) {
	m, err := market.ParseMarket(d.DefaultMarket)
	if err != nil {
		return httpapi.Defaults{}, fmt.Errorf("dashboard.default_market: %w", err)
	}
	tf, err := market.ParseTimeframe(d.DefaultTimeframe)
	if err != nil {
		return httpapi.Defaults{}, fmt.Errorf("dashboard.default_timeframe: %w", err)
	}
	ct, err := market.ParseChartType(d.DefaultChartType)
	if err != nil {
		return httpapi.Defaults{}, fmt.Errorf("dashboard.default_chart_type: %w", err)
	}
	return httpapi.Defaults{
		Title:        d.Title,
		Market:       m,
		Ticker:       d.DefaultTicker,
		Timeframe:    tf,
		ChartType:    ct,
		LookbackDays: d.DefaultLookbackDays,
	}, nil
}

// buildFetcher routes every market to its configured provider.
func buildFetcher(cfg *config.Config, client *http.Client, md *marketdata.Client, log *slog.Logger) (prices.Fetcher, error) {
	provider := func(name string) (prices.Fetcher, error) {
		switch name {
		case config.ProviderYahoo:
			return prices.NewYahooFetcher(cfg.Yahoo.ChartURL, client, cfg.HTTP.UserAgent), nil
		case config.ProviderAlpaca:
			if md == nil {
				return nil, fmt.Errorf("alpaca provider requires alpaca credentials")
			}
			return prices.NewAlpacaFetcher(md, cfg.Alpaca.Feed), nil
		case config.ProviderArchive:
			return &prices.ArchiveFetcher{DataDir: cfg.Archive.DataDir}, nil
		}
		return nil, fmt.Errorf("unknown price provider %q", name)
	}

	fallback, err := provider(cfg.Prices.Default)
	if err != nil {
		return nil, fmt.Errorf("prices.default: %w", err)
	}
	router := prices.NewRouter(fallback, log)
	for _, m := range market.All() {
		name := cfg.Prices.ProviderFor(m)
		if name == cfg.Prices.Default {
			continue
		}
		f, err := provider(name)
		if err != nil {
			return nil, fmt.Errorf("prices.routes.%s: %w", m, err)
		}
		router.Route(m, f)
	}
	return router, nil
}

// buildCollectors returns the enabled text sources in collection order.
// Alpaca news is skipped without credentials.
func buildCollectors(cfg *config.Config, client *http.Client, md *marketdata.Client) []news.Collector {
	src := cfg.Sources
	limit := cfg.Dashboard.MaxArticles
	ua := cfg.HTTP.UserAgent

	var out []news.Collector
	if src.Yahoo {
		c := news.NewYahooCollector(cfg.Yahoo.SearchURL, client, limit)
		c.UserAgent = ua
		out = append(out, c)
	}
	if src.Alpaca && md != nil {
		out = append(out, news.NewAlpacaCollector(md, limit))
	}
	if src.GoogleNews {
		out = append(out, news.NewGoogleNewsCollector(src.GoogleNewsURL, client, ua, limit))
	}
	if src.GlobeNewswire {
		out = append(out, news.NewGlobeNewswireCollector(src.GlobeURL, client, ua, limit))
	}
	if src.StockTwits {
		out = append(out, news.NewStockTwitsCollector(src.StockTwitsURL, client, ua))
	}
	if src.Archive && cfg.Archive.DataDir != "" {
		out = append(out, news.NewArchiveCollectors(cfg.Archive.DataDir)...)
	}
	return out
}

func themeFrom(t config.Theme) chart.Theme {
	return chart.Theme{
		Template: t.Template,
		Height:   t.Height,
		Up:       t.Up,
		Down:     t.Down,
		Line:     t.Line,
		Positive: t.Positive,
		Neutral:  t.Neutral,
		Negative: t.Negative,
	}
}
