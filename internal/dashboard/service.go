// Package dashboard assembles the price and sentiment views: it validates the
// request parameters, drives the fetchers, collectors, scorer, and
// aggregator in a single synchronous pass, and builds the figures.
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/chart"
	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/news"
	"github.com/arnet007/StockSentimentPro/internal/prices"
	"github.com/arnet007/StockSentimentPro/internal/sentiment"
)

// Observer receives pipeline counts. The HTTP layer feeds them to metrics.
type Observer interface {
	SourceFailed(source string)
	Scored(scored, skipped int)
}

type nopObserver struct{}

func (nopObserver) SourceFailed(string) {}
func (nopObserver) Scored(int, int)     {}

// Options caps list sizes.
type Options struct {
	MaxArticles  int // news documents kept per request
	MaxPosts     int // social documents kept per request
	CompareLimit int // comparison tickers per price view
}

// Service builds dashboard views.
type Service struct {
	prices     prices.Fetcher
	collectors []news.Collector
	scorer     sentiment.Scorer
	theme      chart.Theme
	opts       Options
	observer   Observer
	log        *slog.Logger

	now func() time.Time
}

// NewService wires the view builder. observer may be nil.
func NewService(
	fetcher prices.Fetcher,
	collectors []news.Collector,
	scorer sentiment.Scorer,
	theme chart.Theme,
	opts Options,
	observer Observer,
	log *slog.Logger,
) *Service {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		prices:     fetcher,
		collectors: collectors,
		scorer:     scorer,
		theme:      theme,
		opts:       opts,
		observer:   observer,
		log:        log.With("component", "dashboard"),
		now:        time.Now,
	}
}

// Sources returns the configured collector names.
func (s *Service) Sources() []string {
	names := make([]string, len(s.collectors))
	for i, c := range s.collectors {
		names[i] = c.Name()
	}
	return names
}

// ---------------------------------------------------------------------------
// Price view
// ---------------------------------------------------------------------------

// PriceParams are the price tab selections.
type PriceParams struct {
	Ticker    string
	Market    market.Market
	Timeframe market.Timeframe
	ChartType market.ChartType
	Compare   []string
	Overlays  []string
}

// PriceView is everything the price tab shows.
type PriceView struct {
	Ticker    string
	Timeframe market.Timeframe
	ChartType market.ChartType
	Series    prices.Series
	Quote     prices.Quote

	Compared []string // tickers actually drawn
	Warnings []string

	PriceFigure  chart.Figure
	VolumeFigure chart.Figure
	RSIFigure    *chart.Figure
}

// PriceView validates p, fetches the primary series, and builds its
// figures. Comparison and overlay problems become warnings; only an
// invalid parameter or a failed primary fetch is an error.
func (s *Service) PriceView(ctx context.Context, p PriceParams) (*PriceView, error) {
	ticker, err := market.FormatTicker(p.Ticker, p.Market)
	if err != nil {
		return nil, err
	}
	if p.Timeframe, err = market.ParseTimeframe(string(p.Timeframe)); err != nil {
		return nil, err
	}
	if p.ChartType, err = market.ParseChartType(string(p.ChartType)); err != nil {
		return nil, err
	}
	compare, warnings, err := s.compareTickers(ticker, p)
	if err != nil {
		return nil, err
	}

	now := s.now()
	series, err := s.prices.Fetch(ctx, prices.Request{Symbol: ticker, Timeframe: p.Timeframe, Now: now})
	if err != nil {
		return nil, err
	}
	quote, ok := prices.ComputeQuote(series.Bars)
	if !ok {
		return nil, domain.NetworkError(s.prices.Name(), fmt.Errorf("no data found for %s", ticker))
	}

	v := &PriceView{
		Ticker:    ticker,
		Timeframe: p.Timeframe,
		ChartType: p.ChartType,
		Series:    series,
		Quote:     quote,
		Compared:  []string{},
		Warnings:  warnings,
	}

	var overlays []prices.Overlay
	for _, kind := range p.Overlays {
		o, ok := prices.Compute(kind, series)
		if !ok {
			v.Warnings = append(v.Warnings, fmt.Sprintf("not enough bars for %s (have %d)", kind, len(series.Bars)))
			continue
		}
		if kind == prices.RSI {
			fig := chart.RSIFigure(o, s.theme)
			v.RSIFigure = &fig
			continue
		}
		overlays = append(overlays, o)
	}

	opt := chart.PriceOptions{ChartType: p.ChartType, Overlays: overlays}
	if len(compare) > 0 {
		if p.ChartType == market.Line || p.ChartType == market.Area {
			for _, c := range compare {
				cs, err := s.prices.Fetch(ctx, prices.Request{Symbol: c, Timeframe: p.Timeframe, Now: now})
				if err != nil {
					s.log.Warn("fetching comparison", "ticker", c, "error", err)
					v.Warnings = append(v.Warnings, fmt.Sprintf("comparison %s unavailable: %v", c, err))
					continue
				}
				opt.Comparisons = append(opt.Comparisons, cs)
				v.Compared = append(v.Compared, c)
			}
		} else {
			v.Warnings = append(v.Warnings, "comparisons are drawn on line and area charts only")
		}
	}

	v.PriceFigure = chart.PriceFigure(series, opt, s.theme)
	v.VolumeFigure = chart.VolumeFigure(series, s.theme)
	return v, nil
}

func (s *Service) compareTickers(primary string, p PriceParams) ([]string, []string, error) {
	var (
		out      []string
		warnings []string
		seen     = map[string]bool{primary: true}
	)
	for _, raw := range p.Compare {
		t, err := market.FormatTicker(raw, p.Market)
		if err != nil {
			return nil, nil, err
		}
		if seen[t] {
			continue
		}
		seen[t] = true
		if len(out) >= s.opts.CompareLimit {
			warnings = append(warnings, fmt.Sprintf("only %d comparison tickers are drawn; %s ignored", s.opts.CompareLimit, t))
			continue
		}
		out = append(out, t)
	}
	return out, warnings, nil
}

// ---------------------------------------------------------------------------
// Sentiment view
// ---------------------------------------------------------------------------

// SentimentParams are the sentiment tab selections.
type SentimentParams struct {
	Ticker string
	Market market.Market
	Days   int
	News   bool
	Social bool
}

// DocumentView is one scored document as listed on the page.
type DocumentView struct {
	Title    string
	Text     string
	Link     string
	Provider string
	Author   string
	Time     time.Time
	Ago      string
	Polarity float64
	Label    sentiment.Label
}

// SentimentView is everything the sentiment tab shows.
type SentimentView struct {
	Ticker  string
	Days    int
	Start   time.Time
	End     time.Time
	Summary sentiment.Summary
	Scored  []domain.ScoredDocument

	News   []DocumentView // newest first
	Social []DocumentView // newest first

	// Errors lists the sources that could not be collected.
	Errors []string

	DistributionFigure chart.Figure
	TrendFigure        chart.Figure
	TimelineFigure     chart.Figure
	HistogramFigure    chart.Figure
}

// SentimentView validates p, collects and scores documents for the window,
// and aggregates them into daily buckets. Source failures are reported in
// Errors; the view is still built from the remaining sources.
func (s *Service) SentimentView(ctx context.Context, p SentimentParams) (*SentimentView, error) {
	ticker, err := market.FormatTicker(p.Ticker, p.Market)
	if err != nil {
		return nil, err
	}
	if err := market.ValidateLookback(p.Days); err != nil {
		return nil, err
	}
	if !p.News && !p.Social {
		return nil, domain.InvalidInputf("select news, social, or both")
	}

	end := s.now()
	start := end.AddDate(0, 0, -p.Days)
	res := news.Gather(ctx, news.Filter(s.collectors, p.News, p.Social), news.Query{
		Symbol: ticker,
		Start:  start,
		End:    end,
	}, s.log)

	v := &SentimentView{
		Ticker: ticker,
		Days:   p.Days,
		Start:  start,
		End:    end,
		News:   []DocumentView{},
		Social: []DocumentView{},
		Errors: []string{},
	}
	for _, f := range res.Failures {
		s.observer.SourceFailed(f.Source)
		v.Errors = append(v.Errors, f.Err.Error())
	}

	docs := capPerKind(res.Documents, s.opts.MaxArticles, s.opts.MaxPosts)
	scored, skipped := sentiment.ScoreAll(s.scorer, docs)
	s.observer.Scored(len(scored), skipped)

	summary, err := sentiment.Aggregate(scored, sentiment.DailyGrid(end, p.Days))
	if err != nil {
		// Only reachable when a scorer returns a polarity outside [-1, 1].
		return nil, fmt.Errorf("aggregating %s: %v", ticker, err)
	}
	summary.Skipped = skipped
	v.Summary = summary
	v.Scored = scored

	for _, d := range scored {
		dv := DocumentView{
			Title:    d.Title,
			Text:     d.Text,
			Link:     d.Link,
			Provider: d.Provider,
			Author:   d.Author,
			Time:     d.Timestamp,
			Ago:      Ago(d.Timestamp, end),
			Polarity: d.Polarity,
			Label:    sentiment.Classify(d.Polarity),
		}
		if d.Source == domain.SourceSocial {
			v.Social = append(v.Social, dv)
		} else {
			v.News = append(v.News, dv)
		}
	}

	v.DistributionFigure = chart.DistributionFigure(summary, s.theme)
	v.TrendFigure = chart.TrendFigure(summary, s.theme)
	v.TimelineFigure = chart.TimelineFigure(scored, s.theme)
	v.HistogramFigure = chart.HistogramFigure(summary, s.theme)

	s.log.Info("sentiment view built", "ticker", ticker, "days", p.Days,
		"documents", summary.Total, "skipped", skipped, "failed_sources", len(res.Failures))
	return v, nil
}

// capPerKind keeps at most maxNews news and maxSocial social documents,
// preserving order. Non-positive caps mean unlimited.
func capPerKind(docs []domain.Document, maxNews, maxSocial int) []domain.Document {
	out := make([]domain.Document, 0, len(docs))
	var nNews, nSocial int
	for _, d := range docs {
		switch d.Source {
		case domain.SourceSocial:
			if maxSocial > 0 && nSocial >= maxSocial {
				continue
			}
			nSocial++
		default:
			if maxNews > 0 && nNews >= maxNews {
				continue
			}
			nNews++
		}
		out = append(out, d)
	}
	return out
}
