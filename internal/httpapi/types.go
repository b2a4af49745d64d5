package httpapi

import (
	"time"

	"github.com/arnet007/StockSentimentPro/internal/chart"
	"github.com/arnet007/StockSentimentPro/internal/dashboard"
	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/prices"
	"github.com/arnet007/StockSentimentPro/internal/sentiment"
)

// ---------------------------------------------------------------------------
// /api/markets
// ---------------------------------------------------------------------------

// MarketsResponse lists the selectable vocabulary.
type MarketsResponse struct {
	Markets    []MarketJSON    `json:"markets"`
	Timeframes []TimeframeJSON `json:"timeframes"`
	ChartTypes []string        `json:"chart_types"`
	Lookbacks  []int           `json:"lookback_days"`
	Overlays   []string        `json:"overlays"`
	Sources    []string        `json:"sources"`
}

// MarketJSON is one market with its default tickers.
type MarketJSON struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Tickers []string `json:"tickers"`
}

// TimeframeJSON is one timeframe and the range/interval it maps to.
type TimeframeJSON struct {
	ID       string `json:"id"`
	Period   string `json:"period"`
	Interval string `json:"interval"`
}

// ---------------------------------------------------------------------------
// /api/bars/{ticker}
// ---------------------------------------------------------------------------

// BarJSON is one OHLCV bar. Time is Unix milliseconds.
type BarJSON struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// QuoteJSON carries decimal values as strings to keep them exact.
type QuoteJSON struct {
	Last          string `json:"last"`
	Previous      string `json:"previous"`
	Change        string `json:"change"`
	ChangePercent string `json:"change_percent"`
	Volume        int64  `json:"volume"`
	Display       string `json:"display"`
}

// BarsResponse is the price view.
type BarsResponse struct {
	Ticker    string                  `json:"ticker"`
	Name      string                  `json:"name,omitempty"`
	Currency  string                  `json:"currency,omitempty"`
	Exchange  string                  `json:"exchange,omitempty"`
	Provider  string                  `json:"provider"`
	Timeframe string                  `json:"timeframe"`
	ChartType string                  `json:"chart_type"`
	High52    float64                 `json:"fifty_two_week_high,omitempty"`
	Low52     float64                 `json:"fifty_two_week_low,omitempty"`
	Quote     QuoteJSON               `json:"quote"`
	Bars      []BarJSON               `json:"bars"`
	Compared  []string                `json:"compared"`
	Warnings  []string                `json:"warnings"`
	Figures   map[string]chart.Figure `json:"figures"`
}

// ---------------------------------------------------------------------------
// /api/sentiment/{ticker}
// ---------------------------------------------------------------------------

// BucketJSON is one time bucket.
type BucketJSON struct {
	Start        time.Time `json:"start"`
	MeanPolarity float64   `json:"mean_polarity"`
	Count        int       `json:"count"`
}

// BinJSON is one histogram bin.
type BinJSON struct {
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int     `json:"count"`
}

// SourceJSON is the breakdown for one source kind.
type SourceJSON struct {
	Source       string  `json:"source"`
	Total        int     `json:"total"`
	Positive     int     `json:"positive"`
	Neutral      int     `json:"neutral"`
	Negative     int     `json:"negative"`
	MeanPolarity float64 `json:"mean_polarity"`
	Primary      string  `json:"primary"`
}

// SummaryJSON is the aggregator output.
type SummaryJSON struct {
	Total        int          `json:"total"`
	Skipped      int          `json:"skipped"`
	MeanPolarity float64      `json:"mean_polarity"`
	Positive     int          `json:"positive"`
	Neutral      int          `json:"neutral"`
	Negative     int          `json:"negative"`
	PositivePct  float64      `json:"positive_pct"`
	NeutralPct   float64      `json:"neutral_pct"`
	NegativePct  float64      `json:"negative_pct"`
	Primary      string       `json:"primary"`
	Buckets      []BucketJSON `json:"buckets"`
	Histogram    []BinJSON    `json:"histogram"`
	Sources      []SourceJSON `json:"sources"`
}

// DocumentJSON is one scored document.
type DocumentJSON struct {
	Time     time.Time `json:"time"`
	Provider string    `json:"provider"`
	Title    string    `json:"title,omitempty"`
	Text     string    `json:"text"`
	Link     string    `json:"link,omitempty"`
	Author   string    `json:"author,omitempty"`
	Polarity float64   `json:"polarity"`
	Label    string    `json:"label"`
}

// SentimentResponse is the sentiment view.
type SentimentResponse struct {
	Ticker  string                  `json:"ticker"`
	Days    int                     `json:"days"`
	Start   time.Time               `json:"start"`
	End     time.Time               `json:"end"`
	Summary SummaryJSON             `json:"summary"`
	News    []DocumentJSON          `json:"news"`
	Social  []DocumentJSON          `json:"social"`
	Errors  []string                `json:"errors"`
	Figures map[string]chart.Figure `json:"figures"`
}

// ErrorResponse is the body of every non-2xx API answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// ---------------------------------------------------------------------------
// Conversion helpers
// ---------------------------------------------------------------------------

func convertMarkets(sources []string) MarketsResponse {
	resp := MarketsResponse{
		Lookbacks: market.LookbackOptions,
		Overlays:  []string{prices.SMA, prices.EMA, prices.RSI},
		Sources:   sources,
	}
	for _, m := range market.All() {
		resp.Markets = append(resp.Markets, MarketJSON{ID: string(m), Label: m.Label(), Tickers: market.DefaultTickers(m)})
	}
	for _, tf := range market.Timeframes() {
		r := tf.Range()
		resp.Timeframes = append(resp.Timeframes, TimeframeJSON{ID: string(tf), Period: r.Period, Interval: r.Interval})
	}
	for _, ct := range market.ChartTypes() {
		resp.ChartTypes = append(resp.ChartTypes, string(ct))
	}
	if resp.Sources == nil {
		resp.Sources = []string{}
	}
	return resp
}

func convertBars(bars []domain.Bar) []BarJSON {
	out := make([]BarJSON, len(bars))
	for i, b := range bars {
		out[i] = BarJSON{
			Time:   b.Timestamp.UnixMilli(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out
}

func convertQuote(q prices.Quote) QuoteJSON {
	return QuoteJSON{
		Last:          q.Last.String(),
		Previous:      q.Previous.String(),
		Change:        q.Change.String(),
		ChangePercent: q.ChangePercent.String(),
		Volume:        q.Volume,
		Display:       dashboard.FormatChange(q),
	}
}

func priceFigures(v *dashboard.PriceView) map[string]chart.Figure {
	figs := map[string]chart.Figure{
		"price":  v.PriceFigure,
		"volume": v.VolumeFigure,
	}
	if v.RSIFigure != nil {
		figs["rsi"] = *v.RSIFigure
	}
	return figs
}

func convertPriceView(v *dashboard.PriceView) BarsResponse {
	warnings := v.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	compared := v.Compared
	if compared == nil {
		compared = []string{}
	}
	return BarsResponse{
		Ticker:    v.Ticker,
		Name:      v.Series.Name,
		Currency:  v.Series.Currency,
		Exchange:  v.Series.Exchange,
		Provider:  v.Series.Provider,
		Timeframe: string(v.Timeframe),
		ChartType: string(v.ChartType),
		High52:    v.Series.High52,
		Low52:     v.Series.Low52,
		Quote:     convertQuote(v.Quote),
		Bars:      convertBars(v.Series.Bars),
		Compared:  compared,
		Warnings:  warnings,
		Figures:   priceFigures(v),
	}
}

func convertSummary(s sentiment.Summary) SummaryJSON {
	out := SummaryJSON{
		Total:        s.Total,
		Skipped:      s.Skipped,
		MeanPolarity: s.MeanPolarity,
		Positive:     s.PositiveCount,
		Neutral:      s.NeutralCount,
		Negative:     s.NegativeCount,
		PositivePct:  s.Percent(sentiment.Positive),
		NeutralPct:   s.Percent(sentiment.Neutral),
		NegativePct:  s.Percent(sentiment.Negative),
		Primary:      string(s.Primary),
		Buckets:      make([]BucketJSON, len(s.BucketSeries)),
		Histogram:    make([]BinJSON, len(s.Histogram)),
		Sources:      make([]SourceJSON, len(s.Sources)),
	}
	for i, b := range s.BucketSeries {
		out.Buckets[i] = BucketJSON{Start: b.Start, MeanPolarity: b.MeanPolarity, Count: b.Count}
	}
	for i, b := range s.Histogram {
		out.Histogram[i] = BinJSON{Low: b.Low, High: b.High, Count: b.Count}
	}
	for i, b := range s.Sources {
		out.Sources[i] = SourceJSON{
			Source:       string(b.Source),
			Total:        b.Total,
			Positive:     b.PositiveCount,
			Neutral:      b.NeutralCount,
			Negative:     b.NegativeCount,
			MeanPolarity: b.MeanPolarity,
			Primary:      string(b.Primary),
		}
	}
	return out
}

func convertDocuments(docs []dashboard.DocumentView) []DocumentJSON {
	out := make([]DocumentJSON, len(docs))
	for i, d := range docs {
		out[i] = DocumentJSON{
			Time:     d.Time,
			Provider: d.Provider,
			Title:    d.Title,
			Text:     d.Text,
			Link:     d.Link,
			Author:   d.Author,
			Polarity: d.Polarity,
			Label:    string(d.Label),
		}
	}
	return out
}

func sentimentFigures(v *dashboard.SentimentView) map[string]chart.Figure {
	return map[string]chart.Figure{
		"distribution": v.DistributionFigure,
		"trend":        v.TrendFigure,
		"timeline":     v.TimelineFigure,
		"histogram":    v.HistogramFigure,
	}
}

func convertSentimentView(v *dashboard.SentimentView) SentimentResponse {
	errs := v.Errors
	if errs == nil {
		errs = []string{}
	}
	return SentimentResponse{
		Ticker:  v.Ticker,
		Days:    v.Days,
		Start:   v.Start,
		End:     v.End,
		Summary: convertSummary(v.Summary),
		News:    convertDocuments(v.News),
		Social:  convertDocuments(v.Social),
		Errors:  errs,
		Figures: sentimentFigures(v),
	}
}
