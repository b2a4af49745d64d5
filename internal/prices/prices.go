// Package prices fetches OHLCV series for a ticker and timeframe and derives
// the quote summary, comparison normalisation, and indicator overlays shown
// next to the chart.
package prices

import (
	"context"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
)

// Request selects a series. Now anchors lookback-based providers; the zero
// value means time.Now().
type Request struct {
	Symbol    string
	Timeframe market.Timeframe
	Now       time.Time
}

func (r Request) now() time.Time {
	if r.Now.IsZero() {
		return time.Now()
	}
	return r.Now
}

// Window returns the [start, end] range covered by the request.
func (r Request) Window() (start, end time.Time) {
	end = r.now()
	return end.Add(-r.Timeframe.Lookback(end)), end
}

// Series is a ticker's bars plus the descriptive metadata a provider
// returned with them. Bars are in ascending time order.
type Series struct {
	Symbol   string
	Name     string
	Currency string
	Exchange string
	High52   float64
	Low52    float64
	Provider string
	Bars     []domain.Bar
}

// Closes returns the close of every bar.
func (s Series) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Times returns the timestamp of every bar.
func (s Series) Times() []time.Time {
	out := make([]time.Time, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Timestamp
	}
	return out
}

// Fetcher retrieves one series from a single provider.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context, req Request) (Series, error)
}
