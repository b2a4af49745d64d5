package prices

import (
	"context"
	"strings"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
)

// BarClient is the subset of *marketdata.Client used for bars.
type BarClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

var _ BarClient = (*marketdata.Client)(nil)

// AlpacaFetcher reads bars from the Alpaca market-data API. Alpaca carries
// US equities only.
type AlpacaFetcher struct {
	client BarClient
	feed   marketdata.Feed
}

var _ Fetcher = (*AlpacaFetcher)(nil)

// NewAlpacaFetcher wraps client. feed is "sip" or "iex"; "" selects "iex",
// the feed available on free accounts.
func NewAlpacaFetcher(client BarClient, feed string) *AlpacaFetcher {
	if feed == "" {
		feed = "iex"
	}
	return &AlpacaFetcher{client: client, feed: marketdata.Feed(feed)}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

// alpacaTimeFrame maps a dashboard interval onto an Alpaca bar size.
func alpacaTimeFrame(tf market.Timeframe) marketdata.TimeFrame {
	switch tf.Range().Interval {
	case "5m":
		return marketdata.NewTimeFrame(5, marketdata.Min)
	case "15m":
		return marketdata.NewTimeFrame(15, marketdata.Min)
	case "1wk":
		return marketdata.NewTimeFrame(1, marketdata.Week)
	case "1mo":
		return marketdata.NewTimeFrame(1, marketdata.Month)
	}
	return marketdata.OneDay
}

// Fetch requests split-adjusted bars over the timeframe's lookback.
func (f *AlpacaFetcher) Fetch(_ context.Context, req Request) (Series, error) {
	if m := market.ForTicker(req.Symbol); m != market.US {
		return Series{}, domain.InvalidInputf("alpaca does not serve %s tickers", m.Label())
	}

	start, end := req.Window()
	bars, err := f.client.GetBars(req.Symbol, marketdata.GetBarsRequest{
		TimeFrame:  alpacaTimeFrame(req.Timeframe),
		Start:      start,
		End:        end,
		Adjustment: marketdata.Split,
		Feed:       f.feed,
	})
	if err != nil {
		return Series{}, err
	}

	s := Series{Symbol: req.Symbol, Provider: f.Name(), Currency: "USD", Bars: make([]domain.Bar, 0, len(bars))}
	for _, ab := range bars {
		s.Bars = append(s.Bars, domain.Bar{
			Symbol:     strings.ToUpper(req.Symbol),
			Timestamp:  ab.Timestamp,
			Open:       ab.Open,
			High:       ab.High,
			Low:        ab.Low,
			Close:      ab.Close,
			Volume:     int64(ab.Volume),
			TradeCount: int64(ab.TradeCount),
			VWAP:       ab.VWAP,
		})
	}
	return s, nil
}
