package prices

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
)

// Router sends each request to the provider configured for the ticker's
// market, falling back to a default provider.
type Router struct {
	routes   map[market.Market]Fetcher
	fallback Fetcher
	log      *slog.Logger
}

var _ Fetcher = (*Router)(nil)

// NewRouter returns a router that uses fallback for unrouted markets.
func NewRouter(fallback Fetcher, log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}
	return &Router{routes: make(map[market.Market]Fetcher), fallback: fallback, log: log}
}

// Route assigns f to market m.
func (r *Router) Route(m market.Market, f Fetcher) {
	r.routes[m] = f
}

// For returns the provider that serves symbol.
func (r *Router) For(symbol string) Fetcher {
	if f, ok := r.routes[market.ForTicker(symbol)]; ok {
		return f
	}
	return r.fallback
}

func (r *Router) Name() string { return "router" }

// Fetch returns the series for req. Provider failures and empty series are
// reported as domain.ErrNetwork; invalid requests keep their
// domain.ErrInvalidInput kind.
func (r *Router) Fetch(ctx context.Context, req Request) (Series, error) {
	f := r.For(req.Symbol)
	if f == nil {
		return Series{}, domain.NetworkError("prices", fmt.Errorf("no provider for %s", req.Symbol))
	}

	s, err := f.Fetch(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return Series{}, err
		}
		r.log.Warn("fetching bars", "provider", f.Name(), "symbol", req.Symbol, "timeframe", req.Timeframe, "error", err)
		return Series{}, domain.NetworkError(f.Name(), err)
	}
	if len(s.Bars) == 0 {
		return Series{}, domain.NetworkError(f.Name(), fmt.Errorf("no data found for %s", req.Symbol))
	}

	r.log.Debug("fetched bars", "provider", f.Name(), "symbol", req.Symbol, "timeframe", req.Timeframe, "bars", len(s.Bars))
	return s, nil
}
