// Package market holds the dashboard's fixed vocabulary: markets and their
// default tickers, timeframes, chart types, and ticker normalisation.
package market

import (
	"strings"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Market selects an exchange (or the index list).
type Market string

const (
	NSE     Market = "NSE"
	BSE     Market = "BSE"
	US      Market = "US"
	Indices Market = "INDICES"
)

// All returns the markets in display order.
func All() []Market {
	return []Market{NSE, BSE, US, Indices}
}

// Label is the human-readable market name shown in the selector.
func (m Market) Label() string {
	switch m {
	case NSE:
		return "India (NSE)"
	case BSE:
		return "India (BSE)"
	case US:
		return "US"
	case Indices:
		return "Indices"
	}
	return string(m)
}

// ParseMarket accepts a market code case-insensitively.
func ParseMarket(s string) (Market, error) {
	m := Market(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range All() {
		if m == known {
			return m, nil
		}
	}
	return "", domain.InvalidInputf("unknown market %q", s)
}

var defaultTickers = map[Market][]string{
	NSE: {
		"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS",
		"HINDUNILVR.NS", "SBIN.NS", "AXISBANK.NS", "BAJFINANCE.NS", "KOTAKBANK.NS",
	},
	BSE: {
		"RELIANCE.BO", "TCS.BO", "HDFCBANK.BO", "INFY.BO", "ICICIBANK.BO",
		"HINDUNILVR.BO", "SBIN.BO", "AXISBANK.BO", "BAJFINANCE.BO", "KOTAKBANK.BO",
	},
	US: {
		"AAPL", "MSFT", "AMZN", "GOOGL", "META",
		"TSLA", "NVDA", "BRK-B", "JPM", "JNJ",
	},
	Indices: {
		"^NSEI", "^BSESN", "^GSPC", "^DJI", "^IXIC",
		"^FTSE", "^N225", "^HSI", "^GDAXI", "^FCHI",
	},
}

// DefaultTickers returns a copy of the preset ticker list for m.
func DefaultTickers(m Market) []string {
	return append([]string(nil), defaultTickers[m]...)
}

// Comparables returns peer tickers on the same exchange as ticker, excluding
// ticker itself.
func Comparables(ticker string) []string {
	var peers []string
	switch {
	case strings.HasSuffix(ticker, ".NS"):
		peers = []string{"RELIANCE.NS", "TCS.NS", "HDFCBANK.NS", "INFY.NS", "ICICIBANK.NS"}
	case strings.HasSuffix(ticker, ".BO"):
		peers = []string{"RELIANCE.BO", "TCS.BO", "HDFCBANK.BO", "INFY.BO", "ICICIBANK.BO"}
	case strings.HasPrefix(ticker, "^"):
		peers = []string{"^NSEI", "^BSESN", "^GSPC", "^DJI", "^IXIC"}
	default:
		peers = []string{"AAPL", "MSFT", "AMZN", "GOOGL", "META"}
	}

	out := make([]string, 0, len(peers))
	for _, p := range peers {
		if p != ticker {
			out = append(out, p)
		}
	}
	return out
}

// ForTicker guesses the market of an already formatted ticker.
func ForTicker(ticker string) Market {
	switch {
	case strings.HasSuffix(ticker, ".NS"):
		return NSE
	case strings.HasSuffix(ticker, ".BO"):
		return BSE
	case strings.HasPrefix(ticker, "^"):
		return Indices
	}
	return US
}
