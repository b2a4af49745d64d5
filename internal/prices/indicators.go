package prices

import (
	"fmt"
	"strings"

	"github.com/markcheno/go-talib"
)

// Indicator names accepted in overlay lists.
const (
	SMA = "sma"
	EMA = "ema"
	RSI = "rsi"
)

// Default periods.
const (
	SMAPeriod = 20
	EMAPeriod = 50
	RSIPeriod = 14
)

// Overlay is an indicator line aligned to the tail of a series.
type Overlay struct {
	Name   string // e.g. "SMA 20"
	Kind   string
	Period int
	Points []Point
}

// ParseOverlays splits a comma-separated list of indicator names and keeps
// the known ones in first-seen order.
func ParseOverlays(s string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		switch f {
		case SMA, EMA, RSI:
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	return out
}

// Compute returns the overlay kind over s with its default period. It
// reports false when s has too few bars for the period.
func Compute(kind string, s Series) (Overlay, bool) {
	closes := s.Closes()
	var (
		period int
		values []float64
		first  int // index of the first defined value
	)
	switch kind {
	case SMA:
		period = SMAPeriod
		if len(closes) < period {
			return Overlay{}, false
		}
		values, first = talib.Sma(closes, period), period-1
	case EMA:
		period = EMAPeriod
		if len(closes) < period {
			return Overlay{}, false
		}
		values, first = talib.Ema(closes, period), period-1
	case RSI:
		period = RSIPeriod
		if len(closes) <= period {
			return Overlay{}, false
		}
		values, first = talib.Rsi(closes, period), period
	default:
		return Overlay{}, false
	}

	o := Overlay{
		Name:   fmt.Sprintf("%s %d", strings.ToUpper(kind), period),
		Kind:   kind,
		Period: period,
		Points: make([]Point, 0, len(values)-first),
	}
	for i := first; i < len(values) && i < len(s.Bars); i++ {
		o.Points = append(o.Points, Point{Time: s.Bars[i].Timestamp, Value: values[i]})
	}
	return o, true
}
