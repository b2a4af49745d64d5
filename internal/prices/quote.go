package prices

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Quote summarises the latest bar against the previous one.
type Quote struct {
	Last          decimal.Decimal
	Previous      decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal // rounded to 2 places; zero when Previous is zero
	Volume        int64
	AsOf          time.Time
}

var hundred = decimal.NewFromInt(100)

// ComputeQuote derives the quote from ascending bars. With a single bar the
// previous close is that bar's own close. It reports false for no bars.
func ComputeQuote(bars []domain.Bar) (Quote, bool) {
	if len(bars) == 0 {
		return Quote{}, false
	}
	last := bars[len(bars)-1]
	prev := bars[0]
	if len(bars) > 1 {
		prev = bars[len(bars)-2]
	}

	q := Quote{
		Last:     decimal.NewFromFloat(last.Close),
		Previous: decimal.NewFromFloat(prev.Close),
		Volume:   last.Volume,
		AsOf:     last.Timestamp,
	}
	q.Change = q.Last.Sub(q.Previous)
	if !q.Previous.IsZero() {
		q.ChangePercent = q.Change.Div(q.Previous).Mul(hundred).Round(2)
	}
	return q, true
}

// Up reports whether the last close is at or above the previous close.
func (q Quote) Up() bool {
	return !q.Change.IsNegative()
}
