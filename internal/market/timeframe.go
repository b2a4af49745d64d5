package market

import (
	"strings"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Timeframe is a price-chart range selection such as "1M".
type Timeframe string

const (
	OneDay     Timeframe = "1D"
	FiveDays   Timeframe = "5D"
	OneMonth   Timeframe = "1M"
	SixMonths  Timeframe = "6M"
	YearToDate Timeframe = "YTD"
	OneYear    Timeframe = "1Y"
	FiveYears  Timeframe = "5Y"
	Max        Timeframe = "MAX"
)

// Range pairs a Yahoo-style period with its bar interval.
type Range struct {
	Period   string // 1d, 5d, 1mo, 6mo, ytd, 1y, 5y, max
	Interval string // 5m, 15m, 1d, 1wk, 1mo
}

var timeframes = map[Timeframe]Range{
	OneDay:     {Period: "1d", Interval: "5m"},
	FiveDays:   {Period: "5d", Interval: "15m"},
	OneMonth:   {Period: "1mo", Interval: "1d"},
	SixMonths:  {Period: "6mo", Interval: "1d"},
	YearToDate: {Period: "ytd", Interval: "1d"},
	OneYear:    {Period: "1y", Interval: "1d"},
	FiveYears:  {Period: "5y", Interval: "1wk"},
	Max:        {Period: "max", Interval: "1mo"},
}

// Timeframes returns all timeframes in display order.
func Timeframes() []Timeframe {
	return []Timeframe{OneDay, FiveDays, OneMonth, SixMonths, YearToDate, OneYear, FiveYears, Max}
}

// ParseTimeframe accepts a timeframe code case-insensitively.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := timeframes[tf]; !ok {
		return "", domain.InvalidInputf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Range returns the period/interval pair for tf.
func (tf Timeframe) Range() Range {
	return timeframes[tf]
}

// Lookback returns how far before now the timeframe reaches.
func (tf Timeframe) Lookback(now time.Time) time.Duration {
	switch tf.Range().Period {
	case "1d":
		return 24 * time.Hour
	case "5d":
		return 5 * 24 * time.Hour
	case "1mo":
		return 30 * 24 * time.Hour
	case "6mo":
		return 180 * 24 * time.Hour
	case "ytd":
		return now.Sub(time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()))
	case "1y":
		return 365 * 24 * time.Hour
	case "5y":
		return 5 * 365 * 24 * time.Hour
	case "max":
		return 50 * 365 * 24 * time.Hour
	}
	return 30 * 24 * time.Hour
}

// ChartType selects how the primary price series is drawn.
type ChartType string

const (
	Candlestick ChartType = "candlestick"
	Line        ChartType = "line"
	OHLC        ChartType = "ohlc"
	Area        ChartType = "area"
)

// ChartTypes returns all chart types in display order.
func ChartTypes() []ChartType {
	return []ChartType{Candlestick, Line, OHLC, Area}
}

// ParseChartType accepts a chart type case-insensitively.
func ParseChartType(s string) (ChartType, error) {
	ct := ChartType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ChartTypes() {
		if ct == known {
			return ct, nil
		}
	}
	return "", domain.InvalidInputf("unknown chart type %q", s)
}

// LookbackOptions are the sentiment windows offered in the UI.
var LookbackOptions = []int{1, 3, 7, 14, 30}

// MaxLookbackDays bounds the sentiment window.
const MaxLookbackDays = 30

// ValidateLookback rejects sentiment windows outside 1..MaxLookbackDays.
func ValidateLookback(days int) error {
	if days < 1 || days > MaxLookbackDays {
		return domain.InvalidInputf("lookback must be between 1 and %d days, got %d", MaxLookbackDays, days)
	}
	return nil
}
