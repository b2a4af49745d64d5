package prices

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
)

// BarRecord is the parquet schema for daily bar data.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// ArchiveFetcher reads daily bars from an on-disk parquet archive:
//
//	<DataDir>/<market>/daily/<SYMBOL>/<YYYY>.parquet
//
// Every timeframe is answered with daily bars. The archive is never written.
type ArchiveFetcher struct {
	DataDir string
}

var _ Fetcher = (*ArchiveFetcher)(nil)

func (f *ArchiveFetcher) Name() string { return "archive" }

// Fetch reads each year file overlapping the request window. Missing years
// are skipped.
func (f *ArchiveFetcher) Fetch(ctx context.Context, req Request) (Series, error) {
	start, end := req.Window()
	dir := marketDir(market.ForTicker(req.Symbol))

	s := Series{Symbol: req.Symbol, Provider: f.Name()}
	for year := start.Year(); year <= end.Year(); year++ {
		if err := ctx.Err(); err != nil {
			return Series{}, err
		}

		path := f.barPath(req.Symbol, dir, year)
		records, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Series{}, fmt.Errorf("reading %s: %w", path, err)
		}

		for _, r := range records {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if ts.Before(start) || ts.After(end) {
				continue
			}
			s.Bars = append(s.Bars, domain.Bar{
				Symbol:     r.Symbol,
				Timestamp:  ts,
				Open:       r.Open,
				High:       r.High,
				Low:        r.Low,
				Close:      r.Close,
				Volume:     r.Volume,
				TradeCount: r.TradeCount,
				VWAP:       r.VWAP,
			})
		}
	}

	sort.Slice(s.Bars, func(i, j int) bool { return s.Bars[i].Timestamp.Before(s.Bars[j].Timestamp) })
	return s, nil
}

func marketDir(m market.Market) string {
	return strings.ToLower(string(m))
}

// barPath returns <DataDir>/<market>/daily/<SYMBOL>/<YYYY>.parquet.
func (f *ArchiveFetcher) barPath(symbol, dir string, year int) string {
	return filepath.Join(f.DataDir, dir, "daily", strings.ToUpper(symbol), fmt.Sprintf("%d.parquet", year))
}
