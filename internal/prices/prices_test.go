package prices

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

var now = time.Date(2024, 5, 10, 20, 0, 0, 0, time.UTC)

func bars(closes ...float64) []domain.Bar {
	out := make([]domain.Bar, len(closes))
	for i, c := range closes {
		out[i] = domain.Bar{
			Symbol:    "TEST",
			Timestamp: now.AddDate(0, 0, i-len(closes)+1),
			Open:      c, High: c, Low: c, Close: c,
			Volume: int64(1000 * (i + 1)),
		}
	}
	return out
}

const chartPayload = `{"chart":{"result":[{
  "meta":{"symbol":"TCS.NS","currency":"INR","exchangeName":"NSI","longName":"Tata Consultancy Services Limited",
          "fiftyTwoWeekHigh":4592.25,"fiftyTwoWeekLow":3311.0},
  "timestamp":[1715146200,1715232600,1715319000],
  "indicators":{"quote":[{
    "open":[3900.0,null,3950.5],
    "high":[3920.0,3940.0,3990.0],
    "low":[3880.0,3900.0,3940.0],
    "close":[3910.0,3930.0,3980.25],
    "volume":[1200000,900000,null]
  }]}
}],"error":null}}`

func TestYahooFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v8/finance/chart/TCS.NS" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "1mo" {
			t.Errorf("range = %q, want 1mo", got)
		}
		if got := r.URL.Query().Get("interval"); got != "1d" {
			t.Errorf("interval = %q, want 1d", got)
		}
		w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, util.NewHTTPClient(time.Second), "")
	s, err := f.Fetch(context.Background(), Request{Symbol: "TCS.NS", Timeframe: market.OneMonth, Now: now})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if s.Name != "Tata Consultancy Services Limited" || s.Currency != "INR" || s.Exchange != "NSI" {
		t.Errorf("metadata = %q/%q/%q", s.Name, s.Currency, s.Exchange)
	}
	if s.High52 != 4592.25 || s.Low52 != 3311.0 {
		t.Errorf("52w = %v/%v", s.High52, s.Low52)
	}
	if len(s.Bars) != 2 {
		t.Fatalf("len(Bars) = %d, want 2 (bar with null open skipped)", len(s.Bars))
	}
	if s.Bars[1].Close != 3980.25 || s.Bars[1].Volume != 0 {
		t.Errorf("Bars[1] = %+v", s.Bars[1])
	}
	if s.Bars[0].Timestamp.Unix() != 1715146200 {
		t.Errorf("Bars[0].Timestamp = %v", s.Bars[0].Timestamp)
	}
}

func TestYahooFetcherChartError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer srv.Close()

	f := NewYahooFetcher(srv.URL, util.NewHTTPClient(time.Second), "")
	if _, err := f.Fetch(context.Background(), Request{Symbol: "NOPE", Timeframe: market.OneDay}); err == nil {
		t.Fatal("Fetch should return the chart error")
	}
}

type fakeBarClient struct {
	symbol string
	req    marketdata.GetBarsRequest
	bars   []marketdata.Bar
	err    error
}

func (f *fakeBarClient) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.symbol, f.req = symbol, req
	return f.bars, f.err
}

func TestAlpacaFetcher(t *testing.T) {
	fc := &fakeBarClient{bars: []marketdata.Bar{
		{Timestamp: now.Add(-24 * time.Hour), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 100, TradeCount: 7, VWAP: 1.2},
		{Timestamp: now, Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 200, TradeCount: 9, VWAP: 1.8},
	}}
	f := NewAlpacaFetcher(fc, "sip")

	s, err := f.Fetch(context.Background(), Request{Symbol: "aapl", Timeframe: market.FiveYears, Now: now})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if fc.symbol != "aapl" {
		t.Errorf("symbol = %q", fc.symbol)
	}
	if fc.req.TimeFrame != marketdata.NewTimeFrame(1, marketdata.Week) {
		t.Errorf("TimeFrame = %v, want 1Week", fc.req.TimeFrame)
	}
	if want := now.Add(-5 * 365 * 24 * time.Hour); !fc.req.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", fc.req.Start, want)
	}
	if len(s.Bars) != 2 || s.Bars[1].TradeCount != 9 || s.Bars[1].Symbol != "AAPL" {
		t.Errorf("Bars = %+v", s.Bars)
	}
}

func TestAlpacaTimeFrame(t *testing.T) {
	tests := map[market.Timeframe]marketdata.TimeFrame{
		market.OneDay:     marketdata.NewTimeFrame(5, marketdata.Min),
		market.FiveDays:   marketdata.NewTimeFrame(15, marketdata.Min),
		market.OneYear:    marketdata.OneDay,
		market.Max:        marketdata.NewTimeFrame(1, marketdata.Month),
		market.YearToDate: marketdata.OneDay,
	}
	for tf, want := range tests {
		if got := alpacaTimeFrame(tf); got != want {
			t.Errorf("alpacaTimeFrame(%s) = %v, want %v", tf, got, want)
		}
	}
}

func TestAlpacaFetcherRejectsNonUS(t *testing.T) {
	f := NewAlpacaFetcher(&fakeBarClient{}, "")
	_, err := f.Fetch(context.Background(), Request{Symbol: "INFY.NS", Timeframe: market.OneMonth})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("Fetch(INFY.NS) error = %v, want ErrInvalidInput", err)
	}
}

func TestArchiveFetcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "us", "daily", "AAPL", "2024.parquet")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	records := []BarRecord{
		{Symbol: "AAPL", Timestamp: now.AddDate(0, 0, -1).UnixMilli(), Open: 1, High: 1, Low: 1, Close: 11, Volume: 10},
		{Symbol: "AAPL", Timestamp: now.AddDate(0, 0, -3).UnixMilli(), Open: 1, High: 1, Low: 1, Close: 9, Volume: 10},
		{Symbol: "AAPL", Timestamp: now.AddDate(0, -3, 0).UnixMilli(), Open: 1, High: 1, Low: 1, Close: 5, Volume: 10},
	}
	if err := parquet.WriteFile(path, records); err != nil {
		t.Fatalf("writing archive: %v", err)
	}

	f := &ArchiveFetcher{DataDir: dir}
	s, err := f.Fetch(context.Background(), Request{Symbol: "AAPL", Timeframe: market.OneMonth, Now: now})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(s.Bars) != 2 {
		t.Fatalf("len(Bars) = %d, want 2", len(s.Bars))
	}
	if s.Bars[0].Close != 9 || s.Bars[1].Close != 11 {
		t.Errorf("Bars not ascending: %+v", s.Bars)
	}
}

func TestArchiveFetcherMissing(t *testing.T) {
	f := &ArchiveFetcher{DataDir: t.TempDir()}
	s, err := f.Fetch(context.Background(), Request{Symbol: "RELIANCE.NS", Timeframe: market.OneYear, Now: now})
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(s.Bars) != 0 {
		t.Errorf("len(Bars) = %d, want 0", len(s.Bars))
	}
}

type stubFetcher struct {
	name   string
	series Series
	err    error
	calls  int
}

func (s *stubFetcher) Name() string { return s.name }
func (s *stubFetcher) Fetch(context.Context, Request) (Series, error) {
	s.calls++
	return s.series, s.err
}

func TestRouter(t *testing.T) {
	yahoo := &stubFetcher{name: "yahoo", series: Series{Bars: bars(1, 2)}}
	alpaca := &stubFetcher{name: "alpaca", series: Series{Bars: bars(3)}}
	r := NewRouter(yahoo, nil)
	r.Route(market.US, alpaca)

	if _, err := r.Fetch(context.Background(), Request{Symbol: "MSFT"}); err != nil {
		t.Fatalf("Fetch(MSFT) returned error: %v", err)
	}
	if _, err := r.Fetch(context.Background(), Request{Symbol: "INFY.NS"}); err != nil {
		t.Fatalf("Fetch(INFY.NS) returned error: %v", err)
	}
	if alpaca.calls != 1 || yahoo.calls != 1 {
		t.Errorf("calls alpaca=%d yahoo=%d, want 1/1", alpaca.calls, yahoo.calls)
	}
}

func TestRouterErrors(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *stubFetcher
		want    error
	}{
		{"provider failure", &stubFetcher{name: "p", err: errors.New("timeout")}, domain.ErrNetwork},
		{"empty series", &stubFetcher{name: "p"}, domain.ErrNetwork},
		{"invalid input", &stubFetcher{name: "p", err: domain.InvalidInputf("bad")}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRouter(tt.fetcher, nil).Fetch(context.Background(), Request{Symbol: "X"})
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestComputeQuote(t *testing.T) {
	q, ok := ComputeQuote(bars(100, 110))
	if !ok {
		t.Fatal("ComputeQuote reported no quote")
	}
	if !q.Change.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Change = %s, want 10", q.Change)
	}
	if !q.ChangePercent.Equal(decimal.NewFromInt(10)) {
		t.Errorf("ChangePercent = %s, want 10", q.ChangePercent)
	}
	if q.Volume != 2000 {
		t.Errorf("Volume = %d, want 2000", q.Volume)
	}

	q, _ = ComputeQuote(bars(3, 2))
	if want := decimal.RequireFromString("-33.33"); !q.ChangePercent.Equal(want) {
		t.Errorf("ChangePercent = %s, want %s", q.ChangePercent, want)
	}
	if q.Up() {
		t.Error("Up() = true for a falling quote")
	}
}

func TestComputeQuoteEdges(t *testing.T) {
	if _, ok := ComputeQuote(nil); ok {
		t.Error("ComputeQuote(nil) reported a quote")
	}

	q, _ := ComputeQuote(bars(42))
	if !q.Change.IsZero() || !q.ChangePercent.IsZero() {
		t.Errorf("single bar change = %s / %s%%, want 0", q.Change, q.ChangePercent)
	}

	q, _ = ComputeQuote(bars(0, 5))
	if !q.ChangePercent.IsZero() {
		t.Errorf("ChangePercent with zero previous = %s, want 0", q.ChangePercent)
	}
}

func TestNormalize(t *testing.T) {
	pts := Normalize(Series{Bars: bars(50, 75, 25)})
	want := []float64{100, 150, 50}
	if len(pts) != len(want) {
		t.Fatalf("len = %d, want %d", len(pts), len(want))
	}
	for i, w := range want {
		if pts[i].Value != w {
			t.Errorf("pts[%d] = %v, want %v", i, pts[i].Value, w)
		}
	}
	if Normalize(Series{Bars: bars(0, 1)}) != nil {
		t.Error("Normalize with zero first close should be nil")
	}
}

func TestParseOverlays(t *testing.T) {
	got := ParseOverlays(" SMA, rsi,bogus,sma ")
	if len(got) != 2 || got[0] != SMA || got[1] != RSI {
		t.Errorf("ParseOverlays = %v, want [sma rsi]", got)
	}
	if got := ParseOverlays(""); len(got) != 0 {
		t.Errorf("ParseOverlays(\"\") = %v, want empty", got)
	}
}

func TestComputeOverlays(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	s := Series{Bars: bars(closes...)}

	sma, ok := Compute(SMA, s)
	if !ok {
		t.Fatal("SMA not computed for 30 bars")
	}
	if len(sma.Points) != 11 {
		t.Fatalf("len(SMA points) = %d, want 11", len(sma.Points))
	}
	if math.Abs(sma.Points[0].Value-10.5) > 1e-9 || math.Abs(sma.Points[10].Value-20.5) > 1e-9 {
		t.Errorf("SMA endpoints = %v, %v; want 10.5, 20.5", sma.Points[0].Value, sma.Points[10].Value)
	}
	if !sma.Points[0].Time.Equal(s.Bars[19].Timestamp) {
		t.Errorf("SMA first point at %v, want %v", sma.Points[0].Time, s.Bars[19].Timestamp)
	}
	if sma.Name != "SMA 20" {
		t.Errorf("Name = %q, want SMA 20", sma.Name)
	}

	rsi, ok := Compute(RSI, s)
	if !ok {
		t.Fatal("RSI not computed for 30 bars")
	}
	if last := rsi.Points[len(rsi.Points)-1].Value; math.Abs(last-100) > 1e-9 {
		t.Errorf("RSI of a rising series = %v, want 100", last)
	}

	if _, ok := Compute(EMA, s); ok {
		t.Error("EMA 50 computed from 30 bars")
	}
	if _, ok := Compute("macd", s); ok {
		t.Error("unknown overlay computed")
	}
}
