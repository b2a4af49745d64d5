package prices

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// DefaultYahooBaseURL is the Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher reads the Yahoo Finance v8 chart endpoint. It serves every
// market, including NSE/BSE suffixed tickers and indices.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

var _ Fetcher = (*YahooFetcher)(nil)

// NewYahooFetcher returns a fetcher against baseURL, or the public host when
// baseURL is empty.
func NewYahooFetcher(baseURL string, client *http.Client, userAgent string) *YahooFetcher {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooFetcher{BaseURL: strings.TrimRight(baseURL, "/"), Client: client, UserAgent: userAgent}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *chartError   `json:"error"`
	} `json:"chart"`
}

type chartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta struct {
		Symbol           string  `json:"symbol"`
		Currency         string  `json:"currency"`
		ExchangeName     string  `json:"exchangeName"`
		LongName         string  `json:"longName"`
		ShortName        string  `json:"shortName"`
		FiftyTwoWeekHigh float64 `json:"fiftyTwoWeekHigh"`
		FiftyTwoWeekLow  float64 `json:"fiftyTwoWeekLow"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
	} `json:"indicators"`
}

// Fetch requests range/interval for the timeframe. Points with a missing
// open, high, low, or close are skipped.
func (f *YahooFetcher) Fetch(ctx context.Context, req Request) (Series, error) {
	rng := req.Timeframe.Range()
	v := url.Values{}
	v.Set("range", rng.Period)
	v.Set("interval", rng.Interval)
	v.Set("includePrePost", "false")
	u := f.BaseURL + "/v8/finance/chart/" + url.PathEscape(req.Symbol) + "?" + v.Encode()

	var resp chartResponse
	if err := util.GetJSON(ctx, f.Client, u, f.UserAgent, &resp); err != nil {
		return Series{}, err
	}
	if e := resp.Chart.Error; e != nil {
		return Series{}, fmt.Errorf("yahoo chart %s: %s", e.Code, e.Description)
	}
	if len(resp.Chart.Result) == 0 {
		return Series{Symbol: req.Symbol, Provider: f.Name()}, nil
	}
	return convertChart(req.Symbol, resp.Chart.Result[0]), nil
}

func convertChart(symbol string, r chartResult) Series {
	name := r.Meta.LongName
	if name == "" {
		name = r.Meta.ShortName
	}
	s := Series{
		Symbol:   symbol,
		Name:     name,
		Currency: r.Meta.Currency,
		Exchange: r.Meta.ExchangeName,
		High52:   r.Meta.FiftyTwoWeekHigh,
		Low52:    r.Meta.FiftyTwoWeekLow,
		Provider: "yahoo",
	}
	if len(r.Indicators.Quote) == 0 {
		return s
	}
	q := r.Indicators.Quote[0]

	at := func(vals []*float64, i int) (float64, bool) {
		if i >= len(vals) || vals[i] == nil {
			return 0, false
		}
		return *vals[i], true
	}

	s.Bars = make([]domain.Bar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		o, ok1 := at(q.Open, i)
		h, ok2 := at(q.High, i)
		l, ok3 := at(q.Low, i)
		c, ok4 := at(q.Close, i)
		if !(ok1 && ok2 && ok3 && ok4) {
			continue
		}
		vol, _ := at(q.Volume, i)
		s.Bars = append(s.Bars, domain.Bar{
			Symbol:    symbol,
			Timestamp: time.Unix(ts, 0).UTC(),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    int64(vol),
		})
	}
	return s
}
