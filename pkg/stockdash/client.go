// Package stockdash is a Go client for the stock-dashboard JSON API.
package stockdash

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/httpapi"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// Client talks to a running stock-dashboard server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new dashboard API client.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: util.NewHTTPClient(30 * time.Second),
	}
}

// APIError is a non-200 answer from the server.
type APIError struct {
	Status  int
	Kind    string // "invalid_input", "network", "internal"
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dashboard API %d (%s): %s", e.Status, e.Kind, e.Message)
}

// BarsOptions narrow a bars request. Zero values use the server defaults.
type BarsOptions struct {
	Market    string
	Timeframe string
	ChartType string
	Compare   []string
	Overlays  []string
}

// SentimentOptions narrow a sentiment request. Zero values use the server
// defaults; both sources are on unless disabled.
type SentimentOptions struct {
	Market   string
	Days     int
	NoNews   bool
	NoSocial bool
}

// Markets retrieves the selectable markets, timeframes, and chart types.
func (c *Client) Markets(ctx context.Context) (*httpapi.MarketsResponse, error) {
	var resp httpapi.MarketsResponse
	if err := c.get(ctx, "/api/markets", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Bars retrieves the price view for a ticker.
func (c *Client) Bars(ctx context.Context, ticker string, opt BarsOptions) (*httpapi.BarsResponse, error) {
	q := url.Values{}
	setIf(q, "market", opt.Market)
	setIf(q, "timeframe", opt.Timeframe)
	setIf(q, "chart", opt.ChartType)
	setIf(q, "compare", strings.Join(opt.Compare, ","))
	setIf(q, "overlays", strings.Join(opt.Overlays, ","))

	var resp httpapi.BarsResponse
	if err := c.get(ctx, "/api/bars/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Sentiment retrieves the sentiment view for a ticker.
func (c *Client) Sentiment(ctx context.Context, ticker string, opt SentimentOptions) (*httpapi.SentimentResponse, error) {
	q := url.Values{}
	setIf(q, "market", opt.Market)
	if opt.Days > 0 {
		q.Set("days", strconv.Itoa(opt.Days))
	}
	if opt.NoNews {
		q.Set("news", "0")
	}
	if opt.NoSocial {
		q.Set("social", "0")
	}

	var resp httpapi.SentimentResponse
	if err := c.get(ctx, "/api/sentiment/"+url.PathEscape(ticker), q, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func setIf(q url.Values, key, v string) {
	if v != "" {
		q.Set(key, v)
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, v any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	err := util.GetJSON(ctx, c.httpClient, u, "stockdash-client", v)
	var se *util.StatusError
	if errors.As(err, &se) {
		apiErr := &APIError{Status: se.Code, Kind: "unknown", Message: se.Body}
		var body httpapi.ErrorResponse
		if json.Unmarshal([]byte(se.Body), &body) == nil && body.Error != "" {
			apiErr.Kind = body.Kind
			apiErr.Message = body.Error
		}
		return apiErr
	}
	return err
}
