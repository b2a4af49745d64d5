package news

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// DefaultYahooBaseURL is the Yahoo Finance query host.
const DefaultYahooBaseURL = "https://query2.finance.yahoo.com"

// YahooCollector reads the news list of the Yahoo Finance search endpoint.
// It covers every market, including NSE/BSE suffixed tickers and indices.
type YahooCollector struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Limit     int
}

var _ Collector = (*YahooCollector)(nil)

// NewYahooCollector returns a collector against baseURL, or the public host
// when baseURL is empty.
func NewYahooCollector(baseURL string, client *http.Client, limit int) *YahooCollector {
	if baseURL == "" {
		baseURL = DefaultYahooBaseURL
	}
	return &YahooCollector{BaseURL: strings.TrimRight(baseURL, "/"), Client: client, Limit: limit}
}

func (c *YahooCollector) Name() string            { return "yahoo" }
func (c *YahooCollector) Kind() domain.SourceKind { return domain.SourceNews }

type yahooSearchResponse struct {
	News []yahooNewsItem `json:"news"`
}

type yahooNewsItem struct {
	UUID                string `json:"uuid"`
	Title               string `json:"title"`
	Publisher           string `json:"publisher"`
	Link                string `json:"link"`
	ProviderPublishTime int64  `json:"providerPublishTime"` // Unix seconds
}

// Collect fetches the most recent headlines for q.Symbol. Yahoo does not
// accept a date range; the window is applied by Gather.
func (c *YahooCollector) Collect(ctx context.Context, q Query) ([]domain.Document, error) {
	limit := limitOr(q.Limit, limitOr(c.Limit, 10))
	v := url.Values{}
	v.Set("q", q.Symbol)
	v.Set("newsCount", strconv.Itoa(limit))
	v.Set("quotesCount", "0")
	u := c.BaseURL + "/v1/finance/search?" + v.Encode()

	var resp yahooSearchResponse
	if err := util.GetJSON(ctx, c.Client, u, c.UserAgent, &resp); err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(resp.News))
	for _, item := range resp.News {
		if item.Title == "" || item.ProviderPublishTime == 0 {
			continue
		}
		docs = append(docs, domain.Document{
			Text:      item.Title,
			Timestamp: time.Unix(item.ProviderPublishTime, 0).UTC(),
			Source:    domain.SourceNews,
			Provider:  c.Name(),
			Title:     item.Title,
			Link:      item.Link,
			Author:    item.Publisher,
		})
	}
	return docs, nil
}
