package news

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// DefaultStockTwitsBaseURL is the StockTwits public API host.
const DefaultStockTwitsBaseURL = "https://api.stocktwits.com"

// StockTwitsCollector reads the latest page (about 30 messages) of a
// symbol's StockTwits stream. Only US symbols are queried.
type StockTwitsCollector struct {
	BaseURL   string
	Client    *http.Client
	UserAgent string
}

var _ Collector = (*StockTwitsCollector)(nil)

// NewStockTwitsCollector returns a collector against baseURL, or the public
// host when baseURL is empty.
func NewStockTwitsCollector(baseURL string, client *http.Client, userAgent string) *StockTwitsCollector {
	if baseURL == "" {
		baseURL = DefaultStockTwitsBaseURL
	}
	return &StockTwitsCollector{BaseURL: strings.TrimRight(baseURL, "/"), Client: client, UserAgent: userAgent}
}

func (c *StockTwitsCollector) Name() string            { return "stocktwits" }
func (c *StockTwitsCollector) Kind() domain.SourceKind { return domain.SourceSocial }

type stocktwitsResponse struct {
	Response struct {
		Status int `json:"status"`
	} `json:"response"`
	Messages []stocktwitsMessage `json:"messages"`
}

type stocktwitsMessage struct {
	ID        int    `json:"id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	User      struct {
		Username string `json:"username"`
	} `json:"user"`
}

// Collect fetches one page of messages; messages outside the window are
// dropped.
func (c *StockTwitsCollector) Collect(ctx context.Context, q Query) ([]domain.Document, error) {
	if market.ForTicker(q.Symbol) != market.US {
		return nil, nil
	}

	u := c.BaseURL + "/api/2/streams/symbol/" + url.PathEscape(q.Symbol) + ".json"
	var st stocktwitsResponse
	if err := util.GetJSON(ctx, c.Client, u, c.UserAgent, &st); err != nil {
		return nil, err
	}
	if st.Response.Status != http.StatusOK {
		return nil, fmt.Errorf("stocktwits status %d", st.Response.Status)
	}

	limit := q.Limit
	docs := make([]domain.Document, 0, len(st.Messages))
	for _, msg := range st.Messages {
		t, err := time.Parse(time.RFC3339, msg.CreatedAt)
		if err != nil || !q.Contains(t) {
			continue
		}
		docs = append(docs, domain.Document{
			Text:      html.UnescapeString(msg.Body),
			Timestamp: t.UTC(),
			Source:    domain.SourceSocial,
			Provider:  c.Name(),
			Title:     "@" + msg.User.Username,
			Link:      fmt.Sprintf("https://stocktwits.com/%s/message/%d", msg.User.Username, msg.ID),
			Author:    msg.User.Username,
		})
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	return docs, nil
}
