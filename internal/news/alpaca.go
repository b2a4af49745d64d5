package news

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
)

// NewsClient is the subset of *marketdata.Client used for news.
type NewsClient interface {
	GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error)
}

var _ NewsClient = (*marketdata.Client)(nil)

// AlpacaCollector fetches Benzinga news through the Alpaca market-data API.
// Alpaca only carries US symbols; other tickers yield no documents.
type AlpacaCollector struct {
	client NewsClient
	limit  int
}

var _ Collector = (*AlpacaCollector)(nil)

// NewAlpacaCollector wraps client. limit caps the total number of articles.
func NewAlpacaCollector(client NewsClient, limit int) *AlpacaCollector {
	return &AlpacaCollector{client: client, limit: limit}
}

func (c *AlpacaCollector) Name() string            { return "alpaca" }
func (c *AlpacaCollector) Kind() domain.SourceKind { return domain.SourceNews }

// Collect fetches articles for q.Symbol within the window, oldest first.
func (c *AlpacaCollector) Collect(_ context.Context, q Query) ([]domain.Document, error) {
	if market.ForTicker(q.Symbol) != market.US {
		return nil, nil
	}

	items, err := c.client.GetNews(marketdata.GetNewsRequest{
		Symbols:            []string{q.Symbol},
		Start:              q.Start,
		End:                q.End,
		TotalLimit:         limitOr(q.Limit, limitOr(c.limit, 50)),
		IncludeContent:     true,
		ExcludeContentless: false,
		Sort:               marketdata.SortAsc,
	})
	if err != nil {
		return nil, err
	}

	docs := make([]domain.Document, 0, len(items))
	for _, a := range items {
		body := a.Summary
		if body == "" && a.Content != "" {
			body = ExtractSymbolContent(a.Content, q.Symbol)
		}
		docs = append(docs, domain.Document{
			Text:      joinText(a.Headline, body),
			Timestamp: a.CreatedAt,
			Source:    domain.SourceNews,
			Provider:  c.Name(),
			Title:     a.Headline,
			Link:      a.URL,
			Author:    a.Author,
		})
	}
	return docs, nil
}
