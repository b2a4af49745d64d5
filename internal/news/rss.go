package news

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

const (
	DefaultGoogleNewsBaseURL    = "https://news.google.com"
	DefaultGlobeNewswireBaseURL = "https://www.globenewswire.com"
)

// RSSCollector reads a per-symbol RSS feed.
type RSSCollector struct {
	name   string
	feed   func(symbol string) (string, bool)
	parser *gofeed.Parser

	// Google appends " - Publisher" to titles and repeats the title in the
	// description.
	googleTitles bool
	limit        int
}

var _ Collector = (*RSSCollector)(nil)

func newParser(client *http.Client, userAgent string) *gofeed.Parser {
	p := gofeed.NewParser()
	p.Client = client
	if userAgent == "" {
		userAgent = util.DefaultUserAgent
	}
	p.UserAgent = userAgent
	return p
}

// NewGoogleNewsCollector searches Google News for "<symbol> stock". Suffixed
// tickers are searched by their base symbol.
func NewGoogleNewsCollector(baseURL string, client *http.Client, userAgent string, limit int) *RSSCollector {
	if baseURL == "" {
		baseURL = DefaultGoogleNewsBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &RSSCollector{
		name: "google",
		feed: func(symbol string) (string, bool) {
			q := url.QueryEscape(market.BaseSymbol(symbol) + " stock")
			return baseURL + "/rss/search?q=" + q + "&hl=en-US&gl=US&ceid=US:en", true
		},
		parser:       newParser(client, userAgent),
		googleTitles: true,
		limit:        limit,
	}
}

// NewGlobeNewswireCollector reads GlobeNewswire press releases for US
// symbols.
func NewGlobeNewswireCollector(baseURL string, client *http.Client, userAgent string, limit int) *RSSCollector {
	if baseURL == "" {
		baseURL = DefaultGlobeNewswireBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	return &RSSCollector{
		name: "globenewswire",
		feed: func(symbol string) (string, bool) {
			if market.ForTicker(symbol) != market.US {
				return "", false
			}
			return baseURL + "/RssFeed/keyword/" + url.PathEscape(symbol) + "/feedTitle/GlobeNewswire.xml", true
		},
		parser: newParser(client, userAgent),
		limit:  limit,
	}
}

func (c *RSSCollector) Name() string            { return c.name }
func (c *RSSCollector) Kind() domain.SourceKind { return domain.SourceNews }

// Collect parses the feed for q.Symbol. Items without a parseable date are
// dropped.
func (c *RSSCollector) Collect(ctx context.Context, q Query) ([]domain.Document, error) {
	u, ok := c.feed(q.Symbol)
	if !ok {
		return nil, nil
	}

	feed, err := c.parser.ParseURLWithContext(u, ctx)
	if err != nil {
		return nil, err
	}

	limit := limitOr(q.Limit, c.limit)
	docs := make([]domain.Document, 0, len(feed.Items))
	for _, item := range feed.Items {
		ts, ok := itemTime(item)
		if !ok || !q.Contains(ts) {
			continue
		}

		title, author := item.Title, ""
		body := StripHTML(item.Description)
		if c.googleTitles {
			title, author = splitPublisher(item.Title)
			body = ""
		}
		if author == "" && item.Author != nil {
			author = item.Author.Name
		}

		docs = append(docs, domain.Document{
			Text:      joinText(title, body),
			Timestamp: ts,
			Source:    domain.SourceNews,
			Provider:  c.name,
			Title:     title,
			Link:      item.Link,
			Author:    author,
		})
		if limit > 0 && len(docs) >= limit {
			break
		}
	}
	return docs, nil
}

func itemTime(item *gofeed.Item) (time.Time, bool) {
	switch {
	case item.PublishedParsed != nil:
		return item.PublishedParsed.UTC(), true
	case item.UpdatedParsed != nil:
		return item.UpdatedParsed.UTC(), true
	}
	return time.Time{}, false
}
