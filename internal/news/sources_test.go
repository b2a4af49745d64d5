package news

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/parquet-go/parquet-go"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

func TestYahooCollector(t *testing.T) {
	publish := winEnd.Add(-2 * time.Hour).Unix()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/finance/search" {
			t.Errorf("path = %q, want /v1/finance/search", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "RELIANCE.NS" {
			t.Errorf("q = %q, want RELIANCE.NS", q)
		}
		if n := r.URL.Query().Get("newsCount"); n != "5" {
			t.Errorf("newsCount = %q, want 5", n)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"news":[
			{"uuid":"1","title":"Reliance posts record profit","publisher":"Mint","link":"https://example.com/a","providerPublishTime":` +
			itoa(publish) + `},
			{"uuid":"2","title":"","publisher":"Mint","link":"https://example.com/b","providerPublishTime":` + itoa(publish) + `}
		]}`))
	}))
	defer srv.Close()

	c := NewYahooCollector(srv.URL, util.NewHTTPClient(time.Second), 5)
	docs, err := c.Collect(context.Background(), Query{Symbol: "RELIANCE.NS", Start: winStart, End: winEnd})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	d := docs[0]
	if d.Text != "Reliance posts record profit" || d.Author != "Mint" || d.Source != domain.SourceNews {
		t.Errorf("doc = %+v", d)
	}
	if d.Timestamp.Unix() != publish {
		t.Errorf("Timestamp = %v, want unix %d", d.Timestamp, publish)
	}
}

func TestYahooCollectorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewYahooCollector(srv.URL, util.NewHTTPClient(time.Second), 5)
	if _, err := c.Collect(context.Background(), query); err == nil {
		t.Fatal("Collect should fail on HTTP 500")
	}
}

const googleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>AAPL stock - Google News</title>
<item>
  <title>Apple shares jump after upbeat outlook - Reuters</title>
  <link>https://news.example.com/1</link>
  <pubDate>Thu, 09 May 2024 14:00:00 GMT</pubDate>
  <description>&lt;a href="https://news.example.com/1"&gt;Apple shares jump&lt;/a&gt;</description>
</item>
<item>
  <title>Ancient story - Old Times</title>
  <link>https://news.example.com/2</link>
  <pubDate>Mon, 01 Jan 2024 10:00:00 GMT</pubDate>
</item>
</channel></rss>`

func TestGoogleNewsCollector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rss/search" {
			t.Errorf("path = %q, want /rss/search", r.URL.Path)
		}
		if q := r.URL.Query().Get("q"); q != "AAPL stock" {
			t.Errorf("q = %q, want %q", q, "AAPL stock")
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(googleFeed))
	}))
	defer srv.Close()

	c := NewGoogleNewsCollector(srv.URL, util.NewHTTPClient(time.Second), "", 0)
	docs, err := c.Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1 (old item outside window)", len(docs))
	}
	d := docs[0]
	if d.Text != "Apple shares jump after upbeat outlook" {
		t.Errorf("Text = %q", d.Text)
	}
	if d.Author != "Reuters" {
		t.Errorf("Author = %q, want Reuters", d.Author)
	}
	if want := time.Date(2024, 5, 9, 14, 0, 0, 0, time.UTC); !d.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", d.Timestamp, want)
	}
}

func TestGlobeNewswireSkipsNonUS(t *testing.T) {
	c := NewGlobeNewswireCollector("http://127.0.0.1:1", util.NewHTTPClient(time.Second), "", 0)
	docs, err := c.Collect(context.Background(), Query{Symbol: "TCS.NS", Start: winStart, End: winEnd})
	if err != nil || docs != nil {
		t.Errorf("Collect(TCS.NS) = %v, %v; want nil, nil", docs, err)
	}
}

func TestGlobeNewswireCollector(t *testing.T) {
	feed := `<?xml version="1.0"?><rss version="2.0"><channel>
<item><title>Acme announces buyback</title><link>https://gnw.example.com/1</link>
<pubDate>Wed, 08 May 2024 12:30:00 GMT</pubDate>
<description>&lt;p&gt;Acme Corp (NASDAQ: ACME) approved a &lt;b&gt;$1B&lt;/b&gt; buyback.&lt;/p&gt;</description></item>
</channel></rss>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/RssFeed/keyword/ACME/feedTitle/GlobeNewswire.xml" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(feed))
	}))
	defer srv.Close()

	c := NewGlobeNewswireCollector(srv.URL, util.NewHTTPClient(time.Second), "", 0)
	docs, err := c.Collect(context.Background(), Query{Symbol: "ACME", Start: winStart, End: winEnd})
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	if want := "Acme announces buyback. Acme Corp (NASDAQ: ACME) approved a $1B buyback."; docs[0].Text != want {
		t.Errorf("Text = %q, want %q", docs[0].Text, want)
	}
}

func TestStockTwitsCollector(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/2/streams/symbol/AAPL.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(`{"response":{"status":200},"messages":[
			{"id":11,"body":"$AAPL to the moon &amp; beyond","created_at":"2024-05-10T09:00:00Z","user":{"username":"bull"}},
			{"id":10,"body":"old","created_at":"2024-04-01T09:00:00Z","user":{"username":"bear"}}
		]}`))
	}))
	defer srv.Close()

	c := NewStockTwitsCollector(srv.URL, util.NewHTTPClient(time.Second), "")
	docs, err := c.Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("len(docs) = %d, want 1", len(docs))
	}
	d := docs[0]
	if d.Source != domain.SourceSocial {
		t.Errorf("Source = %q, want social", d.Source)
	}
	if d.Text != "$AAPL to the moon & beyond" {
		t.Errorf("Text = %q", d.Text)
	}
	if d.Author != "bull" || d.Link != "https://stocktwits.com/bull/message/11" {
		t.Errorf("Author/Link = %q/%q", d.Author, d.Link)
	}
}

func TestStockTwitsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":{"status":404},"messages":[]}`))
	}))
	defer srv.Close()

	c := NewStockTwitsCollector(srv.URL, util.NewHTTPClient(time.Second), "")
	if _, err := c.Collect(context.Background(), query); err == nil {
		t.Fatal("Collect should fail when response.status is not 200")
	}
}

type fakeNewsClient struct {
	req   marketdata.GetNewsRequest
	calls int
	news  []marketdata.News
	err   error
}

func (f *fakeNewsClient) GetNews(req marketdata.GetNewsRequest) ([]marketdata.News, error) {
	f.calls++
	f.req = req
	return f.news, f.err
}

func TestAlpacaCollector(t *testing.T) {
	fc := &fakeNewsClient{news: []marketdata.News{
		{Headline: "Apple upgraded", Summary: "Analyst sees upside", CreatedAt: winEnd.Add(-time.Hour), URL: "https://b/1", Author: "Benzinga"},
		{Headline: "Apple event", Content: "<p>Other news.</p><p>AAPL unveils products.</p>", CreatedAt: winEnd.Add(-2 * time.Hour)},
	}}
	c := NewAlpacaCollector(fc, 20)

	docs, err := c.Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if fc.req.TotalLimit != 20 || len(fc.req.Symbols) != 1 || fc.req.Symbols[0] != "AAPL" {
		t.Errorf("request = %+v", fc.req)
	}
	if len(docs) != 2 {
		t.Fatalf("len(docs) = %d, want 2", len(docs))
	}
	if docs[0].Text != "Apple upgraded. Analyst sees upside" {
		t.Errorf("docs[0].Text = %q", docs[0].Text)
	}
	if docs[1].Text != "Apple event. AAPL unveils products." {
		t.Errorf("docs[1].Text = %q", docs[1].Text)
	}
}

func TestAlpacaCollectorNonUS(t *testing.T) {
	fc := &fakeNewsClient{}
	docs, err := NewAlpacaCollector(fc, 0).Collect(context.Background(), Query{Symbol: "^NSEI"})
	if err != nil || docs != nil || fc.calls != 0 {
		t.Errorf("Collect(^NSEI) = %v, %v, calls=%d; want no call", docs, err, fc.calls)
	}
}

func TestAlpacaCollectorError(t *testing.T) {
	fc := &fakeNewsClient{err: errors.New("forbidden")}
	if _, err := NewAlpacaCollector(fc, 0).Collect(context.Background(), query); err == nil {
		t.Fatal("Collect should propagate client errors")
	}
}

func writeArchive(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	day := time.Date(2024, 5, 9, 0, 0, 0, 0, time.UTC)
	records := []NewsRecord{
		{Symbol: "AAPL", Source: "alpaca", Time: day.Add(14 * time.Hour).UnixMilli(), Headline: "Apple rallies", Content: "Shares rose."},
		{Symbol: "AAPL", Source: "stocktwits", Time: day.Add(15 * time.Hour).UnixMilli(), Headline: "@trader", Content: "buying more"},
		{Symbol: "MSFT", Source: "alpaca", Time: day.Add(14 * time.Hour).UnixMilli(), Headline: "Other", Content: ""},
	}
	path := filepath.Join(dir, "us", "news", "2024-05-09.parquet")
	if err := mkdirFor(path); err != nil {
		t.Fatal(err)
	}
	if err := parquet.WriteFile(path, records); err != nil {
		t.Fatalf("writing archive: %v", err)
	}
	return dir
}

func TestArchiveCollector(t *testing.T) {
	dir := writeArchive(t)

	docs, err := (&ArchiveCollector{DataDir: dir}).Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("news: len(docs) = %d, want 1", len(docs))
	}
	if docs[0].Text != "Apple rallies. Shares rose." || docs[0].Source != domain.SourceNews {
		t.Errorf("news doc = %+v", docs[0])
	}

	docs, err = (&ArchiveCollector{DataDir: dir, Social: true}).Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect returned error: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("social: len(docs) = %d, want 1", len(docs))
	}
	if docs[0].Source != domain.SourceSocial || docs[0].Author != "trader" || docs[0].Text != "buying more" {
		t.Errorf("social doc = %+v", docs[0])
	}
}

func TestArchiveCollectorsFollowToggles(t *testing.T) {
	cols := NewArchiveCollectors(writeArchive(t))

	tests := []struct {
		name         string
		news, social bool
		want         []string
	}{
		{"news only", true, false, []string{"Apple rallies. Shares rose."}},
		{"social only", false, true, []string{"buying more"}},
		{"both", true, true, []string{"buying more", "Apple rallies. Shares rose."}},
		{"neither", false, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Gather(context.Background(), Filter(cols, tt.news, tt.social), query, nil)
			if len(res.Documents) != len(tt.want) {
				t.Fatalf("len(docs) = %d, want %d: %+v", len(res.Documents), len(tt.want), res.Documents)
			}
			for i, d := range res.Documents {
				if d.Text != tt.want[i] {
					t.Errorf("docs[%d].Text = %q, want %q", i, d.Text, tt.want[i])
				}
				if d.Source == domain.SourceSocial && !tt.social {
					t.Errorf("social doc %q returned with social disabled", d.Text)
				}
				if d.Source == domain.SourceNews && !tt.news {
					t.Errorf("news doc %q returned with news disabled", d.Text)
				}
			}
		})
	}
}

func TestArchiveCollectorMissingDir(t *testing.T) {
	c := &ArchiveCollector{DataDir: t.TempDir()}
	docs, err := c.Collect(context.Background(), query)
	if err != nil {
		t.Fatalf("Collect on empty archive returned error: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("len(docs) = %d, want 0", len(docs))
	}
}
