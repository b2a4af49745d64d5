package news

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// NewsRecord is one article row of a daily news archive file.
type NewsRecord struct {
	Symbol   string `parquet:"symbol"`
	Source   string `parquet:"source"`
	Time     int64  `parquet:"time,timestamp(millisecond)"`
	Headline string `parquet:"headline"`
	Content  string `parquet:"content"`
}

// ArchiveCollector reads previously gathered US news from daily parquet
// files laid out as <DataDir>/us/news/<YYYY-MM-DD>.parquet. Days without a
// file are skipped. The archive is never written.
//
// One archive holds both articles and StockTwits posts; a collector returns
// only the rows of its own kind, so the news and social toggles apply to
// archived rows too.
type ArchiveCollector struct {
	DataDir string
	Social  bool
}

var _ Collector = (*ArchiveCollector)(nil)

// NewArchiveCollectors returns the news and social collectors over dir.
func NewArchiveCollectors(dir string) []Collector {
	return []Collector{
		&ArchiveCollector{DataDir: dir},
		&ArchiveCollector{DataDir: dir, Social: true},
	}
}

func (c *ArchiveCollector) Name() string {
	if c.Social {
		return "archive-social"
	}
	return "archive"
}

func (c *ArchiveCollector) Kind() domain.SourceKind {
	if c.Social {
		return domain.SourceSocial
	}
	return domain.SourceNews
}

// Collect returns the archived rows of the collector's kind for q.Symbol
// dated inside the window. StockTwits rows are social documents.
func (c *ArchiveCollector) Collect(ctx context.Context, q Query) ([]domain.Document, error) {
	symbol := strings.ToUpper(q.Symbol)
	var docs []domain.Document

	start := time.Date(q.Start.Year(), q.Start.Month(), q.Start.Day(), 0, 0, 0, 0, time.UTC)
	for d := start; !d.After(q.End); d = d.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		records, err := parquet.ReadFile[NewsRecord](c.path(d))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, err
		}

		for _, r := range records {
			if r.Symbol != symbol {
				continue
			}
			ts := time.UnixMilli(r.Time).UTC()
			if !q.Contains(ts) {
				continue
			}
			d := archiveDocument(r, ts)
			if d.Source != c.Kind() {
				continue
			}
			docs = append(docs, d)
			if q.Limit > 0 && len(docs) >= q.Limit {
				return docs, nil
			}
		}
	}
	return docs, nil
}

func archiveDocument(r NewsRecord, ts time.Time) domain.Document {
	d := domain.Document{
		Text:      joinText(r.Headline, r.Content),
		Timestamp: ts,
		Source:    domain.SourceNews,
		Provider:  "archive/" + r.Source,
		Title:     r.Headline,
	}
	if r.Source == "stocktwits" {
		d.Source = domain.SourceSocial
		d.Text = r.Content
		d.Author = strings.TrimPrefix(r.Headline, "@")
	}
	return d
}

// path returns <DataDir>/us/news/<YYYY-MM-DD>.parquet.
func (c *ArchiveCollector) path(day time.Time) string {
	return filepath.Join(c.DataDir, "us", "news", day.Format("2006-01-02")+".parquet")
}
