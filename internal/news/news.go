// Package news collects raw text documents about a ticker from news and
// social sources: Yahoo Finance search, Alpaca, Google News RSS,
// GlobeNewswire RSS, StockTwits, and a local parquet archive.
package news

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Query selects documents for one ticker over [Start, End].
type Query struct {
	Symbol string
	Start  time.Time
	End    time.Time
	Limit  int // per collector; 0 means the collector's default
}

// Contains reports whether t falls inside the query window.
func (q Query) Contains(t time.Time) bool {
	return !t.Before(q.Start) && !t.After(q.End)
}

// Collector fetches documents from one source.
type Collector interface {
	Name() string
	Kind() domain.SourceKind
	Collect(ctx context.Context, q Query) ([]domain.Document, error)
}

// Failure records one source that could not be collected. Err always
// matches domain.ErrNetwork.
type Failure struct {
	Source string
	Err    error
}

// Result is the outcome of Gather.
type Result struct {
	Documents []domain.Document // newest first
	Failures  []Failure
	PerSource map[string]int
}

// Gather runs each collector in turn and merges their documents. A failing
// collector is recorded in Failures and the remaining collectors still run.
// Documents outside the query window are dropped and duplicates (same kind
// and link, or same kind and text when there is no link) are merged.
func Gather(ctx context.Context, collectors []Collector, q Query, log *slog.Logger) Result {
	if log == nil {
		log = slog.Default()
	}
	res := Result{Documents: []domain.Document{}, PerSource: make(map[string]int)}
	seen := make(map[string]bool)

	for _, c := range collectors {
		if err := ctx.Err(); err != nil {
			res.Failures = append(res.Failures, Failure{Source: c.Name(), Err: domain.NetworkError(c.Name(), err)})
			continue
		}

		start := time.Now()
		docs, err := c.Collect(ctx, q)
		if err != nil {
			log.Warn("collecting documents", "source", c.Name(), "symbol", q.Symbol, "error", err)
			res.Failures = append(res.Failures, Failure{Source: c.Name(), Err: domain.NetworkError(c.Name(), err)})
			continue
		}

		kept := 0
		for _, d := range docs {
			if !q.Contains(d.Timestamp) {
				continue
			}
			key := dedupKey(d)
			if seen[key] {
				continue
			}
			seen[key] = true
			res.Documents = append(res.Documents, d)
			kept++
		}
		res.PerSource[c.Name()] = kept
		log.Debug("collected documents", "source", c.Name(), "symbol", q.Symbol,
			"fetched", len(docs), "kept", kept, "elapsed", time.Since(start))
	}

	sort.SliceStable(res.Documents, func(i, j int) bool {
		return res.Documents[i].Timestamp.After(res.Documents[j].Timestamp)
	})
	return res
}

func dedupKey(d domain.Document) string {
	if d.Link != "" {
		return string(d.Source) + "|" + d.Link
	}
	return string(d.Source) + "|" + d.Text
}

// Filter returns the collectors whose kind is enabled.
func Filter(collectors []Collector, news, social bool) []Collector {
	var out []Collector
	for _, c := range collectors {
		switch c.Kind() {
		case domain.SourceNews:
			if news {
				out = append(out, c)
			}
		case domain.SourceSocial:
			if social {
				out = append(out, c)
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

func limitOr(limit, def int) int {
	if limit > 0 {
		return limit
	}
	return def
}

// joinText joins a headline and body into one scoring text.
func joinText(headline, body string) string {
	switch {
	case body == "":
		return headline
	case headline == "":
		return body
	}
	return headline + ". " + body
}
