// Package domain defines the typed records that flow between the collectors,
// the scorer, the aggregator, the price fetchers, and the renderer.
package domain

import "time"

// ---------------------------------------------------------------------------
// Price data
// ---------------------------------------------------------------------------

// Bar is a single OHLCV price bar.
type Bar struct {
	Symbol     string
	Timestamp  time.Time
	Open       float64
	High       float64
	Low        float64
	Close      float64
	Volume     int64
	TradeCount int64
	VWAP       float64
}

// ---------------------------------------------------------------------------
// Text data
// ---------------------------------------------------------------------------

// SourceKind separates editorial news from social posts.
type SourceKind string

const (
	SourceNews   SourceKind = "news"
	SourceSocial SourceKind = "social"
)

// Document is one collected piece of raw text. Documents are never modified
// after collection.
type Document struct {
	Text      string
	Timestamp time.Time
	Source    SourceKind

	// Display-only metadata.
	Provider string // "yahoo", "alpaca", "google", "globenewswire", "stocktwits", "archive"
	Title    string
	Link     string
	Author   string
}

// ScoredDocument is a Document with its polarity in [-1, 1].
type ScoredDocument struct {
	Document
	Polarity float64
}
