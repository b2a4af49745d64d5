// Package sentiment scores documents with a lexicon classifier and reduces
// the scores into summary statistics for the dashboard.
package sentiment

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonreiter/govader"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Scorer maps a text to a polarity in [-1, 1].
type Scorer interface {
	Score(text string) (float64, error)
}

// VaderScorer scores text with the VADER lexicon and reports the compound
// score as polarity.
type VaderScorer struct {
	sia *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer loads the VADER lexicon.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{sia: govader.NewSentimentIntensityAnalyzer()}
}

// Score cleans text and returns its VADER compound score. Text that is not
// valid UTF-8 or is empty after cleaning yields an ErrScoring.
func (s *VaderScorer) Score(text string) (float64, error) {
	if !utf8.ValidString(text) {
		return 0, fmt.Errorf("%w: text is not valid UTF-8", domain.ErrScoring)
	}
	cleaned := CleanText(text)
	if cleaned == "" {
		return 0, fmt.Errorf("%w: no words left after cleaning", domain.ErrScoring)
	}

	compound := s.sia.PolarityScores(cleaned).Compound
	if math.IsNaN(compound) {
		return 0, fmt.Errorf("%w: classifier returned NaN", domain.ErrScoring)
	}
	return math.Max(-1, math.Min(1, compound)), nil
}

var (
	urlRe     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	nonWordRe = regexp.MustCompile(`[^\p{L}\s]+`)
	spaceRe   = regexp.MustCompile(`\s+`)
)

// CleanText removes URLs, drops everything that is not a letter or
// whitespace, and collapses runs of whitespace.
func CleanText(text string) string {
	text = urlRe.ReplaceAllString(text, " ")
	text = nonWordRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ScoreAll scores each document in order. Documents the scorer rejects are
// dropped and counted in skipped.
func ScoreAll(scorer Scorer, docs []domain.Document) (scored []domain.ScoredDocument, skipped int) {
	scored = make([]domain.ScoredDocument, 0, len(docs))
	for _, d := range docs {
		p, err := scorer.Score(d.Text)
		if err != nil {
			skipped++
			continue
		}
		scored = append(scored, domain.ScoredDocument{Document: d, Polarity: p})
	}
	return scored, skipped
}
