package sentiment

import (
	"math"
	"sort"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
)

// Grid partitions time into fixed-width buckets starting at Origin. Bucket i
// covers [Origin + i*Width, Origin + (i+1)*Width).
type Grid struct {
	Origin time.Time
	Width  time.Duration
}

// DailyGrid returns a one-day grid whose first bucket starts at midnight (in
// end's location) of the first day of a days-long window ending at end.
func DailyGrid(end time.Time, days int) Grid {
	first := end.AddDate(0, 0, -(days - 1))
	origin := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, end.Location())
	return Grid{Origin: origin, Width: 24 * time.Hour}
}

// Bucket is the mean polarity of the documents falling in one grid cell.
type Bucket struct {
	Start        time.Time
	MeanPolarity float64
	Count        int
}

// HistogramBin counts polarities in [Low, High). The last bin also includes
// High (1.0).
type HistogramBin struct {
	Low   float64
	High  float64
	Count int
}

// HistogramBins is the number of equal-width bins over [-1, 1].
const HistogramBins = 10

// SourceBreakdown summarises one source kind.
type SourceBreakdown struct {
	Source        domain.SourceKind
	Total         int
	PositiveCount int
	NeutralCount  int
	NegativeCount int
	MeanPolarity  float64
	Primary       Label
}

// Summary holds the statistics for one set of scored documents. Invariant:
// PositiveCount + NeutralCount + NegativeCount == Total.
type Summary struct {
	Total         int
	Skipped       int // documents the scorer could not score; not part of Total
	MeanPolarity  float64
	PositiveCount int
	NeutralCount  int
	NegativeCount int
	Primary       Label

	// BucketSeries lists non-empty buckets in ascending time order. Buckets
	// without documents are absent, not zero.
	BucketSeries []Bucket
	Histogram    []HistogramBin
	Sources      []SourceBreakdown
}

// Percent returns the share of documents with label l, in percent.
func (s Summary) Percent(l Label) float64 {
	if s.Total == 0 {
		return 0
	}
	var n int
	switch l {
	case Positive:
		n = s.PositiveCount
	case Neutral:
		n = s.NeutralCount
	case Negative:
		n = s.NegativeCount
	}
	return float64(n) / float64(s.Total) * 100
}

// Source returns the breakdown for kind, if any documents of that kind were
// aggregated.
func (s Summary) Source(kind domain.SourceKind) (SourceBreakdown, bool) {
	for _, b := range s.Sources {
		if b.Source == kind {
			return b, true
		}
	}
	return SourceBreakdown{Source: kind, Primary: Neutral}, false
}

type accumulator struct {
	sum           float64
	n             int
	pos, neu, neg int
}

func (a *accumulator) add(p float64) {
	a.sum += p
	a.n++
	switch Classify(p) {
	case Positive:
		a.pos++
	case Negative:
		a.neg++
	default:
		a.neu++
	}
}

func (a *accumulator) mean() float64 {
	if a.n == 0 {
		return 0
	}
	return a.sum / float64(a.n)
}

// Aggregate reduces docs to a Summary bucketed on grid. It fails with
// ErrInvalidInput if any polarity is NaN or outside [-1, 1], or if the grid
// width is not positive. An empty input yields a zero-valued summary with a
// neutral primary label.
func Aggregate(docs []domain.ScoredDocument, grid Grid) (Summary, error) {
	if grid.Width <= 0 {
		return Summary{}, domain.InvalidInputf("bucket width must be positive, got %s", grid.Width)
	}
	for i, d := range docs {
		if math.IsNaN(d.Polarity) || d.Polarity < -1 || d.Polarity > 1 {
			return Summary{}, domain.InvalidInputf("document %d has polarity %v outside [-1, 1]", i, d.Polarity)
		}
	}

	var (
		total   accumulator
		buckets = make(map[int64]*accumulator)
		sources = make(map[domain.SourceKind]*accumulator)
		hist    = newHistogram()
	)

	for _, d := range docs {
		total.add(d.Polarity)

		idx := bucketIndex(d.Timestamp, grid)
		b, ok := buckets[idx]
		if !ok {
			b = &accumulator{}
			buckets[idx] = b
		}
		b.add(d.Polarity)

		src, ok := sources[d.Source]
		if !ok {
			src = &accumulator{}
			sources[d.Source] = src
		}
		src.add(d.Polarity)

		hist[histogramIndex(hist, d.Polarity)].Count++
	}

	s := Summary{
		Total:         total.n,
		MeanPolarity:  total.mean(),
		PositiveCount: total.pos,
		NeutralCount:  total.neu,
		NegativeCount: total.neg,
		Primary:       Majority(total.pos, total.neu, total.neg),
		BucketSeries:  []Bucket{},
		Histogram:     hist,
		Sources:       []SourceBreakdown{},
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for _, k := range keys {
		b := buckets[k]
		s.BucketSeries = append(s.BucketSeries, Bucket{
			Start:        grid.Origin.Add(time.Duration(k) * grid.Width),
			MeanPolarity: b.mean(),
			Count:        b.n,
		})
	}

	for _, kind := range []domain.SourceKind{domain.SourceNews, domain.SourceSocial} {
		if a, ok := sources[kind]; ok {
			s.Sources = append(s.Sources, breakdown(kind, a))
			delete(sources, kind)
		}
	}
	// Unknown kinds go last in a stable order.
	var rest []domain.SourceKind
	for kind := range sources {
		rest = append(rest, kind)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	for _, kind := range rest {
		s.Sources = append(s.Sources, breakdown(kind, sources[kind]))
	}

	return s, nil
}

func breakdown(kind domain.SourceKind, a *accumulator) SourceBreakdown {
	return SourceBreakdown{
		Source:        kind,
		Total:         a.n,
		PositiveCount: a.pos,
		NeutralCount:  a.neu,
		NegativeCount: a.neg,
		MeanPolarity:  a.mean(),
		Primary:       Majority(a.pos, a.neu, a.neg),
	}
}

// bucketIndex floors (t - origin) / width, also for t before origin.
func bucketIndex(t time.Time, g Grid) int64 {
	d := t.Sub(g.Origin)
	idx := int64(d / g.Width)
	if d%g.Width < 0 {
		idx--
	}
	return idx
}

func newHistogram() []HistogramBin {
	bins := make([]HistogramBin, HistogramBins)
	w := 2.0 / HistogramBins
	for i := range bins {
		bins[i].Low = roundTenth(-1 + float64(i)*w)
		bins[i].High = roundTenth(-1 + float64(i+1)*w)
	}
	return bins
}

// histogramIndex compares p against the rounded bin edges so that a
// polarity equal to an edge lands in the bin starting there.
func histogramIndex(bins []HistogramBin, p float64) int {
	i := sort.Search(len(bins), func(i int) bool { return bins[i].High > p })
	if i >= len(bins) {
		i = len(bins) - 1
	}
	return i
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
