package chart

import (
	"fmt"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/sentiment"
)

var labels = []sentiment.Label{sentiment.Positive, sentiment.Neutral, sentiment.Negative}

// DistributionFigure is a donut of the positive/neutral/negative counts.
// An empty summary yields a figure without traces.
func DistributionFigure(s sentiment.Summary, t Theme) Figure {
	fig := Figure{Layout: baseLayout("Sentiment distribution", t)}
	fig.Layout.ShowLegend = true
	fig.Layout.HoverMode = ""
	if s.Total == 0 {
		return fig
	}

	counts := []float64{float64(s.PositiveCount), float64(s.NeutralCount), float64(s.NegativeCount)}
	names := make([]string, len(labels))
	colors := make([]string, len(labels))
	for i, l := range labels {
		names[i] = string(l)
		colors[i] = t.LabelColor(l)
	}
	fig.Data = []Trace{{
		Type:   "pie",
		Labels: names,
		Values: counts,
		Hole:   0.4,
		Marker: &Marker{Colors: colors},
	}}
	return fig
}

// TrendFigure plots the mean polarity of each non-empty bucket. Gaps stay
// gaps: buckets without documents are not drawn as zero.
func TrendFigure(s sentiment.Summary, t Theme) Figure {
	fig := Figure{Layout: baseLayout("Sentiment trend", t)}
	fig.Layout.XAxis = &Axis{Type: "date"}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Mean polarity"}, Range: []float64{-1, 1}}
	fig.Layout.Shapes = []Shape{hline(0, t.Neutral)}
	if len(s.BucketSeries) == 0 {
		return fig
	}

	x := make([]time.Time, len(s.BucketSeries))
	y := make([]float64, len(s.BucketSeries))
	text := make([]string, len(s.BucketSeries))
	colors := make([]string, len(s.BucketSeries))
	for i, b := range s.BucketSeries {
		x[i], y[i] = b.Start, b.MeanPolarity
		text[i] = fmt.Sprintf("%d documents", b.Count)
		colors[i] = t.LabelColor(sentiment.Classify(b.MeanPolarity))
	}
	fig.Data = []Trace{{
		Type:          "scatter",
		Mode:          "lines+markers",
		Name:          "Mean polarity",
		X:             x,
		Y:             y,
		Text:          text,
		HoverTemplate: "%{x}<br>%{y:.3f}<br>%{text}<extra></extra>",
		Line:          &Line{Color: t.Line, Width: 2},
		Marker:        &Marker{Color: colors, Size: 8},
	}}
	return fig
}

// TimelineFigure places every scored document at (timestamp, polarity), one
// trace per label.
func TimelineFigure(docs []domain.ScoredDocument, t Theme) Figure {
	fig := Figure{Layout: baseLayout("Document timeline", t)}
	fig.Layout.ShowLegend = true
	fig.Layout.HoverMode = "closest"
	fig.Layout.XAxis = &Axis{Type: "date"}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Polarity"}, Range: []float64{-1.05, 1.05}}
	fig.Layout.Shapes = []Shape{
		hline(sentiment.NeutralBand, t.Neutral),
		hline(-sentiment.NeutralBand, t.Neutral),
	}

	type group struct {
		x    []time.Time
		y    []float64
		text []string
	}
	groups := make(map[sentiment.Label]*group)
	for _, d := range docs {
		l := sentiment.Classify(d.Polarity)
		g, ok := groups[l]
		if !ok {
			g = &group{}
			groups[l] = g
		}
		title := d.Title
		if title == "" {
			title = d.Text
		}
		g.x = append(g.x, d.Timestamp)
		g.y = append(g.y, d.Polarity)
		g.text = append(g.text, fmt.Sprintf("%s: %s", d.Provider, truncate(title, 80)))
	}

	for _, l := range labels {
		g, ok := groups[l]
		if !ok {
			continue
		}
		fig.Data = append(fig.Data, Trace{
			Type:          "scatter",
			Mode:          "markers",
			Name:          string(l),
			X:             g.x,
			Y:             g.y,
			Text:          g.text,
			HoverTemplate: "%{text}<br>%{y:.3f}<extra></extra>",
			Marker:        &Marker{Color: t.LabelColor(l), Size: 9},
		})
	}
	return fig
}

// HistogramFigure draws the fixed polarity bins as bars.
func HistogramFigure(s sentiment.Summary, t Theme) Figure {
	fig := Figure{Layout: baseLayout("Polarity distribution", t)}
	fig.Layout.HoverMode = "closest"
	fig.Layout.XAxis = &Axis{Title: &Title{Text: "Polarity"}, Range: []float64{-1, 1}}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Documents"}}
	fig.Layout.BarGap = 0.05
	if s.Total == 0 {
		return fig
	}

	centers := make([]float64, len(s.Histogram))
	widths := make([]float64, len(s.Histogram))
	counts := make([]int, len(s.Histogram))
	colors := make([]string, len(s.Histogram))
	for i, b := range s.Histogram {
		centers[i] = (b.Low + b.High) / 2
		widths[i] = b.High - b.Low
		counts[i] = b.Count
		colors[i] = t.LabelColor(sentiment.Classify(centers[i]))
	}
	fig.Data = []Trace{{
		Type:   "bar",
		Name:   "Documents",
		X:      centers,
		Y:      counts,
		Width:  widths,
		Marker: &Marker{Color: colors},
	}}
	return fig
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
