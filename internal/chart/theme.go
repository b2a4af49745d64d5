package chart

import "github.com/arnet007/StockSentimentPro/internal/sentiment"

// Theme holds the colours and template applied to every figure.
type Theme struct {
	Template string // Plotly template, e.g. "plotly_white"
	Height   int

	Up   string
	Down string
	Line string

	Positive string
	Neutral  string
	Negative string
}

// DefaultTheme is the light theme.
func DefaultTheme() Theme {
	return Theme{
		Template: "plotly_white",
		Height:   450,
		Up:       "#26a69a",
		Down:     "#ef5350",
		Line:     "#1f77b4",
		Positive: "#2e7d32",
		Neutral:  "#757575",
		Negative: "#c62828",
	}
}

// LabelColor returns the colour for a sentiment label.
func (t Theme) LabelColor(l sentiment.Label) string {
	switch l {
	case sentiment.Positive:
		return t.Positive
	case sentiment.Negative:
		return t.Negative
	}
	return t.Neutral
}
