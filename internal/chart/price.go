package chart

import (
	"fmt"
	"time"

	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/prices"
)

// PriceOptions controls the price figure.
type PriceOptions struct {
	ChartType   market.ChartType
	Overlays    []prices.Overlay // SMA/EMA lines; RSI belongs in RSIFigure
	Comparisons []prices.Series
}

// Normalised reports whether the figure is drawn rebased to 100. Only line
// and area charts carry comparison series.
func (o PriceOptions) Normalised() bool {
	return len(o.Comparisons) > 0 && (o.ChartType == market.Line || o.ChartType == market.Area)
}

func seriesLabel(s prices.Series) string {
	if s.Name != "" && s.Name != s.Symbol {
		return fmt.Sprintf("%s (%s)", s.Name, s.Symbol)
	}
	return s.Symbol
}

// PriceFigure draws s in the chosen chart type. With comparisons on a line
// or area chart every series is rebased to 100 and overlays are left out.
func PriceFigure(s prices.Series, opt PriceOptions, t Theme) Figure {
	fig := Figure{Layout: baseLayout(seriesLabel(s)+" price", t)}
	fig.Layout.ShowLegend = true
	fig.Layout.XAxis = &Axis{Type: "date"}
	yTitle := "Price"
	if s.Currency != "" {
		yTitle = "Price (" + s.Currency + ")"
	}

	if opt.Normalised() {
		fig.Data = append(fig.Data, lineTrace(s.Symbol, prices.Normalize(s), t.Line, opt.ChartType == market.Area))
		for _, c := range opt.Comparisons {
			pts := prices.Normalize(c)
			if pts == nil {
				continue
			}
			fig.Data = append(fig.Data, lineTrace(c.Symbol, pts, "", false))
		}
		fig.Layout.YAxis = &Axis{Title: &Title{Text: "Normalised (first = 100)"}}
		return fig
	}

	times := s.Times()
	switch opt.ChartType {
	case market.Candlestick, market.OHLC:
		tr := Trace{
			Type:       string(opt.ChartType),
			Name:       s.Symbol,
			X:          times,
			Open:       make([]float64, len(s.Bars)),
			High:       make([]float64, len(s.Bars)),
			Low:        make([]float64, len(s.Bars)),
			Close:      make([]float64, len(s.Bars)),
			Increasing: &Direction{Line: Line{Color: t.Up}},
			Decreasing: &Direction{Line: Line{Color: t.Down}},
		}
		for i, b := range s.Bars {
			tr.Open[i], tr.High[i], tr.Low[i], tr.Close[i] = b.Open, b.High, b.Low, b.Close
		}
		fig.Data = append(fig.Data, tr)
		fig.Layout.XAxis.RangeSlider = &Toggle{Visible: false}
	default:
		tr := Trace{Type: "scatter", Mode: "lines", Name: s.Symbol, X: times, Y: s.Closes(), Line: &Line{Color: t.Line, Width: 2}}
		if opt.ChartType == market.Area {
			tr.Fill = "tozeroy"
		}
		fig.Data = append(fig.Data, tr)
	}

	for _, o := range opt.Overlays {
		if o.Kind == prices.RSI {
			continue
		}
		dash := ""
		if o.Kind == prices.EMA {
			dash = "dot"
		}
		fig.Data = append(fig.Data, pointTrace(o.Name, o.Points, Line{Width: 1.5, Dash: dash}))
	}

	fig.Layout.YAxis = &Axis{Title: &Title{Text: yTitle}}
	return fig
}

func lineTrace(name string, pts []prices.Point, color string, fill bool) Trace {
	tr := pointTrace(name, pts, Line{Color: color, Width: 2})
	if fill {
		tr.Fill = "tozeroy"
	}
	return tr
}

func pointTrace(name string, pts []prices.Point, line Line) Trace {
	x := make([]time.Time, len(pts))
	y := make([]float64, len(pts))
	for i, p := range pts {
		x[i], y[i] = p.Time, p.Value
	}
	return Trace{Type: "scatter", Mode: "lines", Name: name, X: x, Y: y, Line: &line}
}

// VolumeFigure draws one bar per price bar, coloured by direction.
func VolumeFigure(s prices.Series, t Theme) Figure {
	fig := Figure{Layout: baseLayout(s.Symbol+" volume", t)}
	fig.Layout.Height = t.Height / 2
	fig.Layout.XAxis = &Axis{Type: "date"}
	fig.Layout.YAxis = &Axis{Title: &Title{Text: "Volume"}}

	vols := make([]int64, len(s.Bars))
	colors := make([]string, len(s.Bars))
	for i, b := range s.Bars {
		vols[i] = b.Volume
		colors[i] = t.Up
		if b.Close < b.Open {
			colors[i] = t.Down
		}
	}
	fig.Data = []Trace{{Type: "bar", Name: "Volume", X: s.Times(), Y: vols, Marker: &Marker{Color: colors}}}
	return fig
}

// RSIFigure draws an RSI overlay with the 30/70 reference lines.
func RSIFigure(o prices.Overlay, t Theme) Figure {
	fig := Figure{Layout: baseLayout(o.Name, t)}
	fig.Layout.Height = t.Height / 2
	fig.Layout.XAxis = &Axis{Type: "date"}
	fig.Layout.YAxis = &Axis{Range: []float64{0, 100}}
	fig.Layout.Shapes = []Shape{hline(70, t.Down), hline(30, t.Up)}
	fig.Data = []Trace{pointTrace(o.Name, o.Points, Line{Color: t.Line, Width: 1.5})}
	return fig
}
