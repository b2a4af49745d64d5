// Package chart builds Plotly figure descriptions for the dashboard. The
// browser renders them with plotly.js; nothing here draws pixels.
package chart

// Figure is a Plotly figure: traces plus layout. It marshals to the JSON
// accepted by Plotly.newPlot.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Empty reports whether the figure has no traces.
func (f Figure) Empty() bool { return len(f.Data) == 0 }

// Trace is the union of the trace attributes the dashboard uses.
type Trace struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
	Mode string `json:"mode,omitempty"`

	X any `json:"x,omitempty"`
	Y any `json:"y,omitempty"`

	Open  []float64 `json:"open,omitempty"`
	High  []float64 `json:"high,omitempty"`
	Low   []float64 `json:"low,omitempty"`
	Close []float64 `json:"close,omitempty"`

	Labels []string  `json:"labels,omitempty"`
	Values []float64 `json:"values,omitempty"`
	Hole   float64   `json:"hole,omitempty"`

	Width any `json:"width,omitempty"`

	Text          []string `json:"text,omitempty"`
	HoverTemplate string   `json:"hovertemplate,omitempty"`
	Fill          string   `json:"fill,omitempty"`
	YAxis         string   `json:"yaxis,omitempty"`

	Marker *Marker `json:"marker,omitempty"`
	Line   *Line   `json:"line,omitempty"`

	Increasing *Direction `json:"increasing,omitempty"`
	Decreasing *Direction `json:"decreasing,omitempty"`
}

// Marker styles points, bars, and pie slices. Color is a single colour or a
// per-point list.
type Marker struct {
	Color  any     `json:"color,omitempty"`
	Colors any     `json:"colors,omitempty"`
	Size   float64 `json:"size,omitempty"`
}

// Line styles a line trace.
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
	Dash  string  `json:"dash,omitempty"`
}

// Direction styles the rising or falling side of a candlestick/ohlc trace.
type Direction struct {
	Line Line `json:"line"`
}

// Layout is the subset of the Plotly layout the dashboard sets.
type Layout struct {
	Title      *Title  `json:"title,omitempty"`
	XAxis      *Axis   `json:"xaxis,omitempty"`
	YAxis      *Axis   `json:"yaxis,omitempty"`
	Height     int     `json:"height,omitempty"`
	Template   string  `json:"template,omitempty"`
	ShowLegend bool    `json:"showlegend"`
	HoverMode  string  `json:"hovermode,omitempty"`
	BarGap     float64 `json:"bargap,omitempty"`
	Margin     *Margin `json:"margin,omitempty"`
	Shapes     []Shape `json:"shapes,omitempty"`
	Legend     *Legend `json:"legend,omitempty"`
}

// Title is a figure or axis title.
type Title struct {
	Text string `json:"text"`
}

// Axis configures one axis.
type Axis struct {
	Title       *Title    `json:"title,omitempty"`
	Type        string    `json:"type,omitempty"`
	Range       []float64 `json:"range,omitempty"`
	RangeSlider *Toggle   `json:"rangeslider,omitempty"`
	ZeroLine    bool      `json:"zeroline,omitempty"`
}

// Toggle is a {visible: bool} sub-object.
type Toggle struct {
	Visible bool `json:"visible"`
}

// Margin is the plot margin in pixels.
type Margin struct {
	L int `json:"l"`
	R int `json:"r"`
	T int `json:"t"`
	B int `json:"b"`
}

// Legend positions the legend.
type Legend struct {
	Orientation string  `json:"orientation,omitempty"`
	Y           float64 `json:"y,omitempty"`
}

// Shape is a layout shape; the dashboard only draws horizontal reference
// lines spanning the plot width.
type Shape struct {
	Type string  `json:"type"`
	XRef string  `json:"xref"`
	X0   float64 `json:"x0"`
	X1   float64 `json:"x1"`
	Y0   float64 `json:"y0"`
	Y1   float64 `json:"y1"`
	Line Line    `json:"line"`
}

// hline returns a dashed horizontal line at y across the whole x range.
func hline(y float64, color string) Shape {
	return Shape{Type: "line", XRef: "paper", X0: 0, X1: 1, Y0: y, Y1: y, Line: Line{Color: color, Width: 1, Dash: "dash"}}
}

func baseLayout(title string, t Theme) Layout {
	return Layout{
		Title:     &Title{Text: title},
		Template:  t.Template,
		Height:    t.Height,
		HoverMode: "x unified",
		Margin:    &Margin{L: 50, R: 20, T: 50, B: 40},
		Legend:    &Legend{Orientation: "h", Y: -0.2},
	}
}
