package httpapi

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/arnet007/StockSentimentPro/internal/chart"
	"github.com/arnet007/StockSentimentPro/internal/dashboard"
	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/prices"
	"github.com/arnet007/StockSentimentPro/internal/sentiment"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"price":    dashboard.FormatPrice,
	"change":   dashboard.FormatChange,
	"comma":    dashboard.FormatInt,
	"compact":  dashboard.FormatCompact,
	"pct":      dashboard.FormatPercent,
	"polarity": dashboard.FormatPolarity,
	"pricef": func(v float64, currency string) string {
		return dashboard.FormatPrice(decimal.NewFromFloat(v), currency)
	},
	"share": func(s sentiment.Summary, l string) string {
		return dashboard.FormatPercent(s.Percent(sentiment.Label(l)))
	},
	"sourceline": func(s sentiment.Summary, kind string) string {
		b, ok := s.Source(domain.SourceKind(kind))
		if !ok {
			return "no documents"
		}
		return dashboard.FormatPolarity(b.MeanPolarity) + " (" + string(b.Primary) + ", " + dashboard.FormatInt(int64(b.Total)) + " docs)"
	},
}).ParseFS(templateFS, "templates/index.html"))

// formState echoes the submitted selections back into the form.
type formState struct {
	Tab       string
	Market    string
	Ticker    string
	Timeframe string
	Chart     string
	Compare   string
	Overlays  map[string]bool
	Days      int
	News      bool
	Social    bool
}

type marketOption struct {
	ID    string
	Label string
}

type pageData struct {
	Title       string
	Form        formState
	Markets     []marketOption
	Timeframes  []market.Timeframe
	ChartTypes  []market.ChartType
	Lookbacks   []int
	Suggestions []string

	// Prompt asks the user to correct an invalid selection. Banner reports
	// a failed fetch. Either leaves the form usable.
	Prompt string
	Banner string

	Price     *dashboard.PriceView
	Sentiment *dashboard.SentimentView
	Figures   map[string]chart.Figure
}

func (s *DashboardServer) defaultTicker(m market.Market) string {
	if m == s.defaults.Market && s.defaults.Ticker != "" {
		return s.defaults.Ticker
	}
	if list := market.DefaultTickers(m); len(list) > 0 {
		return list[0]
	}
	return s.defaults.Ticker
}

func (s *DashboardServer) handlePage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := pageData{
		Title:      s.defaults.Title,
		Timeframes: market.Timeframes(),
		ChartTypes: market.ChartTypes(),
		Lookbacks:  market.LookbackOptions,
		Figures:    map[string]chart.Figure{},
	}
	for _, m := range market.All() {
		data.Markets = append(data.Markets, marketOption{ID: string(m), Label: m.Label()})
	}

	tab := q.Get("tab")
	if tab != "sentiment" {
		tab = "prices"
	}
	ticker := strings.TrimSpace(q.Get("ticker"))
	m, err := s.parseMarket(r, ticker)
	if err != nil {
		data.Prompt = err.Error()
		m = s.defaults.Market
	}
	if ticker == "" {
		ticker = s.defaultTicker(m)
	}
	data.Suggestions = append(market.DefaultTickers(m), market.Comparables(ticker)...)

	overlays := map[string]bool{}
	for _, o := range prices.ParseOverlays(q.Get("overlays")) {
		overlays[o] = true
	}
	data.Form = formState{
		Tab:       tab,
		Market:    string(m),
		Ticker:    ticker,
		Timeframe: orDefault(q.Get("timeframe"), string(s.defaults.Timeframe)),
		Chart:     orDefault(q.Get("chart"), string(s.defaults.ChartType)),
		Compare:   q.Get("compare"),
		Overlays:  overlays,
		Days:      s.defaults.LookbackDays,
		News:      parseToggle(r, "news"),
		Social:    parseToggle(r, "social"),
	}

	status := http.StatusOK
	if data.Prompt == "" {
		switch tab {
		case "sentiment":
			status = s.sentimentPage(r, ticker, &data)
		default:
			status = s.pricePage(r, ticker, &data)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.log.Error("rendering page", "error", err)
		http.Error(w, "rendering page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (s *DashboardServer) pricePage(r *http.Request, ticker string, data *pageData) int {
	p, err := s.priceParams(r, ticker)
	if err == nil {
		p.Market = market.Market(data.Form.Market)
		data.Price, err = s.svc.PriceView(r.Context(), p)
	}
	if err != nil {
		return s.pageError(err, data)
	}
	for id, fig := range priceFigures(data.Price) {
		data.Figures[id] = fig
	}
	return http.StatusOK
}

func (s *DashboardServer) sentimentPage(r *http.Request, ticker string, data *pageData) int {
	p, err := s.sentimentParams(r, ticker)
	if err == nil {
		p.Market = market.Market(data.Form.Market)
		data.Form.Days = p.Days
		data.Sentiment, err = s.svc.SentimentView(r.Context(), p)
	}
	if err != nil {
		return s.pageError(err, data)
	}
	for id, fig := range sentimentFigures(data.Sentiment) {
		data.Figures[id] = fig
	}
	return http.StatusOK
}

// pageError turns a view error into a prompt or banner. The page itself is
// still served with 200 for invalid input and fetch failures.
func (s *DashboardServer) pageError(err error, data *pageData) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		data.Prompt = err.Error()
		return http.StatusOK
	case errors.Is(err, domain.ErrNetwork):
		data.Banner = err.Error()
		return http.StatusOK
	}
	s.log.Error("building page", "error", err)
	data.Banner = "internal error: " + err.Error()
	return http.StatusInternalServerError
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
