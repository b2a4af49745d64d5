package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/arnet007/StockSentimentPro/internal/dashboard"
	"github.com/arnet007/StockSentimentPro/internal/domain"
	"github.com/arnet007/StockSentimentPro/internal/market"
	"github.com/arnet007/StockSentimentPro/internal/prices"
)

// Defaults are the selections used when a query parameter is absent.
type Defaults struct {
	Title        string
	Market       market.Market
	Ticker       string
	Timeframe    market.Timeframe
	ChartType    market.ChartType
	LookbackDays int
}

// DashboardServer serves the dashboard page and its JSON API.
type DashboardServer struct {
	svc      *dashboard.Service
	defaults Defaults
	metrics  *Metrics
	log      *slog.Logger
}

// NewDashboardServer creates a new dashboard HTTP server. metrics may be nil,
// in which case /metrics is not registered.
func NewDashboardServer(svc *dashboard.Service, defaults Defaults, metrics *Metrics, log *slog.Logger) *DashboardServer {
	if log == nil {
		log = slog.Default()
	}
	return &DashboardServer{
		svc:      svc,
		defaults: defaults,
		metrics:  metrics,
		log:      log.With("component", "httpapi"),
	}
}

// RegisterRoutes registers all routes on the given mux.
func (s *DashboardServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /api/markets", s.handleMarkets)
	mux.HandleFunc("GET /api/bars/{ticker}", s.handleBars)
	mux.HandleFunc("GET /api/sentiment/{ticker}", s.handleSentiment)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler returns an http.Handler with CORS, request id, and
// logging/metrics middleware.
func (s *DashboardServer) Handler() http.Handler {
	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	return corsMiddleware(requestIDMiddleware(observeMiddleware(s.log, s.metrics, mux)))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, kind, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Kind: kind})
}

// statusFor maps an error kind to its HTTP status.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, domain.ErrNetwork):
		return http.StatusBadGateway, "network"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *DashboardServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, kind := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(r.Context()))
	}
	writeError(w, status, kind, err.Error())
}

// ---------------------------------------------------------------------------
// Query parsing
// ---------------------------------------------------------------------------

// parseMarket reads the "market" query param. Without one the market is
// inferred from the ticker suffix, falling back to the configured default
// when no ticker is given either.
func (s *DashboardServer) parseMarket(r *http.Request, ticker string) (market.Market, error) {
	if v := r.URL.Query().Get("market"); v != "" {
		return market.ParseMarket(v)
	}
	if ticker == "" {
		return s.defaults.Market, nil
	}
	return market.ForTicker(strings.ToUpper(strings.TrimSpace(ticker))), nil
}

func (s *DashboardServer) parseTimeframe(r *http.Request) (market.Timeframe, error) {
	v := r.URL.Query().Get("timeframe")
	if v == "" {
		return s.defaults.Timeframe, nil
	}
	return market.ParseTimeframe(v)
}

func (s *DashboardServer) parseChartType(r *http.Request) (market.ChartType, error) {
	v := r.URL.Query().Get("chart")
	if v == "" {
		return s.defaults.ChartType, nil
	}
	return market.ParseChartType(v)
}

func (s *DashboardServer) parseDays(r *http.Request) (int, error) {
	v := r.URL.Query().Get("days")
	if v == "" {
		return s.defaults.LookbackDays, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, domain.InvalidInputf("days %q is not a number", v)
	}
	return n, nil
}

// splitList splits a comma-separated query param, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parseToggle reads a boolean query param that defaults to true.
func parseToggle(r *http.Request, name string) bool {
	switch strings.ToLower(r.URL.Query().Get(name)) {
	case "0", "false", "off", "no":
		return false
	}
	return true
}

func (s *DashboardServer) priceParams(r *http.Request, ticker string) (dashboard.PriceParams, error) {
	m, err := s.parseMarket(r, ticker)
	if err != nil {
		return dashboard.PriceParams{}, err
	}
	tf, err := s.parseTimeframe(r)
	if err != nil {
		return dashboard.PriceParams{}, err
	}
	ct, err := s.parseChartType(r)
	if err != nil {
		return dashboard.PriceParams{}, err
	}
	return dashboard.PriceParams{
		Ticker:    ticker,
		Market:    m,
		Timeframe: tf,
		ChartType: ct,
		Compare:   splitList(r.URL.Query().Get("compare")),
		Overlays:  prices.ParseOverlays(r.URL.Query().Get("overlays")),
	}, nil
}

func (s *DashboardServer) sentimentParams(r *http.Request, ticker string) (dashboard.SentimentParams, error) {
	m, err := s.parseMarket(r, ticker)
	if err != nil {
		return dashboard.SentimentParams{}, err
	}
	days, err := s.parseDays(r)
	if err != nil {
		return dashboard.SentimentParams{}, err
	}
	return dashboard.SentimentParams{
		Ticker: ticker,
		Market: m,
		Days:   days,
		News:   parseToggle(r, "news"),
		Social: parseToggle(r, "social"),
	}, nil
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (s *DashboardServer) handleMarkets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, convertMarkets(s.svc.Sources()))
}

func (s *DashboardServer) handleBars(w http.ResponseWriter, r *http.Request) {
	p, err := s.priceParams(r, r.PathValue("ticker"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.svc.PriceView(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, convertPriceView(v))
}

func (s *DashboardServer) handleSentiment(w http.ResponseWriter, r *http.Request) {
	p, err := s.sentimentParams(r, r.PathValue("ticker"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	v, err := s.svc.SentimentView(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, convertSentimentView(v))
}

func (s *DashboardServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}
