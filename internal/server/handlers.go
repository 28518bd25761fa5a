package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkboundsociety/fundraiser/internal/calendar"
	"github.com/inkboundsociety/fundraiser/internal/config"
	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/page"
	"github.com/inkboundsociety/fundraiser/internal/poller"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

const (
	errMissingURL     = "Missing ?url"
	errHostNotAllowed = "Host not allowed"
)

// TotalsFetcher scrapes totals from a widget page
type TotalsFetcher interface {
	FetchTotals(ctx context.Context, rawURL string) totals.Result
}

// Handlers serves the fundraiser routes
type Handlers struct {
	cfg      config.Server
	campaign config.Campaign
	fetcher  TotalsFetcher
	renderer *page.Renderer
	display  *poller.Display
}

// NewHandlers creates the route handlers
func NewHandlers(cfg *config.Config, fetcher TotalsFetcher, renderer *page.Renderer, display *poller.Display) *Handlers {
	return &Handlers{
		cfg:      cfg.Server,
		campaign: cfg.Campaign,
		fetcher:  fetcher,
		renderer: renderer,
		display:  display,
	}
}

// GFM handles GET /api/gfm?url=
func (h *Handlers) GFM(w http.ResponseWriter, r *http.Request) {
	logger.IncrCounter("proxy.requests")
	w.Header().Set("Cache-Control", "no-store")

	values := r.URL.Query()["url"]
	if len(values) != 1 || strings.TrimSpace(values[0]) == "" {
		logger.IncrCounter("proxy.bad_requests")
		JSONResponse(w, http.StatusBadRequest, totals.ErrorResponse(errMissingURL))
		return
	}
	target := strings.TrimSpace(values[0])

	// Relative or malformed targets fall through to the fetcher, which reports
	// them as a soft failure. A disallowed host is a soft failure too: only a
	// missing url is a bad request.
	if u, err := url.Parse(target); err == nil && u.Host != "" && !h.cfg.HostAllowed(target) {
		logger.IncrCounter("proxy.soft_failures")
		logger.Warn("proxy target host not allowed", logger.Fields{"host": u.Hostname()})
		JSONResponse(w, http.StatusOK, totals.ErrorResponse(errHostNotAllowed))
		return
	}

	result := h.fetcher.FetchTotals(r.Context(), target)
	if result.Success {
		logger.IncrCounter("proxy.ok")
	} else {
		logger.IncrCounter("proxy.soft_failures")
	}
	JSONResponse(w, http.StatusOK, result.Response())
}

// TotalsView is the body of GET /api/totals
type TotalsView struct {
	OK             bool       `json:"ok"`
	Goal           float64    `json:"goal"`
	Raised         float64    `json:"raised"`
	Percent        int        `json:"percent"`
	CurrencySymbol string     `json:"currencySymbol,omitempty"`
	Live           bool       `json:"live"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty"`
}

// Totals handles GET /api/totals
func (h *Handlers) Totals(w http.ResponseWriter, r *http.Request) {
	state := h.display.Current()
	view := TotalsView{
		OK:             true,
		Goal:           state.Goal.InexactFloat64(),
		Raised:         state.Raised.InexactFloat64(),
		Percent:        totals.Percent(state.Goal, state.Raised),
		CurrencySymbol: state.CurrencySymbol,
		Live:           state.Live,
	}
	if !state.UpdatedAt.IsZero() {
		view.UpdatedAt = &state.UpdatedAt
	}
	w.Header().Set("Cache-Control", "no-store")
	JSONResponse(w, http.StatusOK, view)
}

// Index handles GET /
func (h *Handlers) Index(w http.ResponseWriter, r *http.Request) {
	state := h.display.Current()

	var buf bytes.Buffer
	err := h.renderer.Render(&buf, page.Totals{Goal: state.Goal, Raised: state.Raised, Live: state.Live})
	if err != nil {
		logger.Error("rendering landing page", nil, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) // nolint:errcheck
}

// Metrics handles GET /metrics
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	JSONResponse(w, http.StatusOK, logger.GetMetricsSnapshot())
}

// DrawCalendar handles GET /draw.ics
func (h *Handlers) DrawCalendar(w http.ResponseWriter, r *http.Request) {
	ics, err := calendar.DrawICS(h.campaign, time.Now())
	if errors.Is(err, calendar.ErrNoDrawDate) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		logger.Error("building draw calendar", nil, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="draw.ics"`)
	w.Write([]byte(ics)) // nolint:errcheck
}
