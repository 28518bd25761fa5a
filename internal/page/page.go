package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkboundsociety/fundraiser/internal/config"
	"github.com/inkboundsociety/fundraiser/internal/totals"
	"github.com/inkboundsociety/fundraiser/internal/widget"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Totals are the amounts shown in the live totals card
type Totals struct {
	Goal   decimal.Decimal
	Raised decimal.Decimal
	Live   bool
}

// Renderer renders the landing page for one campaign
type Renderer struct {
	tmpl         *template.Template
	campaign     config.Campaign
	theme        Theme
	embed        *widget.Embed
	pollInterval time.Duration
	now          func() time.Time
}

// New parses the page template and prepares the theme for c
func New(c config.Campaign, we *widget.Embed, pollInterval time.Duration) (*Renderer, error) {
	theme, err := NewTheme(c.Brand)
	if err != nil {
		return nil, fmt.Errorf("building theme: %w", err)
	}

	currency := c.Totals.Currency
	tmpl, err := template.New("index.html.tmpl").
		Funcs(template.FuncMap{
			"money": func(v float64) string { return Money(v, currency) },
		}).
		ParseFS(templateFS, "templates/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	return &Renderer{
		tmpl:         tmpl,
		campaign:     c,
		theme:        theme,
		embed:        we,
		pollInterval: pollInterval,
		now:          time.Now,
	}, nil
}

// Theme returns the theme computed at construction
func (r *Renderer) Theme() Theme {
	return r.theme
}

type view struct {
	Campaign   config.Campaign
	ThemeCSS   template.CSS
	ThemeColor string
	Widget     *widget.Embed
	WidgetKey  string
	Currency   string

	Overall string
	Goal    string
	Raised  string
	Percent int
	Live    bool

	DrawDate   string
	APIPath    string
	PollMillis int64
	Year       int
}

// Render writes the page showing t. Every render remounts the widget so the
// served page carries a placeholder id the embed script has not seen before.
func (r *Renderer) Render(w io.Writer, t Totals) error {
	c := r.campaign
	gen := r.embed.Remount()
	v := view{
		Campaign:   c,
		ThemeCSS:   r.theme.CSS(),
		ThemeColor: r.theme.Primary,
		Widget:     r.embed,
		WidgetKey:  widget.KeyFor(gen),
		Currency:   c.Totals.Currency,
		Overall:    Money(c.Totals.Amount, c.Totals.Currency),
		Goal:       Money(t.Goal.InexactFloat64(), c.Totals.Currency),
		Raised:     Money(t.Raised.InexactFloat64(), c.Totals.Currency),
		Percent:    totals.Percent(t.Goal, t.Raised),
		Live:       t.Live,
		DrawDate:   drawDate(c.Cause.DrawISO),
		APIPath:    "/api/gfm?url=" + url.QueryEscape(c.GoFundMe.EmbedURL),
		PollMillis: r.pollInterval.Milliseconds(),
		Year:       r.now().Year(),
	}

	if err := r.tmpl.Execute(w, v); err != nil {
		return fmt.Errorf("rendering page: %w", err)
	}
	return nil
}

func drawDate(iso string) string {
	if iso == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("Monday, January 2, 2006 at 15:04 UTC")
}
