// Package widget describes the embedded GoFundMe donation widget.
//
// The widget script scans the document once for placeholder elements. Each
// Remount hands out a new element key so a fresh placeholder is rendered and
// the script picks it up again; a client-side watchdog falls back to a direct
// link when the iframe never reaches a usable height.
package widget

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

const (
	// ScriptSrc is the GoFundMe embed loader
	ScriptSrc = "https://www.gofundme.com/static/js/embed.js"
	// DefaultWatchdog is how long the widget has to render before the fallback shows
	DefaultWatchdog = 2500 * time.Millisecond
	// DefaultMinHeight is the iframe height, in pixels, that counts as rendered
	DefaultMinHeight = 60
)

// Embed is one widget placement on the page
type Embed struct {
	URL       string
	ScriptSrc string
	Watchdog  time.Duration
	MinHeight int

	generation atomic.Uint64
}

// New creates an Embed for widgetURL with the default script and watchdog.
func New(widgetURL string) (*Embed, error) {
	u, err := url.Parse(widgetURL)
	if err != nil {
		return nil, fmt.Errorf("parsing widget url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("widget url must be absolute: %q", widgetURL)
	}
	return &Embed{
		URL:       widgetURL,
		ScriptSrc: ScriptSrc,
		Watchdog:  DefaultWatchdog,
		MinHeight: DefaultMinHeight,
	}, nil
}

// Remount invalidates the current placeholder and returns the new generation
func (e *Embed) Remount() uint64 {
	return e.generation.Add(1)
}

// Generation returns the current mount generation
func (e *Embed) Generation() uint64 {
	return e.generation.Load()
}

// KeyFor is the DOM id for the placeholder of generation gen
func KeyFor(gen uint64) string {
	return fmt.Sprintf("gfm-widget-%d", gen)
}

// WatchdogMillis is the watchdog budget in milliseconds, for use in scripts
func (e *Embed) WatchdogMillis() int64 {
	return e.Watchdog.Milliseconds()
}

// DonateURL is the campaign page behind the widget, used as the fallback link.
// GoFundMe widget URLs end in /widget/<size>; anything else is returned as-is.
func (e *Embed) DonateURL() string {
	if i := strings.Index(e.URL, "/widget/"); i > 0 {
		return e.URL[:i]
	}
	return e.URL
}
