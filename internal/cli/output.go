package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/inkboundsociety/fundraiser/internal/poller"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt      time.Time `json:"checked_at"`
	URL            string    `json:"url"`
	OK             bool      `json:"ok"`
	Goal           float64   `json:"goal,omitempty"`
	Raised         float64   `json:"raised,omitempty"`
	Percent        int       `json:"percent"`
	CurrencySymbol string    `json:"currency_symbol,omitempty"`
	Error          string    `json:"error,omitempty"`
	Title          string    `json:"title,omitempty"`
	TokenCount     int       `json:"token_count,omitempty"`
}

// SetTotals fills the result from a labelled scrape
func (o *OutputResult) SetTotals(r totals.Result) {
	o.OK = r.Success
	if !r.Success {
		o.Error = r.ErrorMessage
		return
	}
	o.setAmounts(r.Goal, r.Raised, r.CurrencySymbol)
}

// SetState fills the result from the poller's displayed state
func (o *OutputResult) SetState(s poller.State) {
	o.OK = true
	o.setAmounts(s.Goal, s.Raised, s.CurrencySymbol)
}

func (o *OutputResult) setAmounts(goal, raised decimal.Decimal, symbol string) {
	o.Goal = goal.InexactFloat64()
	o.Raised = raised.InexactFloat64()
	o.Percent = totals.Percent(goal, raised)
	o.CurrencySymbol = symbol
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if !result.OK {
		fmt.Fprintf(w, "No totals: %s\n", result.Error)
	} else {
		fmt.Fprintf(w, "[%s] %s raised of %s (%d%%)\n",
			result.CheckedAt.Format(time.RFC3339),
			amount(result.CurrencySymbol, result.Raised),
			amount(result.CurrencySymbol, result.Goal),
			result.Percent,
		)
	}

	if verbose {
		fmt.Fprintf(w, "  URL: %s\n", result.URL)
		if result.Title != "" {
			fmt.Fprintf(w, "  Title: %s\n", result.Title)
		}
		fmt.Fprintf(w, "  Currency tokens: %d\n", result.TokenCount)
	}
	return nil
}

func amount(symbol string, v float64) string {
	return symbol + humanize.FormatFloat("#,###.##", v)
}
