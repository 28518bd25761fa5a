package poller

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkboundsociety/fundraiser/internal/storage"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// State is what the page shows for the current round
type State struct {
	Goal           decimal.Decimal `json:"goal"`
	Raised         decimal.Decimal `json:"raised"`
	CurrencySymbol string          `json:"currencySymbol,omitempty"`
	// Live is true once a fetch has succeeded (or a stored snapshot was restored).
	Live      bool      `json:"live"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// Display holds the totals currently shown. Safe for concurrent use.
type Display struct {
	mu    sync.RWMutex
	state State
}

// NewDisplay creates a Display showing the configured defaults
func NewDisplay(goal, raised decimal.Decimal) *Display {
	return &Display{state: State{Goal: goal, Raised: raised}}
}

// Current returns a copy of the displayed state
func (d *Display) Current() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state
}

// Apply replaces goal and raised when r succeeded and reports whether it did.
func (d *Display) Apply(r totals.Result, at time.Time) (State, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !r.Success {
		return d.state, false
	}
	d.state = State{
		Goal:           r.Goal,
		Raised:         r.Raised,
		CurrencySymbol: r.CurrencySymbol,
		Live:           true,
		UpdatedAt:      at,
	}
	return d.state, true
}

// Restore seeds the display from a stored snapshot
func (d *Display) Restore(snap *storage.Snapshot) {
	if snap == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = State{
		Goal:           snap.Goal,
		Raised:         snap.Raised,
		CurrencySymbol: snap.CurrencySymbol,
		Live:           true,
		UpdatedAt:      snap.UpdatedAt,
	}
}
