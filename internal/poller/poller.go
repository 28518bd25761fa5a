package poller

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/storage"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// DefaultInterval is how often totals are refreshed
const DefaultInterval = 60 * time.Second

// Source produces totals for a widget URL. Implementations report failures
// through the Result rather than an error.
type Source interface {
	FetchTotals(ctx context.Context, widgetURL string) totals.Result
}

// SnapshotSaver persists the last successful totals
type SnapshotSaver interface {
	Save(snap *storage.Snapshot) error
}

// Option configures a Poller
type Option func(*Poller)

// WithSaver saves every successful update through s
func WithSaver(s SnapshotSaver) Option {
	return func(p *Poller) { p.saver = s }
}

// WithOnUpdate calls fn after every successful update. fn runs before Stop can
// return, so it must not call Stop itself.
func WithOnUpdate(fn func(State)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

// Poller refreshes a Display from a Source on a fixed interval
type Poller struct {
	source    Source
	widgetURL string
	display   *Display
	interval  time.Duration
	saver     SnapshotSaver
	onUpdate  func(State)

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	// mu orders Stop against in-flight updates so nothing lands after teardown.
	mu        sync.Mutex
	cancelled bool
	stopOnce  sync.Once
}

// New creates a Poller. A non-positive interval falls back to DefaultInterval.
func New(source Source, widgetURL string, display *Display, interval time.Duration, opts ...Option) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Poller{
		source:    source,
		widgetURL: widgetURL,
		display:   display,
		interval:  interval,
		cron:      cron.New(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Display returns the display this poller updates
func (p *Poller) Display() *Display {
	return p.display
}

// Start polls once immediately and then every interval until parent is done
// or Stop is called.
func (p *Poller) Start(parent context.Context) error {
	spec := fmt.Sprintf("@every %s", p.interval)
	if _, err := p.cron.AddFunc(spec, p.Poll); err != nil {
		return fmt.Errorf("register poll task: %w", err)
	}
	p.cron.Start()
	logger.Info("totals poller started", logger.Fields{
		"url":      p.widgetURL,
		"interval": p.interval.String(),
	})

	go p.Poll()
	go func() {
		select {
		case <-parent.Done():
			p.Stop()
		case <-p.ctx.Done():
		}
	}()
	return nil
}

// Stop cancels the schedule and any in-flight fetch. An update that is already
// being saved or reported finishes first; nothing is saved or reported after
// Stop returns. Safe to call repeatedly.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.cancelled = true
		p.mu.Unlock()

		p.cancel()
		p.cron.Stop()
		logger.Info("totals poller stopped", nil)
	})
}

// Poll performs one fetch and applies its result
func (p *Poller) Poll() {
	if p.isCancelled() {
		return
	}

	result := p.source.FetchTotals(p.ctx, p.widgetURL)

	// Held through the hooks so Stop cannot slip in between Apply and them.
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancelled {
		logger.Debug("discarding totals that arrived after stop", nil)
		return
	}
	state, updated := p.display.Apply(result, time.Now().UTC())

	if !updated {
		logger.IncrCounter("poller.retained")
		logger.Debug("keeping previous totals", logger.Fields{"error": result.ErrorMessage})
		return
	}

	logger.IncrCounter("poller.updates")
	logger.SetGauge("totals.goal", state.Goal.InexactFloat64())
	logger.SetGauge("totals.raised", state.Raised.InexactFloat64())

	if p.saver != nil {
		snap := &storage.Snapshot{
			URL:            p.widgetURL,
			Goal:           state.Goal,
			Raised:         state.Raised,
			CurrencySymbol: state.CurrencySymbol,
			UpdatedAt:      state.UpdatedAt,
		}
		if err := p.saver.Save(snap); err != nil {
			logger.Error("saving totals snapshot", nil, err)
		}
	}
	if p.onUpdate != nil {
		p.onUpdate(state)
	}
}

func (p *Poller) isCancelled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cancelled
}
