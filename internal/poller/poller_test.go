package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/inkboundsociety/fundraiser/internal/storage"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

type fakeSource struct {
	mu      sync.Mutex
	results []totals.Result
	calls   int
	block   chan struct{}
	called  chan struct{}
}

func (f *fakeSource) FetchTotals(ctx context.Context, widgetURL string) totals.Result {
	f.mu.Lock()
	i := f.calls
	f.calls++
	f.mu.Unlock()

	if f.called != nil {
		select {
		case f.called <- struct{}{}:
		default:
		}
	}
	if f.block != nil {
		<-f.block
	}
	if i >= len(f.results) {
		return f.results[len(f.results)-1]
	}
	return f.results[i]
}

func (f *fakeSource) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []*storage.Snapshot
	err   error
}

func (r *recordingSaver) Save(snap *storage.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, snap)
	return r.err
}

func success(goal, raised int64) totals.Result {
	return totals.Result{
		Success:        true,
		Goal:           decimal.NewFromInt(goal),
		Raised:         decimal.NewFromInt(raised),
		CurrencySymbol: "$",
	}
}

func newDisplay() *Display {
	return NewDisplay(decimal.NewFromInt(7000), decimal.Zero)
}

func TestPollUpdatesDisplay(t *testing.T) {
	src := &fakeSource{results: []totals.Result{success(7000, 3250)}}
	saver := &recordingSaver{}
	var notified State
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute,
		WithSaver(saver),
		WithOnUpdate(func(s State) { notified = s }),
	)

	p.Poll()

	got := p.Display().Current()
	if !got.Goal.Equal(decimal.NewFromInt(7000)) || !got.Raised.Equal(decimal.NewFromInt(3250)) {
		t.Errorf("display = %s/%s, want 7000/3250", got.Goal, got.Raised)
	}
	if !got.Live {
		t.Error("display should be live after a successful poll")
	}
	if got.CurrencySymbol != "$" {
		t.Errorf("CurrencySymbol = %q, want $", got.CurrencySymbol)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
	if len(saver.saved) != 1 {
		t.Fatalf("saved %d snapshots, want 1", len(saver.saved))
	}
	if saver.saved[0].URL != "https://example.com/widget" {
		t.Errorf("saved URL = %q", saver.saved[0].URL)
	}
	if !notified.Raised.Equal(decimal.NewFromInt(3250)) {
		t.Errorf("onUpdate raised = %s, want 3250", notified.Raised)
	}
}

func TestPollFailureRetainsPreviousValues(t *testing.T) {
	src := &fakeSource{results: []totals.Result{
		success(7000, 3250),
		totals.Failure("fetching page: connection refused"),
	}}
	saver := &recordingSaver{}
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute, WithSaver(saver))

	p.Poll()
	p.Poll()

	got := p.Display().Current()
	if !got.Raised.Equal(decimal.NewFromInt(3250)) {
		t.Errorf("raised = %s, want previous value 3250", got.Raised)
	}
	if len(saver.saved) != 1 {
		t.Errorf("saved %d snapshots, want 1", len(saver.saved))
	}
}

func TestPollFailureKeepsDefaults(t *testing.T) {
	src := &fakeSource{results: []totals.Result{totals.Failure(totals.ErrNoTotals)}}
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute)

	p.Poll()

	got := p.Display().Current()
	if !got.Goal.Equal(decimal.NewFromInt(7000)) || !got.Raised.IsZero() {
		t.Errorf("display = %s/%s, want defaults 7000/0", got.Goal, got.Raised)
	}
	if got.Live {
		t.Error("display should not be live without a successful poll")
	}
}

func TestPollSaveErrorStillUpdates(t *testing.T) {
	src := &fakeSource{results: []totals.Result{success(500, 100)}}
	saver := &recordingSaver{err: errors.New("disk full")}
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute, WithSaver(saver))

	p.Poll()

	if got := p.Display().Current(); !got.Goal.Equal(decimal.NewFromInt(500)) {
		t.Errorf("goal = %s, want 500", got.Goal)
	}
}

func TestStopDiscardsLateResponse(t *testing.T) {
	src := &fakeSource{
		results: []totals.Result{success(9000, 8000)},
		block:   make(chan struct{}),
		called:  make(chan struct{}, 1),
	}
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute)

	done := make(chan struct{})
	go func() {
		p.Poll()
		close(done)
	}()

	<-src.called
	p.Stop()
	close(src.block)
	<-done

	got := p.Display().Current()
	if !got.Goal.Equal(decimal.NewFromInt(7000)) {
		t.Errorf("goal = %s, late response should have been discarded", got.Goal)
	}
}

type blockingSaver struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSaver) Save(snap *storage.Snapshot) error {
	close(b.entered)
	<-b.release
	return nil
}

func TestStopWaitsForInFlightUpdate(t *testing.T) {
	src := &fakeSource{results: []totals.Result{success(7000, 3250)}}
	saver := &blockingSaver{entered: make(chan struct{}), release: make(chan struct{})}
	var updates atomic.Int32
	p := New(src, "https://example.com/widget", newDisplay(), time.Hour,
		WithSaver(saver),
		WithOnUpdate(func(State) { updates.Add(1) }),
	)

	polled := make(chan struct{})
	go func() {
		p.Poll()
		close(polled)
	}()
	<-saver.entered

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while an update was still being saved")
	case <-time.After(50 * time.Millisecond):
	}

	close(saver.release)
	<-polled
	<-stopped

	if got := updates.Load(); got != 1 {
		t.Fatalf("updates = %d, want 1", got)
	}

	p.Poll()
	if got := updates.Load(); got != 1 {
		t.Errorf("updates after Stop = %d, want 1", got)
	}
	if got := src.callCount(); got != 1 {
		t.Errorf("fetches = %d, want 1", got)
	}
}

func TestPollAfterStopDoesNotFetch(t *testing.T) {
	src := &fakeSource{results: []totals.Result{success(1, 1)}}
	p := New(src, "https://example.com/widget", newDisplay(), time.Minute)

	p.Stop()
	p.Stop()
	p.Poll()

	if n := src.callCount(); n != 0 {
		t.Errorf("source called %d times after stop, want 0", n)
	}
}

func TestStartPollsImmediately(t *testing.T) {
	src := &fakeSource{
		results: []totals.Result{success(7000, 1234)},
		called:  make(chan struct{}, 1),
	}
	var updates atomic.Int32
	updated := make(chan struct{}, 1)
	p := New(src, "https://example.com/widget", newDisplay(), time.Hour,
		WithOnUpdate(func(State) {
			updates.Add(1)
			select {
			case updated <- struct{}{}:
			default:
			}
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer p.Stop()

	select {
	case <-updated:
	case <-time.After(2 * time.Second):
		t.Fatal("no immediate poll after Start")
	}
	if got := p.Display().Current(); !got.Raised.Equal(decimal.NewFromInt(1234)) {
		t.Errorf("raised = %s, want 1234", got.Raised)
	}
}

func TestContextCancelStopsPoller(t *testing.T) {
	src := &fakeSource{results: []totals.Result{success(1, 1)}, called: make(chan struct{}, 1)}
	p := New(src, "https://example.com/widget", newDisplay(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	if err := p.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for !p.isCancelled() {
		if time.Now().After(deadline) {
			t.Fatal("poller not cancelled after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewDefaultInterval(t *testing.T) {
	p := New(&fakeSource{}, "u", newDisplay(), 0)
	if p.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", p.interval, DefaultInterval)
	}
}

func TestDisplayRestore(t *testing.T) {
	d := newDisplay()
	d.Restore(nil)
	if d.Current().Live {
		t.Error("Restore(nil) should not change the display")
	}

	at := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	d.Restore(&storage.Snapshot{
		Goal:           decimal.NewFromInt(7000),
		Raised:         decimal.NewFromInt(4100),
		CurrencySymbol: "$",
		UpdatedAt:      at,
	})
	got := d.Current()
	if !got.Raised.Equal(decimal.NewFromInt(4100)) || !got.Live || !got.UpdatedAt.Equal(at) {
		t.Errorf("restored state = %+v", got)
	}
}
