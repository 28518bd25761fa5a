package notifier

import (
	"fmt"
	"sort"
	"sync"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// DefaultThresholds are the progress percentages that get announced
var DefaultThresholds = []int{25, 50, 75, 100}

// maxPostLength is the Twitter limit in characters
const maxPostLength = 280

// Milestone is a progress threshold the campaign just crossed
type Milestone struct {
	Threshold      int
	Goal           decimal.Decimal
	Raised         decimal.Decimal
	CurrencySymbol string
	Campaign       string
	DonateURL      string
}

// Notifier defines the interface for posting milestone announcements
type Notifier interface {
	// Notify posts one announcement per milestone, in order
	Notify(milestones []Milestone) error
}

// Announcer turns totals updates into milestone notifications
type Announcer struct {
	notifier   Notifier
	campaign   string
	donateURL  string
	thresholds []int

	mu      sync.Mutex
	primed  bool
	reached int
}

// NewAnnouncer creates an Announcer. Nil or empty thresholds use DefaultThresholds.
func NewAnnouncer(n Notifier, campaign, donateURL string, thresholds []int) *Announcer {
	if len(thresholds) == 0 {
		thresholds = DefaultThresholds
	}
	sorted := append([]int(nil), thresholds...)
	sort.Ints(sorted)
	return &Announcer{
		notifier:   n,
		campaign:   campaign,
		donateURL:  donateURL,
		thresholds: sorted,
	}
}

// Prime records the current progress without announcing anything
func (a *Announcer) Prime(goal, raised decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.primed = true
	a.reached = totals.Percent(goal, raised)
}

// Observe announces every threshold crossed since the last observation.
// Progress that goes down (for example after the goal is raised) announces
// nothing and does not reset what was already reached.
func (a *Announcer) Observe(goal, raised decimal.Decimal, symbol string) error {
	pct := totals.Percent(goal, raised)

	a.mu.Lock()
	if !a.primed {
		a.primed = true
		a.reached = pct
		a.mu.Unlock()
		return nil
	}
	var crossed []Milestone
	for _, th := range a.thresholds {
		if th > a.reached && th <= pct {
			crossed = append(crossed, Milestone{
				Threshold:      th,
				Goal:           goal,
				Raised:         raised,
				CurrencySymbol: symbol,
				Campaign:       a.campaign,
				DonateURL:      a.donateURL,
			})
		}
	}
	if pct > a.reached {
		a.reached = pct
	}
	a.mu.Unlock()

	if len(crossed) == 0 {
		return nil
	}
	return a.notifier.Notify(crossed)
}

// formatPost formats a milestone as a post
func formatPost(m Milestone) string {
	name := m.Campaign
	if name == "" {
		name = "Our fundraiser"
	}

	var post string
	if m.Threshold >= 100 {
		post = fmt.Sprintf("🎉 %s reached its goal!\n\n", name)
	} else {
		post = fmt.Sprintf("🎉 %s just passed %d%% of its goal!\n\n", name, m.Threshold)
	}
	post += fmt.Sprintf("%s raised of %s.\n", money(m.CurrencySymbol, m.Raised), money(m.CurrencySymbol, m.Goal))
	if m.DonateURL != "" {
		post += fmt.Sprintf("\n💖 Donate: %s\n", m.DonateURL)
	}
	post += "\n#IndieRelief"

	if utf8.RuneCountInString(post) > maxPostLength {
		runes := []rune(post)
		post = string(runes[:maxPostLength-3]) + "..."
	}
	return post
}

func money(symbol string, v decimal.Decimal) string {
	if symbol == "" {
		symbol = "$"
	}
	return symbol + humanize.FormatFloat("#,###.", v.InexactFloat64())
}
