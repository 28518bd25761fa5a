package totals

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrNoTotals is the soft-failure message used when a page contains no
// currency-prefixed numbers.
const ErrNoTotals = "No totals found"

// tokenPattern matches a currency symbol, one optional whitespace character and a
// run of digits, commas and periods, e.g. "$7,000" or "€ 1.250".
var tokenPattern = regexp.MustCompile(`([$£€])\s?([\d.,]+)`)

// spaceReplacer turns the narrow no-break space and no-break space that widgets
// use as thousands separators into plain spaces.
var spaceReplacer = strings.NewReplacer("\u202f", " ", "\u00a0", " ")

// Token is a currency-prefixed number found in page text
type Token struct {
	Symbol string
	Raw    string
	Value  decimal.Decimal
}

// Result is the outcome of one extraction. Goal, Raised and CurrencySymbol are
// only meaningful when Success is true.
type Result struct {
	Success        bool
	Goal           decimal.Decimal
	Raised         decimal.Decimal
	CurrencySymbol string
	ErrorMessage   string
}

// Failure builds an unsuccessful Result carrying msg.
func Failure(msg string) Result {
	return Result{Success: false, ErrorMessage: msg}
}

// Extract returns every currency token in html that parses as a number, in
// document order.
func Extract(html string) []Token {
	normalized := spaceReplacer.Replace(html)

	matches := tokenPattern.FindAllStringSubmatch(normalized, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		value, ok := parseAmount(m[2])
		if !ok {
			continue
		}
		tokens = append(tokens, Token{
			Symbol: m[1],
			Raw:    m[2],
			Value:  value,
		})
	}
	return tokens
}

// parseAmount drops everything except digits and periods, which strips comma
// thousands separators, and parses the rest. "1.2.3" and "" do not parse, so a
// symbol followed only by separators ("$,") yields no token rather than a zero
// amount that would be picked as raised.
func parseAmount(raw string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)

	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

// Label picks goal and raised values from tokens. The largest value is the goal;
// raised is the first value strictly smaller than it, falling back to the second
// token and then to the goal itself.
func Label(tokens []Token) Result {
	if len(tokens) == 0 {
		return Failure(ErrNoTotals)
	}

	sorted := make([]Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Value.GreaterThan(sorted[j].Value)
	})

	goal := sorted[0].Value
	symbol := sorted[0].Symbol

	raised := sorted[0].Value
	if len(sorted) > 1 {
		raised = sorted[1].Value
	}
	for _, tok := range sorted {
		if tok.Value.LessThan(goal) {
			raised = tok.Value
			break
		}
	}

	if raised.GreaterThan(goal) {
		goal, raised = raised, goal
	}

	return Result{
		Success:        true,
		Goal:           goal,
		Raised:         raised,
		CurrencySymbol: symbol,
	}
}

// Parse runs Extract followed by Label over html.
func Parse(html string) Result {
	return Label(Extract(html))
}
