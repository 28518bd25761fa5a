package page

import (
	"strings"

	"github.com/dustin/go-humanize"
)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
	"NZD": "NZ$",
}

// CurrencySymbol returns the display symbol for an ISO 4217 code. Unknown codes
// are shown as the code followed by a space.
func CurrencySymbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	if code == "" {
		return "$"
	}
	return code + " "
}

// Money formats amount in the given currency, e.g. Money(7000, "USD") is "$7,000.00".
func Money(amount float64, currency string) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + CurrencySymbol(currency) + humanize.FormatFloat("#,###.##", amount)
}
