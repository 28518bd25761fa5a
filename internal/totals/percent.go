package totals

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percent is raised as a whole percentage of goal, rounded half up and clamped
// to 0..100. A non-positive goal gives 0.
func Percent(goal, raised decimal.Decimal) int {
	if !goal.IsPositive() {
		return 0
	}
	pct := raised.Div(goal).Mul(hundred).Round(0).IntPart()
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}
