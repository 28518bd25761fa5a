package totals

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPercent(t *testing.T) {
	d := decimal.NewFromFloat
	tests := []struct {
		name   string
		goal   decimal.Decimal
		raised decimal.Decimal
		want   int
	}{
		{"zero goal", d(0), d(50), 0},
		{"negative goal", d(-10), d(5), 0},
		{"partial", d(7000), d(3250), 46},
		{"rounds half up", d(200), d(1), 1},
		{"rounds down", d(3), d(1), 33},
		{"complete", d(100), d(100), 100},
		{"over goal clamps", d(100), d(250), 100},
		{"negative raised clamps", d(100), d(-5), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Percent(tt.goal, tt.raised); got != tt.want {
				t.Errorf("Percent(%s, %s) = %d, want %d", tt.goal, tt.raised, got, tt.want)
			}
		})
	}
}
