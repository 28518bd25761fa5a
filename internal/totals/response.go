package totals

import "github.com/shopspring/decimal"

// Response is the JSON body served by the proxy endpoint.
type Response struct {
	OK             bool     `json:"ok"`
	Goal           *float64 `json:"goal,omitempty"`
	Raised         *float64 `json:"raised,omitempty"`
	CurrencySymbol string   `json:"currencySymbol,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// Response converts r to its wire form. Amounts are emitted as JSON numbers.
func (r Result) Response() Response {
	if !r.Success {
		return Response{OK: false, Error: r.ErrorMessage}
	}
	goal := r.Goal.InexactFloat64()
	raised := r.Raised.InexactFloat64()
	return Response{
		OK:             true,
		Goal:           &goal,
		Raised:         &raised,
		CurrencySymbol: r.CurrencySymbol,
	}
}

// ErrorResponse builds a failed Response carrying msg.
func ErrorResponse(msg string) Response {
	return Response{OK: false, Error: msg}
}

// Result converts a decoded proxy response back into a Result. A response that
// claims success without both amounts is treated as a failure.
func (r Response) Result() Result {
	if !r.OK {
		msg := r.Error
		if msg == "" {
			msg = "Unknown error"
		}
		return Failure(msg)
	}
	if r.Goal == nil || r.Raised == nil {
		return Failure("response missing goal or raised")
	}
	return Result{
		Success:        true,
		Goal:           decimal.NewFromFloat(*r.Goal),
		Raised:         decimal.NewFromFloat(*r.Raised),
		CurrencySymbol: r.CurrencySymbol,
	}
}
