// Package totals extracts campaign goal and raised amounts from widget markup.
//
// Extraction is a regular-expression sweep over already-rendered HTML: every
// currency-prefixed number ($, £, €) becomes a Token, and Label guesses that the
// largest value is the goal and the next strictly smaller value is the amount
// raised. The package has no network or HTML-structure knowledge and every
// function is a pure function of its input.
//
// Known limitation: the labeler assumes the goal and raised amounts are the two
// largest currency-like numbers on the page. A larger unrelated amount (a
// "top donation" figure, a currency-prefixed date fragment) will be labelled as
// the goal and there is nothing the labeler can do to detect it.
package totals
