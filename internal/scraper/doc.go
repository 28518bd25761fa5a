// Package scraper fetches a donation widget page and turns it into campaign totals.
//
// The scraper requests the widget URL with browser-like headers and no-cache
// semantics, bounds the request with an explicit timeout and the body with a
// size limit, and hands the markup to the totals package. FetchTotals never
// returns an error: every network, status or content problem becomes a soft
// failure Result so callers can keep showing the last totals they knew.
//
// Cache sits in front of any Fetcher and reuses successful results for a TTL.
package scraper
