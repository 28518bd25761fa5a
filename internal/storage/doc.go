// Package storage persists the last successfully scraped campaign totals.
//
// A single JSON file (totals.json) in the data directory records goal, raised,
// currency symbol and when they were observed, so a restarted server shows the
// last known progress instead of the configured defaults. Only public widget
// figures are stored; nothing submitted by visitors is ever written.
package storage
