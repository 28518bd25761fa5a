// Package server exposes the fundraiser over HTTP.
//
// Routes:
//
//	GET /            landing page rendered with the poller's current totals
//	GET /api/gfm     scrape ?url= and return labelled totals as JSON
//	GET /api/totals  the totals the server is currently displaying
//	GET /health      liveness
//	GET /metrics     counters, gauges and timings as JSON
//	GET /draw.ics    calendar invite for the prize draw
//	GET /static/     files from the configured static directory
//
// Upstream problems never surface as 5xx from /api/gfm. They are reported as
// HTTP 200 with ok=false so the page can keep its previous values.
package server
