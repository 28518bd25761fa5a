// Package cli implements the command-line interface for the fundraiser.
//
// The cli package provides the Cobra-based CLI: serve runs the site and the
// totals poller, totals scrapes a widget page once and prints the result
// (text/JSON), render writes the landing page to stdout, and watch follows a
// running server's /api/gfm endpoint. Every command loads configuration the
// same way: defaults, then the YAML file, then .env and environment overrides.
package cli
