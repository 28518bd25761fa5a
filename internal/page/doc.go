// Package page renders the fundraiser landing page.
//
// The page is a single html/template document built from the campaign
// config, the current totals and the widget embed. Money is shown with the
// configured currency's symbol and comma grouping. The rendered page keeps
// itself current by polling /api/gfm from the browser.
package page
