package scraper

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/inkboundsociety/fundraiser/internal/logger"
	"github.com/inkboundsociety/fundraiser/internal/totals"
)

const (
	// UserAgent mimics a desktop browser so the widget host serves the full page
	// instead of a bot-blocked stub.
	UserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124 Safari/537.36"
	AcceptLanguage = "en-US,en;q=0.9"
	Accept         = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	DefaultTimeout = 10 * time.Second
	MaxBodyBytes   = 5 << 20
)

// Scraper fetches widget pages and extracts totals from them
type Scraper struct {
	client *http.Client
}

// New creates a Scraper whose requests are bounded by timeout.
// A non-positive timeout falls back to DefaultTimeout.
func New(timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Scraper{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithClient creates a Scraper that uses client for all requests
func NewWithClient(client *http.Client) *Scraper {
	return &Scraper{client: client}
}

// FetchTotals fetches rawURL and labels the goal and raised amounts found in it.
// Failures are reported through Result.ErrorMessage, never as an error.
func (s *Scraper) FetchTotals(ctx context.Context, rawURL string) totals.Result {
	body, err := s.Fetch(ctx, rawURL)
	if err != nil {
		logger.Warn("widget fetch failed", logger.Fields{
			"url":   rawURL,
			"error": err.Error(),
		})
		logger.IncrCounter("scraper.fetch_errors")
		return totals.Failure(err.Error())
	}

	result := totals.Parse(body)
	if !result.Success {
		logger.IncrCounter("scraper.no_totals")
		logger.Info("no totals in widget page", logger.Fields{
			"url":   rawURL,
			"bytes": len(body),
		})
	}
	return result
}

// Fetch downloads the page at rawURL and returns its body as text
func (s *Scraper) Fetch(ctx context.Context, rawURL string) (string, error) {
	if err := validateURL(rawURL); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept-Language", AcceptLanguage)
	req.Header.Set("Accept", Accept)
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	start := time.Now()
	resp, err := s.client.Do(req)
	logger.RecordTiming("scraper.fetch", time.Since(start))
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if err := checkContentType(resp.Header.Get("Content-Type")); err != nil {
		return "", err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}

	return string(data), nil
}

// validateURL accepts only absolute http and https URLs
func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("parsing url: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an absolute http(s) URL: %q", rawURL)
	}
	return nil
}

// checkContentType rejects bodies that are clearly not text. A missing header is
// allowed since some widget hosts omit it.
func checkContentType(header string) error {
	if header == "" {
		return nil
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return fmt.Errorf("parsing content type: %w", err)
	}
	if strings.HasPrefix(mediaType, "text/") {
		return nil
	}
	switch mediaType {
	case "application/xhtml+xml", "application/xml", "application/json", "application/javascript":
		return nil
	}
	return fmt.Errorf("unexpected content type: %s", mediaType)
}

// PageTitle returns the trimmed <title> of an HTML document, or "" when the
// markup has none. Used to tell a real widget page from a block page.
func PageTitle(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}
