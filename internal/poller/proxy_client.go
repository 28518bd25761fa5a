package poller

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/inkboundsociety/fundraiser/internal/totals"
)

// ProxyClient reads totals through a running server's /api/gfm endpoint
type ProxyClient struct {
	baseURL string
	client  *http.Client
}

// NewProxyClient creates a client for the server at baseURL
func NewProxyClient(baseURL string, timeout time.Duration) *ProxyClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ProxyClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchTotals implements Source
func (c *ProxyClient) FetchTotals(ctx context.Context, widgetURL string) totals.Result {
	resp, err := c.get(ctx, widgetURL)
	if err != nil {
		return totals.Failure(err.Error())
	}
	return resp.Result()
}

func (c *ProxyClient) get(ctx context.Context, widgetURL string) (*totals.Response, error) {
	endpoint := c.baseURL + "/api/gfm?url=" + url.QueryEscape(widgetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling proxy: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading proxy response: %w", err)
	}

	var out totals.Response
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("proxy returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("decoding proxy response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && out.OK {
		return nil, fmt.Errorf("proxy returned status %d", resp.StatusCode)
	}
	return &out, nil
}
