package cricbuzz

import (
	"context"
	"io"
	"net/http"
	"strings"
)

// fetchPage performs one outbound page fetch with the fixed identity headers.
// It never retries and never returns an error for non-2xx responses; callers
// treat an empty result as a recoverable miss. Retry policy belongs to the
// operations that orchestrate multiple fetches, not here.
func (c *Client) fetchPage(ctx context.Context, url, label string) (string, bool) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "cricbuzz circuit breaker rejected request", "label", label, "state", c.breaker.State())
			return "", false
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		c.logger.WarnContext(ctx, "cricbuzz build request failed", "label", label, "url", url, "error", err)
		return "", false
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.recordFetchResult(false)
		c.logger.WarnContext(ctx, "cricbuzz request failed", "label", label, "url", url, "error", err)
		return "", false
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		c.recordFetchResult(false)
		c.logger.WarnContext(ctx, "cricbuzz read body failed", "label", label, "url", url, "error", err)
		return "", false
	}

	if resp.StatusCode != http.StatusOK {
		c.recordFetchResult(!isRetryableStatus(resp.StatusCode))
		c.logger.WarnContext(ctx, "cricbuzz non-200 response", "label", label, "url", url, "status", resp.StatusCode)
		return "", false
	}

	c.recordFetchResult(true)
	html := string(raw)
	c.logger.DebugContext(ctx, "cricbuzz page fetched", "label", label, "url", url, "bytes", len(html))
	return html, true
}

// fetchFirst walks the candidate ladder and returns the first URL that yields
// HTML, honoring the inter-request delay between attempts.
func (c *Client) fetchFirst(ctx context.Context, candidates []string, label string) (string, string, bool) {
	for i, url := range candidates {
		if strings.TrimSpace(url) == "" {
			continue
		}
		if i > 0 {
			if err := c.sleep(ctx, c.listDelay); err != nil {
				return "", "", false
			}
		}
		if html, ok := c.fetchPage(ctx, url, label); ok {
			return url, html, true
		}
	}
	return "", "", false
}

func (c *Client) recordFetchResult(ok bool) {
	if !c.circuitEnabled {
		return
	}
	if ok {
		c.breaker.RecordSuccess()
	} else {
		c.breaker.RecordFailure()
	}
}

func isRetryableStatus(status int) bool {
	if status == http.StatusTooManyRequests {
		return true
	}
	return status >= 500
}

const maxPageBytes = 8 << 20
