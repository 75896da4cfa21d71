package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"arbscan/internal/domain/model"
)

// Client is the shared REST helper for venue adapters: one GET per
// operation, JSON-shaped responses, unknown fields tolerated.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GetJSON issues one GET request and decodes the body into v. Transport and
// HTTP-level failures map to ErrVenueUnavailable, decode failures to
// ErrMalformedResponse.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, v any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrVenueUnavailable, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrVenueUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrVenueUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: http %d: %s", model.ErrVenueUnavailable, resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", model.ErrMalformedResponse, err)
	}
	return nil
}

func snippet(b []byte) string {
	const max = 200
	s := strings.TrimSpace(string(b))
	if len(s) > max {
		return s[:max]
	}
	return s
}

// canonicalBase strips a quote-currency suffix from a symbol. Stripping is
// suffix-anchored: a base asset whose name happens to contain the quote
// characters is left intact, and a symbol without the suffix canonicalizes
// to its uppercased self.
func canonicalBase(symbol, suffix string) string {
	s := strings.ToUpper(strings.TrimSpace(symbol))
	return strings.TrimSuffix(s, strings.ToUpper(suffix))
}
