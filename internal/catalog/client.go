// Package catalog proxies the external movie listing service.
package catalog

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client calls the upstream movie catalog with HTTP basic auth. Single
// attempt, fail fast: no retries and no circuit breaking.
type Client struct {
	url        string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(url, username, password string) *Client {
	return &Client{
		url:      url,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Movies performs the upstream GET. On 200 the body is returned verbatim;
// any other status comes back as *UpstreamError carrying that status code.
func (c *Client) Movies(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read catalog response: %w", err)
	}
	return body, nil
}

// UpstreamError reports a non-200 response from the catalog service.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}
