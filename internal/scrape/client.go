package scrape

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"tsarchiver/internal/logging"
)

// Fetcher is the fetch capability the reconciler depends on. Status is the
// raw HTTP status code; redirects are reported, not followed, because a
// redirected show page means "not yet published".
type Fetcher interface {
	Fetch(ctx context.Context, url string) (body []byte, status int, err error)
	Download(ctx context.Context, url, destPath string) error
}

// Client is the HTTP implementation of Fetcher.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client with the given request timeout.
func NewClient(timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		logger: logging.NewComponentLogger(logger, "fetch"),
	}
}

// Fetch retrieves a URL and returns its body and status code. Non-2xx
// responses are not errors; the caller decides what a 404 or 301 means.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, int, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, response.StatusCode, fmt.Errorf("read %s: %w", url, err)
	}
	c.logger.Debug("fetched", logging.String("url", url), logging.Int("status", response.StatusCode))
	return body, response.StatusCode, nil
}

// Download streams a URL to a file on disk. Non-2xx responses are errors.
func (c *Client) Download(ctx context.Context, url, destPath string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	response, err := c.httpClient.Do(request)
	if err != nil {
		return fmt.Errorf("download %s: %w", url, err)
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return fmt.Errorf("download %s: unexpected status %d", url, response.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create %s: %w", destPath, err)
	}
	written, err := io.Copy(out, response.Body)
	if err != nil {
		_ = out.Close()
		_ = os.Remove(destPath)
		return fmt.Errorf("write %s: %w", destPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", destPath, err)
	}
	c.logger.Debug("downloaded", logging.String("url", url), logging.Int64("bytes", written))
	return nil
}
