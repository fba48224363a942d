package pageinsight

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/Bahjat/site-health/backend/internal/platform/netguard"
)

// Fetcher defines how the engine retrieves raw pages.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Response, error)
}

// Response is a fetched page. Body is capped and must be closed by the caller.
type Response struct {
	FinalURL    string
	StatusCode  int
	ContentType string
	Elapsed     time.Duration
	Body        io.ReadCloser
}

// limitedReadCloser reads from a LimitReader but closes the original body.
type limitedReadCloser struct {
	io.Reader
	io.Closer
}

// HTTPClient implements Fetcher using a real HTTP client.
type HTTPClient struct {
	client *http.Client
}

const (
	userAgent       = "SiteHealthBot/1.0 (+analysis)"
	fetchTimeout    = 10 * time.Second
	maxResponseBody = 10 << 20
)

// NewHTTPClient returns a Fetcher backed by an http.Client with a 10s timeout,
// a transport that refuses private/reserved addresses and redirect validation.
func NewHTTPClient() *HTTPClient {
	return newHTTPClient(netguard.Transport(fetchTimeout, 10))
}

func newHTTPClient(transport http.RoundTripper) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{
			Timeout:       fetchTimeout,
			Transport:     transport,
			CheckRedirect: netguard.RedirectPolicy,
		},
	}
}

// Fetch issues a single GET for targetURL. Elapsed covers the time until
// response headers arrived.
func (c *HTTPClient) Fetch(ctx context.Context, targetURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html")

	start := time.Now()
	resp, err := c.client.Do(req) //nolint:bodyclose // body is returned to caller via limitedReadCloser
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	return &Response{
		FinalURL:    resp.Request.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Elapsed:     elapsed,
		Body: &limitedReadCloser{
			Reader: io.LimitReader(resp.Body, maxResponseBody),
			Closer: resp.Body,
		},
	}, nil
}
