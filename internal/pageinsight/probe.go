package pageinsight

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/Bahjat/site-health/backend/internal/platform/netguard"
)

const probeTimeout = 5 * time.Second

// Resources reports which well-known files an origin serves.
type Resources struct {
	HasRobotsTxt bool
	HasSitemap   bool
}

// Prober checks for robots.txt and sitemap.xml at a site's origin.
type Prober struct {
	client *http.Client
	logger *slog.Logger
}

// NewProber returns a Prober with a 5s timeout that follows redirects under
// the fetcher's policy and blocks connections to private/reserved IP ranges.
func NewProber(logger *slog.Logger) *Prober {
	return newProber(netguard.Transport(probeTimeout, 2), logger)
}

func newProber(transport http.RoundTripper, logger *slog.Logger) *Prober {
	return &Prober{
		logger: logger,
		client: &http.Client{
			Timeout:       probeTimeout,
			Transport:     transport,
			CheckRedirect: netguard.RedirectPolicy,
		},
	}
}

// Probe fetches both files concurrently. Any failure counts as absent.
func (p *Prober) Probe(ctx context.Context, origin *url.URL) Resources {
	var res Resources
	var wg sync.WaitGroup

	wg.Go(func() { res.HasRobotsTxt = p.present(ctx, origin, "/robots.txt") })
	wg.Go(func() { res.HasSitemap = p.present(ctx, origin, "/sitemap.xml") })
	wg.Wait()

	return res
}

// present performs a GET and reports whether the file answered 200 after
// any redirects.
func (p *Prober) present(ctx context.Context, origin *url.URL, path string) bool {
	target := url.URL{Scheme: origin.Scheme, Host: origin.Host, Path: path}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.WarnContext(ctx, "resource probe failed", slog.String("url", target.String()), slog.Any("error", err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}
