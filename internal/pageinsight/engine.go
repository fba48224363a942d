package pageinsight

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/html/charset"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/platform/errs"
)

const invalidURLMessage = "Invalid URL format. Please ensure you entered a valid URL (e.g., https://example.com)."

// resourceProber defines how the engine checks well-known files.
type resourceProber interface {
	Probe(ctx context.Context, origin *url.URL) Resources
}

// Engine fetches pages and probes their origins.
type Engine struct {
	fetcher Fetcher
	prober  resourceProber
}

// NewEngine returns an Engine backed by the given Fetcher and prober.
func NewEngine(fetcher Fetcher, prober resourceProber) *Engine {
	return &Engine{
		fetcher: fetcher,
		prober:  prober,
	}
}

// NormalizeURL prepends https:// to scheme-less input and accepts only
// absolute http(s) URLs.
func NormalizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage}
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage, Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: "Only http and https URLs are supported."}
	}
	if parsed.Host == "" {
		return nil, &errs.AppError{Kind: errs.InvalidInput, Message: invalidURLMessage}
	}
	return parsed, nil
}

// Fetch retrieves targetURL once and returns its decoded markup. Network
// errors, timeouts and non-2xx statuses are all fatal to the caller.
func (e *Engine) Fetch(ctx context.Context, targetURL string) (model.FetchResult, error) {
	parsed, err := NormalizeURL(targetURL)
	if err != nil {
		return model.FetchResult{}, err
	}

	resp, err := e.fetcher.Fetch(ctx, parsed.String())
	if err != nil {
		return model.FetchResult{}, classifyFetchError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.FetchResult{}, &errs.AppError{
			Kind:           errs.Unreachable,
			UpstreamStatus: resp.StatusCode,
			Message:        fmt.Sprintf("The provided URL returned status %d.", resp.StatusCode),
		}
	}

	decoded, err := charset.NewReader(resp.Body, resp.ContentType)
	if err != nil {
		return model.FetchResult{}, &errs.AppError{Kind: errs.ParsingFailed, Message: "Failed to decode the page.", Cause: err}
	}
	markup, err := io.ReadAll(decoded)
	if err != nil {
		return model.FetchResult{}, classifyFetchError(err)
	}

	finalURL := resp.FinalURL
	if finalURL == "" {
		finalURL = parsed.String()
	}

	return model.FetchResult{
		FinalURL:       finalURL,
		StatusCode:     resp.StatusCode,
		ElapsedSeconds: resp.Elapsed.Seconds(),
		Markup:         string(markup),
	}, nil
}

// Probe checks robots.txt and sitemap.xml at the origin of pageURL.
// An unusable URL yields no resources.
func (e *Engine) Probe(ctx context.Context, pageURL string) Resources {
	parsed, err := NormalizeURL(pageURL)
	if err != nil {
		return Resources{}
	}
	return e.prober.Probe(ctx, parsed)
}

func classifyFetchError(err error) *errs.AppError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: "The provided URL took too long to respond.",
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.Unreachable,
		Message: "The provided URL could not be reached. Check the address.",
		Cause:   err,
	}
}
