// Package pagespeed runs Google PageSpeed Insights audits and normalizes
// their results into model.PerformanceMetrics.
package pagespeed

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/option"
	psi "google.golang.org/api/pagespeedonline/v5"

	"github.com/Bahjat/site-health/backend/internal/model"
)

const (
	auditLCP = "largest-contentful-paint"
	auditFID = "max-potential-fid"
	auditCLS = "cumulative-layout-shift"
	auditFCP = "first-contentful-paint"
	auditSI  = "speed-index"
	auditTBT = "total-blocking-time"
	auditTTI = "interactive"
)

const errNoLighthouseResult = "PageSpeed API response had no Lighthouse result"

var categories = []string{"PERFORMANCE", "ACCESSIBILITY", "BEST_PRACTICES", "SEO"}

// Options configures an Auditor.
type Options struct {
	// APIKey is optional; anonymous calls are heavily rate limited upstream.
	APIKey string
	// Endpoint overrides the service base URL.
	Endpoint string
	Timeout  time.Duration
	// HTTPClient replaces the default transport.
	HTTPClient *http.Client
}

// Auditor audits a URL under both device strategies.
type Auditor struct {
	svc     *psi.Service
	timeout time.Duration
	logger  *slog.Logger
}

// NewAuditor builds the PageSpeed service client.
func NewAuditor(ctx context.Context, opts Options, logger *slog.Logger) (*Auditor, error) {
	var clientOpts []option.ClientOption
	switch {
	case opts.HTTPClient != nil:
		clientOpts = append(clientOpts, option.WithHTTPClient(opts.HTTPClient))
	case opts.APIKey != "":
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	default:
		clientOpts = append(clientOpts, option.WithoutAuthentication())
	}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := psi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("pagespeed: create service: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Auditor{svc: svc, timeout: timeout, logger: logger}, nil
}

// Audit runs the mobile and desktop audits concurrently. A failed strategy
// carries its error text instead of metrics; Audit itself never fails.
func (a *Auditor) Audit(ctx context.Context, pageURL string) model.PerformanceReport {
	var report model.PerformanceReport
	var wg sync.WaitGroup

	wg.Go(func() { report.Mobile = a.run(ctx, pageURL, model.StrategyMobile) })
	wg.Go(func() { report.Desktop = a.run(ctx, pageURL, model.StrategyDesktop) })
	wg.Wait()

	return report
}

func (a *Auditor) run(ctx context.Context, pageURL string, strategy model.Strategy) model.PerformanceMetrics {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.svc.Pagespeedapi.Runpagespeed(pageURL).
		Strategy(strings.ToUpper(string(strategy))).
		Category(categories...).
		Context(ctx).
		Do()
	if err != nil {
		a.logger.WarnContext(ctx, "performance audit failed",
			slog.String("url", pageURL),
			slog.String("strategy", string(strategy)),
			slog.Any("error", err),
		)
		return model.PerformanceMetrics{
			Strategy: strategy,
			Error:    fmt.Sprintf("PageSpeed API request failed: %v", err),
		}
	}

	if resp.LighthouseResult == nil {
		a.logger.WarnContext(ctx, "performance audit returned no lighthouse result",
			slog.String("url", pageURL),
			slog.String("strategy", string(strategy)),
		)
		return model.PerformanceMetrics{Strategy: strategy, Error: errNoLighthouseResult}
	}

	return normalize(strategy, resp.LighthouseResult)
}

func normalize(strategy model.Strategy, lh *psi.LighthouseResultV5) model.PerformanceMetrics {
	m := model.PerformanceMetrics{Strategy: strategy}

	if c := lh.Categories; c != nil {
		m.PerformanceScore = categoryScore(c.Performance)
		m.AccessibilityScore = categoryScore(c.Accessibility)
		m.BestPracticesScore = categoryScore(c.BestPractices)
		m.SEOScore = categoryScore(c.Seo)
	}

	m.CoreWebVitals = model.CoreWebVitals{
		LCPSeconds: numeric(lh.Audits, auditLCP, 1.0/1000, 2),
		FIDMs:      numeric(lh.Audits, auditFID, 1, 2),
		CLS:        numeric(lh.Audits, auditCLS, 1, 3),
	}
	m.OtherMetrics = model.OtherMetrics{
		FirstContentfulPaint: lh.Audits[auditFCP].DisplayValue,
		SpeedIndex:           lh.Audits[auditSI].DisplayValue,
		TotalBlockingTime:    lh.Audits[auditTBT].DisplayValue,
		TimeToInteractive:    lh.Audits[auditTTI].DisplayValue,
	}
	return m
}

// categoryScore rescales a 0-1 Lighthouse score to 0-100 with one decimal.
// Missing or null scores count as zero.
func categoryScore(c *psi.LighthouseCategoryV5) float64 {
	if c == nil {
		return 0
	}
	score, ok := c.Score.(float64)
	if !ok {
		return 0
	}
	return round(score*100, 1)
}

// numeric returns an audit's numeric value scaled and rounded, or nil when
// the audit is absent or did not produce a value.
func numeric(audits map[string]psi.LighthouseAuditResultV5, id string, scale float64, places int) *float64 {
	audit, ok := audits[id]
	if !ok {
		return nil
	}
	switch audit.ScoreDisplayMode {
	case "error", "notApplicable", "manual":
		return nil
	}
	v := round(audit.NumericValue*scale, places)
	return &v
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
