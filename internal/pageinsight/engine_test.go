package pageinsight

import (
	"context"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Bahjat/site-health/backend/internal/platform/errs"
)

var errConnectionRefused = errors.New("connection refused")

// mockFetcher implements Fetcher for testing.
type mockFetcher struct {
	body        string
	contentType string
	statusCode  int
	err         error
	requested   string
}

func (m *mockFetcher) Fetch(_ context.Context, target string) (*Response, error) {
	m.requested = target
	if m.err != nil {
		return nil, m.err
	}
	return &Response{
		StatusCode:  m.statusCode,
		ContentType: m.contentType,
		Elapsed:     1500 * time.Millisecond,
		Body:        io.NopCloser(strings.NewReader(m.body)),
	}, nil
}

// mockProber implements resourceProber for testing.
type mockProber struct {
	res    Resources
	origin *url.URL
}

func (m *mockProber) Probe(_ context.Context, origin *url.URL) Resources {
	m.origin = origin
	return m.res
}

func requireKind(t *testing.T, err error, want errs.Kind) *errs.AppError {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var appErr *errs.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *errs.AppError, got %T", err)
	}
	if appErr.Kind != want {
		t.Errorf("Kind = %d, want %d", appErr.Kind, want)
	}
	return appErr
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "bare host", raw: "example.com", want: "https://example.com"},
		{name: "keeps http", raw: "http://example.com/a", want: "http://example.com/a"},
		{name: "trims space", raw: "  https://example.com ", want: "https://example.com"},
		{name: "empty", raw: "", wantErr: true},
		{name: "ftp scheme", raw: "ftp://example.com/file", wantErr: true},
		{name: "no host", raw: "https://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.raw)
			if tt.wantErr {
				requireKind(t, err, errs.InvalidInput)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.raw, got.String(), tt.want)
			}
		})
	}
}

func TestEngine_Fetch_Success(t *testing.T) {
	f := &mockFetcher{body: "<html><title>T</title></html>", statusCode: 200}
	engine := NewEngine(f, &mockProber{})

	result, err := engine.Fetch(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.requested != "https://example.com" {
		t.Errorf("requested = %q, want https://example.com", f.requested)
	}
	if result.FinalURL != "https://example.com" {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
	if result.ElapsedSeconds != 1.5 {
		t.Errorf("ElapsedSeconds = %v, want 1.5", result.ElapsedSeconds)
	}
	if result.Markup != "<html><title>T</title></html>" {
		t.Errorf("Markup = %q", result.Markup)
	}
}

func TestEngine_Fetch_DecodesCharset(t *testing.T) {
	// "café" in ISO-8859-1.
	body := "<html><body>caf\xe9</body></html>"
	engine := NewEngine(&mockFetcher{body: body, contentType: "text/html; charset=iso-8859-1", statusCode: 200}, &mockProber{})

	result, err := engine.Fetch(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Markup, "café") {
		t.Errorf("Markup = %q, want decoded café", result.Markup)
	}
}

func TestEngine_Fetch_Errors(t *testing.T) {
	tests := []struct {
		name       string
		fetcher    *mockFetcher
		url        string
		wantKind   errs.Kind
		wantStatus int
	}{
		{name: "connection refused", fetcher: &mockFetcher{err: errConnectionRefused}, url: "https://down.example.com", wantKind: errs.Unreachable},
		{name: "deadline", fetcher: &mockFetcher{err: context.DeadlineExceeded}, url: "https://slow.example.com", wantKind: errs.Timeout},
		{name: "not found", fetcher: &mockFetcher{body: "nope", statusCode: 404}, url: "https://example.com/missing", wantKind: errs.Unreachable, wantStatus: 404},
		{name: "server error", fetcher: &mockFetcher{statusCode: 503}, url: "https://example.com", wantKind: errs.Unreachable, wantStatus: 503},
		{name: "non-http scheme", fetcher: &mockFetcher{}, url: "ftp://example.com/file", wantKind: errs.InvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(tt.fetcher, &mockProber{}).Fetch(context.Background(), tt.url)
			appErr := requireKind(t, err, tt.wantKind)
			if appErr.UpstreamStatus != tt.wantStatus {
				t.Errorf("UpstreamStatus = %d, want %d", appErr.UpstreamStatus, tt.wantStatus)
			}
		})
	}
}

func TestEngine_Probe(t *testing.T) {
	p := &mockProber{res: Resources{HasRobotsTxt: true}}
	engine := NewEngine(&mockFetcher{}, p)

	got := engine.Probe(context.Background(), "example.com/deep/page")
	if !got.HasRobotsTxt || got.HasSitemap {
		t.Errorf("Probe() = %+v", got)
	}
	if p.origin == nil || p.origin.Host != "example.com" {
		t.Errorf("origin = %v, want host example.com", p.origin)
	}
}

func TestEngine_Probe_InvalidURL(t *testing.T) {
	p := &mockProber{res: Resources{HasRobotsTxt: true, HasSitemap: true}}

	got := NewEngine(&mockFetcher{}, p).Probe(context.Background(), "ftp://example.com")
	if got.HasRobotsTxt || got.HasSitemap {
		t.Errorf("Probe() = %+v, want nothing", got)
	}
	if p.origin != nil {
		t.Error("prober should not be called for an unusable URL")
	}
}
