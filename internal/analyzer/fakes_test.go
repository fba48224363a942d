package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/narrative"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
	"github.com/Bahjat/site-health/backend/internal/platform/errs"
	"github.com/Bahjat/site-health/backend/internal/platform/workerpool"
)

const testPage = `<!DOCTYPE html>
<html><head>
<title>Example Domain For Testing Purposes</title>
<meta name="viewport" content="width=device-width">
</head><body>
<h1>Example</h1>
<p>Some words on the page.</p>
<a href="/about">About</a>
</body></html>`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memStore is an in-memory Store that keeps every progress write.
type memStore struct {
	mu       sync.Mutex
	sites    map[int64]model.Site
	nextSite int64
	nextJob  int
	jobs     map[string]model.JobProgress
	latest   map[int64]string
	updates  []model.JobProgress
	records  []model.AnalysisRecord
	saveErr  error
}

func newMemStore() *memStore {
	return &memStore{
		sites:  map[int64]model.Site{},
		jobs:   map[string]model.JobProgress{},
		latest: map[int64]string{},
	}
}

func (m *memStore) CreateSite(_ context.Context, url, name string) (model.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextSite++
	site := model.Site{ID: m.nextSite, URL: url, Name: name, CreatedAt: time.Now().UTC()}
	m.sites[site.ID] = site
	return site, nil
}

func (m *memStore) GetSite(_ context.Context, id int64) (model.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[id]
	if !ok {
		return model.Site{}, errs.NotFoundf("site %d not found", id)
	}
	return site, nil
}

func (m *memStore) ListSites(_ context.Context) ([]model.Site, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.Site{}
	for id := int64(1); id <= m.nextSite; id++ {
		if s, ok := m.sites[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) UpdateSiteScore(_ context.Context, id int64, score float64, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	site, ok := m.sites[id]
	if !ok {
		return errs.NotFoundf("site %d not found", id)
	}
	site.LatestScore = &score
	site.LastAnalyzedAt = &at
	m.sites[id] = site
	return nil
}

func (m *memStore) CreateProgress(_ context.Context, siteID int64) (model.JobProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextJob++
	now := time.Now().UTC()
	p := model.JobProgress{
		ID:             fmt.Sprintf("job-%d", m.nextJob),
		SiteID:         siteID,
		Status:         model.JobPending,
		CurrentStep:    "pending",
		StepsCompleted: []string{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	m.jobs[p.ID] = p
	m.latest[siteID] = p.ID
	return p, nil
}

func (m *memStore) UpdateProgress(_ context.Context, p model.JobProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[p.ID]; !ok {
		return errs.NotFoundf("job %s not found", p.ID)
	}
	m.jobs[p.ID] = p
	m.updates = append(m.updates, p)
	return nil
}

func (m *memStore) GetProgress(_ context.Context, id string) (model.JobProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.jobs[id]
	if !ok {
		return model.JobProgress{}, errs.NotFoundf("job %s not found", id)
	}
	return p, nil
}

func (m *memStore) LatestProgress(_ context.Context, siteID int64) (model.JobProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.latest[siteID]
	if !ok {
		return model.JobProgress{}, errs.NotFoundf("no analysis started for site %d", siteID)
	}
	return m.jobs[id], nil
}

func (m *memStore) SaveAnalysis(_ context.Context, rec model.AnalysisRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return 0, m.saveErr
	}
	rec.ID = int64(len(m.records) + 1)
	m.records = append(m.records, rec)
	return rec.ID, nil
}

func (m *memStore) LatestAnalysis(ctx context.Context, siteID int64) (model.AnalysisRecord, error) {
	recs, _ := m.ListAnalyses(ctx, siteID, 1)
	if len(recs) == 0 {
		return model.AnalysisRecord{}, errs.NotFoundf("no analysis found for site %d", siteID)
	}
	return recs[0], nil
}

func (m *memStore) ListAnalyses(_ context.Context, siteID int64, limit int) ([]model.AnalysisRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []model.AnalysisRecord{}
	for i := len(m.records) - 1; i >= 0 && len(out) < limit; i-- {
		if m.records[i].SiteID == siteID {
			out = append(out, m.records[i])
		}
	}
	return out, nil
}

func (m *memStore) job(id string) model.JobProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.jobs[id]
}

func (m *memStore) progressWrites() []model.JobProgress {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.JobProgress(nil), m.updates...)
}

func (m *memStore) savedRecords() []model.AnalysisRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.AnalysisRecord(nil), m.records...)
}

type fakeInspector struct {
	fetch     model.FetchResult
	fetchErr  error
	resources pageinsight.Resources
}

func (f *fakeInspector) Fetch(_ context.Context, targetURL string) (model.FetchResult, error) {
	if f.fetchErr != nil {
		return model.FetchResult{}, f.fetchErr
	}
	res := f.fetch
	if res.FinalURL == "" {
		res.FinalURL = targetURL
	}
	return res, nil
}

func (f *fakeInspector) Probe(_ context.Context, _ string) pageinsight.Resources {
	return f.resources
}

type fakeAuditor struct {
	report model.PerformanceReport
	panics bool
}

func (f *fakeAuditor) Audit(_ context.Context, _ string) model.PerformanceReport {
	if f.panics {
		panic("audit exploded")
	}
	return f.report
}

type fakeNarrator struct {
	got narrative.Input
}

func (f *fakeNarrator) Analyze(_ context.Context, in narrative.Input) *model.NarrativeAnalysis {
	f.got = in
	return &model.NarrativeAnalysis{
		Technical:  map[string]any{"summary": "ok"},
		Content:    map[string]any{"summary": "ok"},
		UX:         map[string]any{"summary": "ok"},
		Authority:  map[string]any{"summary": "ok"},
		ActionPlan: map[string]any{"quick_wins": []any{}},
	}
}

// syncDispatcher runs tasks inline.
type syncDispatcher struct{}

func (syncDispatcher) Submit(task workerpool.Task) error {
	task(context.Background())
	return nil
}

type rejectingDispatcher struct {
	err error
}

func (d rejectingDispatcher) Submit(workerpool.Task) error {
	return d.err
}

func failedAuditReport() model.PerformanceReport {
	return model.PerformanceReport{
		Mobile:  model.PerformanceMetrics{Strategy: model.StrategyMobile, Error: "PageSpeed API request failed: boom"},
		Desktop: model.PerformanceMetrics{Strategy: model.StrategyDesktop, Error: "PageSpeed API request failed: boom"},
	}
}

func healthyInspector() *fakeInspector {
	return &fakeInspector{
		fetch: model.FetchResult{StatusCode: 200, ElapsedSeconds: 0.4, Markup: testPage},
		resources: pageinsight.Resources{
			HasRobotsTxt: true,
			HasSitemap:   true,
		},
	}
}

var errDiskFull = errors.New("disk full")
