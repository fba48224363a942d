package analyzer

import (
	"context"
	"time"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/narrative"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
	"github.com/Bahjat/site-health/backend/internal/platform/workerpool"
)

// Inspector fetches the primary page and probes its origin.
type Inspector interface {
	Fetch(ctx context.Context, targetURL string) (model.FetchResult, error)
	Probe(ctx context.Context, pageURL string) pageinsight.Resources
}

// Auditor runs the external performance audit. It reports per-strategy
// failures inside the report and never fails the run.
type Auditor interface {
	Audit(ctx context.Context, pageURL string) model.PerformanceReport
}

// Narrator produces the model-generated narrative for a run.
type Narrator interface {
	Analyze(ctx context.Context, in narrative.Input) *model.NarrativeAnalysis
}

// Dispatcher runs tasks off the request path.
type Dispatcher interface {
	Submit(task workerpool.Task) error
}

// ProgressStore persists job progress.
type ProgressStore interface {
	CreateProgress(ctx context.Context, siteID int64) (model.JobProgress, error)
	UpdateProgress(ctx context.Context, p model.JobProgress) error
	GetProgress(ctx context.Context, id string) (model.JobProgress, error)
	LatestProgress(ctx context.Context, siteID int64) (model.JobProgress, error)
}

// Store is the persistence boundary the analyzer depends on.
type Store interface {
	ProgressStore

	CreateSite(ctx context.Context, url, name string) (model.Site, error)
	GetSite(ctx context.Context, id int64) (model.Site, error)
	ListSites(ctx context.Context) ([]model.Site, error)
	UpdateSiteScore(ctx context.Context, id int64, score float64, at time.Time) error

	SaveAnalysis(ctx context.Context, rec model.AnalysisRecord) (int64, error)
	LatestAnalysis(ctx context.Context, siteID int64) (model.AnalysisRecord, error)
	ListAnalyses(ctx context.Context, siteID int64, limit int) ([]model.AnalysisRecord, error)
}
