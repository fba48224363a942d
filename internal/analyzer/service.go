package analyzer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
	"github.com/Bahjat/site-health/backend/internal/platform/errs"
	"github.com/Bahjat/site-health/backend/internal/platform/requestid"
	"github.com/Bahjat/site-health/backend/internal/platform/workerpool"
)

// Service owns sites and analysis runs. Runs are handed to a Dispatcher
// and observed through their stored progress.
type Service struct {
	store  Store
	runner *Runner
	pool   Dispatcher
	logger *slog.Logger
}

// NewService creates a Service.
func NewService(store Store, runner *Runner, pool Dispatcher, logger *slog.Logger) *Service {
	return &Service{store: store, runner: runner, pool: pool, logger: logger}
}

// Start registers a pending run for siteID and queues it. The returned
// progress is the pending record; callers poll Progress afterwards.
func (s *Service) Start(ctx context.Context, siteID int64) (model.JobProgress, error) {
	logger := s.logger.With(slog.Int64("site_id", siteID), requestid.Attr(ctx))

	site, err := s.store.GetSite(ctx, siteID)
	if err != nil {
		return model.JobProgress{}, err
	}

	job, err := s.store.CreateProgress(ctx, site.ID)
	if err != nil {
		return model.JobProgress{}, err
	}

	err = s.pool.Submit(func(runCtx context.Context) {
		s.runner.Run(runCtx, job, site)
	})
	if err != nil {
		logger.WarnContext(ctx, "analysis not queued", slog.String("job_id", job.ID), slog.Any("error", err))

		t := newTracker(s.store, job, logger, s.runner.now)
		t.fail(ctx, "analysis queue unavailable: "+err.Error())

		msg := "The analysis queue is full. Please retry shortly."
		if errors.Is(err, workerpool.ErrClosed) {
			msg = "The server is shutting down."
		}
		return model.JobProgress{}, &errs.AppError{Kind: errs.Unavailable, Message: msg, Cause: err}
	}

	logger.InfoContext(ctx, "analysis queued", slog.String("job_id", job.ID))
	return job, nil
}

// Progress returns the most recently started run for siteID.
func (s *Service) Progress(ctx context.Context, siteID int64) (model.JobProgress, error) {
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return model.JobProgress{}, err
	}
	return s.store.LatestProgress(ctx, siteID)
}

// Job returns one run of siteID. Runs of other sites are reported as not found.
func (s *Service) Job(ctx context.Context, siteID int64, jobID string) (model.JobProgress, error) {
	job, err := s.store.GetProgress(ctx, jobID)
	if err != nil {
		return model.JobProgress{}, err
	}
	if job.SiteID != siteID {
		return model.JobProgress{}, errs.NotFoundf("job %s not found for site %d", jobID, siteID)
	}
	return job, nil
}

// Latest returns the newest completed record with its recommendations.
func (s *Service) Latest(ctx context.Context, siteID int64) (model.LatestAnalysis, error) {
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return model.LatestAnalysis{}, err
	}

	rec, err := s.store.LatestAnalysis(ctx, siteID)
	if err != nil {
		return model.LatestAnalysis{}, err
	}

	return model.LatestAnalysis{
		Analysis:        rec,
		CoreWebVitals:   rec.Performance.Mobile.CoreWebVitals,
		Recommendations: Recommendations(rec),
	}, nil
}

// History returns up to limit records for siteID, newest first.
func (s *Service) History(ctx context.Context, siteID int64, limit int) ([]model.AnalysisRecord, error) {
	if _, err := s.store.GetSite(ctx, siteID); err != nil {
		return nil, err
	}
	return s.store.ListAnalyses(ctx, siteID, limit)
}

// CreateSite registers a site after normalizing its URL.
func (s *Service) CreateSite(ctx context.Context, rawURL, name string) (model.Site, error) {
	u, err := pageinsight.NormalizeURL(rawURL)
	if err != nil {
		return model.Site{}, err
	}
	return s.store.CreateSite(ctx, u.String(), name)
}

// ListSites returns every registered site.
func (s *Service) ListSites(ctx context.Context) ([]model.Site, error) {
	return s.store.ListSites(ctx)
}

// GetSite returns one site.
func (s *Service) GetSite(ctx context.Context, siteID int64) (model.Site, error) {
	return s.store.GetSite(ctx, siteID)
}
