package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/narrative"
	"github.com/Bahjat/site-health/backend/internal/pageinsight"
	"github.com/Bahjat/site-health/backend/internal/scoring"
)

// Runner executes one analysis run end to end and drives its progress.
type Runner struct {
	store     Store
	inspector Inspector
	auditor   Auditor
	narrator  Narrator
	logger    *slog.Logger
	now       func() time.Time
}

// NewRunner creates a Runner. A nil narrator leaves the narrative out of
// the stored records.
func NewRunner(store Store, inspector Inspector, auditor Auditor, narrator Narrator, logger *slog.Logger) *Runner {
	return &Runner{
		store:     store,
		inspector: inspector,
		auditor:   auditor,
		narrator:  narrator,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run drives job to a terminal state. It never returns an error: every
// failure, panics included, ends up on the job record.
func (r *Runner) Run(ctx context.Context, job model.JobProgress, site model.Site) {
	logger := r.logger.With(
		slog.String("job_id", job.ID),
		slog.Int64("site_id", site.ID),
		slog.String("url", site.URL),
	)
	t := newTracker(r.store, job, logger, r.now)

	defer func() {
		if rec := recover(); rec != nil {
			logger.ErrorContext(ctx, "analysis panicked", slog.Any("panic", rec))
			t.fail(ctx, fmt.Sprintf("internal error: %v", rec))
		}
	}()

	id, score, err := r.execute(ctx, t, site)
	if err != nil {
		logger.ErrorContext(ctx, "analysis failed", slog.Any("error", err))
		t.fail(ctx, err.Error())
		return
	}

	t.complete(ctx, id)

	if err := r.store.UpdateSiteScore(context.WithoutCancel(ctx), site.ID, score, r.now()); err != nil {
		logger.WarnContext(ctx, "site score update failed", slog.Any("error", err))
	}
	logger.InfoContext(ctx, "analysis complete", slog.Int64("analysis_id", id), slog.Float64("total_score", score))
}

func (r *Runner) execute(ctx context.Context, t *tracker, site model.Site) (int64, float64, error) {
	t.advance(ctx, stepStarting)

	target, err := pageinsight.NormalizeURL(site.URL)
	if err != nil {
		return 0, 0, err
	}
	pageURL := target.String()

	t.advance(ctx, stepFetching)
	fetched, err := r.inspector.Fetch(ctx, pageURL)
	if err != nil {
		return 0, 0, err
	}

	t.advance(ctx, stepProbing)
	resources := r.inspector.Probe(ctx, pageURL)

	t.advance(ctx, stepScoring)
	page, err := pageinsight.Parse(strings.NewReader(fetched.Markup))
	if err != nil {
		return 0, 0, fmt.Errorf("parse page: %w", err)
	}
	result := scoring.Evaluate(scoring.Input{
		URL:       pageURL,
		Fetch:     fetched,
		Resources: resources,
		Page:      page,
	})

	rec := model.AnalysisRecord{
		SiteID:         site.ID,
		URL:            pageURL,
		TotalScore:     result.Aggregate.CappedTotal,
		RawTotalScore:  result.Aggregate.RawTotal,
		IsCapped:       result.Aggregate.IsCapped,
		TechnicalScore: result.Technical.Value,
		ContentScore:   result.Content.Value,
		UXScore:        result.UX.Value,
		AuthorityScore: result.Authority.Value,
		Breakdown:      result.Aggregate,
		Technical:      result.TechnicalDetails,
		Content:        result.ContentDetails,
		UX:             result.UXDetails,
	}

	if r.narrator != nil {
		t.advance(ctx, stepNarrative)
		rec.Narrative = r.narrator.Analyze(ctx, narrative.Input{
			URL:        pageURL,
			TotalScore: rec.TotalScore,
			Technical:  rec.Technical,
			Content:    rec.Content,
			UX:         rec.UX,
			HTML:       page.HTML,
			PageText:   page.Text,
		})
	}

	t.advance(ctx, stepAudit)
	rec.Performance = r.auditor.Audit(ctx, pageURL)

	t.advance(ctx, stepSaving)
	rec.CreatedAt = r.now()
	id, err := r.store.SaveAnalysis(ctx, rec)
	if err != nil {
		return 0, 0, fmt.Errorf("save analysis: %w", err)
	}

	return id, rec.TotalScore, nil
}
