package analyzer

import (
	"context"
	"log/slog"
	"time"

	"github.com/Bahjat/site-health/backend/internal/model"
)

// step is a progress checkpoint of a run.
type step struct {
	percentage int
	label      string
}

var (
	stepStarting  = step{0, "starting"}
	stepFetching  = step{10, "fetching page"}
	stepProbing   = step{30, "checking robots.txt and sitemap.xml"}
	stepScoring   = step{50, "scoring page"}
	stepNarrative = step{70, "running narrative analysis"}
	stepAudit     = step{95, "running performance audit"}
	stepSaving    = step{98, "saving results"}
)

const (
	labelCompleted = "completed"
	labelFailed    = "failed"

	terminalUpdateTimeout = 10 * time.Second
)

// tracker owns one run's JobProgress. Only the run goroutine touches it;
// readers see the copies written to the store.
type tracker struct {
	store  ProgressStore
	p      model.JobProgress
	logger *slog.Logger
	now    func() time.Time
}

func newTracker(store ProgressStore, p model.JobProgress, logger *slog.Logger, now func() time.Time) *tracker {
	if p.StepsCompleted == nil {
		p.StepsCompleted = []string{}
	}
	return &tracker{store: store, p: p, logger: logger, now: now}
}

// snapshot returns a copy safe to hand out.
func (t *tracker) snapshot() model.JobProgress {
	p := t.p
	p.StepsCompleted = append([]string(nil), t.p.StepsCompleted...)
	return p
}

// advance moves the run to s. Percentages never go backwards and a
// terminal job is left alone. Store errors are logged, not returned: a
// lost intermediate update must not abort the run.
func (t *tracker) advance(ctx context.Context, s step) {
	if t.p.Status.Terminal() {
		return
	}

	t.finishCurrentStep()
	t.p.Status = model.JobRunning
	t.p.CurrentStep = s.label
	t.p.Percentage = max(t.p.Percentage, s.percentage)
	t.p.UpdatedAt = t.now()

	if err := t.store.UpdateProgress(ctx, t.snapshot()); err != nil {
		t.logger.WarnContext(ctx, "progress update failed", slog.String("step", s.label), slog.Any("error", err))
	}
}

// complete marks the run completed with its record ID.
func (t *tracker) complete(ctx context.Context, resultID int64) {
	if t.p.Status.Terminal() {
		return
	}

	t.finishCurrentStep()
	now := t.now()
	t.p.Status = model.JobCompleted
	t.p.CurrentStep = labelCompleted
	t.p.Percentage = 100
	t.p.ResultID = &resultID
	t.p.UpdatedAt = now
	t.p.CompletedAt = &now

	t.persistTerminal(ctx)
}

// fail marks the run failed. The percentage is kept as reached.
func (t *tracker) fail(ctx context.Context, message string) {
	if t.p.Status.Terminal() {
		return
	}

	now := t.now()
	t.p.Status = model.JobFailed
	t.p.CurrentStep = labelFailed
	t.p.ErrorMessage = message
	t.p.ResultID = nil
	t.p.UpdatedAt = now
	t.p.CompletedAt = &now

	t.persistTerminal(ctx)
}

// persistTerminal writes the final state on a context detached from the
// run's, so a cancelled run still reaches a terminal record.
func (t *tracker) persistTerminal(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), terminalUpdateTimeout)
	defer cancel()

	if err := t.store.UpdateProgress(ctx, t.snapshot()); err != nil {
		t.logger.ErrorContext(ctx, "terminal progress update failed",
			slog.String("status", string(t.p.Status)),
			slog.Any("error", err),
		)
	}
}

func (t *tracker) finishCurrentStep() {
	if t.p.Status == model.JobRunning && t.p.CurrentStep != "" {
		t.p.StepsCompleted = append(t.p.StepsCompleted, t.p.CurrentStep)
	}
}
