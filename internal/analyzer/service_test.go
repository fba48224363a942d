package analyzer

import (
	"context"
	"strings"
	"testing"

	"github.com/Bahjat/site-health/backend/internal/model"
	"github.com/Bahjat/site-health/backend/internal/platform/errs"
	"github.com/Bahjat/site-health/backend/internal/platform/workerpool"
)

func newTestService(store *memStore, pool Dispatcher) *Service {
	runner := NewRunner(store, healthyInspector(), &fakeAuditor{report: failedAuditReport()}, nil, discardLogger())
	return NewService(store, runner, pool, discardLogger())
}

func TestService_StartRunsToCompletion(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, syncDispatcher{})
	ctx := context.Background()

	site, err := svc.CreateSite(ctx, "example.com", "Example")
	if err != nil {
		t.Fatalf("CreateSite: %v", err)
	}
	if site.URL != "https://example.com" {
		t.Errorf("URL = %q, want https://example.com", site.URL)
	}

	job, err := svc.Start(ctx, site.ID)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if job.Status != model.JobPending {
		t.Errorf("returned Status = %q, want pending", job.Status)
	}

	progress, err := svc.Progress(ctx, site.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.ID != job.ID || progress.Status != model.JobCompleted {
		t.Errorf("progress = %+v", progress)
	}

	latest, err := svc.Latest(ctx, site.ID)
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.Analysis.ID != *progress.ResultID {
		t.Errorf("Latest ID = %d, want %d", latest.Analysis.ID, *progress.ResultID)
	}
	if latest.Recommendations == nil {
		t.Error("Recommendations is nil, want empty slice at least")
	}

	history, err := svc.History(ctx, site.ID, 10)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("History len = %d, want 1", len(history))
	}
}

func TestService_StartQueueFull(t *testing.T) {
	store := newMemStore()
	svc := newTestService(store, rejectingDispatcher{err: workerpool.ErrQueueFull})
	ctx := context.Background()

	site, _ := svc.CreateSite(ctx, "https://example.com", "")

	_, err := svc.Start(ctx, site.ID)
	if errs.KindOf(err) != errs.Unavailable {
		t.Fatalf("kind = %v, want Unavailable (err: %v)", errs.KindOf(err), err)
	}

	progress, err := svc.Progress(ctx, site.ID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if progress.Status != model.JobFailed {
		t.Errorf("Status = %q, want failed", progress.Status)
	}
	if !strings.Contains(progress.ErrorMessage, "queue") {
		t.Errorf("ErrorMessage = %q", progress.ErrorMessage)
	}
}

func TestService_UnknownSite(t *testing.T) {
	svc := newTestService(newMemStore(), syncDispatcher{})
	ctx := context.Background()

	if _, err := svc.Start(ctx, 42); errs.KindOf(err) != errs.NotFound {
		t.Errorf("Start kind = %v, want NotFound", errs.KindOf(err))
	}
	if _, err := svc.Progress(ctx, 42); errs.KindOf(err) != errs.NotFound {
		t.Errorf("Progress kind = %v, want NotFound", errs.KindOf(err))
	}
	if _, err := svc.Latest(ctx, 42); errs.KindOf(err) != errs.NotFound {
		t.Errorf("Latest kind = %v, want NotFound", errs.KindOf(err))
	}
	if _, err := svc.History(ctx, 42, 10); errs.KindOf(err) != errs.NotFound {
		t.Errorf("History kind = %v, want NotFound", errs.KindOf(err))
	}
}

func TestService_CreateSiteRejectsBadURL(t *testing.T) {
	svc := newTestService(newMemStore(), syncDispatcher{})

	_, err := svc.CreateSite(context.Background(), "ftp://example.com", "")
	if errs.KindOf(err) != errs.InvalidInput {
		t.Errorf("kind = %v, want InvalidInput", errs.KindOf(err))
	}
}
