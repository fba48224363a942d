package workerpool

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPool_RunsAllTasks(t *testing.T) {
	p := New(3, 50, discardLogger())

	var ran atomic.Int32
	for range 50 {
		if err := p.Submit(func(context.Context) { ran.Add(1) }); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if ran.Load() != 50 {
		t.Errorf("ran = %d, want 50", ran.Load())
	}
}

func TestPool_QueueFull(t *testing.T) {
	p := New(1, 1, discardLogger())

	release := make(chan struct{})
	started := make(chan struct{})

	if err := p.Submit(func(context.Context) {
		close(started)
		<-release
	}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	<-started

	// Worker is busy; this fills the queue.
	if err := p.Submit(func(context.Context) {}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if err := p.Submit(func(context.Context) {}); !errors.Is(err, ErrQueueFull) {
		t.Errorf("Submit on full queue = %v, want ErrQueueFull", err)
	}

	close(release)
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	p := New(1, 1, discardLogger())
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if err := p.Submit(func(context.Context) {}); !errors.Is(err, ErrClosed) {
		t.Errorf("Submit = %v, want ErrClosed", err)
	}
	// Second shutdown is a no-op.
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown: %v", err)
	}
}

func TestPool_ShutdownTimeout(t *testing.T) {
	p := New(1, 1, discardLogger())

	release := make(chan struct{})
	defer close(release)
	started := make(chan struct{})
	_ = p.Submit(func(context.Context) {
		close(started)
		<-release
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := p.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown = %v, want deadline exceeded", err)
	}
}

func TestPool_RecoversPanics(t *testing.T) {
	p := New(1, 2, discardLogger())

	var ran atomic.Bool
	_ = p.Submit(func(context.Context) { panic("boom") })
	_ = p.Submit(func(context.Context) { ran.Store(true) })

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if !ran.Load() {
		t.Error("worker died after a panicking task")
	}
}
