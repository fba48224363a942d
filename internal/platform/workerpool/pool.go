// Package workerpool runs fire-and-forget tasks on a fixed set of goroutines
// fed by a bounded queue.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrQueueFull is returned when the queue cannot take another task.
	ErrQueueFull = errors.New("workerpool: queue is full")
	// ErrClosed is returned once Shutdown has been called.
	ErrClosed = errors.New("workerpool: pool is closed")
)

// Task is a unit of work. The context is never cancelled by the pool.
type Task func(ctx context.Context)

// Pool dispatches tasks to a fixed number of workers.
type Pool struct {
	tasks  chan Task
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// New starts workers goroutines draining a queue of queueSize tasks.
func New(workers, queueSize int, logger *slog.Logger) *Pool {
	p := &Pool{
		tasks:  make(chan Task, queueSize),
		logger: logger,
	}

	for range workers {
		p.wg.Go(p.work)
	}

	return p
}

func (p *Pool) work() {
	for task := range p.tasks {
		p.run(task)
	}
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("task panicked", slog.String("panic", fmt.Sprint(r)))
		}
	}()
	task(context.Background())
}

// Submit enqueues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting tasks and waits for queued and running ones to
// finish, or for ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workerpool: shutdown: %w", ctx.Err())
	}
}
