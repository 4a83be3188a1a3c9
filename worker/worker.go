// Package worker implements the background task pool: a queue-backed set of
// workers with bounded retries and exponential backoff. Submission returns a
// Handle the caller may await or ignore.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"meetups.app/config"
	apperrors "meetups.app/errors"
	"meetups.app/metrics"
)

// Handler executes a named task from its JSON payload
type Handler func(ctx context.Context, payload []byte) (interface{}, error)

// Handle is the future returned by Submit
type Handle struct {
	done   chan struct{}
	result interface{}
	err    error
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done returns a channel closed when the task finishes
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Wait blocks until the task finishes or the context is done
func (h *Handle) Wait(ctx context.Context) (interface{}, error) {
	select {
	case <-h.done:
		return h.result, h.err
	case <-ctx.Done():
		return nil, apperrors.Wrap(apperrors.TaskError, "task wait cancelled", ctx.Err())
	}
}

func (h *Handle) complete(result interface{}, err error) {
	h.result = result
	h.err = err
	close(h.done)
}

// Pool consumes jobs from the queue and runs registered handlers
type Pool struct {
	queue    Queue
	cfg      *config.WorkerConfig
	handlers map[string]Handler
	mu       sync.RWMutex

	// Handles are process-local; jobs surviving a restart inside the Redis
	// broker run without an observer.
	pending sync.Map

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool creates a task pool on top of the given queue
func NewPool(queue Queue, cfg *config.WorkerConfig) *Pool {
	return &Pool{
		queue:    queue,
		cfg:      cfg,
		handlers: make(map[string]Handler),
	}
}

// Register binds a handler to a task name. Must be called before Start.
func (p *Pool) Register(name string, handler Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[name] = handler
}

// Start launches the worker goroutines
func (p *Pool) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	for i := 0; i < p.cfg.Concurrency; i++ {
		p.wg.Add(1)
		go p.run(ctx)
	}

	slog.Info("Task pool started", "concurrency", p.cfg.Concurrency, "queue", p.cfg.QueueType)
}

// Stop cancels the workers and waits for in-flight tasks
func (p *Pool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Submit enqueues a task and returns its future. The payload is marshalled
// to JSON so it can cross the broker boundary.
func (p *Pool) Submit(ctx context.Context, name string, payload interface{}) (*Handle, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TaskError, "failed to marshal task payload", err)
	}

	j := &job{
		ID:      uuid.New().String(),
		Name:    name,
		Payload: data,
	}

	handle := newHandle()
	p.pending.Store(j.ID, handle)

	if err := p.queue.Push(ctx, j); err != nil {
		p.pending.Delete(j.ID)
		return nil, apperrors.Wrap(apperrors.TaskError, "failed to enqueue task", err)
	}

	slog.Debug("Task enqueued", "task", name, "id", j.ID)
	return handle, nil
}

func (p *Pool) run(ctx context.Context) {
	defer p.wg.Done()

	for {
		j, err := p.queue.Pop(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Queue pop error", "error", err)
			continue
		}

		result, err := p.execute(ctx, j)

		if handle, ok := p.pending.LoadAndDelete(j.ID); ok {
			handle.(*Handle).complete(result, err)
		}
	}
}

// execute runs a job with bounded retries and exponential backoff
func (p *Pool) execute(ctx context.Context, j *job) (interface{}, error) {
	p.mu.RLock()
	handler, ok := p.handlers[j.Name]
	p.mu.RUnlock()
	if !ok {
		metrics.RecordTask(j.Name, "failed")
		return nil, apperrors.NewTaskError(fmt.Sprintf("no handler registered for task '%s'", j.Name), nil)
	}

	backoff := time.Duration(p.cfg.BackoffSeconds) * time.Second
	var lastErr error

	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			metrics.RecordTaskRetry(j.Name)
			slog.Warn("Retrying task", "task", j.Name, "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		result, err := handler(ctx, j.Payload)
		if err == nil {
			metrics.RecordTask(j.Name, "ok")
			return result, nil
		}
		lastErr = err
		slog.Error("Task attempt failed", "task", j.Name, "attempt", attempt, "error", err)
	}

	metrics.RecordTask(j.Name, "failed")
	return nil, apperrors.Wrap(apperrors.TaskError, "task failed after retries", lastErr)
}
