// Package worker runs fire-and-forget side effects on a bounded queue
// with a best-effort, log-and-drop failure policy.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/vietddude/storecore/internal/metrics"
)

// Task is one unit of background work.
type Task struct {
	Name string
	Run  func(ctx context.Context) error
}

// Queue executes tasks on a single worker goroutine. Submissions never
// block: when the queue is full the task is dropped and logged.
type Queue struct {
	tasks       chan Task
	log         *slog.Logger
	taskTimeout time.Duration

	mu      sync.Mutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewQueue creates a queue with the given capacity.
func NewQueue(size int, taskTimeout time.Duration, log *slog.Logger) *Queue {
	if size <= 0 {
		size = 64
	}
	if taskTimeout <= 0 {
		taskTimeout = 10 * time.Second
	}
	return &Queue{
		tasks:       make(chan Task, size),
		log:         log,
		taskTimeout: taskTimeout,
		done:        make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	go q.loop()
}

func (q *Queue) loop() {
	defer close(q.done)
	for task := range q.tasks {
		q.run(task)
	}
}

func (q *Queue) run(task Task) {
	ctx, cancel := context.WithTimeout(context.Background(), q.taskTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			q.log.Warn("background task panicked", "task", task.Name, "panic", rec)
		}
	}()

	if err := task.Run(ctx); err != nil {
		q.log.Warn("background task failed", "task", task.Name, "error", err)
	}
}

// Submit enqueues a task. Returns false when the queue is full or
// already stopped; the task is dropped in both cases.
func (q *Queue) Submit(task Task) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}

	select {
	case q.tasks <- task:
		return true
	default:
		metrics.QueueDropped.WithLabelValues(task.Name).Inc()
		q.log.Warn("background queue full, dropping task", "task", task.Name)
		return false
	}
}

// Stop closes the queue and waits for in-flight tasks to drain, bounded
// by ctx.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.tasks)
	}
	started := q.started
	q.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
