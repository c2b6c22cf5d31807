// Package queue defines the contract for feeding scheduling jobs to the
// batch worker pool. The in-memory implementation backs the CLI batch mode;
// a broker-backed implementation could satisfy the same interface.
package queue

import (
	"context"
	"sync"

	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/pkg/metrics"
)

// defaultCapacity bounds the in-memory queue unless overridden.
const defaultCapacity = 1024

// Job is one scheduling problem queued for execution.
type Job struct {
	ID      string // unique job id, assigned by the producer
	Source  string // where the problem came from, e.g. a file path
	Problem model.Problem
}

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds a job. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel jobs are delivered on. The channel is
	// closed when the queue is closed and drained.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of jobs currently waiting.
	Len(ctx context.Context) int

	// Close stops accepting jobs; queued jobs remain deliverable.
	Close() error
}

// Option applies a configuration option to the in-memory queue.
type Option func(*InMemoryQueue)

// WithCapacity bounds the number of queued jobs.
func WithCapacity(n int) Option {
	return func(q *InMemoryQueue) {
		if n > 0 {
			q.capacity = n
		}
	}
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	capacity int

	mu     sync.RWMutex
	jobs   chan Job
	closed bool
}

// NewInMemoryQueue creates a bounded in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.capacity)
	metrics.UpdateQueueDepth(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(_ context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return false
	}
	select {
	case q.jobs <- j:
		metrics.UpdateQueueDepth(len(q.jobs))
		return true
	default:
		return false
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

// Len implements Queue.
func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

// Close implements Queue. It is safe to call more than once.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobs)
	return nil
}
