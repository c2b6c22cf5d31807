// Package worker runs queued scheduling jobs on a fixed pool of goroutines.
// Runs on disjoint problems are independent, so the pool parallelizes them
// freely; each job is a single synchronous scheduling run.
package worker

import (
	"context"
	"sync"

	"github.com/okian/qsched/internal/adapters/mq/queue"
	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/pkg/logger"
	"github.com/okian/qsched/pkg/metrics"
)

// Runner executes one scheduling run. The scheduler service satisfies this.
type Runner interface {
	Schedule(ctx context.Context, p model.Problem) (model.Result, error)
}

// Sink receives completed run results. The repository run store satisfies this.
type Sink interface {
	Put(ctx context.Context, id string, res model.Result) error
	PutError(ctx context.Context, id string, err error)
}

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pool consumes jobs from a queue until the queue closes or the context is
// canceled, running each through the Runner and recording into the Sink.
type Pool struct {
	size   int
	queue  queue.Queue
	runner Runner
	sink   Sink
	logger logger.Logger

	wg sync.WaitGroup
}

// NewPool creates a pool of size workers.
func NewPool(size int, q queue.Queue, r Runner, s Sink, opts ...Option) *Pool {
	if size < 1 {
		size = 1
	}
	p := &Pool{
		size:   size,
		queue:  q,
		runner: r,
		sink:   s,
		logger: logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start launches the workers. It returns immediately; use Wait to block
// until the queue is drained.
func (p *Pool) Start(ctx context.Context) {
	metrics.UpdateWorkerCount(p.size)
	jobs := p.queue.Dequeue(ctx)
	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case job, ok := <-jobs:
					if !ok {
						return
					}
					p.process(ctx, job)
				}
			}
		}()
	}
}

// Wait blocks until every worker has exited.
func (p *Pool) Wait() {
	p.wg.Wait()
	metrics.UpdateWorkerCount(0)
}

func (p *Pool) process(ctx context.Context, job queue.Job) {
	metrics.UpdateQueueDepth(p.queue.Len(ctx))
	res, err := p.runner.Schedule(ctx, job.Problem)
	if err != nil {
		metrics.RecordJobFailure()
		p.logger.Error(ctx, "job failed",
			logger.String("jobID", job.ID),
			logger.String("source", job.Source),
			logger.Error(err),
		)
		p.sink.PutError(ctx, job.ID, err)
		return
	}
	if err := p.sink.Put(ctx, job.ID, res); err != nil {
		p.logger.Error(ctx, "failed to store job result",
			logger.String("jobID", job.ID),
			logger.Error(err),
		)
	}
}
