package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/qsched/internal/adapters/mq/queue"
	"github.com/okian/qsched/internal/adapters/mq/worker"
	"github.com/okian/qsched/internal/adapters/repository"
	"github.com/okian/qsched/internal/config"
	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/internal/loadtest"
	"github.com/okian/qsched/pkg/logger"
)

// batchEntry is one line of the batch report.
type batchEntry struct {
	JobID      string       `json:"job_id"`
	Source     string       `json:"source"`
	Result     model.Result `json:"result,omitempty"`
	Error      string       `json:"error,omitempty"`
	Violations []string     `json:"violations,omitempty"`
}

// newBatchCmd runs every *.json problem in a directory through the worker
// pool and prints a per-job report ordered by total score.
func newBatchCmd(cfg *config.Config) *cobra.Command {
	var (
		workers int
		verify  bool
	)

	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "solve every *.json problem in a directory on a worker pool",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := logger.Get().Named("batch")

			paths, err := problemFiles(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no problem files under %s", args[0])
			}

			if workers <= 0 {
				workers = cfg.WorkerCount
			}
			q := queue.NewInMemoryQueue(queue.WithCapacity(max(cfg.QueueSize, len(paths))))
			store := repository.NewInMemoryStore()
			pool := worker.NewPool(workers, q, newService(cfg), store)
			pool.Start(ctx)

			problems := make(map[string]queue.Job, len(paths))
			for _, path := range paths {
				p, err := readProblem(path)
				if err != nil {
					log.Warn(ctx, "skipping unreadable problem", logger.String("path", path), logger.Error(err))
					continue
				}
				if p.Algorithm == "" {
					p.Algorithm = cfg.Algorithm
				}
				job := queue.Job{ID: uuid.New().String(), Source: path, Problem: p}
				if !q.Enqueue(ctx, job) {
					log.Warn(ctx, "queue full, dropping job", logger.String("path", path))
					continue
				}
				problems[job.ID] = job
			}
			_ = q.Close()
			pool.Wait()

			entries := make([]batchEntry, 0, store.Count(ctx))
			for _, rec := range store.List(ctx) {
				job := problems[rec.ID]
				e := batchEntry{JobID: rec.ID, Source: job.Source, Result: rec.Result}
				if rec.Err != nil {
					e.Error = rec.Err.Error()
				} else if verify {
					e.Violations = loadtest.Verify(job.Problem, rec.Result)
				}
				entries = append(entries, e)
			}
			log.Info(ctx, "batch complete",
				logger.Int("jobs", len(entries)),
				logger.Int("workers", workers),
			)
			return printJSON(cmd, entries)
		},
	}
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "worker pool size (default: config worker_count)")
	cmd.Flags().BoolVar(&verify, "verify", false, "re-check each result against the output invariants")
	return cmd
}

// problemFiles lists the *.json files directly under dir, sorted by name.
func problemFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read problem dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	sort.Strings(out)
	return out, nil
}
