// Package repository stores completed scheduling runs for the lifetime of a
// batch. The surrounding service owns durable persistence; this store only
// collects results so the CLI can report on a finished batch.
package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/okian/qsched/internal/domain/model"
)

// Record is one completed (or failed) run.
type Record struct {
	ID     string
	Result model.Result
	Err    error
}

// Store collects run results keyed by job ID.
type Store interface {
	Put(ctx context.Context, id string, res model.Result) error
	PutError(ctx context.Context, id string, err error)
	Get(ctx context.Context, id string) (Record, error)

	// List returns all records ordered by total desirability score,
	// highest first; failed runs sort last.
	List(ctx context.Context) []Record

	Count(ctx context.Context) int
}

// InMemoryStore implements Store with a mutex-guarded map.
type InMemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewInMemoryStore creates an empty store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[string]Record)}
}

// Put implements Store.
func (s *InMemoryStore) Put(_ context.Context, id string, res model.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.records[id]; exists {
		return ErrDuplicateRun
	}
	s.records[id] = Record{ID: id, Result: res}
	return nil
}

// PutError implements Store. Unlike Put it overwrites, so a retried job's
// final failure wins.
func (s *InMemoryStore) PutError(_ context.Context, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = Record{ID: id, Err: err}
}

// Get implements Store.
func (s *InMemoryStore) Get(_ context.Context, id string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, ErrRunNotFound
	}
	return r, nil
}

// List implements Store.
func (s *InMemoryStore) List(_ context.Context) []Record {
	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if (out[i].Err == nil) != (out[j].Err == nil) {
			return out[i].Err == nil
		}
		si, sj := out[i].Result.Metrics.TotalScore, out[j].Result.Metrics.TotalScore
		if si != sj {
			return si > sj
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Count implements Store.
func (s *InMemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
