package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/okian/qsched/internal/domain/feasibility"
	"github.com/okian/qsched/internal/domain/model"
)

// Default annealing hyperparameters. These are starting points, not derived
// values; override them through options when tuning.
const (
	defaultTemperature   = 1000.0
	defaultCooling       = 0.95
	defaultMaxIterations = 1000
	minTemperature       = 1.0
	collisionPenalty     = 100.0
)

// AnnealingOption applies a configuration option to the Annealing solver.
type AnnealingOption func(*Annealing)

// WithRand injects the random source so runs are reproducible under test.
func WithRand(rng *rand.Rand) AnnealingOption {
	return func(a *Annealing) {
		if rng != nil {
			a.rng = rng
		}
	}
}

// WithSeed seeds a fresh random source.
func WithSeed(seed int64) AnnealingOption {
	return func(a *Annealing) {
		a.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // metaheuristic search, not crypto
	}
}

// WithTemperature sets the initial temperature.
func WithTemperature(t float64) AnnealingOption {
	return func(a *Annealing) {
		if t > minTemperature {
			a.temperature = t
		}
	}
}

// WithCooling sets the geometric cooling factor, exclusive (0,1).
func WithCooling(c float64) AnnealingOption {
	return func(a *Annealing) {
		if c > 0 && c < 1 {
			a.cooling = c
		}
	}
}

// WithMaxIterations bounds the outer annealing loop.
func WithMaxIterations(n int) AnnealingOption {
	return func(a *Annealing) {
		if n > 0 {
			a.maxIterations = n
		}
	}
}

// WithProgress registers a per-iteration observer. It receives the iteration
// number, the current temperature, and the current and best objective values
// after the acceptance step.
func WithProgress(fn func(iteration int, temperature, current, best float64)) AnnealingOption {
	return func(a *Annealing) {
		a.progress = fn
	}
}

// Annealing is the quantum-inspired solver: a classical simulated-annealing
// search over the full assignment space. Intermediate states may be
// infeasible; collisions are priced into the objective and stripped when the
// best state is materialized into a solution. Output is deterministic for a
// fixed random source.
type Annealing struct {
	rng           *rand.Rand
	temperature   float64
	cooling       float64
	maxIterations int
	progress      func(iteration int, temperature, current, best float64)
}

// NewAnnealing creates the annealing solver with configuration options.
func NewAnnealing(opts ...AnnealingOption) *Annealing {
	a := &Annealing{
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // stochastic by design
		temperature:   defaultTemperature,
		cooling:       defaultCooling,
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Name implements Strategy.
func (a *Annealing) Name() string { return model.AlgorithmQuantum }

// placement maps one request to a host handle and a slot index on that host.
// A negative host means the request is unmapped.
type placement struct {
	host int
	slot int
}

// Solve implements Strategy. The context is checked once per outer loop
// iteration; on cancellation the best mapping found so far is materialized
// rather than failing.
func (a *Annealing) Solve(ctx context.Context, in Input) (Solution, error) {
	if len(in.Requests) == 0 {
		return Solution{}, nil
	}

	eligible := eligibleHosts(in.Index)
	if len(eligible) == 0 {
		var sol Solution
		for _, req := range in.Requests {
			sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{
				RequestID: req.ID,
				Reason:    ReasonNoSlot,
			})
		}
		return sol, nil
	}

	current := a.randomMapping(in, eligible)
	currentObj := a.objective(in, current)
	best := make([]placement, len(current))
	copy(best, current)
	bestObj := currentObj

	temp := a.temperature
	for iter := 0; temp > minTemperature && iter < a.maxIterations; iter++ {
		select {
		case <-ctx.Done():
			return a.materialize(in, best), nil
		default:
		}

		neighbor := a.neighbor(in, current, eligible)
		neighborObj := a.objective(in, neighbor)
		delta := neighborObj - currentObj

		if delta > 0 || a.rng.Float64() < math.Exp(delta/temp) {
			current, currentObj = neighbor, neighborObj
			if currentObj > bestObj {
				copy(best, current)
				bestObj = currentObj
			}
		}

		if a.progress != nil {
			a.progress(iter, temp, currentObj, bestObj)
		}
		temp *= a.cooling
	}

	return a.materialize(in, best), nil
}

// eligibleHosts returns the dense handles of hosts that offer at least one slot.
func eligibleHosts(idx *feasibility.Index) []int {
	var out []int
	for h := 0; h < idx.HostCount(); h++ {
		if len(idx.Slots(h)) > 0 {
			out = append(out, h)
		}
	}
	return out
}

// randomMapping draws a uniformly random (host, slot) pair for every request.
func (a *Annealing) randomMapping(in Input, eligible []int) []placement {
	m := make([]placement, len(in.Requests))
	for i := range m {
		m[i] = a.randomPlacement(in, eligible)
	}
	return m
}

// neighbor reassigns one random request to a new random placement.
func (a *Annealing) neighbor(in Input, current []placement, eligible []int) []placement {
	next := make([]placement, len(current))
	copy(next, current)
	next[a.rng.Intn(len(next))] = a.randomPlacement(in, eligible)
	return next
}

func (a *Annealing) randomPlacement(in Input, eligible []int) placement {
	h := eligible[a.rng.Intn(len(eligible))]
	return placement{host: h, slot: a.rng.Intn(len(in.Index.Slots(h)))}
}

// objective scores a full mapping: each mapped request contributes its
// importance plus a preferred-date bonus, and every collision on the same
// (host, date, start) key costs collisionPenalty. Unmapped requests
// contribute nothing.
func (a *Annealing) objective(in Input, mapping []placement) float64 {
	type slotKey struct {
		host  int
		date  string
		start string
	}
	seen := make(map[slotKey]bool, len(mapping))
	value := 0.0
	collisions := 0
	for i, p := range mapping {
		if p.host < 0 {
			continue
		}
		s := in.Index.Slots(p.host)[p.slot]
		key := slotKey{host: p.host, date: s.Date, start: s.Start}
		if seen[key] {
			collisions++
		} else {
			seen[key] = true
		}
		value += float64(in.Requests[i].ImportanceScore())
		if in.Requests[i].WantsDate(s.Date) {
			value += preferredDateBonus
		}
	}
	return value - collisionPenalty*float64(collisions)
}

// materialize converts the best mapping into a solution, stripping anything
// the search left infeasible: colliding duplicates, slots outside working
// hours, and placements over a host's daily cap.
func (a *Annealing) materialize(in Input, mapping []placement) Solution {
	tracker := feasibility.NewTracker(in.Index.HostCount())
	var sol Solution
	for i, req := range in.Requests {
		p := mapping[i]
		if p.host < 0 {
			sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{
				RequestID:   req.ID,
				Reason:      ReasonNoSlot,
				Suggestions: openSuggestions(in.Index, tracker),
			})
			continue
		}
		host := in.Index.Host(p.host)
		s := in.Index.Slots(p.host)[p.slot]
		if tracker.Conflicts(p.host, s) ||
			!feasibility.WithinWorkingHours(s, in.Constraints) ||
			!tracker.UnderDailyCap(p.host, s.Date, feasibility.DailyCap(host, in.Constraints)) {
			sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{
				RequestID:   req.ID,
				Reason:      ReasonNoSlot,
				Suggestions: openSuggestions(in.Index, tracker),
			})
			continue
		}
		tracker.Commit(p.host, s)
		score := float64(req.ImportanceScore())
		parts := []string{fmt.Sprintf("importance %d", req.ImportanceScore())}
		if req.WantsDate(s.Date) {
			score += preferredDateBonus
			parts = append(parts, "slot falls on a preferred date")
		}
		sol.Assignments = append(sol.Assignments, model.MeetingAssignment{
			RequestID: req.ID,
			HostID:    host.ID,
			Slot:      s,
			Score:     score,
			Rationale: strings.Join(parts, ", "),
		})
	}
	return sol
}
