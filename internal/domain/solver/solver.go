// Package solver contains the scheduling strategies: the deterministic
// greedy solver and the simulated-annealing metaheuristic. Both operate on
// the availability index and feasibility tracker and are pure with respect
// to their inputs.
package solver

import (
	"context"

	"github.com/okian/qsched/internal/domain/feasibility"
	"github.com/okian/qsched/internal/domain/model"
)

// ReasonNoSlot is attached to requests that no feasible candidate could place.
const ReasonNoSlot = "no available time slot matches constraints"

// maxSuggestions caps the alternative slots offered on an unscheduled entry.
const maxSuggestions = 3

// Input is the problem view handed to a strategy: the request list in input
// order, the prebuilt availability index over active hosts, and the run
// constraints.
type Input struct {
	Requests    []model.MeetingRequest
	Index       *feasibility.Index
	Constraints model.Constraints
}

// Solution is the raw output of a strategy before result packaging. Every
// input request appears in exactly one of the two lists.
type Solution struct {
	Assignments []model.MeetingAssignment
	Unscheduled []model.UnscheduledRequest
}

// ScheduledCount returns the number of placed requests.
func (s Solution) ScheduledCount() int { return len(s.Assignments) }

// Strategy is a pluggable solver. Implementations must not mutate the input
// and must honor ctx at iteration boundaries where they iterate; an
// out-of-process hardware-backed solver can satisfy this same contract.
type Strategy interface {
	// Name identifies the strategy, e.g. "classical" or "quantum".
	Name() string

	// Solve produces a solution or an error. A solution must satisfy the
	// output invariants: no double-booking, daily caps respected, every
	// request accounted for exactly once.
	Solve(ctx context.Context, in Input) (Solution, error)
}

// openSuggestions collects up to maxSuggestions slots that are still open on
// the tracker, in index iteration order. The slots are deliberately not
// checked against the requesting meeting's own constraints; they are
// best-effort pointers at remaining capacity.
func openSuggestions(idx *feasibility.Index, tracker *feasibility.Tracker) []model.TimeSlot {
	var out []model.TimeSlot
	for h := 0; h < idx.HostCount(); h++ {
		for _, s := range idx.Slots(h) {
			if tracker.Conflicts(h, s) {
				continue
			}
			out = append(out, s)
			if len(out) == maxSuggestions {
				return out
			}
		}
	}
	return out
}
