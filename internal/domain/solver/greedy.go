package solver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/okian/qsched/internal/domain/feasibility"
	"github.com/okian/qsched/internal/domain/model"
)

// Desirability bonuses applied on top of the importance score when ranking
// feasible candidates.
const (
	expertiseBonus     = 20
	preferredDateBonus = 15
	meetingTypeBonus   = 10
)

// Greedy is the deterministic constraint-satisfaction solver. Requests are
// placed one at a time in descending importance order (stable on input order
// for ties), each taking the highest-scoring feasible (host, slot) candidate.
// Its output is a pure function of the input, including list order.
type Greedy struct{}

// NewGreedy creates the classical solver.
func NewGreedy() *Greedy { return &Greedy{} }

// Name implements Strategy.
func (g *Greedy) Name() string { return model.AlgorithmClassical }

// Solve implements Strategy.
func (g *Greedy) Solve(_ context.Context, in Input) (Solution, error) {
	order := make([]int, len(in.Requests))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return in.Requests[order[a]].ImportanceScore() > in.Requests[order[b]].ImportanceScore()
	})

	tracker := feasibility.NewTracker(in.Index.HostCount())
	var sol Solution
	for _, ri := range order {
		req := in.Requests[ri]
		host, slot, score, ok := g.bestCandidate(req, in, tracker)
		if !ok {
			sol.Unscheduled = append(sol.Unscheduled, model.UnscheduledRequest{
				RequestID:   req.ID,
				Reason:      ReasonNoSlot,
				Suggestions: openSuggestions(in.Index, tracker),
			})
			continue
		}
		tracker.Commit(host, slot)
		sol.Assignments = append(sol.Assignments, model.MeetingAssignment{
			RequestID: req.ID,
			HostID:    in.Index.Host(host).ID,
			Slot:      slot,
			Score:     float64(score),
			Rationale: g.rationale(req, in.Index.Host(host), slot),
		})
	}
	return sol, nil
}

// bestCandidate scans every host and slot in index order and returns the
// feasible candidate with the strictly highest desirability score. Ties keep
// the first-encountered candidate, which keeps the pass deterministic.
func (g *Greedy) bestCandidate(req model.MeetingRequest, in Input, tracker *feasibility.Tracker) (host int, slot model.TimeSlot, score int, ok bool) {
	best := -1
	for h := 0; h < in.Index.HostCount(); h++ {
		hst := in.Index.Host(h)
		cap := feasibility.DailyCap(hst, in.Constraints)
		for _, s := range in.Index.Slots(h) {
			if tracker.Conflicts(h, s) {
				continue
			}
			if !feasibility.WithinWorkingHours(s, in.Constraints) {
				continue
			}
			if !tracker.UnderDailyCap(h, s.Date, cap) {
				continue
			}
			sc := g.desirability(req, hst, s)
			if sc > best {
				best = sc
				host, slot = h, s
			}
		}
	}
	if best < 0 {
		return 0, model.TimeSlot{}, 0, false
	}
	return host, slot, best, true
}

// desirability scores a feasible candidate for a request.
func (g *Greedy) desirability(req model.MeetingRequest, host model.Host, slot model.TimeSlot) int {
	score := req.ImportanceScore()
	if expertiseMatches(host.Expertise, req.Topics) {
		score += expertiseBonus
	}
	if req.WantsDate(slot.Date) {
		score += preferredDateBonus
	}
	if host.PrefersMeetingType(req.MeetingType) {
		score += meetingTypeBonus
	}
	return score
}

// rationale explains a placement: the importance term first, then each
// matched bonus in a fixed order.
func (g *Greedy) rationale(req model.MeetingRequest, host model.Host, slot model.TimeSlot) string {
	parts := []string{fmt.Sprintf("importance %d", req.ImportanceScore())}
	if expertiseMatches(host.Expertise, req.Topics) {
		parts = append(parts, "host expertise matches requested topics")
	}
	if req.WantsDate(slot.Date) {
		parts = append(parts, "slot falls on a preferred date")
	}
	if host.PrefersMeetingType(req.MeetingType) {
		parts = append(parts, "host prefers this meeting type")
	}
	return strings.Join(parts, ", ")
}

// expertiseMatches reports whether any expertise tag and any requested topic
// match by case-insensitive substring containment in either direction.
func expertiseMatches(expertise, topics []string) bool {
	for _, e := range expertise {
		le := strings.ToLower(e)
		if le == "" {
			continue
		}
		for _, t := range topics {
			lt := strings.ToLower(t)
			if lt == "" {
				continue
			}
			if strings.Contains(le, lt) || strings.Contains(lt, le) {
				return true
			}
		}
	}
	return false
}
