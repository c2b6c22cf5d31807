package loadtest

import (
	"fmt"

	"github.com/okian/qsched/internal/domain/feasibility"
	"github.com/okian/qsched/internal/domain/model"
)

// Verify re-checks a result against the output invariants for its problem
// and returns one message per violation. A correct solver yields none.
//
// Checked invariants:
//  1. every request id appears in exactly one of assignments/unscheduled
//  2. no two assignments double-book a host
//  3. per-host daily caps hold
//  4. every assigned slot is within working hours and drawn from one of the
//     host's non-blocked availability entries
func Verify(p model.Problem, res model.Result) []string {
	var violations []string

	seen := make(map[string]int, len(p.Requests))
	for _, a := range res.Assignments {
		seen[a.RequestID]++
	}
	for _, u := range res.Unscheduled {
		seen[u.RequestID]++
	}
	for _, r := range p.Requests {
		switch seen[r.ID] {
		case 1:
		case 0:
			violations = append(violations, fmt.Sprintf("request %s missing from output", r.ID))
		default:
			violations = append(violations, fmt.Sprintf("request %s appears %d times in output", r.ID, seen[r.ID]))
		}
	}

	idx := feasibility.BuildIndex(p.Hosts)
	handle := make(map[string]int, idx.HostCount())
	for h := 0; h < idx.HostCount(); h++ {
		handle[idx.Host(h).ID] = h
	}

	tracker := feasibility.NewTracker(idx.HostCount())
	for _, a := range res.Assignments {
		h, ok := handle[a.HostID]
		if !ok {
			violations = append(violations, fmt.Sprintf("assignment %s uses unknown or inactive host %s", a.RequestID, a.HostID))
			continue
		}
		if tracker.Conflicts(h, a.Slot) {
			violations = append(violations, fmt.Sprintf("assignment %s double-books host %s on %s %s", a.RequestID, a.HostID, a.Slot.Date, a.Slot.Start))
		}
		if !feasibility.WithinWorkingHours(a.Slot, p.Constraints) {
			violations = append(violations, fmt.Sprintf("assignment %s is outside working hours", a.RequestID))
		}
		if !offeredSlot(idx, h, a.Slot) {
			violations = append(violations, fmt.Sprintf("assignment %s uses a slot host %s does not offer", a.RequestID, a.HostID))
		}
		cap := feasibility.DailyCap(idx.Host(h), p.Constraints)
		if !tracker.UnderDailyCap(h, a.Slot.Date, cap) {
			violations = append(violations, fmt.Sprintf("host %s exceeds daily cap on %s", a.HostID, a.Slot.Date))
		}
		tracker.Commit(h, a.Slot)
	}

	return violations
}

// offeredSlot reports whether the slot appears in the host's indexed
// availability. Blocked days never reach the index, so membership implies a
// non-blocked entry.
func offeredSlot(idx *feasibility.Index, h int, s model.TimeSlot) bool {
	for _, offered := range idx.Slots(h) {
		if offered.Date == s.Date && offered.Start == s.Start && offered.End == s.End {
			return true
		}
	}
	return false
}
