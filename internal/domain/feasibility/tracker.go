package feasibility

import "github.com/okian/qsched/internal/domain/model"

// Tracker records the slots committed to each host during a run. Hosts are
// addressed by the dense handles assigned by the Index, so both solvers can
// share one structure without hashing host IDs on the hot path. A fresh
// Tracker is built per run; it is not safe for concurrent use.
type Tracker struct {
	committed [][]model.TimeSlot
	perDay    []map[string]int
}

// NewTracker creates a tracker sized for the index's host count.
func NewTracker(hostCount int) *Tracker {
	return &Tracker{
		committed: make([][]model.TimeSlot, hostCount),
		perDay:    make([]map[string]int, hostCount),
	}
}

// Conflicts reports whether s overlaps any slot already committed to host h.
func (t *Tracker) Conflicts(h int, s model.TimeSlot) bool {
	for _, c := range t.committed[h] {
		if Overlaps(c, s) {
			return true
		}
	}
	return false
}

// CountOn returns the number of commitments for host h on a date.
func (t *Tracker) CountOn(h int, date string) int {
	if t.perDay[h] == nil {
		return 0
	}
	return t.perDay[h][date]
}

// UnderDailyCap reports whether host h can take one more meeting on the
// slot's date given an effective cap. A non-positive cap never limits.
func (t *Tracker) UnderDailyCap(h int, date string, cap int) bool {
	if cap <= 0 {
		return true
	}
	return t.CountOn(h, date) < cap
}

// Commit records s against host h.
func (t *Tracker) Commit(h int, s model.TimeSlot) {
	t.committed[h] = append(t.committed[h], s)
	if t.perDay[h] == nil {
		t.perDay[h] = make(map[string]int)
	}
	t.perDay[h][s.Date]++
}
