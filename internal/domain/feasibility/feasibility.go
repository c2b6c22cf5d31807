// Package feasibility provides the availability index and the pure checks
// shared by every solver: slot overlap, working-hour containment, and
// per-host daily capacity.
package feasibility

import "github.com/okian/qsched/internal/domain/model"

// Overlaps reports whether two slots conflict: same date and intersecting
// [start,end) intervals, compared as minutes since midnight. Slots with
// malformed clock values never overlap anything.
func Overlaps(a, b model.TimeSlot) bool {
	if a.Date != b.Date {
		return false
	}
	as, ae := a.StartMinutes(), a.EndMinutes()
	bs, be := b.StartMinutes(), b.EndMinutes()
	if as < 0 || ae < 0 || bs < 0 || be < 0 {
		return false
	}
	return !(ae <= bs || be <= as)
}

// WithinWorkingHours reports whether the slot lies inside the global
// working-hour window of the constraints.
func WithinWorkingHours(s model.TimeSlot, c model.Constraints) bool {
	start, end := s.StartMinutes(), s.EndMinutes()
	whStart := model.MinutesOfDay(c.WorkingHoursStart)
	whEnd := model.MinutesOfDay(c.WorkingHoursEnd)
	if start < 0 || end < 0 || whStart < 0 || whEnd < 0 {
		return false
	}
	return start >= whStart && end <= whEnd
}

// DailyCap returns the effective per-day meeting cap for a host: the host's
// own limit when positive, otherwise the global constraint. A non-positive
// result means uncapped.
func DailyCap(h model.Host, c model.Constraints) int {
	if h.MaxMeetingsPerDay > 0 {
		return h.MaxMeetingsPerDay
	}
	return c.MaxMeetingsPerHostPerDay
}
