// Package model contains domain models passed between layers.
package model

// Algorithm names accepted on a Problem and reported on a Result.
const (
	AlgorithmClassical = "classical"
	AlgorithmQuantum   = "quantum"
	AlgorithmHybrid    = "hybrid"
)

// DefaultImportance is used for requests that carry no importance score.
const DefaultImportance = 50

// MeetingRequest is a single request to be scheduled. Inputs are immutable
// for the duration of a run.
type MeetingRequest struct {
	ID             string   `json:"id"`
	Importance     *int     `json:"importance,omitempty"` // 0-100, absent means DefaultImportance
	Topics         []string `json:"topics,omitempty"`
	PreferredDates []string `json:"preferred_dates,omitempty"` // YYYY-MM-DD
	MeetingType    string   `json:"meeting_type,omitempty"`
}

// ImportanceScore returns the importance to use for scheduling, applying the
// default when the field is absent.
func (r MeetingRequest) ImportanceScore() int {
	if r.Importance == nil {
		return DefaultImportance
	}
	return *r.Importance
}

// WantsDate reports whether d is one of the request's preferred dates.
func (r MeetingRequest) WantsDate(d string) bool {
	for _, pd := range r.PreferredDates {
		if pd == d {
			return true
		}
	}
	return false
}

// TimeSlot is a concrete interval offered by a host. Start and End are
// wall-clock "HH:MM" values at minute granularity. Two slots conflict iff
// they share a date and their [Start,End) intervals overlap.
type TimeSlot struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Start  string `json:"start"`
	End    string `json:"end"`
	HostID string `json:"host_id,omitempty"`
}

// StartMinutes returns Start as minutes since midnight, -1 if malformed.
func (s TimeSlot) StartMinutes() int { return MinutesOfDay(s.Start) }

// EndMinutes returns End as minutes since midnight, -1 if malformed.
func (s TimeSlot) EndMinutes() int { return MinutesOfDay(s.End) }

// DayAvailability is one calendar day of a host's offered slots. When
// Blocked is set the slot list is ignored entirely.
type DayAvailability struct {
	Date    string     `json:"date"`
	Slots   []TimeSlot `json:"slots,omitempty"`
	Blocked bool       `json:"blocked,omitempty"`
}

// Host offers time slots and carries matching preferences. MaxMeetingsPerDay
// overrides the global constraint for this host when positive.
type Host struct {
	ID                    string            `json:"id"`
	Name                  string            `json:"name,omitempty"`
	Active                bool              `json:"active"`
	Availability          []DayAvailability `json:"availability,omitempty"`
	MaxMeetingsPerDay     int               `json:"max_meetings_per_day,omitempty"`
	Expertise             []string          `json:"expertise,omitempty"`
	PreferredMeetingTypes []string          `json:"preferred_meeting_types,omitempty"`
}

// PrefersMeetingType reports whether t is one of the host's preferred types.
func (h Host) PrefersMeetingType(t string) bool {
	if t == "" {
		return false
	}
	for _, p := range h.PreferredMeetingTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Constraints bound a scheduling run. The per-host MaxMeetingsPerDay value
// on a Host overrides MaxMeetingsPerHostPerDay when checking that host.
type Constraints struct {
	StartDate                string `json:"start_date"` // YYYY-MM-DD
	EndDate                  string `json:"end_date"`
	WorkingHoursStart        string `json:"working_hours_start"` // HH:MM
	WorkingHoursEnd          string `json:"working_hours_end"`
	MeetingDurationMinutes   int    `json:"meeting_duration_minutes"`
	MaxMeetingsPerHostPerDay int    `json:"max_meetings_per_host_per_day"`
	BufferMinutes            int    `json:"buffer_minutes,omitempty"` // defaults to 15
}

// Problem is the complete input to a single scheduling run.
type Problem struct {
	Requests    []MeetingRequest `json:"requests"`
	Hosts       []Host           `json:"hosts"`
	Constraints Constraints      `json:"constraints"`
	Algorithm   string           `json:"algorithm,omitempty"` // defaults to hybrid
}

// MeetingAssignment is one successfully scheduled request.
type MeetingAssignment struct {
	RequestID string   `json:"request_id"`
	HostID    string   `json:"host_id"`
	Slot      TimeSlot `json:"slot"`
	Score     float64  `json:"score"`
	Rationale string   `json:"rationale"`
}

// UnscheduledRequest records a request that could not be placed, with
// best-effort alternative slots. Suggestions are open slots only; they are
// not checked against the request's own constraints.
type UnscheduledRequest struct {
	RequestID   string     `json:"request_id"`
	Reason      string     `json:"reason"`
	Suggestions []TimeSlot `json:"suggestions,omitempty"`
}

// Metrics aggregates the outcome of a run.
type Metrics struct {
	TotalRequests        int     `json:"total_requests"`
	ScheduledCount       int     `json:"scheduled_count"`
	UnscheduledCount     int     `json:"unscheduled_count"`
	TotalScore           float64 `json:"total_score"`
	AverageUtilization   float64 `json:"average_utilization"`
	ConstraintViolations int     `json:"constraint_violations"`
}

// Result is the complete output of a single scheduling run.
type Result struct {
	Assignments       []MeetingAssignment  `json:"assignments"`
	Unscheduled       []UnscheduledRequest `json:"unscheduled"`
	Metrics           Metrics              `json:"metrics"`
	AlgorithmUsed     string               `json:"algorithm_used"`
	ComputationTimeMs int64                `json:"computation_time_ms"`
	Explanation       string               `json:"explanation"`
}
