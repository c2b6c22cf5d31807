// Package loadtest generates random scheduling problems and verifies run
// results against the output invariants. It backs the CLI's generate and
// batch --verify modes.
package loadtest

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/okian/qsched/internal/domain/model"
)

// Generation bounds.
const (
	slotMinutes      = 60
	workDayStartHour = 9
	workDayEndHour   = 17
	maxTopicsPerReq  = 2
	blockedDayChance = 0.1
)

var topicPool = []string{
	"machine learning", "quantum computing", "distributed systems",
	"security", "databases", "networking", "compilers", "robotics",
}

var meetingTypes = []string{"intro", "technical", "partnership", "investor"}

// GenConfig bounds a generated problem.
type GenConfig struct {
	Hosts     int
	Requests  int
	Days      int
	StartDate string // YYYY-MM-DD; defaults to today
	Seed      int64  // zero means time-seeded
}

// Generate builds a random but well-formed problem. A fixed seed yields the
// same problem every time.
func Generate(cfg GenConfig) model.Problem {
	if cfg.Hosts < 1 {
		cfg.Hosts = 1
	}
	if cfg.Requests < 1 {
		cfg.Requests = 1
	}
	if cfg.Days < 1 {
		cfg.Days = 1
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // test-data generation

	start := time.Now()
	if cfg.StartDate != "" {
		if t, err := time.Parse(model.DateLayout, cfg.StartDate); err == nil {
			start = t
		}
	}
	dates := make([]string, cfg.Days)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i).Format(model.DateLayout)
	}

	hosts := make([]model.Host, cfg.Hosts)
	for i := range hosts {
		hosts[i] = genHost(rng, i, dates)
	}

	requests := make([]model.MeetingRequest, cfg.Requests)
	for i := range requests {
		requests[i] = genRequest(rng, i, dates)
	}

	return model.Problem{
		Requests: requests,
		Hosts:    hosts,
		Constraints: model.Constraints{
			StartDate:                dates[0],
			EndDate:                  dates[len(dates)-1],
			WorkingHoursStart:        fmt.Sprintf("%02d:00", workDayStartHour),
			WorkingHoursEnd:          fmt.Sprintf("%02d:00", workDayEndHour),
			MeetingDurationMinutes:   slotMinutes,
			MaxMeetingsPerHostPerDay: 4,
		},
	}
}

func genHost(rng *rand.Rand, i int, dates []string) model.Host {
	h := model.Host{
		ID:                fmt.Sprintf("host-%03d", i),
		Name:              fmt.Sprintf("Host %d", i),
		Active:            true,
		MaxMeetingsPerDay: 2 + rng.Intn(3),
		Expertise:         pick(rng, topicPool, 1+rng.Intn(2)),
	}
	if rng.Float64() < 0.5 {
		h.PreferredMeetingTypes = pick(rng, meetingTypes, 1)
	}
	for _, d := range dates {
		day := model.DayAvailability{Date: d, Blocked: rng.Float64() < blockedDayChance}
		if !day.Blocked {
			hour := workDayStartHour
			for hour < workDayEndHour {
				if rng.Float64() < 0.7 {
					day.Slots = append(day.Slots, model.TimeSlot{
						Date:  d,
						Start: fmt.Sprintf("%02d:00", hour),
						End:   fmt.Sprintf("%02d:00", hour+1),
					})
				}
				hour++
			}
		}
		h.Availability = append(h.Availability, day)
	}
	return h
}

func genRequest(rng *rand.Rand, i int, dates []string) model.MeetingRequest {
	importance := rng.Intn(101)
	req := model.MeetingRequest{
		ID:          fmt.Sprintf("req-%03d", i),
		Importance:  &importance,
		Topics:      pick(rng, topicPool, 1+rng.Intn(maxTopicsPerReq)),
		MeetingType: meetingTypes[rng.Intn(len(meetingTypes))],
	}
	if rng.Float64() < 0.6 {
		req.PreferredDates = pick(rng, dates, 1+rng.Intn(2))
	}
	return req
}

// pick returns n distinct random elements of pool, fewer if pool is small.
func pick(rng *rand.Rand, pool []string, n int) []string {
	if n > len(pool) {
		n = len(pool)
	}
	idx := rng.Perm(len(pool))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = pool[j]
	}
	return out
}
