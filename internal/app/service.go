// Package service provides the strategy selector that dispatches a
// scheduling problem to the greedy or annealing solver, owns the
// fallback-on-failure behavior, and packages raw solutions into results.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/qsched/internal/domain/feasibility"
	"github.com/okian/qsched/internal/domain/model"
	"github.com/okian/qsched/internal/domain/solver"
	"github.com/okian/qsched/pkg/logger"
	"github.com/okian/qsched/pkg/metrics"
)

// Default selector configuration constants.
const (
	defaultHybridMaxRequests = 50
	defaultHybridMaxHosts    = 10
	defaultAcceptanceRatio   = 0.7
	defaultUtilizationSlots  = 4 // placeholder per-host slot count for the utilization denominator
	defaultBufferMinutes     = 15
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClassical replaces the classical solver.
func WithClassical(st solver.Strategy) Option {
	return func(s *Service) {
		if st != nil {
			s.classical = st
		}
	}
}

// WithQuantum replaces the quantum-inspired solver.
func WithQuantum(st solver.Strategy) Option {
	return func(s *Service) {
		if st != nil {
			s.quantum = st
		}
	}
}

// WithStrategy registers an additional strategy under the given algorithm
// name, e.g. an out-of-process hardware-backed solver.
func WithStrategy(name string, st solver.Strategy) Option {
	return func(s *Service) {
		if name != "" && st != nil {
			s.extra[name] = st
		}
	}
}

// WithHybridLimits sets the problem size above which hybrid mode skips the
// annealing attempt and runs the classical solver directly.
func WithHybridLimits(maxRequests, maxHosts int) Option {
	return func(s *Service) {
		if maxRequests > 0 {
			s.hybridMaxRequests = maxRequests
		}
		if maxHosts > 0 {
			s.hybridMaxHosts = maxHosts
		}
	}
}

// WithAcceptanceRatio sets the scheduled fraction an annealing result must
// exceed for hybrid mode to accept it.
func WithAcceptanceRatio(r float64) Option {
	return func(s *Service) {
		if r > 0 && r < 1 {
			s.acceptanceRatio = r
		}
	}
}

// WithUtilizationSlotsPerHost sets the per-host slot constant used in the
// average-utilization denominator.
func WithUtilizationSlotsPerHost(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.utilizationSlots = n
		}
	}
}

// WithDefaultBufferMinutes sets the buffer applied when a problem omits it.
func WithDefaultBufferMinutes(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bufferMinutes = n
		}
	}
}

// Service selects and runs scheduling strategies. A Service holds no state
// across runs; concurrent Schedule calls on disjoint inputs are independent.
type Service struct {
	classical solver.Strategy
	quantum   solver.Strategy
	extra     map[string]solver.Strategy

	hybridMaxRequests int
	hybridMaxHosts    int
	acceptanceRatio   float64
	utilizationSlots  int
	bufferMinutes     int

	logger logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		classical:         solver.NewGreedy(),
		quantum:           solver.NewAnnealing(),
		extra:             make(map[string]solver.Strategy),
		hybridMaxRequests: defaultHybridMaxRequests,
		hybridMaxHosts:    defaultHybridMaxHosts,
		acceptanceRatio:   defaultAcceptanceRatio,
		utilizationSlots:  defaultUtilizationSlots,
		bufferMinutes:     defaultBufferMinutes,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("scheduler")
	}
	return s
}

// Schedule runs a single scheduling pass over the problem and returns the
// packaged result. Per run: Dispatched -> Solving -> Succeeded or
// FailedFallback; there is no retry beyond the single classical fallback.
func (s *Service) Schedule(ctx context.Context, p model.Problem) (model.Result, error) {
	started := time.Now()

	if err := validateConstraints(p.Constraints); err != nil {
		return model.Result{}, err
	}

	constraints := p.Constraints
	if constraints.BufferMinutes == 0 {
		constraints.BufferMinutes = s.bufferMinutes
	}

	algorithm := p.Algorithm
	if algorithm == "" {
		algorithm = model.AlgorithmHybrid
	}

	in := solver.Input{
		Requests:    p.Requests,
		Index:       feasibility.BuildIndex(p.Hosts),
		Constraints: constraints,
	}

	sol, used, fellBack, err := s.dispatch(ctx, algorithm, in)
	if err != nil {
		return model.Result{}, err
	}

	res := s.buildResult(in, sol, used, fellBack, time.Since(started))

	metrics.RecordRun(res.AlgorithmUsed)
	metrics.ObserveRunDuration(time.Since(started).Seconds())
	metrics.AddScheduled(res.Metrics.ScheduledCount)
	metrics.AddUnscheduled(res.Metrics.UnscheduledCount)

	s.logger.Info(ctx, "scheduling run complete",
		logger.String("algorithm", res.AlgorithmUsed),
		logger.Int("scheduled", res.Metrics.ScheduledCount),
		logger.Int("unscheduled", res.Metrics.UnscheduledCount),
		logger.Int("durationMs", int(res.ComputationTimeMs)),
	)
	return res, nil
}

// dispatch routes the problem to the strategy chosen by the algorithm name.
func (s *Service) dispatch(ctx context.Context, algorithm string, in solver.Input) (solver.Solution, string, bool, error) {
	switch algorithm {
	case model.AlgorithmClassical:
		return s.runWithFallback(ctx, s.classical, in)
	case model.AlgorithmQuantum:
		return s.runWithFallback(ctx, s.quantum, in)
	case model.AlgorithmHybrid:
		return s.runHybrid(ctx, in)
	default:
		if st, ok := s.extra[algorithm]; ok {
			return s.runWithFallback(ctx, st, in)
		}
		return solver.Solution{}, "", false, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, algorithm)
	}
}

// runHybrid tries the annealing solver on small problems and keeps its result
// only when the scheduled fraction clears the acceptance ratio; otherwise,
// and for large problems, the classical solver decides.
func (s *Service) runHybrid(ctx context.Context, in solver.Input) (solver.Solution, string, bool, error) {
	small := len(in.Requests) <= s.hybridMaxRequests && in.Index.HostCount() <= s.hybridMaxHosts
	if !small {
		return s.runWithFallback(ctx, s.classical, in)
	}

	sol, err := s.run(ctx, s.quantum, in)
	if err != nil {
		return s.fallback(ctx, in, err)
	}
	if acceptRatio(sol.ScheduledCount(), len(in.Requests)) > s.acceptanceRatio {
		return sol, s.quantum.Name(), false, nil
	}
	s.logger.Debug(ctx, "annealing result below acceptance ratio, running classical solver",
		logger.Int("scheduled", sol.ScheduledCount()),
		logger.Int("total", len(in.Requests)),
	)
	return s.runWithFallback(ctx, s.classical, in)
}

// acceptRatio is the scheduled fraction; an empty problem counts as fully
// scheduled so it never trips the division.
func acceptRatio(scheduled, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(scheduled) / float64(total)
}

// runWithFallback runs one strategy and, on any error or panic, recovers by
// running the classical solver once. The original error is logged, counted,
// and never propagated; only a failure of the fallback itself surfaces.
func (s *Service) runWithFallback(ctx context.Context, st solver.Strategy, in solver.Input) (solver.Solution, string, bool, error) {
	sol, err := s.run(ctx, st, in)
	if err != nil {
		return s.fallback(ctx, in, err)
	}
	return sol, st.Name(), false, nil
}

// fallback runs the classical solver after a solver failure.
func (s *Service) fallback(ctx context.Context, in solver.Input, cause error) (solver.Solution, string, bool, error) {
	s.logger.Warn(ctx, "solver failed, falling back to classical solver", logger.Error(cause))
	metrics.RecordFallback()
	sol, err := s.run(ctx, s.classical, in)
	if err != nil {
		return solver.Solution{}, "", false, err
	}
	return sol, s.classical.Name(), true, nil
}

// run executes a strategy, converting panics into ErrSolverFailure.
func (s *Service) run(ctx context.Context, st solver.Strategy, in solver.Input) (sol solver.Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s panicked: %v", ErrSolverFailure, st.Name(), r)
		}
	}()
	sol, err = st.Solve(ctx, in)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", ErrSolverFailure, st.Name(), err)
	}
	return sol, err
}

// buildResult packages a raw solution with metrics and an explanation.
func (s *Service) buildResult(in solver.Input, sol solver.Solution, used string, fellBack bool, elapsed time.Duration) model.Result {
	m := model.Metrics{
		TotalRequests:    len(in.Requests),
		ScheduledCount:   len(sol.Assignments),
		UnscheduledCount: len(sol.Unscheduled),
	}
	for _, a := range sol.Assignments {
		m.TotalScore += a.Score
	}
	if hosts := in.Index.HostCount(); hosts > 0 && m.ScheduledCount > 0 {
		m.AverageUtilization = float64(m.ScheduledCount) / float64(hosts*s.utilizationSlots)
	}
	m.ConstraintViolations = countViolations(in, sol)

	explanation := fmt.Sprintf("scheduled %d of %d requests using the %s solver",
		m.ScheduledCount, m.TotalRequests, used)
	if fellBack {
		explanation += " after a solver failure triggered the classical fallback"
	}

	return model.Result{
		Assignments:       sol.Assignments,
		Unscheduled:       sol.Unscheduled,
		Metrics:           m,
		AlgorithmUsed:     used,
		ComputationTimeMs: elapsed.Milliseconds(),
		Explanation:       explanation,
	}
}

// countViolations re-checks the solution against the feasibility rules.
// A correct solver always yields zero.
func countViolations(in solver.Input, sol solver.Solution) int {
	handle := make(map[string]int, in.Index.HostCount())
	for h := 0; h < in.Index.HostCount(); h++ {
		handle[in.Index.Host(h).ID] = h
	}
	tracker := feasibility.NewTracker(in.Index.HostCount())
	violations := 0
	for _, a := range sol.Assignments {
		h, ok := handle[a.HostID]
		if !ok {
			violations++
			continue
		}
		host := in.Index.Host(h)
		if tracker.Conflicts(h, a.Slot) ||
			!feasibility.WithinWorkingHours(a.Slot, in.Constraints) ||
			!tracker.UnderDailyCap(h, a.Slot.Date, feasibility.DailyCap(host, in.Constraints)) {
			violations++
			continue
		}
		tracker.Commit(h, a.Slot)
	}
	return violations
}

// validateConstraints rejects malformed or contradictory constraints before
// any solving starts.
func validateConstraints(c model.Constraints) error {
	if !model.ValidDate(c.StartDate) || !model.ValidDate(c.EndDate) {
		return fmt.Errorf("%w: event dates must be YYYY-MM-DD", ErrInvalidConstraints)
	}
	if model.DateBefore(c.EndDate, c.StartDate) {
		return fmt.Errorf("%w: event end date precedes start date", ErrInvalidConstraints)
	}
	if !model.ValidClock(c.WorkingHoursStart) || !model.ValidClock(c.WorkingHoursEnd) {
		return fmt.Errorf("%w: working hours must be HH:MM", ErrInvalidConstraints)
	}
	if model.MinutesOfDay(c.WorkingHoursEnd) <= model.MinutesOfDay(c.WorkingHoursStart) {
		return fmt.Errorf("%w: working hours window is empty", ErrInvalidConstraints)
	}
	if c.MeetingDurationMinutes <= 0 {
		return fmt.Errorf("%w: meeting duration must be positive", ErrInvalidConstraints)
	}
	if c.MaxMeetingsPerHostPerDay < 0 || c.BufferMinutes < 0 {
		return fmt.Errorf("%w: negative capacity or buffer", ErrInvalidConstraints)
	}
	return nil
}
