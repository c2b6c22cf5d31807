package service

import "errors"

// Sentinel error kinds for the scheduler service. These allow errors.Is/As
// from callers.
var (
	// ErrInvalidConstraints marks malformed or contradictory run constraints.
	// It is surfaced to the caller and the run does not proceed.
	ErrInvalidConstraints = errors.New("invalid constraints")

	// ErrUnknownAlgorithm marks an algorithm name with no registered strategy.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")

	// ErrSolverFailure marks an unexpected failure inside a solver. It is
	// recovered at this layer and converted into a classical fallback; it
	// only reaches the caller if the fallback itself fails.
	ErrSolverFailure = errors.New("solver failure")
)
