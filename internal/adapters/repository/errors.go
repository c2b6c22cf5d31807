package repository

import "errors"

// Sentinel kinds for run-store errors.
var (
	ErrRunNotFound  = errors.New("run not found")
	ErrDuplicateRun = errors.New("duplicate run id")
)
