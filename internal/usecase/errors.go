package usecase

import "errors"

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPrecondition marks operations rejected before any state changed:
	// recalculating a fixture without a stored result, creating a season
	// while another is active, predicting on a closed fixture.
	ErrPrecondition = errors.New("precondition failed")

	// ErrPartialApply marks a chunked commit that failed after one or more
	// chunks had already been applied. The committed prefix is a
	// well-defined state; callers retry the whole operation and rely on
	// delta recomputation yielding zero for the applied part.
	ErrPartialApply = errors.New("partially applied, retry the operation")
)
