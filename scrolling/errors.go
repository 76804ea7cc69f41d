package scrolling

import "errors"

// Precondition violations reported at the solver boundary. None of them is
// recovered from internally.
var (
	// ErrEmptyCatalog is returned when a solve is attempted without scrolls.
	ErrEmptyCatalog = errors.New("empty scroll catalog")
	// ErrLengthMismatch is returned when stat vectors of one run disagree in
	// length (start stats, goal, every scroll's bonus).
	ErrLengthMismatch = errors.New("stat vector length mismatch")
	// ErrProbabilityOutOfRange is returned for a success probability that is
	// non-finite or outside [0, 1].
	ErrProbabilityOutOfRange = errors.New("success probability out of range")
	// ErrInvalidCost is returned for a NaN or negative scroll cost. +Inf is
	// allowed.
	ErrInvalidCost = errors.New("invalid scroll cost")
)
