package sim

import "errors"

// Sentinel errors classify structural failures. All of them are detected before
// any simulation state is built; callers match with errors.Is.
var (
	// ErrUnknownPolicy reports a policy selector that names no policy.
	ErrUnknownPolicy = errors.New("unknown scheduling policy")
	// ErrMalformedInput reports a process stream that is short or not numeric.
	ErrMalformedInput = errors.New("malformed process input")
	// ErrInvalidConfig reports values the engine cannot run with.
	ErrInvalidConfig = errors.New("invalid simulation config")
)
