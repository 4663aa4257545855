package sim

import "errors"

// Precondition failures. These signal a bug in the caller, never a gameplay
// event, and are returned wrapped with context.
var (
	ErrNotStarted       = errors.New("sim: session not started")
	ErrTickAfterEnd     = errors.New("sim: tick after run ended")
	ErrReentrantTick    = errors.New("sim: re-entrant call during tick")
	ErrNegativeDelta    = errors.New("sim: negative tick delta")
	ErrInvalidDirection = errors.New("sim: lane shift direction must be -1 or +1")
	ErrInvalidLane      = errors.New("sim: lane index out of range")
)
