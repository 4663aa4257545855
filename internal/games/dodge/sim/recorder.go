package sim

import "time"

// RunResult is the summary captured when a run ends.
type RunResult struct {
	RunID   string
	Player  string
	Tier    Tier
	Mode    Mode
	Score   int
	Reason  EndReason
	Elapsed time.Duration // Play time covered by ticks
	Spawned int
	EndedAt time.Time
}

// Recorder persists finished runs (leaderboard, best scores, history).
// Errors are reported back to the session but never stop gameplay.
type Recorder interface {
	RecordRun(result RunResult) error
}

// RecorderFunc adapts a function to the Recorder interface.
type RecorderFunc func(result RunResult) error

// RecordRun implements Recorder.
func (f RecorderFunc) RecordRun(result RunResult) error {
	return f(result)
}
