package sim

import "fmt"

// Phase is the lifecycle state of a run.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseEnded
)

func (p Phase) String() string {
	if p == PhaseEnded {
		return "ended"
	}
	return "playing"
}

// EndReason records which rule ended a run.
type EndReason int

const (
	ReasonNone          EndReason = iota
	ReasonCrash                   // Touched a harmful object
	ReasonMissed                  // Missed a beneficial object in survival mode
	ReasonNegativeScore           // Score fell below zero in base mode
)

func (r EndReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonCrash:
		return "crash"
	case ReasonMissed:
		return "missed"
	case ReasonNegativeScore:
		return "negative score"
	default:
		return fmt.Sprintf("EndReason(%d)", int(r))
	}
}

// Outcome describes what applying one event did.
type Outcome int

const (
	OutcomeIgnored   Outcome = iota // Run already over
	OutcomeCollected                // Beneficial hit, +1
	OutcomePenalized                // Beneficial miss in base mode, -1
	OutcomeDiscarded                // Harmful miss, no effect
	OutcomeCrashed                  // Harmful hit, run over
	OutcomeMissFatal                // Beneficial miss in survival, run over
)

// Machine holds the score and decides when a run ends.
type Machine struct {
	mode   Mode
	phase  Phase
	score  int
	reason EndReason
}

// NewMachine creates a machine in the Playing state with a zero score.
func NewMachine(mode Mode) *Machine {
	return &Machine{mode: mode}
}

// Apply consumes one engine event. Events arriving after the run has ended
// are ignored.
func (m *Machine) Apply(ev Event) Outcome {
	if m.phase == PhaseEnded {
		return OutcomeIgnored
	}

	switch {
	case ev.Kind == EventHit && ev.Category == Harmful:
		m.end(ReasonCrash)
		return OutcomeCrashed

	case ev.Kind == EventHit && ev.Category == Beneficial:
		m.score++
		return OutcomeCollected

	case ev.Kind == EventMissed && ev.Category == Beneficial:
		if m.mode == ModeSurvival {
			m.end(ReasonMissed)
			return OutcomeMissFatal
		}
		m.score--
		return OutcomePenalized

	default:
		return OutcomeDiscarded
	}
}

// CheckGuard ends a base-mode run whose score has gone negative. It is meant
// to run once per tick, after all of that tick's events. It reports whether
// it ended the run.
func (m *Machine) CheckGuard() bool {
	if m.phase == PhaseEnded || m.mode != ModeBase || m.score >= 0 {
		return false
	}
	m.end(ReasonNegativeScore)
	return true
}

// Score returns the current score.
func (m *Machine) Score() int { return m.score }

// Phase returns the current lifecycle state.
func (m *Machine) Phase() Phase { return m.phase }

// Ended reports whether the run is over.
func (m *Machine) Ended() bool { return m.phase == PhaseEnded }

// Reason returns why the run ended, or ReasonNone while playing.
func (m *Machine) Reason() EndReason { return m.reason }

func (m *Machine) end(reason EndReason) {
	m.phase = PhaseEnded
	m.reason = reason
}
