package sim

import "testing"

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name       string
		mode       Mode
		event      Event
		wantOut    Outcome
		wantScore  int
		wantPhase  Phase
		wantReason EndReason
	}{
		{"harmful hit base", ModeBase, Event{Kind: EventHit, Category: Harmful}, OutcomeCrashed, 0, PhaseEnded, ReasonCrash},
		{"harmful hit survival", ModeSurvival, Event{Kind: EventHit, Category: Harmful}, OutcomeCrashed, 0, PhaseEnded, ReasonCrash},
		{"beneficial hit", ModeBase, Event{Kind: EventHit, Category: Beneficial}, OutcomeCollected, 1, PhasePlaying, ReasonNone},
		{"beneficial hit survival", ModeSurvival, Event{Kind: EventHit, Category: Beneficial}, OutcomeCollected, 1, PhasePlaying, ReasonNone},
		{"beneficial miss base", ModeBase, Event{Kind: EventMissed, Category: Beneficial}, OutcomePenalized, -1, PhasePlaying, ReasonNone},
		{"beneficial miss survival", ModeSurvival, Event{Kind: EventMissed, Category: Beneficial}, OutcomeMissFatal, 0, PhaseEnded, ReasonMissed},
		{"harmful miss base", ModeBase, Event{Kind: EventMissed, Category: Harmful}, OutcomeDiscarded, 0, PhasePlaying, ReasonNone},
		{"harmful miss survival", ModeSurvival, Event{Kind: EventMissed, Category: Harmful}, OutcomeDiscarded, 0, PhasePlaying, ReasonNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMachine(tc.mode)
			if got := m.Apply(tc.event); got != tc.wantOut {
				t.Errorf("Apply() = %v, expected %v", got, tc.wantOut)
			}
			if m.Score() != tc.wantScore {
				t.Errorf("Score() = %d, expected %d", m.Score(), tc.wantScore)
			}
			if m.Phase() != tc.wantPhase {
				t.Errorf("Phase() = %v, expected %v", m.Phase(), tc.wantPhase)
			}
			if m.Reason() != tc.wantReason {
				t.Errorf("Reason() = %v, expected %v", m.Reason(), tc.wantReason)
			}
		})
	}
}

func TestMachineHarmfulHitAlwaysFatal(t *testing.T) {
	for _, mode := range []Mode{ModeBase, ModeSurvival} {
		for _, collected := range []int{0, 1, 50} {
			m := NewMachine(mode)
			for i := 0; i < collected; i++ {
				m.Apply(Event{Kind: EventHit, Category: Beneficial})
			}
			m.Apply(Event{Kind: EventHit, Category: Harmful})
			if !m.Ended() || m.Reason() != ReasonCrash {
				t.Errorf("mode=%v score=%d: harmful hit did not end the run", mode, collected)
			}
			if m.Score() != collected {
				t.Errorf("mode=%v: crash changed score to %d", mode, m.Score())
			}
		}
	}
}

func TestMachineIgnoresEventsAfterEnd(t *testing.T) {
	m := NewMachine(ModeBase)
	m.Apply(Event{Kind: EventHit, Category: Harmful})

	if got := m.Apply(Event{Kind: EventHit, Category: Beneficial}); got != OutcomeIgnored {
		t.Errorf("Apply() after end = %v, expected OutcomeIgnored", got)
	}
	if m.Score() != 0 {
		t.Errorf("score changed after end: %d", m.Score())
	}
}

func TestMachineGuard(t *testing.T) {
	m := NewMachine(ModeBase)
	m.Apply(Event{Kind: EventMissed, Category: Beneficial})
	m.Apply(Event{Kind: EventMissed, Category: Beneficial})

	// The guard runs once per tick, after all events: score may dip below
	// zero more than once before it fires.
	if m.Score() != -2 || m.Ended() {
		t.Fatalf("before guard: score=%d ended=%v", m.Score(), m.Ended())
	}
	if !m.CheckGuard() {
		t.Fatal("CheckGuard() should end a negative base run")
	}
	if m.Reason() != ReasonNegativeScore {
		t.Errorf("Reason() = %v, expected negative score", m.Reason())
	}
	if m.CheckGuard() {
		t.Error("CheckGuard() should not fire twice")
	}
}

func TestMachineGuardSkipsSurvival(t *testing.T) {
	m := NewMachine(ModeSurvival)
	if m.CheckGuard() {
		t.Error("guard fired in survival mode")
	}
}
