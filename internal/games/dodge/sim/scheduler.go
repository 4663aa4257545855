package sim

import "time"

// minReschedule keeps a zero or negative delay from turning the scheduler into
// a busy loop inside a single clock advance.
const minReschedule = time.Millisecond

// SpawnFunc receives each object the scheduler decides to create.
type SpawnFunc func(lane int, category Category)

// Scheduler fires spawns at a cadence that follows the difficulty ramp. It
// uses a rescheduling one-shot timer: the delay is read again after every
// spawn, so the cadence itself speeds up during a run.
type Scheduler struct {
	clock    Clock
	selector Selector
	delay    func() time.Duration
	percent  int
	spawn    SpawnFunc

	pending Timer
	running bool
	fired   int
}

// NewScheduler wires a scheduler. delay is consulted on every reschedule.
func NewScheduler(clock Clock, selector Selector, delay func() time.Duration, beneficialPercent int, spawn SpawnFunc) *Scheduler {
	return &Scheduler{
		clock:    clock,
		selector: selector,
		delay:    delay,
		percent:  beneficialPercent,
		spawn:    spawn,
	}
}

// Start arms the first spawn. Calling Start on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	if s.running {
		return
	}
	s.running = true
	s.schedule()
}

// Stop cancels the pending spawn. No spawn happens after Stop returns.
func (s *Scheduler) Stop() {
	s.running = false
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

// Running reports whether the scheduler is armed.
func (s *Scheduler) Running() bool {
	return s.running
}

// Fired returns how many spawns have happened.
func (s *Scheduler) Fired() int {
	return s.fired
}

func (s *Scheduler) schedule() {
	d := s.delay()
	if d < minReschedule {
		d = minReschedule
	}
	s.pending = s.clock.AfterFunc(d, s.fire)
}

func (s *Scheduler) fire() {
	s.pending = nil
	if !s.running {
		return
	}

	lane := s.selector.ChooseLane()
	category := s.selector.ChooseCategory(s.percent)
	s.fired++
	s.spawn(lane, category)

	// The spawn callback may have stopped us.
	if s.running {
		s.schedule()
	}
}
