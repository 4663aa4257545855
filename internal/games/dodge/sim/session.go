package sim

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/candle-dodge/internal/core"
)

// MaxTickDelta caps the play time a single tick may cover. After a stalled
// frame (window drag, suspended terminal) the run resumes where it paused
// instead of fast-forwarding through the missed time.
const MaxTickDelta = 250 * time.Millisecond

// DefaultPlayerName is used when no name is configured.
const DefaultPlayerName = "Player"

// Session owns one run at a time: the player's lane, the live objects, the
// score and the difficulty state. Lifecycle: Start, then any number of Tick
// and ShiftLane calls until the run ends, then Restart or Start again.
//
// A Session is not safe for concurrent use; exactly one call may be in flight.
type Session struct {
	field    Field
	hit      HitTest
	selector Selector
	listener Listener
	recorder Recorder
	logger   *log.Logger
	player   string
	now      func() time.Time
	newRunID func() string

	cfg     RunConfig
	started bool
	ticking bool
	run     *run
}

// run is the per-run state. Start and Restart replace it wholesale.
type run struct {
	id        string
	lane      int
	ramp      *Ramp
	clock     *TickClock
	scheduler *Scheduler
	engine    *Engine
	machine   *Machine
	ticks     int
	tickStart time.Duration // Clock time at the start of the current tick
	tickSpeed float64       // Speed for the whole current tick
	result    *RunResult
	recordErr error
}

// Option configures a Session.
type Option func(*Session)

// WithField sets the playfield geometry. The hit test defaults to the one
// matching this field unless WithHitTest is also given.
func WithField(f Field) Option {
	return func(s *Session) { s.field = f }
}

// WithHitTest sets the collision policy.
func WithHitTest(h HitTest) Option {
	return func(s *Session) { s.hit = h }
}

// WithSelector sets the lane/category source.
func WithSelector(sel Selector) Option {
	return func(s *Session) { s.selector = sel }
}

// WithSeed uses a RandSelector seeded with seed.
func WithSeed(seed int64) Option {
	return func(s *Session) { s.selector = NewRandSelector(seed) }
}

// WithListener adds a listener. May be given several times.
func WithListener(l Listener) Option {
	return func(s *Session) {
		if l == nil {
			return
		}
		if ls, ok := s.listener.(Listeners); ok {
			s.listener = append(ls, l)
			return
		}
		s.listener = Listeners{l}
	}
}

// WithRecorder sets where finished runs are persisted.
func WithRecorder(r Recorder) Option {
	return func(s *Session) { s.recorder = r }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPlayer sets the name recorded with each run.
func WithPlayer(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.player = name
		}
	}
}

// WithClock overrides the wall clock used for RunResult.EndedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session. Call Start to begin a run.
func NewSession(opts ...Option) *Session {
	s := &Session{
		field:    DefaultField(),
		listener: NopListener{},
		logger:   log.New(io.Discard),
		player:   DefaultPlayerName,
		now:      time.Now,
		newRunID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.hit == nil {
		s.hit = DefaultHitTest(s.field)
	}
	if s.selector == nil {
		s.selector = NewRandSelector(time.Now().UnixNano())
	}
	return s
}

// Start begins a new run with cfg. Out-of-range values are clamped and
// logged; a malformed config still yields a playable run.
func (s *Session) Start(cfg RunConfig) error {
	if s.ticking {
		return fmt.Errorf("start: %w", ErrReentrantTick)
	}

	cfg, notes := cfg.Normalize()
	for _, n := range notes {
		s.logger.Warn("run config adjusted", "detail", n)
	}

	s.cfg = cfg
	s.started = true
	s.reset()
	return nil
}

// Restart begins a fresh run with the config of the last Start.
func (s *Session) Restart() error {
	if !s.started {
		return fmt.Errorf("restart: %w", ErrNotStarted)
	}
	if s.ticking {
		return fmt.Errorf("restart: %w", ErrReentrantTick)
	}
	s.reset()
	return nil
}

// reset discards the current run and builds a new one.
func (s *Session) reset() {
	if s.run != nil {
		s.run.scheduler.Stop()
	}

	r := &run{
		id:      s.newRunID(),
		lane:    LaneCount / 2,
		ramp:    NewRamp(s.cfg),
		clock:   NewTickClock(),
		engine:  NewEngine(s.field, s.hit),
		machine: NewMachine(s.cfg.Mode),
	}
	r.scheduler = NewScheduler(r.clock, s.selector, r.ramp.SpawnDelay, s.cfg.BeneficialPercent, s.spawnInto(r))
	s.run = r

	r.scheduler.Start()

	s.logger.Debug("run started",
		"run", r.id,
		"tier", s.cfg.Tier,
		"mode", s.cfg.Mode,
		"player", s.player,
	)

	s.listener.OnLaneChanged(r.lane)
	s.listener.OnScoreChanged(0)
}

// spawnInto binds spawns to one specific run so a stale timer can never
// feed a newer run. A spawn that fires partway through a tick starts behind
// by the distance the tick covered before it fired.
func (s *Session) spawnInto(r *run) SpawnFunc {
	return func(lane int, category Category) {
		if r.machine.Ended() {
			return
		}
		lag := r.tickSpeed * (r.clock.Now() - r.tickStart).Seconds() * ReferenceFPS
		if _, err := r.engine.SpawnBehind(lane, category, lag); err != nil {
			s.logger.Error("spawn rejected", "run", r.id, "error", err)
		}
	}
}

// Tick advances the run by dt of real time: difficulty, then due spawns,
// then motion and collision, then scoring, then the negative-score guard.
func (s *Session) Tick(dt time.Duration) error {
	if !s.started {
		return fmt.Errorf("tick: %w", ErrNotStarted)
	}
	if s.ticking {
		return fmt.Errorf("tick: %w", ErrReentrantTick)
	}
	if dt < 0 {
		return fmt.Errorf("tick %v: %w", dt, ErrNegativeDelta)
	}
	r := s.run
	if r.machine.Ended() {
		return fmt.Errorf("tick: %w", ErrTickAfterEnd)
	}

	s.ticking = true
	defer func() { s.ticking = false }()

	dt = min(dt, MaxTickDelta)
	r.ticks++

	r.ramp.Advance(dt)
	r.tickStart = r.clock.Now()
	r.tickSpeed = r.ramp.Speed()
	r.clock.Advance(dt)

	frames := dt.Seconds() * ReferenceFPS
	for _, ev := range r.engine.Step(r.tickSpeed*frames, r.lane) {
		s.apply(r, ev)
	}

	r.machine.CheckGuard()

	if r.machine.Ended() {
		s.finish(r)
	}
	return nil
}

// apply feeds one event to the machine and notifies listeners of the effect.
func (s *Session) apply(r *run, ev Event) {
	switch r.machine.Apply(ev) {
	case OutcomeCollected:
		s.listener.OnCollect()
		s.listener.OnScoreChanged(r.machine.Score())
	case OutcomePenalized:
		s.listener.OnMiss()
		s.listener.OnScoreChanged(r.machine.Score())
	case OutcomeMissFatal:
		s.listener.OnMiss()
	case OutcomeCrashed:
		s.listener.OnCrash()
	}
}

// finish freezes the run and records its result. It runs at most once per
// run; later calls are no-ops.
func (s *Session) finish(r *run) {
	if r.result != nil {
		return
	}

	r.scheduler.Stop()

	result := RunResult{
		RunID:   r.id,
		Player:  s.player,
		Tier:    s.cfg.Tier,
		Mode:    s.cfg.Mode,
		Score:   r.machine.Score(),
		Reason:  r.machine.Reason(),
		Elapsed: r.ramp.Elapsed(),
		Spawned: r.scheduler.Fired(),
		EndedAt: s.now(),
	}
	r.result = &result

	s.logger.Info("run ended",
		"run", r.id,
		"score", result.Score,
		"reason", result.Reason,
		"elapsed", result.Elapsed.Round(time.Millisecond),
	)

	s.listener.OnRunEnded(result.Score)

	if s.recorder != nil {
		if err := s.recorder.RecordRun(result); err != nil {
			r.recordErr = err
			s.logger.Warn("could not record run", "run", r.id, "error", err)
		}
	}
}

// ShiftLane moves the player one lane left (-1) or right (+1). Moving past
// an edge or after the run has ended does nothing.
func (s *Session) ShiftLane(direction int) error {
	if direction != -1 && direction != 1 {
		return fmt.Errorf("shift %d: %w", direction, ErrInvalidDirection)
	}
	if !s.started {
		return fmt.Errorf("shift: %w", ErrNotStarted)
	}
	r := s.run
	if r.machine.Ended() {
		return nil
	}

	next := core.Clamp(r.lane+direction, 0, LaneCount-1)
	if next == r.lane {
		return nil
	}
	r.lane = next
	s.listener.OnLaneChanged(next)
	return nil
}

// SetPlayer changes the name recorded with future runs.
func (s *Session) SetPlayer(name string) {
	if name == "" {
		name = DefaultPlayerName
	}
	s.player = name
}

// Player returns the name recorded with runs.
func (s *Session) Player() string { return s.player }

// Started reports whether Start has been called.
func (s *Session) Started() bool { return s.started }

// Config returns the normalized config of the current run.
func (s *Session) Config() RunConfig { return s.cfg }

// Field returns the playfield geometry.
func (s *Session) Field() Field { return s.field }

// RunID identifies the current run.
func (s *Session) RunID() string {
	if s.run == nil {
		return ""
	}
	return s.run.id
}

// Score returns the current score.
func (s *Session) Score() int {
	if s.run == nil {
		return 0
	}
	return s.run.machine.Score()
}

// Ended reports whether the current run is over.
func (s *Session) Ended() bool {
	return s.run != nil && s.run.machine.Ended()
}

// Phase returns the lifecycle state of the current run.
func (s *Session) Phase() Phase {
	if s.run == nil {
		return PhasePlaying
	}
	return s.run.machine.Phase()
}

// Lane returns the player's lane index.
func (s *Session) Lane() int {
	if s.run == nil {
		return LaneCount / 2
	}
	return s.run.lane
}

// Objects returns a snapshot of the live objects.
func (s *Session) Objects() []Object {
	if s.run == nil {
		return nil
	}
	return s.run.engine.Objects()
}

// Speed returns the current fall speed.
func (s *Session) Speed() float64 {
	if s.run == nil {
		return 0
	}
	return s.run.ramp.Speed()
}

// SpawnDelay returns the current spawn delay.
func (s *Session) SpawnDelay() time.Duration {
	if s.run == nil {
		return 0
	}
	return s.run.ramp.SpawnDelay()
}

// Elapsed returns the play time of the current run.
func (s *Session) Elapsed() time.Duration {
	if s.run == nil {
		return 0
	}
	return s.run.ramp.Elapsed()
}

// Ticks returns how many ticks the current run has processed.
func (s *Session) Ticks() int {
	if s.run == nil {
		return 0
	}
	return s.run.ticks
}

// PendingSpawns returns the number of armed spawn timers (0 or 1).
func (s *Session) PendingSpawns() int {
	if s.run == nil {
		return 0
	}
	return s.run.clock.Pending()
}

// Result returns the summary of the current run once it has ended.
func (s *Session) Result() (RunResult, bool) {
	if s.run == nil || s.run.result == nil {
		return RunResult{}, false
	}
	return *s.run.result, true
}

// RecordErr returns the error from recording the current run, if any.
func (s *Session) RecordErr() error {
	if s.run == nil {
		return nil
	}
	return s.run.recordErr
}
