// Package dodge adapts the lane-dodge simulation to the arcade platform:
// it maps actions to lane shifts, feeds real elapsed time into the session
// and draws the field into a core.Screen.
package dodge

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/registry"
)

// Registered mode IDs.
const (
	IDBase     = "dodge"
	IDSurvival = "dodge_survival"
)

// configPath stores the custom config path set via CLI
var configPath string
var difficultyPreset sim.Tier

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset forces a tier regardless of stored settings.
// Unknown names clear the override.
func SetDifficultyPreset(preset string) {
	t, err := config.ParseTier(preset)
	if err != nil {
		difficultyPreset = ""
		return
	}
	difficultyPreset = t
}

// ModeID returns the registry ID of a rule set.
func ModeID(mode sim.Mode) string {
	if mode == sim.ModeSurvival {
		return IDSurvival
	}
	return IDBase
}

func init() {
	registry.Register(IDBase, func() registry.Game { return New(sim.ModeBase) })
	registry.Register(IDSurvival, func() registry.Game { return New(sim.ModeSurvival) })
}

// Game implements registry.Game on top of a sim.Session.
type Game struct {
	mode    sim.Mode
	runtime core.RuntimeConfig
	hooks   registry.Hooks
	cfg     config.DodgeConfig

	settings    config.Settings
	hasSettings bool

	session *sim.Session
	fx      *effects
	paused  bool
	lastErr error
}

// New creates a game for the given rule set.
func New(mode sim.Mode) *Game {
	return &Game{
		mode: mode,
		cfg:  config.DefaultDodgeConfig(),
		fx:   &effects{},
	}
}

// ID returns the unique identifier for this mode.
func (g *Game) ID() string {
	return ModeID(g.mode)
}

// Title returns the display name for this mode.
func (g *Game) Title() string {
	if g.mode == sim.ModeSurvival {
		return "Candle Dodge: Survival"
	}
	return "Candle Dodge"
}

// Bind implements registry.Hookable.
func (g *Game) Bind(h registry.Hooks) {
	g.hooks = h
}

// UseSettings sets the player settings applied on the next Reset.
func (g *Game) UseSettings(s config.Settings) {
	g.settings = s.Normalize()
	g.hasSettings = true
}

// Reset loads the configuration and starts a fresh run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime
	logger := g.logger()

	cfg, err := config.LoadDodge(configPath)
	if err != nil {
		logger.Warn("using default game config", "error", err)
	}
	g.cfg = cfg

	field, err := cfg.SimField()
	if err != nil {
		logger.Warn("invalid field geometry, using default", "error", err)
	}

	settings := config.DefaultSettings()
	if g.hasSettings {
		settings = g.settings
	}
	if difficultyPreset != "" {
		settings.SelectDifficulty(difficultyPreset)
	}

	rc := settings.Apply(cfg.RunConfig(settings.Tier(), g.mode))
	rc.Mode = g.mode

	seed := runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g.fx = &effects{}
	opts := []sim.Option{
		sim.WithField(field),
		sim.WithHitTest(cfg.HitTest(field)),
		sim.WithSeed(seed),
		sim.WithListener(g.fx),
		sim.WithLogger(logger),
		sim.WithPlayer(g.hooks.Player),
	}
	if g.hooks.Listener != nil {
		opts = append(opts, sim.WithListener(g.hooks.Listener))
	}
	if g.hooks.Recorder != nil {
		opts = append(opts, sim.WithRecorder(g.hooks.Recorder))
	}

	g.session = sim.NewSession(opts...)
	g.paused = false
	g.lastErr = g.session.Start(rc)
}

// Step advances the run by dt. Lane shifts are applied in the order they
// were pressed, before the tick.
func (g *Game) Step(in core.InputFrame, dt time.Duration) core.StepResult {
	if g.session == nil {
		return core.StepResult{State: g.State(), Err: sim.ErrNotStarted}
	}
	if g.session.Ended() {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	for _, a := range in.Sequence() {
		switch a {
		case core.ActionLeft:
			g.session.ShiftLane(-1)
		case core.ActionRight:
			g.session.ShiftLane(1)
		}
	}

	if dt <= 0 {
		dt = g.runtime.TickInterval()
	}
	g.fx.advance(dt)

	err := g.session.Tick(dt)
	g.lastErr = err
	return core.StepResult{State: g.State(), Err: err}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{Paused: g.paused}
	}
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: g.session.Ended(),
		Paused:   g.paused,
	}
}

// Session exposes the running session for inspection.
func (g *Game) Session() *sim.Session {
	return g.session
}

func (g *Game) logger() *log.Logger {
	if g.hooks.Logger != nil {
		return g.hooks.Logger
	}
	return log.New(io.Discard)
}

// effects tracks short-lived visual feedback driven by session events.
type effects struct {
	sim.NopListener
	collect time.Duration // Remaining flash time
	miss    time.Duration
	crash   bool
}

const flashDuration = 200 * time.Millisecond

func (e *effects) OnCollect() { e.collect = flashDuration }
func (e *effects) OnMiss()    { e.miss = flashDuration }
func (e *effects) OnCrash()   { e.crash = true }

func (e *effects) advance(dt time.Duration) {
	e.collect = max(0, e.collect-dt)
	e.miss = max(0, e.miss-dt)
}

var _ registry.Hookable = (*Game)(nil)
