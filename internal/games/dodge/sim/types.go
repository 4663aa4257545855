package sim

import (
	"fmt"
	"math"
	"time"
)

// LaneCount is the number of lanes on the field.
const LaneCount = 3

// ReferenceFPS is the frame rate speeds are expressed against: a speed of 2.5
// moves an object 2.5 world units per 1/60th of a second.
const ReferenceFPS = 60

// Category tells whether touching an object hurts or helps the player.
type Category int

const (
	Harmful    Category = iota // Red candle: ends the run on contact
	Beneficial                 // Green candle: +1 on contact
)

func (c Category) String() string {
	switch c {
	case Harmful:
		return "harmful"
	case Beneficial:
		return "beneficial"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Mode selects the scoring rules of a run.
type Mode int

const (
	ModeBase     Mode = iota // Misses cost a point, negative score ends the run
	ModeSurvival             // Any missed beneficial object ends the run
)

func (m Mode) String() string {
	switch m {
	case ModeBase:
		return "base"
	case ModeSurvival:
		return "survival"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tier names a difficulty tier. Each tier has its own defaults and its own
// leaderboard.
type Tier string

const (
	TierEasy   Tier = "easy"
	TierMedium Tier = "medium"
	TierHard   Tier = "hard"
)

// Tiers lists the known tiers in menu order.
var Tiers = []Tier{TierEasy, TierMedium, TierHard}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierEasy, TierMedium, TierHard:
		return true
	}
	return false
}

// Field describes the logical playfield in world units.
// The default matches a 400x600 portrait screen.
type Field struct {
	Width   float64
	Height  float64
	Lanes   [LaneCount]float64 // Horizontal lane centres
	PlayerY float64            // Vertical centre of the player
	PlayerW float64
	PlayerH float64
	ObjectW float64
	ObjectH float64
	SpawnY  float64 // Objects appear here, above the visible area
	ExitY   float64 // Objects below this line are missed
}

// DefaultField returns the standard 400x600 field.
func DefaultField() Field {
	return Field{
		Width:   400,
		Height:  600,
		Lanes:   [LaneCount]float64{100, 200, 300},
		PlayerY: 520,
		PlayerW: 45,
		PlayerH: 75,
		ObjectW: 45,
		ObjectH: 75,
		SpawnY:  -50,
		ExitY:   650,
	}
}

// Validate checks the geometry for values the engine cannot work with.
func (f Field) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("field: size must be positive, got %gx%g", f.Width, f.Height)
	}
	if f.ExitY <= f.SpawnY {
		return fmt.Errorf("field: exit line %g must be below spawn line %g", f.ExitY, f.SpawnY)
	}
	for i := 1; i < LaneCount; i++ {
		if f.Lanes[i] <= f.Lanes[i-1] {
			return fmt.Errorf("field: lanes must be strictly increasing, got %v", f.Lanes)
		}
	}
	if f.PlayerW <= 0 || f.PlayerH <= 0 || f.ObjectW <= 0 || f.ObjectH <= 0 {
		return fmt.Errorf("field: sprite sizes must be positive")
	}
	return nil
}

// RunConfig holds everything that stays fixed for the duration of one run.
type RunConfig struct {
	Tier Tier
	Mode Mode

	StartSpeed float64 // World units per reference frame at t=0
	MaxSpeed   float64 // Speed never exceeds this
	RampRate   float64 // Speed gained per second of play

	SpawnDelay    time.Duration // Delay between spawns at t=0
	MinSpawnDelay time.Duration // Delay never drops below this
	DelayStep     time.Duration // Amount removed from the delay at each step
	DelayEvery    time.Duration // Run time between two delay steps

	BeneficialPercent int // Chance in percent that a spawn is beneficial
}

type tierDefaults struct {
	startSpeed, maxSpeed, rampRate float64
	minDelay                       time.Duration
}

var defaultsByTier = map[Tier]tierDefaults{
	TierEasy:   {startSpeed: 2.5, maxSpeed: 12, rampRate: 0.05, minDelay: 450 * time.Millisecond},
	TierMedium: {startSpeed: 3, maxSpeed: 15, rampRate: 0.08, minDelay: 400 * time.Millisecond},
	TierHard:   {startSpeed: 3.5, maxSpeed: 18, rampRate: 0.12, minDelay: 350 * time.Millisecond},
}

const (
	defaultSpawnDelay        = time.Second
	defaultDelayStep         = 50 * time.Millisecond
	defaultDelayEvery        = 6 * time.Second
	defaultBeneficialPercent = 25
)

// DefaultRunConfig returns the base-mode configuration of a tier.
// Unknown tiers fall back to easy.
func DefaultRunConfig(tier Tier) RunConfig {
	if !tier.Valid() {
		tier = TierEasy
	}
	d := defaultsByTier[tier]
	return RunConfig{
		Tier:              tier,
		Mode:              ModeBase,
		StartSpeed:        d.startSpeed,
		MaxSpeed:          d.maxSpeed,
		RampRate:          d.rampRate,
		SpawnDelay:        defaultSpawnDelay,
		MinSpawnDelay:     d.minDelay,
		DelayStep:         defaultDelayStep,
		DelayEvery:        defaultDelayEvery,
		BeneficialPercent: defaultBeneficialPercent,
	}
}

// Normalize clamps every field into a playable range. It returns the fixed
// config and a human-readable note for each adjustment it made.
func (c RunConfig) Normalize() (RunConfig, []string) {
	var notes []string
	note := func(format string, args ...any) {
		notes = append(notes, fmt.Sprintf(format, args...))
	}

	if !c.Tier.Valid() {
		note("unknown tier %q, using %s", c.Tier, TierEasy)
		c.Tier = TierEasy
	}
	d := DefaultRunConfig(c.Tier)

	if c.Mode != ModeBase && c.Mode != ModeSurvival {
		note("unknown mode %d, using %s", int(c.Mode), ModeBase)
		c.Mode = ModeBase
	}
	if !(c.StartSpeed > 0) || math.IsInf(c.StartSpeed, 0) {
		note("start speed %g is not positive, using %g", c.StartSpeed, d.StartSpeed)
		c.StartSpeed = d.StartSpeed
	}
	if !(c.MaxSpeed > 0) || math.IsInf(c.MaxSpeed, 0) {
		note("max speed %g is not positive, using %g", c.MaxSpeed, d.MaxSpeed)
		c.MaxSpeed = d.MaxSpeed
	}
	if c.MaxSpeed < c.StartSpeed {
		note("max speed %g below start speed %g, raising it", c.MaxSpeed, c.StartSpeed)
		c.MaxSpeed = c.StartSpeed
	}
	if !(c.RampRate >= 0) || math.IsInf(c.RampRate, 0) {
		note("ramp rate %g is invalid, using 0", c.RampRate)
		c.RampRate = 0
	}
	if c.SpawnDelay <= 0 {
		note("spawn delay %v is not positive, using %v", c.SpawnDelay, d.SpawnDelay)
		c.SpawnDelay = d.SpawnDelay
	}
	if c.MinSpawnDelay <= 0 {
		note("min spawn delay %v is not positive, using %v", c.MinSpawnDelay, d.MinSpawnDelay)
		c.MinSpawnDelay = d.MinSpawnDelay
	}
	if c.MinSpawnDelay > c.SpawnDelay {
		note("min spawn delay %v above spawn delay %v, lowering it", c.MinSpawnDelay, c.SpawnDelay)
		c.MinSpawnDelay = c.SpawnDelay
	}
	if c.DelayStep < 0 {
		note("delay step %v is negative, using 0", c.DelayStep)
		c.DelayStep = 0
	}
	if c.DelayEvery <= 0 {
		note("delay interval %v is not positive, using %v", c.DelayEvery, d.DelayEvery)
		c.DelayEvery = d.DelayEvery
	}
	if c.BeneficialPercent < 0 || c.BeneficialPercent > 100 {
		clamped := min(max(c.BeneficialPercent, 0), 100)
		note("beneficial percent %d out of range, using %d", c.BeneficialPercent, clamped)
		c.BeneficialPercent = clamped
	}

	return c, notes
}
