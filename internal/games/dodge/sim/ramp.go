package sim

import (
	"math"
	"time"
)

// Ramp tracks the difficulty curve of one run: fall speed climbs with play
// time and the spawn delay shrinks in fixed steps.
type Ramp struct {
	cfg     RunConfig
	speed   float64
	delay   time.Duration
	elapsed time.Duration
}

// NewRamp creates a ramp at the start of a run. cfg should be normalized.
func NewRamp(cfg RunConfig) *Ramp {
	return &Ramp{
		cfg:   cfg,
		speed: math.Min(cfg.StartSpeed, cfg.MaxSpeed),
		delay: SpawnDelayAt(cfg, 0),
	}
}

// Advance accounts for dt of play time. The speed increment is proportional
// to dt, so the total ramp over real time does not depend on frame rate.
func (r *Ramp) Advance(dt time.Duration) {
	if dt <= 0 {
		return
	}
	r.elapsed += dt
	r.speed = math.Min(r.cfg.MaxSpeed, r.speed+r.cfg.RampRate*dt.Seconds())
	r.delay = SpawnDelayAt(r.cfg, r.elapsed)
}

// Speed returns the current fall speed in world units per reference frame.
func (r *Ramp) Speed() float64 {
	return r.speed
}

// SpawnDelay returns the current delay between spawns.
func (r *Ramp) SpawnDelay() time.Duration {
	return r.delay
}

// Elapsed returns the play time accounted so far.
func (r *Ramp) Elapsed() time.Duration {
	return r.elapsed
}

// SpeedAt returns the fall speed after the given play time.
func SpeedAt(cfg RunConfig, elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Min(cfg.MaxSpeed, cfg.StartSpeed+cfg.RampRate*elapsed.Seconds())
}

// SpawnDelayAt returns the spawn delay after the given play time.
func SpawnDelayAt(cfg RunConfig, elapsed time.Duration) time.Duration {
	if elapsed < 0 || cfg.DelayEvery <= 0 || cfg.DelayStep <= 0 {
		return max(cfg.SpawnDelay, cfg.MinSpawnDelay)
	}
	steps := elapsed / cfg.DelayEvery
	maxSteps := (cfg.SpawnDelay - cfg.MinSpawnDelay) / cfg.DelayStep
	if steps > maxSteps {
		return cfg.MinSpawnDelay
	}
	return max(cfg.SpawnDelay-steps*cfg.DelayStep, cfg.MinSpawnDelay)
}
