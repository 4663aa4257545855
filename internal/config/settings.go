package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// Settings is the player-editable settings record. It is stored as JSON
// under the lane_settings key and may be overridden from the environment.
// Zero numeric overrides mean "use the tier default".
type Settings struct {
	Volume       float64 `json:"volume" env:"DODGE_VOLUME"`
	Difficulty   string  `json:"difficulty" env:"DODGE_DIFFICULTY"`
	MaxSpeed     float64 `json:"maxSpeed" env:"DODGE_MAX_SPEED"`
	StartSpeed   float64 `json:"startSpeed,omitempty" env:"DODGE_START_SPEED"`
	SpawnDelayMs int     `json:"spawnDelayMs,omitempty" env:"DODGE_SPAWN_DELAY_MS"`
	RampRate     float64 `json:"rampRate,omitempty" env:"DODGE_RAMP_RATE"`
	Survival     bool    `json:"survival,omitempty" env:"DODGE_SURVIVAL"`
}

// DefaultSettings returns the settings of a fresh install.
func DefaultSettings() Settings {
	return Settings{
		Volume:     0.5,
		Difficulty: string(sim.TierEasy),
		MaxSpeed:   sim.DefaultRunConfig(sim.TierEasy).MaxSpeed,
	}
}

// Tier returns the selected difficulty tier.
func (s Settings) Tier() sim.Tier {
	t, err := ParseTier(s.Difficulty)
	if err != nil {
		return sim.TierEasy
	}
	return t
}

// Mode returns the selected rule set.
func (s Settings) Mode() sim.Mode {
	if s.Survival {
		return sim.ModeSurvival
	}
	return sim.ModeBase
}

// SelectDifficulty switches tier and resets the speed cap to that tier's.
func (s *Settings) SelectDifficulty(t sim.Tier) {
	if !t.Valid() {
		t = sim.TierEasy
	}
	s.Difficulty = string(t)
	s.MaxSpeed = sim.DefaultRunConfig(t).MaxSpeed
}

// SetVolume stores v clamped to [0, 1].
func (s *Settings) SetVolume(v float64) {
	if math.IsNaN(v) {
		v = 0
	}
	s.Volume = core.ClampF(v, 0, 1)
}

// Normalize returns a copy with every field in range.
func (s Settings) Normalize() Settings {
	if math.IsNaN(s.Volume) || math.IsInf(s.Volume, 0) {
		s.Volume = DefaultSettings().Volume
	}
	s.Volume = core.ClampF(s.Volume, 0, 1)

	s.Difficulty = string(s.Tier())

	if !(s.MaxSpeed >= 0) || math.IsInf(s.MaxSpeed, 0) {
		s.MaxSpeed = 0
	}
	if !(s.StartSpeed >= 0) || math.IsInf(s.StartSpeed, 0) {
		s.StartSpeed = 0
	}
	if !(s.RampRate >= 0) || math.IsInf(s.RampRate, 0) {
		s.RampRate = 0
	}
	if s.SpawnDelayMs < 0 {
		s.SpawnDelayMs = 0
	}
	return s
}

// ApplyEnv overlays DODGE_* environment variables onto s. Unset variables
// leave the stored value alone.
func ApplyEnv(s *Settings) error {
	if err := env.Parse(s); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	s.Difficulty = strings.ToLower(strings.TrimSpace(s.Difficulty))
	return nil
}

// Apply lays the player's overrides over a tier's run parameters.
func (s Settings) Apply(rc sim.RunConfig) sim.RunConfig {
	rc.Mode = s.Mode()
	if s.StartSpeed > 0 {
		rc.StartSpeed = s.StartSpeed
	}
	if s.MaxSpeed > 0 {
		rc.MaxSpeed = s.MaxSpeed
	}
	if s.RampRate > 0 {
		rc.RampRate = s.RampRate
	}
	if s.SpawnDelayMs > 0 {
		rc.SpawnDelay = time.Duration(s.SpawnDelayMs) * time.Millisecond
	}
	return rc
}

// Env holds process-level options read from the environment.
type Env struct {
	ConfigPath string `env:"DODGE_CONFIG"`
	DBPath     string `env:"DODGE_DB" envDefault:"~/.dodge/scores.db"`
	LogLevel   string `env:"DODGE_LOG_LEVEL" envDefault:"warn"`
}

// LoadEnv reads Env from the environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return e, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}
