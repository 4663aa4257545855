// Package config provides YAML-based configuration loading, player settings
// and difficulty tiers for Candle Dodge.
package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// DodgeConfig contains the tunable geometry and per-tier difficulty curves.
type DodgeConfig struct {
	Field     FieldConfig     `yaml:"field"`
	Collision CollisionConfig `yaml:"collision"`
	Tiers     TiersConfig     `yaml:"tiers"`
}

// FieldConfig defines the playfield in world units.
type FieldConfig struct {
	Width   float64    `yaml:"width"`
	Height  float64    `yaml:"height"`
	Lanes   [3]float64 `yaml:"lanes"` // Lane centre x coordinates, left to right
	PlayerY float64    `yaml:"player_y"`
	PlayerW float64    `yaml:"player_w"`
	PlayerH float64    `yaml:"player_h"`
	ObjectW float64    `yaml:"object_w"`
	ObjectH float64    `yaml:"object_h"`
	SpawnY  float64    `yaml:"spawn_y"`
	ExitY   float64    `yaml:"exit_y"`
}

// CollisionConfig selects the hit policy.
type CollisionConfig struct {
	Policy string  `yaml:"policy"` // "box" or "radius"
	BoxW   float64 `yaml:"box_w"`  // 0 = derived from sprite sizes
	BoxH   float64 `yaml:"box_h"`
	Radius float64 `yaml:"radius"`
}

// TiersConfig holds one difficulty curve per tier.
type TiersConfig struct {
	Easy   TierConfig `yaml:"easy"`
	Medium TierConfig `yaml:"medium"`
	Hard   TierConfig `yaml:"hard"`
}

// TierConfig defines the difficulty curve of one tier.
type TierConfig struct {
	StartSpeed        float64 `yaml:"start_speed"`
	MaxSpeed          float64 `yaml:"max_speed"`
	RampRate          float64 `yaml:"ramp_rate"` // Speed gained per second
	SpawnDelayMs      int     `yaml:"spawn_delay_ms"`
	MinSpawnDelayMs   int     `yaml:"min_spawn_delay_ms"`
	DelayStepMs       int     `yaml:"delay_step_ms"`
	DelayEveryMs      int     `yaml:"delay_every_ms"`
	BeneficialPercent int     `yaml:"beneficial_percent"`
}

// ParseTier converts a user-supplied difficulty name into a tier.
func ParseTier(name string) (sim.Tier, error) {
	t := sim.Tier(strings.ToLower(strings.TrimSpace(name)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown difficulty %q (want easy, medium or hard)", name)
	}
	return t, nil
}

// Tier returns the curve configured for t. Unknown tiers get the easy curve.
func (c TiersConfig) Tier(t sim.Tier) TierConfig {
	switch t {
	case sim.TierMedium:
		return c.Medium
	case sim.TierHard:
		return c.Hard
	default:
		return c.Easy
	}
}
