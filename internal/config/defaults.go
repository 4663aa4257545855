package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

//go:embed defaults/dodge.yaml
var defaultDodgeYAML []byte

// DefaultDodgeConfig returns the built-in configuration. It matches the
// embedded defaults/dodge.yaml.
func DefaultDodgeConfig() DodgeConfig {
	f := sim.DefaultField()
	return DodgeConfig{
		Field: FieldConfig{
			Width:   f.Width,
			Height:  f.Height,
			Lanes:   f.Lanes,
			PlayerY: f.PlayerY,
			PlayerW: f.PlayerW,
			PlayerH: f.PlayerH,
			ObjectW: f.ObjectW,
			ObjectH: f.ObjectH,
			SpawnY:  f.SpawnY,
			ExitY:   f.ExitY,
		},
		Collision: CollisionConfig{
			Policy: PolicyBox,
			Radius: sim.DefaultRadiusHitTest(f).Radius,
		},
		Tiers: TiersConfig{
			Easy:   tierFromRunConfig(sim.DefaultRunConfig(sim.TierEasy)),
			Medium: tierFromRunConfig(sim.DefaultRunConfig(sim.TierMedium)),
			Hard:   tierFromRunConfig(sim.DefaultRunConfig(sim.TierHard)),
		},
	}
}

func tierFromRunConfig(rc sim.RunConfig) TierConfig {
	return TierConfig{
		StartSpeed:        rc.StartSpeed,
		MaxSpeed:          rc.MaxSpeed,
		RampRate:          rc.RampRate,
		SpawnDelayMs:      int(rc.SpawnDelay / time.Millisecond),
		MinSpawnDelayMs:   int(rc.MinSpawnDelay / time.Millisecond),
		DelayStepMs:       int(rc.DelayStep / time.Millisecond),
		DelayEveryMs:      int(rc.DelayEvery / time.Millisecond),
		BeneficialPercent: rc.BeneficialPercent,
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultDodgeYAML
}
