package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// Collision policies.
const (
	PolicyBox    = "box"
	PolicyRadius = "radius"
)

// AppDir is the per-user directory for configs, the database and screenshots.
const AppDir = ".dodge"

// LoadDodge loads the game configuration.
// Search order: customPath -> ~/.dodge/configs/dodge.yaml -> ./configs/dodge.yaml -> embedded default
//
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadDodge(customPath string) (DodgeConfig, error) {
	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultDodgeConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseDodge(data)
		if err != nil {
			return DefaultDodgeConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath("dodge.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseDodge(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "dodge.yaml")); err == nil {
		if cfg, err := parseDodge(data); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg, err := parseDodge(defaultDodgeYAML)
	if err != nil {
		return DefaultDodgeConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseDodge(data []byte) (DodgeConfig, error) {
	cfg := DefaultDodgeConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultDodgeConfig(), err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, AppDir, "configs", filename)
}

// SimField converts the field section. Geometry the engine cannot use is
// reported and replaced by the default field.
func (c DodgeConfig) SimField() (sim.Field, error) {
	f := sim.Field{
		Width:   c.Field.Width,
		Height:  c.Field.Height,
		Lanes:   c.Field.Lanes,
		PlayerY: c.Field.PlayerY,
		PlayerW: c.Field.PlayerW,
		PlayerH: c.Field.PlayerH,
		ObjectW: c.Field.ObjectW,
		ObjectH: c.Field.ObjectH,
		SpawnY:  c.Field.SpawnY,
		ExitY:   c.Field.ExitY,
	}
	if err := f.Validate(); err != nil {
		return sim.DefaultField(), err
	}
	return f, nil
}

// HitTest builds the configured collision policy for field f.
func (c DodgeConfig) HitTest(f sim.Field) sim.HitTest {
	switch strings.ToLower(c.Collision.Policy) {
	case PolicyRadius:
		if c.Collision.Radius > 0 {
			return sim.RadiusHitTest{Radius: c.Collision.Radius}
		}
		return sim.DefaultRadiusHitTest(f)
	default:
		h := sim.DefaultHitTest(f)
		if c.Collision.BoxW > 0 {
			h.W = c.Collision.BoxW
		}
		if c.Collision.BoxH > 0 {
			h.H = c.Collision.BoxH
		}
		return h
	}
}

// RunConfig builds the run parameters of tier t in the given mode. The
// result is not normalized; the session does that when the run starts.
func (c DodgeConfig) RunConfig(t sim.Tier, mode sim.Mode) sim.RunConfig {
	if !t.Valid() {
		t = sim.TierEasy
	}
	tc := c.Tiers.Tier(t)
	return sim.RunConfig{
		Tier:              t,
		Mode:              mode,
		StartSpeed:        tc.StartSpeed,
		MaxSpeed:          tc.MaxSpeed,
		RampRate:          tc.RampRate,
		SpawnDelay:        time.Duration(tc.SpawnDelayMs) * time.Millisecond,
		MinSpawnDelay:     time.Duration(tc.MinSpawnDelayMs) * time.Millisecond,
		DelayStep:         time.Duration(tc.DelayStepMs) * time.Millisecond,
		DelayEvery:        time.Duration(tc.DelayEveryMs) * time.Millisecond,
		BeneficialPercent: tc.BeneficialPercent,
	}
}
