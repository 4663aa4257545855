package config

import (
	"math"
	"testing"
	"time"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.Volume != 0.5 || s.Difficulty != "easy" || s.MaxSpeed != 12 {
		t.Errorf("DefaultSettings() = %+v", s)
	}
	if s.Mode() != sim.ModeBase {
		t.Error("default mode should be base")
	}
}

func TestSettingsNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Settings
		want Settings
	}{
		{
			name: "in range",
			in:   Settings{Volume: 0.3, Difficulty: "hard", MaxSpeed: 18},
			want: Settings{Volume: 0.3, Difficulty: "hard", MaxSpeed: 18},
		},
		{
			name: "volume clamped",
			in:   Settings{Volume: 3, Difficulty: "easy"},
			want: Settings{Volume: 1, Difficulty: "easy"},
		},
		{
			name: "nan volume",
			in:   Settings{Volume: math.NaN(), Difficulty: "easy"},
			want: Settings{Volume: 0.5, Difficulty: "easy"},
		},
		{
			name: "unknown tier",
			in:   Settings{Volume: 0, Difficulty: "insane"},
			want: Settings{Volume: 0, Difficulty: "easy"},
		},
		{
			name: "negative overrides",
			in:   Settings{Difficulty: "medium", MaxSpeed: -1, StartSpeed: -2, SpawnDelayMs: -5, RampRate: -0.1},
			want: Settings{Difficulty: "medium"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.in.Normalize(); got != tc.want {
				t.Errorf("Normalize() = %+v, expected %+v", got, tc.want)
			}
		})
	}
}

func TestSettingsSelectDifficulty(t *testing.T) {
	want := map[sim.Tier]float64{
		sim.TierEasy:   12,
		sim.TierMedium: 15,
		sim.TierHard:   18,
	}
	for tier, speed := range want {
		s := DefaultSettings()
		s.SelectDifficulty(tier)
		if s.Tier() != tier || s.MaxSpeed != speed {
			t.Errorf("SelectDifficulty(%s) = %+v, expected max speed %g", tier, s, speed)
		}
	}
}

func TestSettingsSetVolume(t *testing.T) {
	s := DefaultSettings()
	for _, tc := range []struct{ in, want float64 }{{0.25, 0.25}, {-1, 0}, {1.5, 1}} {
		s.SetVolume(tc.in)
		if s.Volume != tc.want {
			t.Errorf("SetVolume(%g) -> %g, expected %g", tc.in, s.Volume, tc.want)
		}
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("DODGE_VOLUME", "0.8")
	t.Setenv("DODGE_DIFFICULTY", " Hard ")
	t.Setenv("DODGE_SURVIVAL", "true")

	s := DefaultSettings()
	if err := ApplyEnv(&s); err != nil {
		t.Fatalf("ApplyEnv() failed: %v", err)
	}
	if s.Volume != 0.8 || s.Tier() != sim.TierHard || !s.Survival {
		t.Errorf("ApplyEnv() = %+v", s)
	}
	if s.MaxSpeed != 12 {
		t.Errorf("unset variables should keep stored values, max speed = %g", s.MaxSpeed)
	}
}

func TestApplyEnvRejectsGarbage(t *testing.T) {
	t.Setenv("DODGE_VOLUME", "loud")
	s := DefaultSettings()
	if err := ApplyEnv(&s); err == nil {
		t.Error("non-numeric DODGE_VOLUME should fail")
	}
}

func TestSettingsApply(t *testing.T) {
	base := sim.DefaultRunConfig(sim.TierMedium)

	got := Settings{Difficulty: "medium"}.Apply(base)
	if got != base {
		t.Errorf("zero overrides changed the config: %+v", got)
	}

	got = Settings{
		Difficulty:   "medium",
		MaxSpeed:     20,
		StartSpeed:   5,
		SpawnDelayMs: 800,
		RampRate:     0.5,
		Survival:     true,
	}.Apply(base)
	if got.MaxSpeed != 20 || got.StartSpeed != 5 || got.RampRate != 0.5 ||
		got.SpawnDelay != 800*time.Millisecond || got.Mode != sim.ModeSurvival {
		t.Errorf("Apply() = %+v", got)
	}
	if got.MinSpawnDelay != base.MinSpawnDelay || got.Tier != sim.TierMedium {
		t.Error("Apply() should leave untouched fields alone")
	}
}

func TestLoadEnvDefaults(t *testing.T) {
	e, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() failed: %v", err)
	}
	if e.DBPath == "" || e.LogLevel == "" {
		t.Errorf("LoadEnv() = %+v, expected defaults", e)
	}

	t.Setenv("DODGE_DB", "/tmp/x.db")
	e, _ = LoadEnv()
	if e.DBPath != "/tmp/x.db" {
		t.Errorf("DBPath = %q, expected override", e.DBPath)
	}
}
