package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseDodge(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if !reflect.DeepEqual(cfg, DefaultDodgeConfig()) {
		t.Errorf("embedded defaults drifted from DefaultDodgeConfig():\n got %+v\nwant %+v", cfg, DefaultDodgeConfig())
	}
}

func TestRunConfigMatchesTierDefaults(t *testing.T) {
	cfg := DefaultDodgeConfig()
	for _, tier := range sim.Tiers {
		got := cfg.RunConfig(tier, sim.ModeBase)
		if want := sim.DefaultRunConfig(tier); got != want {
			t.Errorf("RunConfig(%s) = %+v, expected %+v", tier, got, want)
		}
	}

	if got := cfg.RunConfig("bogus", sim.ModeSurvival); got.Tier != sim.TierEasy || got.Mode != sim.ModeSurvival {
		t.Errorf("unknown tier should fall back to easy, got %+v", got)
	}
}

func TestLoadDodgeSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	cfg, err := LoadDodge("")
	if err != nil {
		t.Fatalf("LoadDodge() failed: %v", err)
	}
	if cfg.Tiers.Easy.MaxSpeed != 12 {
		t.Errorf("embedded default not used, easy max speed = %g", cfg.Tiers.Easy.MaxSpeed)
	}

	writeFile(t, filepath.Join(work, "configs", "dodge.yaml"), "tiers:\n  easy:\n    max_speed: 20\n")
	cfg, _ = LoadDodge("")
	if cfg.Tiers.Easy.MaxSpeed != 20 {
		t.Errorf("local config not used, easy max speed = %g", cfg.Tiers.Easy.MaxSpeed)
	}
	if cfg.Tiers.Easy.StartSpeed != 2.5 {
		t.Errorf("partial file should keep other defaults, start speed = %g", cfg.Tiers.Easy.StartSpeed)
	}

	writeFile(t, filepath.Join(home, AppDir, "configs", "dodge.yaml"), "tiers:\n  easy:\n    max_speed: 30\n")
	cfg, _ = LoadDodge("")
	if cfg.Tiers.Easy.MaxSpeed != 30 {
		t.Errorf("user config should win over local, easy max speed = %g", cfg.Tiers.Easy.MaxSpeed)
	}

	custom := filepath.Join(work, "custom.yaml")
	writeFile(t, custom, "tiers:\n  easy:\n    max_speed: 40\n")
	cfg, err = LoadDodge(custom)
	if err != nil {
		t.Fatalf("LoadDodge(custom) failed: %v", err)
	}
	if cfg.Tiers.Easy.MaxSpeed != 40 {
		t.Errorf("custom path should win, easy max speed = %g", cfg.Tiers.Easy.MaxSpeed)
	}
}

func TestLoadDodgeCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadDodge(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom config should be an error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "tiers: [unclosed")
	cfg, err := LoadDodge(bad)
	if err == nil {
		t.Error("malformed custom config should be an error")
	}
	if cfg.Tiers.Hard.MaxSpeed != 18 {
		t.Error("failed load should still return usable defaults")
	}
}

func TestSimFieldValidation(t *testing.T) {
	cfg := DefaultDodgeConfig()
	f, err := cfg.SimField()
	if err != nil || f != sim.DefaultField() {
		t.Fatalf("SimField() = %+v, %v", f, err)
	}

	cfg.Field.Lanes = [3]float64{300, 200, 100}
	f, err = cfg.SimField()
	if err == nil {
		t.Error("decreasing lanes should be rejected")
	}
	if f != sim.DefaultField() {
		t.Error("rejected field should fall back to the default")
	}
}

func TestHitTestPolicy(t *testing.T) {
	f := sim.DefaultField()
	cfg := DefaultDodgeConfig()

	if got, ok := cfg.HitTest(f).(sim.BoxHitTest); !ok || got != sim.DefaultHitTest(f) {
		t.Errorf("default policy = %#v, expected box test", cfg.HitTest(f))
	}

	cfg.Collision.BoxW = 30
	if got := cfg.HitTest(f).(sim.BoxHitTest); got.W != 30 || got.H != 75 {
		t.Errorf("box override = %+v, expected W=30 H=75", got)
	}

	cfg.Collision.Policy = "RADIUS"
	cfg.Collision.Radius = 50
	if got, ok := cfg.HitTest(f).(sim.RadiusHitTest); !ok || got.Radius != 50 {
		t.Errorf("radius policy = %#v", cfg.HitTest(f))
	}
}

func TestParseTier(t *testing.T) {
	tests := []struct {
		in      string
		want    sim.Tier
		wantErr bool
	}{
		{"easy", sim.TierEasy, false},
		{"  Medium ", sim.TierMedium, false},
		{"HARD", sim.TierHard, false},
		{"normal", "", true},
		{"", "", true},
	}

	for _, tc := range tests {
		got, err := ParseTier(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseTier(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseTier(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
