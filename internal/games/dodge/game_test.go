package dodge

import (
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/registry"
)

const frame = time.Second / 60

func newTestGame(t *testing.T, mode sim.Mode, h registry.Hooks) *Game {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	g := New(mode)
	g.Bind(h)
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	g.Reset(cfg)
	return g
}

func input(actions ...core.Action) core.InputFrame {
	in := core.NewInputFrame()
	for _, a := range actions {
		in.Set(a)
	}
	return in
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDBase, IDSurvival} {
		if !registry.Exists(id) {
			t.Errorf("mode %q is not registered", id)
		}
	}

	g, err := registry.Create(IDSurvival)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if g.ID() != IDSurvival || !strings.Contains(g.Title(), "Survival") {
		t.Errorf("survival game = %s / %s", g.ID(), g.Title())
	}
}

func TestResetAppliesSettingsAndMode(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	g := New(sim.ModeSurvival)
	s := config.DefaultSettings()
	s.SelectDifficulty(sim.TierHard)
	s.StartSpeed = 5
	g.UseSettings(s)
	g.Reset(core.DefaultConfig())

	rc := g.Session().Config()
	if rc.Tier != sim.TierHard || rc.Mode != sim.ModeSurvival || rc.StartSpeed != 5 || rc.MaxSpeed != 18 {
		t.Errorf("run config = %+v", rc)
	}
}

func TestDifficultyPresetOverridesSettings(t *testing.T) {
	SetDifficultyPreset("medium")
	defer SetDifficultyPreset("")

	g := newTestGame(t, sim.ModeBase, registry.Hooks{})
	if tier := g.Session().Config().Tier; tier != sim.TierMedium {
		t.Errorf("tier = %s, expected preset medium", tier)
	}
}

func TestStepShiftsLanesInOrder(t *testing.T) {
	g := newTestGame(t, sim.ModeBase, registry.Hooks{})

	g.Step(input(core.ActionLeft, core.ActionLeft), frame)
	if lane := g.Session().Lane(); lane != 0 {
		t.Fatalf("lane = %d after two lefts, expected 0", lane)
	}

	// At the left edge: right then left ends in lane 0, left then right in lane 1.
	g.Step(input(core.ActionRight, core.ActionLeft), frame)
	if lane := g.Session().Lane(); lane != 0 {
		t.Errorf("lane = %d after right+left, expected 0", lane)
	}
	g.Step(input(core.ActionLeft, core.ActionRight), frame)
	if lane := g.Session().Lane(); lane != 1 {
		t.Errorf("lane = %d after left+right, expected 1", lane)
	}
}

func TestStepUsesElapsedTime(t *testing.T) {
	g := newTestGame(t, sim.ModeBase, registry.Hooks{})

	g.Step(input(), 100*time.Millisecond)
	g.Step(input(), 0) // nominal tick

	want := 100*time.Millisecond + core.DefaultConfig().TickInterval()
	if got := g.Session().Elapsed(); got != want {
		t.Errorf("Elapsed() = %v, expected %v", got, want)
	}
}

func TestPauseFreezesRun(t *testing.T) {
	g := newTestGame(t, sim.ModeBase, registry.Hooks{})

	res := g.Step(input(core.ActionPause), frame)
	if !res.State.Paused {
		t.Fatal("pause action should pause")
	}
	before := g.Session().Elapsed()
	g.Step(input(core.ActionRight), time.Second)
	if g.Session().Elapsed() != before || g.Session().Lane() != 1 {
		t.Error("paused game should ignore time and moves")
	}

	if res := g.Step(input(core.ActionPause), frame); res.State.Paused {
		t.Error("second pause should resume")
	}
}

type countingListener struct {
	sim.NopListener
	ended int
}

func (l *countingListener) OnRunEnded(int) { l.ended++ }

func TestRunEndsAndRecordsOnce(t *testing.T) {
	var recorded []sim.RunResult
	l := &countingListener{}
	g := newTestGame(t, sim.ModeBase, registry.Hooks{
		Player:   "ann",
		Listener: l,
		Recorder: sim.RecorderFunc(func(r sim.RunResult) error {
			recorded = append(recorded, r)
			return nil
		}),
	})

	for i := 0; i < 60*600 && !g.State().GameOver; i++ {
		if res := g.Step(input(), frame); res.Err != nil {
			t.Fatalf("Step() failed: %v", res.Err)
		}
	}
	if !g.State().GameOver {
		t.Fatal("run never ended")
	}

	// Steps after the end are inert.
	g.Step(input(core.ActionLeft), frame)

	if len(recorded) != 1 || l.ended != 1 {
		t.Fatalf("recorded %d runs, ended %d times; expected 1 and 1", len(recorded), l.ended)
	}
	if recorded[0].Player != "ann" || recorded[0].Score != g.State().Score {
		t.Errorf("recorded %+v", recorded[0])
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("game over overlay not drawn")
	}

	// Reset starts a fresh run.
	g.Reset(core.DefaultConfig())
	if g.State().GameOver || g.State().Score != 0 {
		t.Errorf("state after reset = %+v", g.State())
	}
}

func TestRenderLayout(t *testing.T) {
	g := newTestGame(t, sim.ModeBase, registry.Hooks{})
	screen := core.NewScreen(80, 24)
	g.Render(screen)

	if !strings.Contains(screen.Row(0), "Score: 0") {
		t.Errorf("HUD row = %q", screen.Row(0))
	}
	if !strings.Contains(screen.Row(0), "easy") {
		t.Errorf("HUD should show the tier, got %q", screen.Row(0))
	}
	if !strings.Contains(screen.Row(23), "pause") {
		t.Errorf("hint row = %q", screen.Row(23))
	}

	player := 0
	for y := 0; y < screen.Height(); y++ {
		for x := 0; x < screen.Width(); x++ {
			if screen.Get(x, y) == PlayerChar {
				player++
			}
		}
	}
	if player == 0 {
		t.Error("player not drawn")
	}
}

func TestRenderTinyScreen(t *testing.T) {
	g := newTestGame(t, sim.ModeBase, registry.Hooks{})
	for _, size := range [][2]int{{1, 1}, {10, 5}, {200, 10}} {
		g.Render(core.NewScreen(size[0], size[1])) // must not panic
	}
}

func TestViewportKeepsAspect(t *testing.T) {
	v := newViewport(sim.DefaultField(), 80, 24)
	if v.area.H != 20 || v.area.W != 27 {
		t.Errorf("area = %+v, expected 27x20", v.area)
	}
	if mid := v.area.X + v.area.W/2; mid < 39 || mid > 41 {
		t.Errorf("area not centred: %+v", v.area)
	}

	// Narrow screens are limited by width.
	v = newViewport(sim.DefaultField(), 20, 60)
	if v.area.W != 18 {
		t.Errorf("narrow area = %+v, expected width 18", v.area)
	}
}

func TestViewportClipsAboveField(t *testing.T) {
	v := newViewport(sim.DefaultField(), 80, 24)
	if _, ok := v.boxRect(core.NewBox(100, -50, 45, 75)); ok {
		t.Error("object fully above the field should not be drawn")
	}
	r, ok := v.boxRect(core.NewBox(100, 0, 45, 75))
	if !ok || r.Y != v.area.Y {
		t.Errorf("partly visible object = %+v, %v", r, ok)
	}
}
