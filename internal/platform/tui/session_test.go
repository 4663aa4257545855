package tui

import (
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/records"
)

func newTestSession(t *testing.T, locked bool) (SessionModel, *Services) {
	t.Helper()
	svc, _ := newTestServices(t)
	return NewSessionModel(svc, core.DefaultConfig(), "ann", locked), svc
}

func press(t *testing.T, m SessionModel, msgs ...tea.Msg) (SessionModel, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		sm, ok := next.(SessionModel)
		if !ok {
			t.Fatalf("Update returned %T, expected SessionModel", next)
		}
		m = sm
	}
	return m, cmd
}

var (
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
)

func TestSessionNavigation(t *testing.T) {
	m, _ := newTestSession(t, false)

	if !strings.Contains(m.View(), "C A N D L E") {
		t.Fatal("session should open on the menu")
	}

	m, _ = press(t, m, keyDown, keyEnter)
	if m.view != viewSettings {
		t.Fatalf("view = %v, expected settings", m.view)
	}

	m, _ = press(t, m, keyEsc)
	if m.view != viewMenu {
		t.Fatalf("view = %v, expected menu after esc", m.view)
	}

	m, _ = press(t, m, keyTab)
	if m.view != viewScores {
		t.Fatalf("view = %v, expected scores", m.view)
	}
	if !strings.Contains(m.View(), "No scores recorded yet") {
		t.Error("empty board should say so")
	}

	m, _ = press(t, m, runeKey("b"))
	if m.view != viewMenu {
		t.Fatalf("view = %v, expected menu after back", m.view)
	}

	m, cmd := press(t, m, keyUp, keyEnter)
	if m.view != viewGame || cmd == nil {
		t.Fatalf("view = %v, expected a running game", m.view)
	}

	_, cmd = press(t, m, runeKey("q"))
	if cmd == nil {
		t.Error("q in game should quit the program")
	}
}

func TestSessionQuitFromMenu(t *testing.T) {
	m, _ := newTestSession(t, false)

	m, cmd := press(t, m, keyDown, keyDown, keyDown, keyEnter)
	if cmd == nil || m.View() != "" {
		t.Error("Quit entry should end the session")
	}
}

func TestSettingsScreenSaves(t *testing.T) {
	m, svc := newTestSession(t, false)

	m, _ = press(t, m, keyDown, keyEnter) // open settings
	m, _ = press(t, m, keyRight)          // volume +5
	m, _ = press(t, m, keyDown, keyRight) // difficulty -> medium
	m, _ = press(t, m, keyDown, keyEnter) // survival on
	m, _ = press(t, m, keyEsc)

	st, err := svc.Book.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if math.Abs(st.Volume-0.55) > 1e-9 {
		t.Errorf("Volume = %f, expected 0.55", st.Volume)
	}
	if st.Tier() != sim.TierMedium {
		t.Errorf("Tier() = %s, expected medium", st.Tier())
	}
	if st.MaxSpeed != sim.DefaultRunConfig(sim.TierMedium).MaxSpeed {
		t.Errorf("MaxSpeed = %f, expected the medium cap", st.MaxSpeed)
	}
	if !st.Survival {
		t.Error("Survival should be on")
	}
	if svc.Sound.Volume() != st.Volume {
		t.Errorf("sound volume = %f, expected %f", svc.Sound.Volume(), st.Volume)
	}
	if m.view != viewMenu {
		t.Errorf("view = %v, expected menu", m.view)
	}
}

func TestSettingsVolumeBounds(t *testing.T) {
	svc, _ := newTestServices(t)
	m := NewSettingsModel(svc, "ann", false, 80, 24)

	for range 30 {
		next, _ := m.Update(keyRight)
		m = next.(SettingsModel)
	}
	if m.Settings().Volume != 1 {
		t.Errorf("Volume = %f, expected 1", m.Settings().Volume)
	}
	if !strings.Contains(m.View(), "100%") {
		t.Error("view should show 100%")
	}
}

func TestSettingsRename(t *testing.T) {
	m, svc := newTestSession(t, false)

	m, _ = press(t, m, keyDown, keyEnter)           // settings
	m, _ = press(t, m, keyDown, keyDown, keyDown)   // name row
	m, _ = press(t, m, keyEnter)                    // start editing
	m, _ = press(t, m, runeKey("b"), runeKey("o")) // typed, not a back key
	m, _ = press(t, m, runeKey("b"), keyEnter)

	if m.view != viewSettings {
		t.Fatalf("view = %v, typing should stay on settings", m.view)
	}
	name, err := svc.Book.PlayerName()
	if err != nil || name != "bob" {
		t.Errorf("PlayerName() = %q, %v; expected bob", name, err)
	}

	m, _ = press(t, m, keyEsc)
	if m.Player() != "bob" {
		t.Errorf("session player = %q, expected bob", m.Player())
	}
}

func TestSettingsRenameRejectsBlank(t *testing.T) {
	svc, _ := newTestServices(t)
	m := NewSettingsModel(svc, "ann", false, 80, 24)
	m.cursor = rowName

	next, _ := m.Update(keyEnter)
	m = next.(SettingsModel)
	next, _ = m.Update(keyEnter)
	m = next.(SettingsModel)

	if m.Player() != "ann" {
		t.Errorf("Player() = %q, blank name should be rejected", m.Player())
	}
	if !strings.Contains(m.View(), records.ErrEmptyName.Error()) {
		t.Error("view should show the rejection")
	}
}

func TestSettingsLockedName(t *testing.T) {
	svc, _ := newTestServices(t)
	m := NewSettingsModel(svc, "ann", true, 80, 24)
	m.cursor = rowName

	next, _ := m.Update(keyEnter)
	m = next.(SettingsModel)
	if m.editing {
		t.Error("a locked name should not be editable")
	}
	if !strings.Contains(m.View(), "ssh user") {
		t.Error("view should mark the name as the ssh user")
	}
}

func TestScoreboardShowsBoard(t *testing.T) {
	svc, _ := newTestServices(t)
	for i, name := range []string{"ann", "bob"} {
		err := svc.Book.RecordRun(sim.RunResult{
			RunID: name, Player: name, Tier: sim.TierHard, Mode: sim.ModeSurvival, Score: 10 + i,
		})
		if err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	m := NewScoreboardModel(svc, "ann", Board{Tier: sim.TierHard, Mode: sim.ModeSurvival}, 100, 30)
	view := m.View()
	for _, want := range []string{"HARD SURVIVAL", "bob", "11", "ann's best: 10"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// Cycling wraps around every board.
	for range AllBoards() {
		next, _ := m.Update(keyTab)
		m = next.(ScoreboardModel)
	}
	if !strings.Contains(m.View(), "HARD SURVIVAL") {
		t.Error("tab through all boards should come back to the start")
	}
}

func TestAllBoards(t *testing.T) {
	boards := AllBoards()
	if len(boards) != 2*len(sim.Tiers) {
		t.Fatalf("AllBoards() has %d boards", len(boards))
	}
	seen := map[string]bool{}
	for _, b := range boards {
		key := records.BoardKey(b.Tier, b.Mode)
		if seen[key] {
			t.Errorf("duplicate board %s", key)
		}
		seen[key] = true
	}
}
