package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/candle-dodge/internal/core"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge"
	"github.com/vovakirdan/candle-dodge/internal/registry"
)

type view int

const (
	viewMenu view = iota
	viewSettings
	viewScores
	viewGame
)

// SessionModel manages the full flow of one player: menu, settings, high
// scores and games, all inside one Bubble Tea program. It is the top-level
// model for both the local menu and SSH connections.
type SessionModel struct {
	svc        *Services
	config     core.RuntimeConfig
	player     string
	nameLocked bool
	view       view
	menu       MenuModel
	settings   SettingsModel
	scores     ScoreboardModel
	game       *Model
	lastErr    error
	quitting   bool
}

// NewSessionModel creates a session for player. A locked name cannot be
// changed from the settings screen.
func NewSessionModel(svc *Services, cfg core.RuntimeConfig, player string, nameLocked bool) SessionModel {
	return SessionModel{
		svc:        svc,
		config:     cfg,
		player:     player,
		nameLocked: nameLocked,
		menu:       NewMenuModel(svc, player, cfg.ScreenW, cfg.ScreenH),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewSettings:
		return m.updateSettings(msg)
	case viewScores:
		return m.updateScores(msg)
	case viewGame:
		return m.updateGame(msg)
	}
	return m.updateMenu(msg)
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	m.menu = next.(MenuModel)

	switch m.menu.Choice() {
	case ChoiceQuit:
		m.quitting = true
		return m, tea.Quit
	case ChoicePlay:
		return m.startGame()
	case ChoiceSettings:
		m.settings = NewSettingsModel(m.svc, m.player, m.nameLocked, m.config.ScreenW, m.config.ScreenH)
		m.view = viewSettings
		return m, m.settings.Init()
	case ChoiceScores:
		st := m.svc.Settings()
		start := Board{Tier: st.Tier(), Mode: st.Mode()}
		m.scores = NewScoreboardModel(m.svc, m.player, start, m.config.ScreenW, m.config.ScreenH)
		m.view = viewScores
		return m, m.scores.Init()
	}
	return m, cmd
}

// startGame launches the rule set chosen in settings.
func (m SessionModel) startGame() (tea.Model, tea.Cmd) {
	id := dodge.ModeID(m.svc.Settings().Mode())
	game, err := registry.Create(id)
	if err != nil {
		m.lastErr = err
		m.svc.Logger.Error("could not create game", "id", id, "error", err)
		return m.toMenu()
	}

	cfg := m.config
	cfg.Seed = 0
	gm := NewModel(game, m.svc, cfg, m.player)
	m.game = &gm
	m.view = viewGame
	return m, m.game.Init()
}

func (m SessionModel) updateSettings(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.settings.Update(msg)
	m.settings = next.(SettingsModel)
	m.player = m.settings.Player()

	if m.settings.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.settings.Done() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	m.scores = next.(ScoreboardModel)

	if m.scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.scores.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	gm := next.(Model)
	m.game = &gm

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		m.game = nil
		return m.toMenu()
	}
	return m, cmd
}

// toMenu rebuilds the menu so it shows fresh settings and best score.
func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.menu = NewMenuModel(m.svc, m.player, m.config.ScreenW, m.config.ScreenH)
	m.view = viewMenu
	return m, m.menu.Init()
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch m.view {
	case viewSettings:
		return m.settings.View()
	case viewScores:
		return m.scores.View()
	case viewGame:
		return m.game.View()
	}
	return m.menu.View()
}

// Player returns the current player name.
func (m SessionModel) Player() string {
	return m.player
}

// Err returns the last error that sent the session back to the menu.
func (m SessionModel) Err() error {
	return m.lastErr
}

// RunSession runs the menu-driven session locally.
func RunSession(svc *Services, cfg core.RuntimeConfig, player string) error {
	p := tea.NewProgram(
		NewSessionModel(svc, cfg, player, false),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
