package tui

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/records"
)

// VolumeStep is the slider increment, in percent.
const VolumeStep = 5

const (
	rowVolume = iota
	rowDifficulty
	rowMode
	rowName
	rowBack
	rowCount
)

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))

// SettingsModel edits the stored settings and the player name.
type SettingsModel struct {
	svc        *Services
	settings   config.Settings
	player     string
	nameLocked bool // Name comes from the connection, not the store
	name       textinput.Model
	editing    bool
	cursor     int
	width      int
	height     int
	keyMapper  *KeyMapper
	status     string
	done       bool
	quitting   bool
}

// NewSettingsModel opens the settings screen for player.
func NewSettingsModel(svc *Services, player string, nameLocked bool, width, height int) SettingsModel {
	ti := textinput.New()
	ti.Placeholder = sim.DefaultPlayerName
	ti.CharLimit = records.MaxNameLength
	ti.Width = records.MaxNameLength + 1
	ti.SetValue(player)

	// Edit what is stored, without the environment overrides.
	settings, err := svc.Book.Settings()
	if err != nil {
		svc.Logger.Warn("could not read settings", "error", err)
	}

	return SettingsModel{
		svc:        svc,
		settings:   settings,
		player:     player,
		nameLocked: nameLocked,
		name:       ti,
		width:      width,
		height:     height,
		keyMapper:  NewKeyMapper(),
	}
}

// Init initializes the model.
func (m SettingsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleNameKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	if m.editing {
		var cmd tea.Cmd
		m.name, cmd = m.name.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m SettingsModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.save()
		m.quitting = true
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < rowCount-1 {
			m.cursor++
		}
	case MenuActionLeft:
		m.adjust(-1)
	case MenuActionRight:
		m.adjust(1)
	case MenuActionSelect:
		switch m.cursor {
		case rowName:
			if m.nameLocked {
				return m, nil
			}
			m.editing = true
			m.status = ""
			m.name.Placeholder = m.player
			m.name.SetValue("")
			cmd := m.name.Focus()
			return m, cmd
		case rowBack:
			m.save()
			m.done = true
		default:
			m.adjust(1)
		}
	case MenuActionBack:
		m.save()
		m.done = true
	}
	return m, nil
}

// adjust moves the value of the focused row one step in dir.
func (m *SettingsModel) adjust(dir int) {
	switch m.cursor {
	case rowVolume:
		pct := int(math.Round(m.settings.Volume*100)) + dir*VolumeStep
		m.settings.SetVolume(float64(pct) / 100)
		if m.svc.Sound != nil {
			m.svc.Sound.SetVolume(m.settings.Volume)
			m.svc.Sound.Click()
		}
	case rowDifficulty:
		i := slices.Index(sim.Tiers, m.settings.Tier())
		i = (i + dir + len(sim.Tiers)) % len(sim.Tiers)
		m.settings.SelectDifficulty(sim.Tiers[i])
		if m.svc.Sound != nil {
			m.svc.Sound.Select()
		}
	case rowMode:
		m.settings.Survival = !m.settings.Survival
	}
}

func (m SettingsModel) handleNameKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		m.quitting = true
		return m, nil
	case "esc":
		m.editing = false
		m.name.Blur()
		m.name.SetValue(m.player)
		return m, nil
	case "enter":
		m.editing = false
		m.name.Blur()
		name, err := m.svc.Book.SetPlayerName(m.name.Value())
		if err != nil {
			m.status = err.Error()
			m.name.SetValue(m.player)
			return m, nil
		}
		m.player = name
		m.name.SetValue(name)
		m.status = "name saved"
		return m, nil
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

// save persists the settings; a failure is shown and logged.
func (m *SettingsModel) save() {
	if err := m.svc.SaveSettings(m.settings); err != nil {
		m.status = err.Error()
		m.svc.Logger.Warn("could not save settings", "error", err)
	}
}

// View renders the settings screen.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("S E T T I N G S"), m.width))
	b.WriteString("\n\n")

	mode := "classic"
	if m.settings.Survival {
		mode = "survival"
	}
	name := m.name.View()
	if m.nameLocked {
		name = m.player + dimStyle.Render(" (ssh user)")
	}

	rows := [rowCount]string{
		rowVolume:     fmt.Sprintf("Volume      < %3d%% >", int(math.Round(m.settings.Volume*100))),
		rowDifficulty: fmt.Sprintf("Difficulty  < %-6s >", m.settings.Tier()),
		rowMode:       fmt.Sprintf("Mode        < %-8s >", mode),
		rowName:       "Name        " + name,
		rowBack:       "Back",
	}
	for i, row := range rows {
		line := "  " + row
		if i == m.cursor {
			line = cursorStyle.Render("> ") + row
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	maxSpeed := m.settings.MaxSpeed
	if maxSpeed == 0 {
		maxSpeed = sim.DefaultRunConfig(m.settings.Tier()).MaxSpeed
	}
	b.WriteString(centerText(dimStyle.Render(fmt.Sprintf("max speed %.0f", maxSpeed)), m.width))
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString(centerText(statusStyle.Render(m.status), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "Up/Down: Select  |  Left/Right: Change  |  Enter: Edit  |  Esc: Back"
	if m.editing {
		help = "Enter: Save name  |  Esc: Cancel"
	}
	b.WriteString(centerText(dimStyle.Render(help), m.width))
	b.WriteString("\n")

	return b.String()
}

// Settings returns the edited settings.
func (m SettingsModel) Settings() config.Settings {
	return m.settings
}

// Player returns the possibly renamed player.
func (m SettingsModel) Player() string {
	return m.player
}

// Done returns true once the player left the screen.
func (m SettingsModel) Done() bool {
	return m.done
}

// IsQuitting returns true if user requested to quit.
func (m SettingsModel) IsQuitting() bool {
	return m.quitting
}
