package tui

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/candle-dodge/internal/audio"
	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
	"github.com/vovakirdan/candle-dodge/internal/records"
	"github.com/vovakirdan/candle-dodge/internal/registry"
	"github.com/vovakirdan/candle-dodge/internal/storage"
)

// Services are the backends shared by every screen of a session.
// Store and Sound may be nil; Book is always usable.
type Services struct {
	Store  *storage.Store
	Book   *records.Book
	Sound  *audio.Player
	Logger *log.Logger
}

// NewServices wires the records book to store, or to memory when there is
// no database.
func NewServices(store *storage.Store, sound *audio.Player, logger *log.Logger) *Services {
	if logger == nil {
		logger = log.New(io.Discard)
	}

	var kv records.KV = records.NewMemoryKV()
	if store != nil {
		kv = store
	}

	return &Services{
		Store:  store,
		Book:   records.NewBook(kv),
		Sound:  sound,
		Logger: logger,
	}
}

// Hooks returns what a game reports to for the given player.
func (s *Services) Hooks(player string) registry.Hooks {
	recorders := records.Recorders{s.Book}
	if s.Store != nil {
		recorders = append(recorders, s.Store)
	}

	h := registry.Hooks{
		Player:   player,
		Recorder: recorders,
		Logger:   s.Logger,
	}
	if s.Sound != nil {
		h.Listener = s.Sound
	}
	return h
}

// Settings returns the stored settings with DODGE_* overrides applied.
// Read errors fall back to defaults.
func (s *Services) Settings() config.Settings {
	st, err := s.Book.Settings()
	if err != nil {
		s.Logger.Warn("could not read settings", "error", err)
		st = config.DefaultSettings()
	}
	if err := config.ApplyEnv(&st); err != nil {
		s.Logger.Warn("ignoring environment settings", "error", err)
	}
	return st.Normalize()
}

// SaveSettings persists st and applies its volume to the sound player.
func (s *Services) SaveSettings(st config.Settings) error {
	st = st.Normalize()
	if s.Sound != nil {
		s.Sound.SetVolume(st.Volume)
	}
	return s.Book.SaveSettings(st)
}

// PlayerName returns the stored local player name.
func (s *Services) PlayerName() string {
	name, err := s.Book.PlayerName()
	if err != nil {
		s.Logger.Warn("could not read player name", "error", err)
		return sim.DefaultPlayerName
	}
	return name
}

// Close releases the database.
func (s *Services) Close() error {
	if s.Store == nil {
		return nil
	}
	return s.Store.Close()
}
