package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

// Storage keys.
const (
	KeySettings    = "lane_settings"
	KeyPlayer      = "lane_player"
	KeyBest        = "lane_best"
	boardKeyPrefix = "lane_top10_"
)

// MaxNameLength caps player names, in runes.
const MaxNameLength = 16

// ErrEmptyName is returned when setting a blank player name.
var ErrEmptyName = errors.New("records: player name is empty")

// BoardKey returns the key of the leaderboard for a tier and mode.
// Survival runs get their own boards.
func BoardKey(t sim.Tier, mode sim.Mode) string {
	key := boardKeyPrefix + string(t)
	if mode == sim.ModeSurvival {
		key += "_survival"
	}
	return key
}

// Book reads and writes player records through a KV. It implements
// sim.Recorder and records each run ID at most once.
type Book struct {
	kv KV

	mu       sync.Mutex
	recorded map[string]struct{}
}

// NewBook creates a Book over kv.
func NewBook(kv KV) *Book {
	return &Book{
		kv:       kv,
		recorded: make(map[string]struct{}),
	}
}

// RecordRun inserts the result into its tier's top 10 and raises the
// player's best score when beaten. A run is added to a board at most once;
// recording it again only retries the best score, which is safe to repeat.
func (b *Book) RecordRun(res sim.RunResult) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	name := res.Player
	if name == "" {
		name = sim.DefaultPlayerName
	}

	if _, dup := b.recorded[res.RunID]; !dup || res.RunID == "" {
		if err := b.insertRun(res, name); err != nil {
			return err
		}
		if res.RunID != "" {
			b.recorded[res.RunID] = struct{}{}
		}
	}

	best := map[string]int{}
	if _, err := b.readJSON(KeyBest, &best); err != nil || best == nil {
		best = map[string]int{}
	}
	if prev, ok := best[name]; !ok || res.Score > prev {
		best[name] = res.Score
		if err := b.writeJSON(KeyBest, best); err != nil {
			return err
		}
	}
	return nil
}

// insertRun writes the run onto its board when the score makes the cut.
func (b *Book) insertRun(res sim.RunResult, name string) error {
	key := BoardKey(res.Tier, res.Mode)
	var board []Entry
	if _, err := b.readJSON(key, &board); err != nil {
		// An unreadable board cannot be repaired; start it over.
		board = nil
	}
	if !Qualifies(board, res.Score, BoardSize) {
		return nil
	}
	return b.writeJSON(key, Insert(board, Entry{Name: name, Score: res.Score}, BoardSize))
}

// Leaderboard returns the top entries of a tier, best first.
func (b *Book) Leaderboard(t sim.Tier, mode sim.Mode) ([]Entry, error) {
	var board []Entry
	if _, err := b.readJSON(BoardKey(t, mode), &board); err != nil {
		return nil, err
	}
	return board, nil
}

// BestScore returns the best score recorded for name.
func (b *Book) BestScore(name string) (int, bool, error) {
	best, err := b.BestScores()
	if err != nil {
		return 0, false, err
	}
	score, ok := best[name]
	return score, ok, nil
}

// BestScores returns every player's best score.
func (b *Book) BestScores() (map[string]int, error) {
	best := map[string]int{}
	if _, err := b.readJSON(KeyBest, &best); err != nil {
		return nil, err
	}
	if best == nil {
		best = map[string]int{}
	}
	return best, nil
}

// PlayerName returns the stored player name, or the default name.
func (b *Book) PlayerName() (string, error) {
	v, found, err := b.kv.Get(KeyPlayer)
	if err != nil {
		return sim.DefaultPlayerName, fmt.Errorf("records: read %s: %w", KeyPlayer, err)
	}
	if !found || len(v) == 0 {
		return sim.DefaultPlayerName, nil
	}
	return string(v), nil
}

// SetPlayerName stores name after trimming it to MaxNameLength runes.
func (b *Book) SetPlayerName(name string) (string, error) {
	name = CleanName(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if err := b.kv.Put(KeyPlayer, []byte(name)); err != nil {
		return "", fmt.Errorf("records: write %s: %w", KeyPlayer, err)
	}
	return name, nil
}

// CleanName trims whitespace and control characters and caps the length.
func CleanName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = strings.TrimSpace(name)
	for utf8.RuneCountInString(name) > MaxNameLength {
		_, size := utf8.DecodeLastRuneInString(name)
		name = name[:len(name)-size]
	}
	return strings.TrimSpace(name)
}

// Settings returns the stored settings, normalized. Missing or unreadable
// settings yield the defaults; an unreadable record is also reported.
func (b *Book) Settings() (config.Settings, error) {
	s := config.DefaultSettings()
	found, err := b.readJSON(KeySettings, &s)
	if err != nil {
		return config.DefaultSettings(), err
	}
	if !found {
		return s, nil
	}
	return s.Normalize(), nil
}

// SaveSettings stores s after normalizing it.
func (b *Book) SaveSettings(s config.Settings) error {
	return b.writeJSON(KeySettings, s.Normalize())
}

func (b *Book) readJSON(key string, dst any) (bool, error) {
	v, found, err := b.kv.Get(key)
	if err != nil {
		return false, fmt.Errorf("records: read %s: %w", key, err)
	}
	if !found {
		return false, nil
	}
	if err := json.Unmarshal(v, dst); err != nil {
		return true, fmt.Errorf("records: decode %s: %w", key, err)
	}
	return true, nil
}

func (b *Book) writeJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("records: encode %s: %w", key, err)
	}
	if err := b.kv.Put(key, data); err != nil {
		return fmt.Errorf("records: write %s: %w", key, err)
	}
	return nil
}

// Recorders fans a finished run out to several recorders. Every recorder is
// called; their errors are joined.
type Recorders []sim.Recorder

// RecordRun implements sim.Recorder.
func (rs Recorders) RecordRun(res sim.RunResult) error {
	var errs []error
	for _, r := range rs {
		if r == nil {
			continue
		}
		if err := r.RecordRun(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ sim.Recorder = (*Book)(nil)
	_ sim.Recorder = Recorders(nil)
)
