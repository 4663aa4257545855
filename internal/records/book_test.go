package records

import (
	"errors"
	"testing"

	"github.com/vovakirdan/candle-dodge/internal/config"
	"github.com/vovakirdan/candle-dodge/internal/games/dodge/sim"
)

func result(id, player string, score int) sim.RunResult {
	return sim.RunResult{RunID: id, Player: player, Tier: sim.TierEasy, Mode: sim.ModeBase, Score: score}
}

func TestBookRecordRun(t *testing.T) {
	b := NewBook(NewMemoryKV())

	for i, score := range []int{3, 9, 1} {
		if err := b.RecordRun(result(string(rune('a'+i)), "ann", score)); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}
	b.RecordRun(result("d", "bob", 5))

	board, err := b.Leaderboard(sim.TierEasy, sim.ModeBase)
	if err != nil {
		t.Fatalf("Leaderboard() failed: %v", err)
	}
	want := []Entry{{"ann", 9}, {"bob", 5}, {"ann", 3}, {"ann", 1}}
	if len(board) != len(want) {
		t.Fatalf("Leaderboard() = %v, expected %v", board, want)
	}
	for i := range want {
		if board[i] != want[i] {
			t.Errorf("Leaderboard() = %v, expected %v", board, want)
			break
		}
	}

	if best, ok, _ := b.BestScore("ann"); !ok || best != 9 {
		t.Errorf("BestScore(ann) = %d, %v; expected 9", best, ok)
	}
	if _, ok, _ := b.BestScore("nobody"); ok {
		t.Error("BestScore() for unknown player should not be found")
	}
}

func TestBookRecordRunIsIdempotent(t *testing.T) {
	b := NewBook(NewMemoryKV())
	res := result("run-1", "ann", 4)

	b.RecordRun(res)
	b.RecordRun(res)

	board, _ := b.Leaderboard(sim.TierEasy, sim.ModeBase)
	if len(board) != 1 {
		t.Errorf("same run recorded %d times", len(board))
	}
}

func TestBookBoardsAreSeparate(t *testing.T) {
	b := NewBook(NewMemoryKV())
	b.RecordRun(sim.RunResult{RunID: "1", Player: "a", Tier: sim.TierHard, Score: 2})
	b.RecordRun(sim.RunResult{RunID: "2", Player: "a", Tier: sim.TierHard, Mode: sim.ModeSurvival, Score: 7})

	if board, _ := b.Leaderboard(sim.TierEasy, sim.ModeBase); len(board) != 0 {
		t.Errorf("easy board = %v, expected empty", board)
	}
	if board, _ := b.Leaderboard(sim.TierHard, sim.ModeBase); len(board) != 1 || board[0].Score != 2 {
		t.Errorf("hard board = %v", board)
	}
	if board, _ := b.Leaderboard(sim.TierHard, sim.ModeSurvival); len(board) != 1 || board[0].Score != 7 {
		t.Errorf("hard survival board = %v", board)
	}
}

func TestBookBestOnlyRises(t *testing.T) {
	b := NewBook(NewMemoryKV())
	b.RecordRun(result("1", "ann", 8))
	b.RecordRun(result("2", "ann", 2))

	if best, _, _ := b.BestScore("ann"); best != 8 {
		t.Errorf("BestScore() = %d, expected 8", best)
	}
}

func TestBookDefaultsPlayerName(t *testing.T) {
	b := NewBook(NewMemoryKV())
	b.RecordRun(result("1", "", 1))

	board, _ := b.Leaderboard(sim.TierEasy, sim.ModeBase)
	if board[0].Name != sim.DefaultPlayerName {
		t.Errorf("name = %q, expected default", board[0].Name)
	}
}

func TestBookKeyLayout(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBook(kv)
	b.RecordRun(result("1", "ann", 3))

	v, found, _ := kv.Get("lane_top10_easy")
	if !found || string(v) != `[{"name":"ann","score":3}]` {
		t.Errorf("lane_top10_easy = %s", v)
	}
	if v, found, _ := kv.Get("lane_best"); !found || string(v) != `{"ann":3}` {
		t.Errorf("lane_best = %s", v)
	}
}

func TestBookCorruptBoard(t *testing.T) {
	kv := NewMemoryKV()
	kv.Put(BoardKey(sim.TierEasy, sim.ModeBase), []byte("not json"))
	b := NewBook(kv)

	if _, err := b.Leaderboard(sim.TierEasy, sim.ModeBase); err == nil {
		t.Error("Leaderboard() should report a corrupt board")
	}
	if err := b.RecordRun(result("1", "ann", 3)); err != nil {
		t.Fatalf("RecordRun() over a corrupt board failed: %v", err)
	}
	if board, err := b.Leaderboard(sim.TierEasy, sim.ModeBase); err != nil || len(board) != 1 {
		t.Errorf("board not rebuilt: %v, %v", board, err)
	}
}

type failingKV struct{ err error }

func (f failingKV) Get(string) ([]byte, bool, error) { return nil, false, nil }
func (f failingKV) Put(string, []byte) error         { return f.err }

func TestBookWriteError(t *testing.T) {
	boom := errors.New("boom")
	b := NewBook(failingKV{err: boom})

	if err := b.RecordRun(result("1", "ann", 1)); !errors.Is(err, boom) {
		t.Fatalf("RecordRun() = %v, expected wrapped boom", err)
	}
	// A failed write must not mark the run as recorded.
	if err := b.RecordRun(result("1", "ann", 1)); !errors.Is(err, boom) {
		t.Errorf("retry = %v, expected another attempt", err)
	}
}

// flakyKV fails the next fails writes to key.
type flakyKV struct {
	*MemoryKV
	key   string
	fails int
	err   error
}

func (f *flakyKV) Put(key string, value []byte) error {
	if key == f.key && f.fails > 0 {
		f.fails--
		return f.err
	}
	return f.MemoryKV.Put(key, value)
}

func TestBookRetryAfterBestWriteError(t *testing.T) {
	boom := errors.New("boom")
	kv := &flakyKV{MemoryKV: NewMemoryKV(), key: KeyBest, fails: 1, err: boom}
	b := NewBook(kv)
	res := result("run-1", "ann", 7)

	if err := b.RecordRun(res); !errors.Is(err, boom) {
		t.Fatalf("RecordRun() = %v, expected wrapped boom", err)
	}
	if err := b.RecordRun(res); err != nil {
		t.Fatalf("retry failed: %v", err)
	}

	board, _ := b.Leaderboard(sim.TierEasy, sim.ModeBase)
	if len(board) != 1 {
		t.Errorf("board has %d entries after a retry, expected 1", len(board))
	}
	if best, ok, _ := b.BestScore("ann"); !ok || best != 7 {
		t.Errorf("BestScore(ann) = %d, %v; expected 7 after the retry", best, ok)
	}
}

func TestBookSkipsScoreOffFullBoard(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBook(kv)
	for i := range BoardSize {
		b.RecordRun(result(string(rune('a'+i)), "ann", 10+i))
	}
	key := BoardKey(sim.TierEasy, sim.ModeBase)
	before, _, _ := kv.Get(key)

	if err := b.RecordRun(result("low", "bob", 10)); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	after, _, _ := kv.Get(key)
	if string(before) != string(after) {
		t.Errorf("board changed for a score that does not qualify: %s", after)
	}
	if best, ok, _ := b.BestScore("bob"); !ok || best != 10 {
		t.Errorf("BestScore(bob) = %d, %v; a low run still sets the best", best, ok)
	}
}

func TestBookPlayerName(t *testing.T) {
	b := NewBook(NewMemoryKV())

	if name, _ := b.PlayerName(); name != "Player" {
		t.Errorf("PlayerName() = %q, expected Player", name)
	}
	if _, err := b.SetPlayerName("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("SetPlayerName(blank) = %v, expected ErrEmptyName", err)
	}

	stored, err := b.SetPlayerName("  Ada Lovelace the First  ")
	if err != nil {
		t.Fatalf("SetPlayerName() failed: %v", err)
	}
	if stored != "Ada Lovelace the" {
		t.Errorf("stored %q, expected the name capped to %d runes", stored, MaxNameLength)
	}
	if name, _ := b.PlayerName(); name != stored {
		t.Errorf("PlayerName() = %q, expected %q", name, stored)
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"ann", "ann"},
		{" ann\t", "ann"},
		{"a\x1b[31mb", "a[31mb"},
		{"ёжикёжикёжикёжикёжик", "ёжикёжикёжикёжик"},
	}
	for _, tc := range tests {
		if got := CleanName(tc.in); got != tc.want {
			t.Errorf("CleanName(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestBookSettings(t *testing.T) {
	kv := NewMemoryKV()
	b := NewBook(kv)

	s, err := b.Settings()
	if err != nil || s != config.DefaultSettings() {
		t.Fatalf("Settings() = %+v, %v; expected defaults", s, err)
	}

	s.SelectDifficulty(sim.TierHard)
	s.Volume = 7
	if err := b.SaveSettings(s); err != nil {
		t.Fatalf("SaveSettings() failed: %v", err)
	}

	got, err := b.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if got.Tier() != sim.TierHard || got.MaxSpeed != 18 || got.Volume != 1 {
		t.Errorf("Settings() = %+v", got)
	}
}

func TestBookSettingsLegacyRecord(t *testing.T) {
	kv := NewMemoryKV()
	kv.Put(KeySettings, []byte(`{"volume":0.2,"difficulty":"medium","maxSpeed":15}`))
	b := NewBook(kv)

	s, err := b.Settings()
	if err != nil {
		t.Fatalf("Settings() failed: %v", err)
	}
	if s.Volume != 0.2 || s.Tier() != sim.TierMedium || s.MaxSpeed != 15 || s.Survival {
		t.Errorf("Settings() = %+v", s)
	}
}

func TestRecordersJoinErrors(t *testing.T) {
	calls := 0
	ok := sim.RecorderFunc(func(sim.RunResult) error { calls++; return nil })
	boom := errors.New("boom")
	bad := sim.RecorderFunc(func(sim.RunResult) error { calls++; return boom })

	err := Recorders{bad, nil, ok}.RecordRun(result("1", "a", 1))
	if !errors.Is(err, boom) {
		t.Errorf("RecordRun() = %v, expected boom", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, expected every recorder to run", calls)
	}
}
