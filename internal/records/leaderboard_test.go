package records

import "testing"

func descendingBoard(scores ...int) []Entry {
	board := make([]Entry, len(scores))
	for i, s := range scores {
		board[i] = Entry{Name: "p", Score: s}
	}
	return board
}

func scoresOf(board []Entry) []int {
	out := make([]int, len(board))
	for i, e := range board {
		out[i] = e.Score
	}
	return out
}

func TestInsertIntoFullBoard(t *testing.T) {
	board := descendingBoard(50, 45, 40, 35, 30, 25, 20, 15, 10, 5)

	got := Insert(board, Entry{Name: "new", Score: 48}, BoardSize)

	want := []int{50, 48, 45, 40, 35, 30, 25, 20, 15, 10}
	if len(got) != BoardSize {
		t.Fatalf("len = %d, expected %d", len(got), BoardSize)
	}
	for i, s := range scoresOf(got) {
		if s != want[i] {
			t.Fatalf("scores = %v, expected %v", scoresOf(got), want)
		}
	}
	if got[1].Name != "new" {
		t.Errorf("entry at 1 = %+v, expected the new one", got[1])
	}
	if len(board) != BoardSize || board[1].Score != 45 {
		t.Error("Insert modified its input")
	}
}

func TestInsertCases(t *testing.T) {
	tests := []struct {
		name  string
		board []int
		score int
		limit int
		want  []int
	}{
		{"empty board", nil, 7, 10, []int{7}},
		{"too low for full board", []int{5, 4, 3}, 1, 3, []int{5, 4, 3}},
		{"new top", []int{5, 4, 3}, 9, 3, []int{9, 5, 4}},
		{"negative score kept when room", []int{2}, -1, 10, []int{2, -1}},
		{"zero limit", []int{2}, 5, 0, []int{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := scoresOf(Insert(descendingBoard(tc.board...), Entry{Score: tc.score}, tc.limit))
			if len(got) != len(tc.want) {
				t.Fatalf("Insert() = %v, expected %v", got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("Insert() = %v, expected %v", got, tc.want)
				}
			}
		})
	}
}

func TestInsertTiesKeepOlderFirst(t *testing.T) {
	board := []Entry{{Name: "old", Score: 10}, {Name: "low", Score: 3}}

	got := Insert(board, Entry{Name: "new", Score: 10}, BoardSize)

	if got[0].Name != "old" || got[1].Name != "new" {
		t.Errorf("tie order = %v, expected old before new", got)
	}
}

func TestQualifies(t *testing.T) {
	full := descendingBoard(50, 45, 40, 35, 30, 25, 20, 15, 10, 5)
	if Qualifies(full, 5, BoardSize) {
		t.Error("tying the last entry should not qualify")
	}
	if !Qualifies(full, 6, BoardSize) {
		t.Error("beating the last entry should qualify")
	}
	if !Qualifies(descendingBoard(1), 0, BoardSize) {
		t.Error("any score qualifies for a board with room")
	}
}
