package records

import "sort"

// BoardSize is the number of entries kept per tier.
const BoardSize = 10

// Entry is one leaderboard line.
type Entry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Insert appends e to board, orders by score descending and keeps the first
// limit entries. Ties keep their insertion order, so an older entry stays
// ahead of a newer one with the same score. board is not modified.
func Insert(board []Entry, e Entry, limit int) []Entry {
	out := make([]Entry, 0, len(board)+1)
	out = append(out, board...)
	out = append(out, e)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Qualifies reports whether score would make it onto a full board.
func Qualifies(board []Entry, score, limit int) bool {
	if len(board) < limit {
		return true
	}
	return score > board[len(board)-1].Score
}
