package domain

const (
	// HighScoreSlots is the size of the high-score table.
	HighScoreSlots = 10
	// HighScoreNameLen is the longest name kept in the table.
	HighScoreNameLen = 15
)

// HighScore is one table entry.
type HighScore struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// HighScores is a descending top-N table. Empty slots hold the zero entry.
type HighScores struct {
	Entries [HighScoreSlots]HighScore `json:"entries"`
}

// Qualifies reports whether score would enter the table. Ties with the
// lowest entry do not qualify.
func (h *HighScores) Qualifies(score int) bool {
	return score > h.Entries[HighScoreSlots-1].Score
}

// Insert places the entry at its ranked position and shifts lower entries
// down. It returns the 0-based slot, or -1 if the score did not qualify.
func (h *HighScores) Insert(name string, score int) int {
	if !h.Qualifies(score) {
		return -1
	}
	pos := HighScoreSlots - 1
	for i := 0; i < HighScoreSlots; i++ {
		if score > h.Entries[i].Score {
			pos = i
			break
		}
	}
	copy(h.Entries[pos+1:], h.Entries[pos:HighScoreSlots-1])
	h.Entries[pos] = HighScore{Name: truncateName(name), Score: score}
	return pos
}

func truncateName(name string) string {
	r := []rune(name)
	if len(r) > HighScoreNameLen {
		r = r[:HighScoreNameLen]
	}
	return string(r)
}
