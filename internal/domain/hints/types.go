package hints

import "time"

// Entry is one clue for one answer word.
type Entry struct {
	Word   string `json:"word"`
	Hint   string `json:"hint"`
	Length int    `json:"lengthInLetters"`
}

// CachedHints groups every answer's clue under its uppercase two-letter
// prefix. Each answer appears in exactly one bucket; buckets are sorted
// ascending by word length.
type CachedHints struct {
	GeneratedAt time.Time          `json:"generatedAt"`
	Hints       map[string][]Entry `json:"hints"`
}
