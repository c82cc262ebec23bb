package puzzle

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformed marks upstream payloads that did not match the expected shape.
// Infra clients wrap decode failures with it so the service can distinguish a
// broken payload from an unreachable upstream.
var ErrMalformed = errors.New("malformed upstream payload")

// UpstreamStatusError is returned by the upstream client for any non-2xx
// response, carrying enough detail for the HTTP layer to pick a status.
type UpstreamStatusError struct {
	StatusCode int
	Resource   string
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Resource, e.StatusCode)
}

// Data is the full puzzle for one day, parsed from the embedded game data or
// converted from an active-puzzles record. Immutable once constructed.
type Data struct {
	DisplayWeekday string   `json:"displayWeekday"`
	DisplayDate    string   `json:"displayDate"`
	PrintDate      string   `json:"printDate"`
	CenterLetter   string   `json:"centerLetter"`
	OuterLetters   []string `json:"outerLetters"`
	ValidLetters   []string `json:"validLetters"`
	Pangrams       []string `json:"pangrams"`
	Answers        []string `json:"answers"`
	ID             int      `json:"id"`
}

// ActivePuzzle is the compact record served by the active-puzzles feed.
type ActivePuzzle struct {
	ID           int      `json:"id"`
	CenterLetter string   `json:"centerLetter"`
	OuterLetters string   `json:"outerLetters"`
	Pangrams     []string `json:"pangrams"`
	Answers      []string `json:"answers"`
	PrintDate    string   `json:"printDate"`
	Editor       string   `json:"editor"`
}

// ActiveFeed mirrors the active-puzzles feed after decoding.
type ActiveFeed struct {
	TodayID     int
	YesterdayID int
	ThisWeekIDs []int
	LastWeekIDs []int
	Puzzles     []ActivePuzzle
}

// ActiveSummary is the /active response shape; today and yesterday resolve the
// feed ids to print dates when the matching puzzle is present.
type ActiveSummary struct {
	Today     string         `json:"today"`
	Yesterday string         `json:"yesterday"`
	ThisWeek  []string       `json:"thisWeek"`
	LastWeek  []string       `json:"lastWeek"`
	Puzzles   []ActivePuzzle `json:"puzzles"`
}

// PlayerState is one entry of the player-state feed.
type PlayerState struct {
	ResponseID    int64
	PuzzleID      int
	PuzzleVersion string
	FoundWords    []string
}

// StateFeed holds every state the provider returned for the player.
type StateFeed struct {
	States []PlayerState
}

// Progress is the /progress response shape. The zero value doubles as the
// "no progress yet" result.
type Progress struct {
	ResponseID    int64    `json:"responseId"`
	PuzzleVersion string   `json:"puzzleVersion"`
	FoundWords    []string `json:"foundWords"`
}

// Stats is the per-puzzle answer statistics feed, proxied verbatim.
type Stats struct {
	ID           int            `json:"id"`
	Answers      map[string]int `json:"answers"`
	SampleSize   int            `json:"sampleSize"`
	TotalPlayers int            `json:"totalPlayers"`
}

// FromActive converts a feed record into full puzzle data. Display fields are
// derived from the print date; validLetters is the center letter plus the six
// outer letters, matching the embedded game data layout.
func FromActive(ap ActivePuzzle) Data {
	outer := splitLetters(ap.OuterLetters)
	valid := make([]string, 0, len(outer)+1)
	valid = append(valid, ap.CenterLetter)
	valid = append(valid, outer...)

	weekday, display := "", ""
	if ts, err := time.Parse("2006-01-02", ap.PrintDate); err == nil {
		weekday = ts.Weekday().String()
		display = ts.Format("January 2, 2006")
	}

	return Data{
		DisplayWeekday: weekday,
		DisplayDate:    display,
		PrintDate:      ap.PrintDate,
		CenterLetter:   ap.CenterLetter,
		OuterLetters:   outer,
		ValidLetters:   valid,
		Pangrams:       ap.Pangrams,
		Answers:        ap.Answers,
		ID:             ap.ID,
	}
}

func splitLetters(concatenated string) []string {
	letters := make([]string, 0, len(concatenated))
	for _, r := range strings.TrimSpace(concatenated) {
		letters = append(letters, string(r))
	}
	return letters
}
