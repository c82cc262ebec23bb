package nyt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wenliu/beebuddy/internal/domain/puzzle"
)

const (
	defaultBaseURL = "https://www.nytimes.com"

	// The puzzle page rejects obviously non-browser clients, so every call
	// identifies itself as a current desktop Chrome.
	defaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

	puzzlePagePath = "/puzzles/spelling-bee"
	activeFeedPath = "/svc/spelling-bee/v1/puzzles.json"
	statePath      = "/svc/games/state/spelling_bee/latests"
	statsPathFmt   = "/svc/spelling-bee/v1/stats/%d.json"
)

// Client fetches puzzle resources from the provider. One method per resource,
// one request per call, no retries.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

// NewClient builds a provider client. Base URL and user agent are resolved
// once from config at startup.
func NewClient(baseURL, userAgent string) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchPuzzlePage returns the raw HTML of today's puzzle page.
func (c *Client) FetchPuzzlePage(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.baseURL+puzzlePagePath, "", "puzzle page")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchActivePuzzles returns the decoded active-puzzles feed.
func (c *Client) FetchActivePuzzles(ctx context.Context) (puzzle.ActiveFeed, error) {
	body, err := c.get(ctx, c.baseURL+activeFeedPath, "", "active puzzles feed")
	if err != nil {
		return puzzle.ActiveFeed{}, err
	}

	var wire activeFeedWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return puzzle.ActiveFeed{}, fmt.Errorf("%w: decode active puzzles feed: %v", puzzle.ErrMalformed, err)
	}
	return wire.toDomain(), nil
}

// FetchProgress returns the player-state feed, authenticating with the
// caller's session token forwarded as the provider cookie.
func (c *Client) FetchProgress(ctx context.Context, token string) (puzzle.StateFeed, error) {
	body, err := c.get(ctx, c.baseURL+statePath, token, "player state feed")
	if err != nil {
		return puzzle.StateFeed{}, err
	}

	var wire stateFeedWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return puzzle.StateFeed{}, fmt.Errorf("%w: decode player state feed: %v", puzzle.ErrMalformed, err)
	}
	return wire.toDomain(), nil
}

// FetchStats returns answer statistics for one puzzle.
func (c *Client) FetchStats(ctx context.Context, puzzleID int) (puzzle.Stats, error) {
	body, err := c.get(ctx, c.baseURL+fmt.Sprintf(statsPathFmt, puzzleID), "", "stats feed")
	if err != nil {
		return puzzle.Stats{}, err
	}

	var wire statsWire
	if err := json.Unmarshal(body, &wire); err != nil {
		return puzzle.Stats{}, fmt.Errorf("%w: decode stats feed: %v", puzzle.ErrMalformed, err)
	}
	return wire.toDomain(), nil
}

func (c *Client) get(ctx context.Context, endpoint, token, resource string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", resource, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "NYT-S", Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", resource, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &puzzle.UpstreamStatusError{StatusCode: resp.StatusCode, Resource: resource}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", resource, err)
	}
	return body, nil
}

type activeFeedWire struct {
	TodayID     int                `json:"today_id"`
	YesterdayID int                `json:"yesterday_id"`
	ThisWeek    []int              `json:"this_week"`
	LastWeek    []int              `json:"last_week"`
	Puzzles     []activePuzzleWire `json:"puzzles"`
}

type activePuzzleWire struct {
	ID           int      `json:"id"`
	CenterLetter string   `json:"center_letter"`
	OuterLetters string   `json:"outer_letters"`
	Pangrams     []string `json:"pangrams"`
	Answers      []string `json:"answers"`
	PrintDate    string   `json:"print_date"`
	Editor       string   `json:"editor"`
}

func (w activeFeedWire) toDomain() puzzle.ActiveFeed {
	puzzles := make([]puzzle.ActivePuzzle, 0, len(w.Puzzles))
	for _, p := range w.Puzzles {
		puzzles = append(puzzles, puzzle.ActivePuzzle{
			ID:           p.ID,
			CenterLetter: p.CenterLetter,
			OuterLetters: p.OuterLetters,
			Pangrams:     p.Pangrams,
			Answers:      p.Answers,
			PrintDate:    p.PrintDate,
			Editor:       p.Editor,
		})
	}
	return puzzle.ActiveFeed{
		TodayID:     w.TodayID,
		YesterdayID: w.YesterdayID,
		ThisWeekIDs: w.ThisWeek,
		LastWeekIDs: w.LastWeek,
		Puzzles:     puzzles,
	}
}

type stateFeedWire struct {
	States []stateWire `json:"states"`
}

type stateWire struct {
	ID       int64  `json:"id"`
	PuzzleID string `json:"puzzle_id"`
	Version  string `json:"version"`
	GameData struct {
		Answers []string `json:"answers"`
	} `json:"game_data"`
}

func (w stateFeedWire) toDomain() puzzle.StateFeed {
	states := make([]puzzle.PlayerState, 0, len(w.States))
	for _, st := range w.States {
		id, _ := strconv.Atoi(st.PuzzleID)
		states = append(states, puzzle.PlayerState{
			ResponseID:    st.ID,
			PuzzleID:      id,
			PuzzleVersion: st.Version,
			FoundWords:    st.GameData.Answers,
		})
	}
	return puzzle.StateFeed{States: states}
}

type statsWire struct {
	ID           int            `json:"id"`
	Answers      map[string]int `json:"answers"`
	SampleSize   int            `json:"sample_size"`
	TotalPlayers int            `json:"total_players"`
}

func (w statsWire) toDomain() puzzle.Stats {
	return puzzle.Stats{
		ID:           w.ID,
		Answers:      w.Answers,
		SampleSize:   w.SampleSize,
		TotalPlayers: w.TotalPlayers,
	}
}

var _ puzzle.UpstreamClient = (*Client)(nil)
