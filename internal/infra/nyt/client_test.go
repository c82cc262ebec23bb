package nyt

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wenliu/beebuddy/internal/domain/puzzle"
)

func TestFetchPuzzlePage_SendsBrowserUserAgent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/puzzles/spelling-bee", r.URL.Path)
		require.Contains(t, r.Header.Get("User-Agent"), "Mozilla/5.0")
		w.Write([]byte("<html>page</html>"))
	}))
	defer server.Close()

	doc, err := NewClient(server.URL, "").FetchPuzzlePage(context.Background())
	require.NoError(t, err)
	require.Equal(t, "<html>page</html>", doc)
}

func TestFetchPuzzlePage_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchPuzzlePage(context.Background())
	var statusErr *puzzle.UpstreamStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	require.Equal(t, "puzzle page", statusErr.Resource)
}

func TestFetchActivePuzzles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/svc/spelling-bee/v1/puzzles.json", r.URL.Path)
		w.Write([]byte(`{
			"today_id": 2, "yesterday_id": 1,
			"this_week": [1, 2], "last_week": [],
			"puzzles": [
				{"id": 2, "center_letter": "a", "outer_letters": "bcdefg",
				 "pangrams": ["abcdefg"], "answers": ["bag"],
				 "print_date": "2024-07-01", "editor": "Sam"}
			]
		}`))
	}))
	defer server.Close()

	feed, err := NewClient(server.URL, "").FetchActivePuzzles(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, feed.TodayID)
	require.Equal(t, []int{1, 2}, feed.ThisWeekIDs)
	require.Len(t, feed.Puzzles, 1)
	require.Equal(t, "bcdefg", feed.Puzzles[0].OuterLetters)
	require.Equal(t, "Sam", feed.Puzzles[0].Editor)
}

func TestFetchActivePuzzles_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login wall</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "").FetchActivePuzzles(context.Background())
	require.True(t, errors.Is(err, puzzle.ErrMalformed))
}

func TestFetchProgress_ForwardsSessionCookie(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("NYT-S")
		require.NoError(t, err)
		require.Equal(t, "session-token", cookie.Value)
		w.Write([]byte(`{"states":[{"id": 99, "puzzle_id": "42", "version": "v1",
			"game_data": {"answers": ["able", "bale"]}}]}`))
	}))
	defer server.Close()

	feed, err := NewClient(server.URL, "").FetchProgress(context.Background(), "session-token")
	require.NoError(t, err)
	require.Len(t, feed.States, 1)
	require.Equal(t, int64(99), feed.States[0].ResponseID)
	require.Equal(t, 42, feed.States[0].PuzzleID)
	require.Equal(t, []string{"able", "bale"}, feed.States[0].FoundWords)
}

func TestFetchStats(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/svc/spelling-bee/v1/stats/20035.json", r.URL.Path)
		w.Write([]byte(`{"id": 20035, "answers": {"able": 120}, "sample_size": 200, "total_players": 5000}`))
	}))
	defer server.Close()

	stats, err := NewClient(server.URL, "").FetchStats(context.Background(), 20035)
	require.NoError(t, err)
	require.Equal(t, 20035, stats.ID)
	require.Equal(t, 120, stats.Answers["able"])
	require.Equal(t, 5000, stats.TotalPlayers)
}
