package puzzle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/wenliu/beebuddy/pkg/errors"
)

// Service exposes puzzle, progress and stats lookups against the provider.
type Service interface {
	Today(ctx context.Context) (Data, error)
	ByID(ctx context.Context, puzzleID int) (Data, error)
	Active(ctx context.Context) (ActiveSummary, error)
	Stats(ctx context.Context, puzzleID int) (Stats, error)
	Progress(ctx context.Context, token string, puzzleID int) (Progress, error)
}

// UpstreamClient is implemented by the provider HTTP client. Every call is a
// single outbound request; failures carry the upstream status via
// *UpstreamStatusError and shape mismatches wrap ErrMalformed.
type UpstreamClient interface {
	FetchPuzzlePage(ctx context.Context) (string, error)
	FetchActivePuzzles(ctx context.Context) (ActiveFeed, error)
	FetchProgress(ctx context.Context, token string) (StateFeed, error)
	FetchStats(ctx context.Context, puzzleID int) (Stats, error)
}

type service struct {
	client UpstreamClient
	logger *slog.Logger
}

// NewService wires up the puzzle domain.
func NewService(client UpstreamClient, logger *slog.Logger) Service {
	return &service{
		client: client,
		logger: logger.With("component", "puzzle.service"),
	}
}

func (s *service) Today(ctx context.Context) (Data, error) {
	doc, err := s.client.FetchPuzzlePage(ctx)
	if err != nil {
		return Data{}, classifyUpstream(err, "puzzle page")
	}
	data, ok := parseGameData(doc)
	if !ok {
		return Data{}, apperrors.Wrap(apperrors.CodeParseFailure, "no game data found in puzzle page", nil)
	}
	s.logger.Info("puzzle page parsed", "printDate", data.PrintDate, "answers", len(data.Answers))
	return data, nil
}

func (s *service) ByID(ctx context.Context, puzzleID int) (Data, error) {
	feed, err := s.client.FetchActivePuzzles(ctx)
	if err != nil {
		return Data{}, classifyUpstream(err, "active puzzles feed")
	}
	for _, ap := range feed.Puzzles {
		if ap.ID == puzzleID {
			return FromActive(ap), nil
		}
	}
	return Data{}, apperrors.Wrap(apperrors.CodeUpstreamNotFound, fmt.Sprintf("puzzle %d is not in the active window", puzzleID), nil)
}

func (s *service) Active(ctx context.Context) (ActiveSummary, error) {
	feed, err := s.client.FetchActivePuzzles(ctx)
	if err != nil {
		return ActiveSummary{}, classifyUpstream(err, "active puzzles feed")
	}

	dates := make(map[int]string, len(feed.Puzzles))
	for _, ap := range feed.Puzzles {
		dates[ap.ID] = ap.PrintDate
	}
	resolve := func(ids []int) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if date, ok := dates[id]; ok {
				out = append(out, date)
			}
		}
		return out
	}

	return ActiveSummary{
		Today:     dates[feed.TodayID],
		Yesterday: dates[feed.YesterdayID],
		ThisWeek:  resolve(feed.ThisWeekIDs),
		LastWeek:  resolve(feed.LastWeekIDs),
		Puzzles:   feed.Puzzles,
	}, nil
}

func (s *service) Stats(ctx context.Context, puzzleID int) (Stats, error) {
	stats, err := s.client.FetchStats(ctx, puzzleID)
	if err != nil {
		var statusErr *UpstreamStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return Stats{}, apperrors.Wrap(apperrors.CodeUpstreamNotFound, fmt.Sprintf("no stats published for puzzle %d", puzzleID), err)
		}
		return Stats{}, classifyUpstream(err, "stats feed")
	}
	return stats, nil
}

// Progress fetches the player-state feed with the caller's session token. An
// upstream 404 or an empty feed means the player has not started the puzzle,
// which is a successful empty result rather than an error.
func (s *service) Progress(ctx context.Context, token string, puzzleID int) (Progress, error) {
	feed, err := s.client.FetchProgress(ctx, token)
	if err != nil {
		var statusErr *UpstreamStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusNotFound {
			return emptyProgress(), nil
		}
		return Progress{}, classifyUpstream(err, "player state feed")
	}

	states := feed.States
	if puzzleID > 0 {
		filtered := make([]PlayerState, 0, len(states))
		for _, st := range states {
			if st.PuzzleID == puzzleID {
				filtered = append(filtered, st)
			}
		}
		states = filtered
	}
	if len(states) == 0 {
		return emptyProgress(), nil
	}

	// The feed is newest-first; the head entry is the one the UI wants.
	latest := states[0]
	found := latest.FoundWords
	if found == nil {
		found = []string{}
	}
	return Progress{
		ResponseID:    latest.ResponseID,
		PuzzleVersion: latest.PuzzleVersion,
		FoundWords:    found,
	}, nil
}

func emptyProgress() Progress {
	return Progress{FoundWords: []string{}}
}

func classifyUpstream(err error, resource string) error {
	if errors.Is(err, ErrMalformed) {
		return apperrors.Wrap(apperrors.CodeParseFailure, fmt.Sprintf("%s could not be decoded", resource), err)
	}
	var statusErr *UpstreamStatusError
	if errors.As(err, &statusErr) {
		switch statusErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return apperrors.Wrap(apperrors.CodeUpstreamAuth, "upstream rejected the supplied credential", err)
		case http.StatusNotFound:
			return apperrors.Wrap(apperrors.CodeUpstreamNotFound, fmt.Sprintf("%s not found upstream", resource), err)
		default:
			return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, fmt.Sprintf("%s returned status %d", resource, statusErr.StatusCode), err)
		}
	}
	return apperrors.Wrap(apperrors.CodeUpstreamUnavailable, fmt.Sprintf("%s is unreachable", resource), err)
}
