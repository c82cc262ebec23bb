package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wenliu/beebuddy/internal/domain/hints"
	"github.com/wenliu/beebuddy/internal/domain/puzzle"
	"github.com/wenliu/beebuddy/internal/infra/config"
	apperrors "github.com/wenliu/beebuddy/pkg/errors"
)

type stubPuzzleService struct {
	todayFn    func(ctx context.Context) (puzzle.Data, error)
	byIDFn     func(ctx context.Context, puzzleID int) (puzzle.Data, error)
	activeFn   func(ctx context.Context) (puzzle.ActiveSummary, error)
	statsFn    func(ctx context.Context, puzzleID int) (puzzle.Stats, error)
	progressFn func(ctx context.Context, token string, puzzleID int) (puzzle.Progress, error)
}

func (s *stubPuzzleService) Today(ctx context.Context) (puzzle.Data, error) {
	return s.todayFn(ctx)
}

func (s *stubPuzzleService) ByID(ctx context.Context, puzzleID int) (puzzle.Data, error) {
	return s.byIDFn(ctx, puzzleID)
}

func (s *stubPuzzleService) Active(ctx context.Context) (puzzle.ActiveSummary, error) {
	return s.activeFn(ctx)
}

func (s *stubPuzzleService) Stats(ctx context.Context, puzzleID int) (puzzle.Stats, error) {
	return s.statsFn(ctx, puzzleID)
}

func (s *stubPuzzleService) Progress(ctx context.Context, token string, puzzleID int) (puzzle.Progress, error) {
	return s.progressFn(ctx, token, puzzleID)
}

type stubHintsService struct {
	hintsFn func(ctx context.Context, apiKey string, puzzleID int) (hints.CachedHints, error)
}

func (s *stubHintsService) Hints(ctx context.Context, apiKey string, puzzleID int) (hints.CachedHints, error) {
	return s.hintsFn(ctx, apiKey, puzzleID)
}

func newRouterUnderTest(t *testing.T, puzzleSvc puzzle.Service, hintsSvc hints.Service) http.Handler {
	t.Helper()
	cfg := &config.Config{}
	cfg.HTTP.Address = ":0"
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewRouter(cfg, NewHandler(puzzleSvc, hintsSvc, logger))
	return server.Handler
}

func performRequest(handler http.Handler, method, target string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for name, value := range headers {
		req.Header.Set(name, value)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeEnvelope(t *testing.T, body []byte) Envelope {
	t.Helper()
	var envelope Envelope
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope
}

func TestRouter_Health(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	require.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.True(t, envelope.Success)
	require.Equal(t, map[string]any{"status": "ok"}, envelope.Data)
}

func TestRouter_PuzzleSuccess(t *testing.T) {
	svc := &stubPuzzleService{
		todayFn: func(ctx context.Context) (puzzle.Data, error) {
			return puzzle.Data{PrintDate: "2024-07-01", CenterLetter: "o", ID: 42}, nil
		},
	}
	handler := newRouterUnderTest(t, svc, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/puzzle", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.True(t, envelope.Success)
	data := envelope.Data.(map[string]any)
	require.Equal(t, "2024-07-01", data["printDate"])
	require.Equal(t, float64(42), data["id"])
}

func TestRouter_ProgressMissingToken(t *testing.T) {
	svc := &stubPuzzleService{
		progressFn: func(ctx context.Context, token string, puzzleID int) (puzzle.Progress, error) {
			t.Fatal("no upstream call may happen without the credential")
			return puzzle.Progress{}, nil
		},
	}
	handler := newRouterUnderTest(t, svc, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/progress", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, envelope.Success)
	require.Equal(t, "Missing X-NYT-Token header", envelope.Error)
}

func TestRouter_HintsMissingKey(t *testing.T) {
	hintsSvc := &stubHintsService{
		hintsFn: func(ctx context.Context, apiKey string, puzzleID int) (hints.CachedHints, error) {
			t.Fatal("no generation may happen without the credential")
			return hints.CachedHints{}, nil
		},
	}
	handler := newRouterUnderTest(t, &stubPuzzleService{}, hintsSvc)

	recorder := performRequest(handler, http.MethodGet, "/hints", nil)
	require.Equal(t, http.StatusUnauthorized, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, envelope.Success)
	require.Equal(t, "Missing X-Anthropic-Key header", envelope.Error)
}

func TestRouter_HintsPassesKeyAndPuzzleID(t *testing.T) {
	hintsSvc := &stubHintsService{
		hintsFn: func(ctx context.Context, apiKey string, puzzleID int) (hints.CachedHints, error) {
			require.Equal(t, "sk-caller", apiKey)
			require.Equal(t, 7, puzzleID)
			return hints.CachedHints{GeneratedAt: time.Now(), Hints: map[string][]hints.Entry{}}, nil
		},
	}
	handler := newRouterUnderTest(t, &stubPuzzleService{}, hintsSvc)

	recorder := performRequest(handler, http.MethodGet, "/hints?puzzleId=7", map[string]string{"X-Anthropic-Key": "sk-caller"})
	require.Equal(t, http.StatusOK, recorder.Code)
	require.True(t, decodeEnvelope(t, recorder.Body.Bytes()).Success)
}

func TestRouter_StatsUpstreamNotFound(t *testing.T) {
	svc := &stubPuzzleService{
		statsFn: func(ctx context.Context, puzzleID int) (puzzle.Stats, error) {
			require.Equal(t, 20035, puzzleID)
			return puzzle.Stats{}, apperrors.Wrap(apperrors.CodeUpstreamNotFound, "no stats published for puzzle 20035", nil)
		},
	}
	handler := newRouterUnderTest(t, svc, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/stats/20035", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, envelope.Success)
	require.Contains(t, envelope.Error, "20035")
}

func TestRouter_StatsNonIntegerID(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/stats/latest", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)
	require.False(t, decodeEnvelope(t, recorder.Body.Bytes()).Success)
}

func TestRouter_UpstreamUnavailableIsBadGateway(t *testing.T) {
	svc := &stubPuzzleService{
		todayFn: func(ctx context.Context) (puzzle.Data, error) {
			return puzzle.Data{}, apperrors.Wrap(apperrors.CodeUpstreamUnavailable, "puzzle page returned status 503", nil)
		},
	}
	handler := newRouterUnderTest(t, svc, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/puzzle", nil)
	require.Equal(t, http.StatusBadGateway, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, envelope.Success)
	require.Contains(t, envelope.Error, "503")
}

func TestRouter_UnknownRoute(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/nope", nil)
	require.Equal(t, http.StatusNotFound, recorder.Code)

	envelope := decodeEnvelope(t, recorder.Body.Bytes())
	require.False(t, envelope.Success)
	require.NotEmpty(t, envelope.Error)
}

func TestRouter_CORSPreflight(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodOptions, "/hints", map[string]string{"Origin": "https://example.com"})
	require.Equal(t, http.StatusNoContent, recorder.Code)
	require.Empty(t, recorder.Body.Bytes())
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, recorder.Header().Get("Access-Control-Allow-Headers"), "X-NYT-Token")
	require.Equal(t, "86400", recorder.Header().Get("Access-Control-Max-Age"))
}

func TestRouter_CORSOnRegularResponses(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/health", nil)
	require.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_RequestIDHeader(t *testing.T) {
	handler := newRouterUnderTest(t, &stubPuzzleService{}, &stubHintsService{})

	recorder := performRequest(handler, http.MethodGet, "/health", nil)
	require.NotEmpty(t, recorder.Header().Get("X-Request-ID"))

	echoed := performRequest(handler, http.MethodGet, "/health", map[string]string{"X-Request-ID": "fixed-id"})
	require.Equal(t, "fixed-id", echoed.Header().Get("X-Request-ID"))
}
