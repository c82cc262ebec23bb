package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/wenliu/beebuddy/internal/domain/hints"
	"github.com/wenliu/beebuddy/internal/domain/puzzle"
	apperrors "github.com/wenliu/beebuddy/pkg/errors"
)

const (
	nytTokenHeader = "X-NYT-Token"
	llmKeyHeader   = "X-Anthropic-Key"
)

// Handler wires the HTTP transport to domain services.
type Handler struct {
	puzzleSvc puzzle.Service
	hintsSvc  hints.Service
	logger    *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(puzzleSvc puzzle.Service, hintsSvc hints.Service, logger *slog.Logger) *Handler {
	return &Handler{
		puzzleSvc: puzzleSvc,
		hintsSvc:  hintsSvc,
		logger:    logger.With("component", "http.handler"),
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	respondData(c, gin.H{"status": "ok"})
}

// Puzzle serves today's puzzle parsed from the provider page.
func (h *Handler) Puzzle(c *gin.Context) {
	data, err := h.puzzleSvc.Today(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	respondData(c, data)
}

// Active serves the active-puzzles summary.
func (h *Handler) Active(c *gin.Context) {
	summary, err := h.puzzleSvc.Active(c.Request.Context())
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	respondData(c, summary)
}

// Stats serves answer statistics for one puzzle.
func (h *Handler) Stats(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("puzzleId"))
	if err != nil {
		routeNotFound(c)
		return
	}
	stats, err := h.puzzleSvc.Stats(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	respondData(c, stats)
}

// Progress serves the player's found words. The provider session token is
// required before any upstream work happens.
func (h *Handler) Progress(c *gin.Context) {
	token := c.GetHeader(nytTokenHeader)
	if token == "" {
		abortWithError(c, asHTTPError(missingHeader(nytTokenHeader)))
		return
	}
	progress, err := h.puzzleSvc.Progress(c.Request.Context(), token, optionalPuzzleID(c))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	respondData(c, progress)
}

// Hints serves the cached or freshly generated hint table. The model API key
// is required before any upstream work happens.
func (h *Handler) Hints(c *gin.Context) {
	apiKey := c.GetHeader(llmKeyHeader)
	if apiKey == "" {
		abortWithError(c, asHTTPError(missingHeader(llmKeyHeader)))
		return
	}
	cached, err := h.hintsSvc.Hints(c.Request.Context(), apiKey, optionalPuzzleID(c))
	if err != nil {
		abortWithError(c, asHTTPError(err))
		return
	}
	respondData(c, cached)
}

func missingHeader(name string) error {
	return apperrors.Wrap(apperrors.CodeMissingCredential, fmt.Sprintf("Missing %s header", name), nil)
}

// optionalPuzzleID reads the puzzleId query param; anything unparseable is
// treated the same as absent, which resolves to today's puzzle.
func optionalPuzzleID(c *gin.Context) int {
	raw := c.Query("puzzleId")
	if raw == "" {
		return 0
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id < 0 {
		return 0
	}
	return id
}

func routeNotFound(c *gin.Context) {
	abortWithError(c, NewHTTPError(http.StatusNotFound, apperrors.CodeRouteNotFound, "not found", nil))
}
