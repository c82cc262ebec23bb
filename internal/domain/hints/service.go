package hints

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/wenliu/beebuddy/internal/domain/puzzle"
	"github.com/wenliu/beebuddy/internal/infra/llm/claude"
	apperrors "github.com/wenliu/beebuddy/pkg/errors"
	"github.com/wenliu/beebuddy/pkg/metrics"
	"github.com/wenliu/beebuddy/pkg/util"
)

// hintSchemaVersion is embedded in every cache key so a future change to the
// CachedHints shape never collides with stale entries of the old shape.
const hintSchemaVersion = 2

// Config drives hint generation and caching.
type Config struct {
	Model     string
	MaxTokens int
	CacheTTL  time.Duration
}

// Service produces and caches hint tables for a puzzle date.
type Service interface {
	Hints(ctx context.Context, apiKey string, puzzleID int) (CachedHints, error)
}

// ChatClient is the slice of the claude client this domain needs.
type ChatClient interface {
	CreateMessage(ctx context.Context, apiKey string, req claude.MessageRequest) (claude.MessageResponse, error)
}

// PuzzleSource resolves the puzzle whose answers get clued.
type PuzzleSource interface {
	Today(ctx context.Context) (puzzle.Data, error)
	ByID(ctx context.Context, puzzleID int) (puzzle.Data, error)
}

type service struct {
	cfg    Config
	source PuzzleSource
	client ChatClient
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

// NewService wires up the hints domain.
func NewService(cfg Config, source PuzzleSource, client ChatClient, store Store, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		source: source,
		client: client,
		store:  store,
		logger: logger.With("component", "hints.service"),
		now:    util.NowUTC,
	}
}

// Hints is cache-aside: read the store first, generate and write back on a
// miss. Two concurrent misses for the same date may both generate; the last
// write wins, which is acceptable because both results satisfy the contract.
func (s *service) Hints(ctx context.Context, apiKey string, puzzleID int) (CachedHints, error) {
	p, err := s.resolvePuzzle(ctx, puzzleID)
	if err != nil {
		return CachedHints{}, err
	}

	key := cacheKey(p.PrintDate)
	cached, ok, err := s.store.Get(ctx, key)
	if err != nil {
		return CachedHints{}, apperrors.Wrap(apperrors.CodeCacheUnavailable, "hint cache unavailable", err)
	}
	if ok {
		s.logger.Info("hint cache hit", "key", key)
		return cached, nil
	}

	generated, err := s.generate(ctx, p, apiKey)
	if err != nil {
		return CachedHints{}, err
	}
	if err := s.store.Set(ctx, key, generated, s.cfg.CacheTTL); err != nil {
		// The caller still gets fresh hints; only the next request pays again.
		s.logger.Warn("hint cache write failed", "key", key, "error", err)
	}
	return generated, nil
}

func (s *service) resolvePuzzle(ctx context.Context, puzzleID int) (puzzle.Data, error) {
	if puzzleID > 0 {
		return s.source.ByID(ctx, puzzleID)
	}
	return s.source.Today(ctx)
}

// cacheKey derives the versioned store key for a puzzle date.
func cacheKey(printDate string) string {
	return fmt.Sprintf("hints:v%d:%s", hintSchemaVersion, printDate)
}

func (s *service) generate(ctx context.Context, p puzzle.Data, apiKey string) (CachedHints, error) {
	prompt := buildPrompt(p)
	s.logger.Info("generating hints", "printDate", p.PrintDate, "answers", len(p.Answers), "promptTokens", metrics.EstimateTokens(prompt))

	resp, err := s.client.CreateMessage(ctx, apiKey, claude.MessageRequest{
		Model:     s.cfg.Model,
		MaxTokens: s.cfg.MaxTokens,
		Messages:  []claude.Message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return CachedHints{}, apperrors.Wrap(apperrors.CodeGenerationFailure, "hint generation request failed", err)
	}

	if usage := billedUsage(resp); !usage.IsZero() {
		s.logger.Info("hints generated",
			"printDate", p.PrintDate,
			"inputTokens", usage.PromptTokens,
			"outputTokens", usage.CompletionTokens,
			"totalTokens", usage.TotalTokens)
	}

	clues, parsed := parseHintReply(resp.FirstText())
	if !parsed {
		// A garbled reply degrades to synthesized clues; it never fails the call.
		s.logger.Warn("hint reply was not valid JSON, using fallback clues", "printDate", p.PrintDate)
	}

	return CachedHints{
		GeneratedAt: s.now(),
		Hints:       bucketize(p.Answers, clues),
	}, nil
}

// billedUsage converts the provider's billed token counts into the shared
// usage shape. Older or mocked responses may omit usage entirely.
func billedUsage(resp claude.MessageResponse) metrics.TokenUsage {
	return metrics.TokenUsage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}
}

func buildPrompt(p puzzle.Data) string {
	pangrams := make(map[string]bool, len(p.Pangrams))
	for _, w := range p.Pangrams {
		pangrams[w] = true
	}

	var b strings.Builder
	b.WriteString("You are writing clues for a spelling puzzle. For each word below, write one short, indirect clue. ")
	b.WriteString("The clue must not contain the word itself, any form of it, or a direct synonym; hint at the meaning sideways. ")
	b.WriteString("Words marked (PANGRAM) use every puzzle letter, so make those clues a touch more celebratory.\n\nWords:\n")
	for _, w := range p.Answers {
		b.WriteString("- ")
		b.WriteString(w)
		if pangrams[w] {
			b.WriteString(" (PANGRAM)")
		}
		b.WriteString("\n")
	}
	b.WriteString("\nRespond with a single JSON object mapping each WORD to its clue text, and nothing else. No commentary, no markdown.")
	return b.String()
}

// parseHintReply decodes the model's JSON word-to-clue map, tolerating a
// surrounding code fence. ok=false means the reply was unusable and the caller
// should fall back to synthesized clues.
func parseHintReply(raw string) (map[string]string, bool) {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	sanitized = strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
	if sanitized == "" {
		return nil, false
	}

	var clues map[string]string
	if err := json.Unmarshal([]byte(sanitized), &clues); err != nil {
		return nil, false
	}
	return clues, true
}

// bucketize groups every answer under its uppercase two-letter prefix, sorted
// ascending by length. The model's casing is not guaranteed, so clue lookup
// tries the exact word, then uppercase, then lowercase before falling back.
func bucketize(answers []string, clues map[string]string) map[string][]Entry {
	buckets := make(map[string][]Entry)
	for _, word := range answers {
		runes := []rune(word)
		entry := Entry{
			Word:   word,
			Hint:   clueFor(word, len(runes), clues),
			Length: len(runes),
		}
		prefix := word
		if len(runes) >= 2 {
			prefix = string(runes[:2])
		}
		prefix = strings.ToUpper(prefix)
		buckets[prefix] = append(buckets[prefix], entry)
	}
	for prefix := range buckets {
		bucket := buckets[prefix]
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].Length == bucket[j].Length {
				return bucket[i].Word < bucket[j].Word
			}
			return bucket[i].Length < bucket[j].Length
		})
	}
	return buckets
}

func clueFor(word string, length int, clues map[string]string) string {
	for _, candidate := range []string{word, strings.ToUpper(word), strings.ToLower(word)} {
		if clue, ok := clues[candidate]; ok && strings.TrimSpace(clue) != "" {
			return clue
		}
	}
	return fmt.Sprintf("%d-letter word", length)
}
