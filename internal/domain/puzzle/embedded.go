package puzzle

import (
	"encoding/json"
	"strings"
)

// gameDataAnchor is the global assignment the provider embeds the puzzle JSON
// behind. Everything after it up to the first balanced object is the payload.
const gameDataAnchor = "window.gameData"

// extractJSONObject returns the first syntactically balanced JSON object that
// starts at the first '{' after anchor. It scans with a three-state machine
// (normal, in-string, escaped) so braces inside string literals never affect
// the depth count, and stops the moment depth returns to zero. A missing
// anchor, a missing opening brace, or running out of document before the
// object closes all yield ok=false.
func extractJSONObject(doc, anchor string) (string, bool) {
	at := strings.Index(doc, anchor)
	if at < 0 {
		return "", false
	}
	rest := doc[at+len(anchor):]
	open := strings.IndexByte(rest, '{')
	if open < 0 {
		return "", false
	}
	rest = rest[open:]

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(rest); i++ {
		ch := rest[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return rest[:i+1], true
			}
		}
	}
	return "", false
}

type gameDataWire struct {
	Today     *Data `json:"today"`
	Yesterday *Data `json:"yesterday"`
}

// parseGameData pulls today's puzzle out of the provider's HTML page. Any
// failure, from a missing anchor to JSON that lacks the today key, reports
// ok=false; nothing at this boundary panics on arbitrary documents.
func parseGameData(doc string) (Data, bool) {
	raw, ok := extractJSONObject(doc, gameDataAnchor)
	if !ok {
		return Data{}, false
	}
	var wire gameDataWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		return Data{}, false
	}
	if wire.Today == nil {
		return Data{}, false
	}
	return *wire.Today, true
}
