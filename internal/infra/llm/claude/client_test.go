package claude

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/messages", r.URL.Path)
		require.Equal(t, "sk-caller", r.Header.Get("x-api-key"))
		require.Equal(t, apiVersion, r.Header.Get("anthropic-version"))

		var req MessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test-model", req.Model)
		require.Len(t, req.Messages, 1)

		w.Write([]byte(`{"id":"msg_1","model":"test-model","stop_reason":"end_turn",
			"content":[{"type":"text","text":"{\"able\":\"clue\"}"}],
			"usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).CreateMessage(context.Background(), "sk-caller", MessageRequest{
		Model:     "test-model",
		MaxTokens: 256,
		Messages:  []Message{{Role: "user", Content: "clue me"}},
	})
	require.NoError(t, err)
	require.Equal(t, `{"able":"clue"}`, resp.FirstText())
	require.Equal(t, 10, resp.Usage.InputTokens)
}

func TestCreateMessage_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error"}}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).CreateMessage(context.Background(), "bad-key", MessageRequest{Model: "m", MaxTokens: 1})
	require.Error(t, err)
	require.Contains(t, err.Error(), "status=401")
}

func TestFirstText_SkipsNonTextBlocks(t *testing.T) {
	resp := MessageResponse{Content: []ContentBlock{
		{Type: "thinking", Text: "ignored"},
		{Type: "text", Text: "kept"},
	}}
	require.Equal(t, "kept", resp.FirstText())
}
