package codec

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerate_NonStreaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "llama3", req.Model)
		require.False(t, req.Stream)
		require.Equal(t, 400, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		require.Equal(t, "system", req.Messages[0].Role)
		require.Equal(t, "persona", req.Messages[0].Content)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"Of course you are."}}]}`)
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL+"/v1/", "test-key", "llama3", DefaultOptions(), false)
	text, err := g.Generate(context.Background(), "persona", []dialogue.Message{dialogue.User("I'm afraid of dying")})
	require.NoError(t, err)
	require.Equal(t, "Of course you are.", text)
}

func TestOpenAIGenerate_Streaming(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.True(t, req.Stream)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hello\"}}]}\n\n")
		fmt.Fprint(w, "data: garbage\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\" there\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "", "m", DefaultOptions(), true)

	var fragments []string
	text, err := g.Stream(context.Background(), "", []dialogue.Message{dialogue.User("hi")}, func(s string) error {
		fragments = append(fragments, s)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "Hello there", text)
	require.Equal(t, []string{"Hello", " there"}, fragments)

	text, err = g.Generate(context.Background(), "", []dialogue.Message{dialogue.User("hi")})
	require.NoError(t, err)
	require.Equal(t, "Hello there", text)
}

func TestOpenAIGenerate_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream down")
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "", "m", DefaultOptions(), false)
	_, err := g.Generate(context.Background(), "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "502")
}

func TestOpenAIGenerate_EmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer server.Close()

	g := NewOpenAIGenerator(server.URL, "", "m", DefaultOptions(), false)
	_, err := g.Generate(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrEmptyResponse)
}
