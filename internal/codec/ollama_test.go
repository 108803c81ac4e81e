package codec

import (
	"context"
	"errors"
	"testing"

	"github.com/danielpatrickdp/persona-harness/internal/dialogue"
	ollama "github.com/ollama/ollama/api"
	"github.com/stretchr/testify/require"
)

type stubOllamaClient struct {
	chunks  []string
	err     error
	lastReq *ollama.ChatRequest
}

func (s *stubOllamaClient) Chat(_ context.Context, req *ollama.ChatRequest, fn ollama.ChatResponseFunc) error {
	s.lastReq = req
	for _, c := range s.chunks {
		if err := fn(ollama.ChatResponse{Message: ollama.Message{Role: "assistant", Content: c}}); err != nil {
			return err
		}
	}
	return s.err
}

func TestOllamaGenerate_AssemblesChunks(t *testing.T) {
	stub := &stubOllamaClient{chunks: []string{"Of course ", "", "you do."}}
	g := newOllamaGeneratorWithClient(stub, "llama3:latest", DefaultOptions())

	var seen []string
	text, err := g.Stream(context.Background(), "persona", []dialogue.Message{dialogue.User("I feel alone")}, func(s string) error {
		seen = append(seen, s)
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, "Of course you do.", text)
	require.Equal(t, []string{"Of course ", "you do."}, seen)

	require.Equal(t, "llama3:latest", stub.lastReq.Model)
	require.Len(t, stub.lastReq.Messages, 2)
	require.Equal(t, "system", stub.lastReq.Messages[0].Role)
	require.Equal(t, 400, stub.lastReq.Options["num_predict"])
}

func TestOllamaGenerate_Error(t *testing.T) {
	stub := &stubOllamaClient{err: errors.New("connection refused")}
	g := newOllamaGeneratorWithClient(stub, "m", DefaultOptions())

	_, err := g.Generate(context.Background(), "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ollama chat failed")
}

func TestOllamaGenerate_Empty(t *testing.T) {
	g := newOllamaGeneratorWithClient(&stubOllamaClient{}, "m", DefaultOptions())
	_, err := g.Generate(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrEmptyResponse)
}
