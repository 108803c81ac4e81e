package codec

// #region imports
import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// #endregion imports

const (
	sseDataPrefix = "data: "
	sseDone       = "[DONE]"
)

// #region fold

// ChunkDecoder pulls the text fragment out of one SSE data payload.
type ChunkDecoder func(payload []byte) (string, error)

// FoldSSE reads an event stream, decodes every "data: " line with decode and
// concatenates the fragments until the [DONE] sentinel or EOF. Payloads that
// fail to decode are skipped. onText, when non-nil, sees each fragment as it
// arrives; an error from it aborts the fold.
func FoldSSE(r io.Reader, decode ChunkDecoder, onText func(string) error) (string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var full strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}
		data := strings.TrimSpace(line[len(sseDataPrefix):])
		if data == sseDone {
			break
		}
		text, err := decode([]byte(data))
		if err != nil || text == "" {
			continue
		}
		full.WriteString(text)
		if onText != nil {
			if err := onText(text); err != nil {
				return full.String(), err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("read stream: %w", err)
	}
	return full.String(), nil
}

// #endregion fold

// #region decoders

// DecodeOpenAIDelta extracts choices[0].delta.content from an
// OpenAI-compatible streaming chunk.
func DecodeOpenAIDelta(payload []byte) (string, error) {
	var chunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", err
	}
	if len(chunk.Choices) == 0 {
		return "", nil
	}
	return chunk.Choices[0].Delta.Content, nil
}

// DecodeTextChunk extracts the text field of the chat endpoint's own events.
func DecodeTextChunk(payload []byte) (string, error) {
	var chunk struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(payload, &chunk); err != nil {
		return "", err
	}
	return chunk.Text, nil
}

// #endregion decoders

// #region write

// WriteSSE writes one text fragment as a "data: {"text": ...}" event.
func WriteSSE(w io.Writer, text string) error {
	payload, err := json.Marshal(struct {
		Text string `json:"text"`
	}{Text: text})
	if err != nil {
		return fmt.Errorf("marshal chunk: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s%s\n\n", sseDataPrefix, payload)
	return err
}

// WriteSSEDone writes the stream terminator.
func WriteSSEDone(w io.Writer) error {
	_, err := fmt.Fprintf(w, "%s%s\n\n", sseDataPrefix, sseDone)
	return err
}

// #endregion write
