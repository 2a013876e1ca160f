package llm

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// OllamaStreamer calls the Ollama chat API with streaming enabled. Responses
// arrive as newline-delimited JSON chunks.
type OllamaStreamer struct {
	client *resty.Client
	model  string
}

// NewOllamaStreamer builds a streamer against the given base URL (for example
// http://localhost:11434).
func NewOllamaStreamer(baseURL, model string) *OllamaStreamer {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(5 * time.Minute)
	return &OllamaStreamer{client: c, model: model}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

type chatChunk struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
	Done  bool   `json:"done"`
	Error string `json:"error,omitempty"`
}

// StreamGenerate starts a streaming chat call. The raw response body is left
// unparsed so fragments can be consumed as they arrive.
func (s *OllamaStreamer) StreamGenerate(ctx context.Context, instructions, content string) (FragmentSource, error) {
	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: instructions},
			{Role: "user", Content: content},
		},
		Stream: true,
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetDoNotParseResponse(true).
		Post("/api/chat")
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	body := resp.RawBody()
	if resp.StatusCode() != http.StatusOK {
		defer func() { _ = body.Close() }()
		detail, _ := io.ReadAll(io.LimitReader(body, 4096))
		return nil, fmt.Errorf("ollama status %d: %s", resp.StatusCode(), detail)
	}

	return &ollamaSource{body: body, sc: bufio.NewScanner(body)}, nil
}

type ollamaSource struct {
	body io.ReadCloser
	sc   *bufio.Scanner
}

func (o *ollamaSource) Next() (Fragment, error) {
	for o.sc.Scan() {
		line := o.sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var chunk chatChunk
		if err := json.Unmarshal(line, &chunk); err != nil {
			return Fragment{}, fmt.Errorf("decode stream chunk: %w", err)
		}
		if chunk.Error != "" {
			return Fragment{}, fmt.Errorf("ollama stream error: %s", chunk.Error)
		}
		return Fragment{Text: chunk.Message.Content, Done: chunk.Done}, nil
	}
	if err := o.sc.Err(); err != nil {
		return Fragment{}, err
	}
	return Fragment{}, io.EOF
}

func (o *ollamaSource) Close() error { return o.body.Close() }
