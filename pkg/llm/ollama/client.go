package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/artem13815/portfolio/pkg/apperr"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1"
)

// Options are the decoding parameters sent with every generate call.
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumPredict    int     `json:"num_predict"`
}

// DefaultOptions favour deterministic, schema-following output.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.3,
		TopP:          0.9,
		TopK:          40,
		RepeatPenalty: 1.1,
		NumPredict:    2048,
	}
}

// Client is a minimal Ollama /api/generate client.
type Client struct {
	BaseURL string
	Model   string
	Options Options
	httpDo  *http.Client
}

func New(baseURL, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		BaseURL: baseURL,
		Model:   model,
		Options: DefaultOptions(),
		httpDo:  &http.Client{Timeout: timeout},
	}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type generateResponse struct {
	Response *string `json:"response"`
	Done     bool    `json:"done"`
}

// Generate sends a single non-streaming completion request and returns the model text.
// Every failure is reported as an inference-unavailable error.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	data, err := json.Marshal(generateRequest{
		Model:   c.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: c.Options,
	})
	if err != nil {
		return "", apperr.InferenceUnavailable(fmt.Errorf("marshaling request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/generate", bytes.NewReader(data))
	if err != nil {
		return "", apperr.InferenceUnavailable(fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpDo.Do(req)
	if err != nil {
		return "", apperr.InferenceUnavailable(fmt.Errorf("calling ollama: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", apperr.InferenceUnavailable(fmt.Errorf("ollama http %d: %s", resp.StatusCode, bytes.TrimSpace(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperr.InferenceUnavailable(fmt.Errorf("decoding response: %w", err))
	}
	if out.Response == nil {
		return "", apperr.InferenceUnavailable(errors.New("ollama reply has no response field"))
	}
	return *out.Response, nil
}

// Ping checks that the server is reachable. Used by the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpDo.Do(req)
	if err != nil {
		return fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama http %d", resp.StatusCode)
	}
	return nil
}
