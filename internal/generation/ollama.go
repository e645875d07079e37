package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/StyNW7/Zenium/internal/config"
)

// OllamaStrategy is the local generation backend, tried after the hosted
// one. The Ollama generate API returns only the new continuation, not the
// echoed prompt.
type OllamaStrategy struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewOllamaStrategy creates the local backend adapter.
func NewOllamaStrategy(cfg config.OllamaConfig) *OllamaStrategy {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	return &OllamaStrategy{
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (s *OllamaStrategy) Name() string { return "ollama" }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// LocalPrompt is the exact prompt string sent to the local backend: the
// system instructions prefixed to the composed prompt, with a speaker tag
// cueing the continuation.
func LocalPrompt(system, prompt string) string {
	return system + "\n\n" + prompt + "\n\nZenium:"
}

// Ping checks that the local backend is reachable.
func (s *OllamaStrategy) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("local backend unreachable: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("local backend returned status %d", resp.StatusCode)
	}
	return nil
}

// Generate calls the local model with the system-prefixed prompt and
// returns the generated continuation.
func (s *OllamaStrategy) Generate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(ollamaGenerateRequest{
		Model:  s.model,
		Prompt: LocalPrompt(req.System, req.Prompt),
		Stream: false,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("calling local backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("local backend returned status %d", resp.StatusCode)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return genResp.Response, nil
}
