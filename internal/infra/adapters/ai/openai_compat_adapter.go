package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"uniresto-dining/internal/domain/ports/adapter"
	"uniresto-dining/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.TextGenerator = (*OpenAICompatAdapter)(nil)

// OpenAICompatAdapter speaks the OpenAI chat-completions wire format against
// any compatible gateway. Authorization: Bearer <API_KEY>.
type OpenAICompatAdapter struct {
	apiKey string
	base   string // e.g., https://api.openai.com/v1
	model  string
	client *http.Client
}

func NewOpenAICompatAdapter(apiKey, model, base string) (*OpenAICompatAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai-compat api key empty")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &OpenAICompatAdapter{
		apiKey: apiKey,
		base:   strings.TrimRight(base, "/"),
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (m *OpenAICompatAdapter) Name() string { return "openai-compat" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (m *OpenAICompatAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{Model: m.model, Messages: []chatMessage{{Role: "user", Content: prompt}}}

	b, _ := json.Marshal(reqBody)
	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, m.base+"/chat/completions", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	start := time.Now()
	resp, err := m.client.Do(req)
	metrics.ObserveTextGen(m.Name(), int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai-compat http %d", resp.StatusCode)
	}
	var payload struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	for _, c := range payload.Choices {
		if c.Message.Content != "" {
			return c.Message.Content, nil
		}
	}
	return "", errors.New("no choice content")
}
