// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"strings"
	"time"

	"google.golang.org/genai"

	"uniresto-dining/internal/domain/ports/adapter"
	"uniresto-dining/internal/infra/metrics"
)

var _ adapter.TextGenerator = (*GeminiAdapter)(nil)

// GeminiAdapter generates text through the official Gemini SDK.
type GeminiAdapter struct {
	client       *genai.Client
	defaultModel string
}

func NewGeminiAdapter(ctx context.Context, apiKey, defaultModel string) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, defaultModel: defaultModel}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", errors.New("gemini: empty prompt")
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.defaultModel,
		[]*genai.Content{{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: prompt}},
		}},
		nil,
	)
	metrics.ObserveTextGen(g.Name(), int(time.Since(start).Milliseconds()), err == nil)
	if err != nil {
		return "", err
	}

	text := ""
	if resp != nil && len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if t := resp.Candidates[0].Content.Parts[0].Text; t != "" {
			text = t
		}
	}
	if text == "" {
		return "", errors.New("gemini: empty response")
	}
	return text, nil
}
