package ai

import (
	"context"
	"time"

	"uniresto-dining/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopAdapter)(nil)

// NoopAdapter is the local/dev stand-in: it returns a canned reply instead
// of calling a real provider.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (a *NoopAdapter) Name() string { return "noop" }

func (a *NoopAdapter) Generate(ctx context.Context, prompt string) (string, error) {
	// Simulate slight processing time and respect ctx
	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return "", ctx.Err()
	}
	return "Text generation is not configured.", nil
}
