package adapter

import "context"

// TextGenerator is the port for the generative-text helpers: menu description
// suggestions for staff and short natural-language stats summaries for the
// admin dashboard. Implementations may block on network I/O; callers pass a
// cancellable context. Failures here never affect booking state.
type TextGenerator interface {
	// Generate returns a short completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	// Name identifies the provider for logging and metrics.
	Name() string
}
