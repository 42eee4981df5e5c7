package advisor

import (
	"context"
	"errors"
)

var (
	ErrRateLimited   = errors.New("ai provider rate limit reached")
	ErrNotConfigured = errors.New("ai provider is not configured")
	ErrEmptyResponse = errors.New("ai provider returned no content")
)

// GenerateOptions tweaks a single generation call.
type GenerateOptions struct {
	// JSON asks the provider for a JSON object reply.
	JSON bool
}

// TextGenerator produces text for a prompt.
type TextGenerator interface {
	Name() string
	GenerateContent(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

type Closer interface {
	Close() error
}
