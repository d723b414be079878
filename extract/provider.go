package extract

import (
	"context"
	"time"
)

// Provider is an extraction backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Extract runs the body-extraction instruction against one document
	// and returns the validated structured result.
	Extract(ctx context.Context, req Request) (*DocumentExtraction, error)

	// IsAvailable checks that the provider is configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// Request is the input for one extraction call.
type Request struct {
	// PDF is the raw body sub-document. Providers with native document
	// input consume it directly.
	PDF []byte

	// Text is the extracted plain text of the body, for providers that
	// cannot accept a PDF.
	Text string

	// Prompt overrides the default extraction instruction when set.
	Prompt string

	// Model overrides the configured model when set.
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// Config holds extraction provider configuration.
type Config struct {
	// Provider name: "anthropic", "openai", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the provider endpoint.
	BaseURL string

	// Timeout for one API request.
	Timeout time.Duration

	// MaxTokens for response generation.
	MaxTokens int

	// RequestsPerMinute throttles calls across a batch run; document
	// extraction bursts trip provider rate limits otherwise.
	RequestsPerMinute int
}

// DefaultConfig returns sensible defaults. The provider is disabled until
// one is named.
func DefaultConfig() Config {
	return Config{
		Provider:          "",
		Timeout:           120 * time.Second,
		MaxTokens:         4096,
		RequestsPerMinute: 20,
	}
}
