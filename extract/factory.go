package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// NewProvider creates an extraction provider from configuration. An empty
// provider name disables extraction and returns (nil, nil); callers treat
// a nil provider as "extraction off".
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown extraction provider: %s (supported: anthropic, openai)", config.Provider)
	}
}

// ExtractWithRetry runs an extraction, retrying transient failures. Each
// failed attempt is logged; the last error is returned when all attempts
// fail.
func ExtractWithRetry(ctx context.Context, p Provider, req Request, maxRetries int, log *slog.Logger) (*DocumentExtraction, error) {
	if log == nil {
		log = slog.Default()
	}

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 2 * time.Second):
			}
		}

		result, err := p.Extract(ctx, req)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt < maxRetries {
			log.Warn("extraction attempt failed, retrying",
				"provider", p.Name(), "attempt", attempt+1, "error", err)
		} else {
			log.Error("all extraction attempts failed",
				"provider", p.Name(), "attempts", maxRetries+1, "error", err)
		}
	}

	return nil, lastErr
}
