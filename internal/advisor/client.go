// Package advisor generates a short AI financial summary from the monthly
// reporting snapshot. Generation is write-through cached once per calendar
// day; the cached text is an opaque blob to the rest of the system.
package advisor

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Client defines the interface for advice text providers.
type Client interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Config holds provider settings for the advice client.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// NewClient creates an advice client based on the provided configuration.
func NewClient(cfg Config) (Client, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return newGeminiClient(cfg)
	case "anthropic":
		return newAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported advice provider: %s", cfg.Provider)
	}
}
