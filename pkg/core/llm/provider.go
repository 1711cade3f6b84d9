// Package llm defines the text-generation interface the agents talk to and
// the concrete provider clients.
package llm

import "context"

// Options are the per-call generation knobs every provider understands.
type Options struct {
	Temperature float64
	MaxTokens   int
	JSONMode    bool
	Model       string // optional per-call model override
}

// Provider is the interface for all LLM providers. Implementations carry no
// per-call state and are safe for concurrent use.
type Provider interface {
	Generate(ctx context.Context, prompt string, systemPrompt string, opts Options) (string, error)
	// Name identifies the provider/model pair for response metadata.
	Name() string
}
