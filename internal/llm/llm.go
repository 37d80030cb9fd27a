// Package llm provides the answer-generation capability.
package llm

import "context"

// Generator turns a prompt into answer text. Retrieval must keep working
// when the generator is down, so callers treat failures as degradation, not
// as fatal errors.
type Generator interface {
	// Generate produces answer text for the given prompt.
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Ping reports whether the generation endpoint is reachable.
	Ping(ctx context.Context) error
}
