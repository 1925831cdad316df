// Package ai wraps the external text-generation collaborator. The core
// treats it as unreliable and possibly slow: callers get a prompt-in,
// text-out contract and decide themselves whether a failure degrades or
// propagates.
package ai

import "context"

// Client is the text-generation contract consumed by the categorizer
// and the insights orchestrator. Implementations are injected at
// wiring time so tests can substitute a double.
type Client interface {
	// Generate sends one prompt and returns the raw response text.
	Generate(ctx context.Context, prompt string) (string, error)
}
