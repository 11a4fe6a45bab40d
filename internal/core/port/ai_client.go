package port

import "context"

// AIClientPort talks to a text generation model.
type AIClientPort interface {
	// Generate sends instruction and input and returns the raw text answer.
	Generate(ctx context.Context, instruction, input string) (string, error)
}
