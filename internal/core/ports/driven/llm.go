package driven

import "context"

// LLMService produces grounded answers from a completion model.
//
// Implementations may include:
//   - OpenAI (GPT-4o family)
//   - Ollama (local models)
type LLMService interface {
	// Complete generates a completion for the given system and user
	// prompts. The answer pipeline passes a fixed grounding system
	// prompt; implementations must not alter or reorder the prompts.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Close releases resources.
	Close() error
}
