// Package oracle is the boundary to the language-model completion service.
//
// The optimizer only ever needs one capability from a model: complete a
// system prompt plus user input into text. Client implements it on top of the
// OpenAI chat completions API and never returns an error; failures become an
// apology text in the configured language so downstream scoring still has
// something to look at.
package oracle

import "context"

// Oracle completes systemPrompt + userInput into text.
type Oracle interface {
	Complete(ctx context.Context, systemPrompt, userInput string) (string, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, systemPrompt, userInput string) (string, error)

func (f Func) Complete(ctx context.Context, systemPrompt, userInput string) (string, error) {
	return f(ctx, systemPrompt, userInput)
}
