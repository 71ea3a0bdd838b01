// Package llm holds the provider-neutral completion contract shared by the
// chat backends and the analysis service.
package llm

import "context"

type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
}

// Completer produces a single, non-streamed completion.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
