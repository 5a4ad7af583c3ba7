package steps

import "context"

// TextGenerator is the generation-service boundary. The production
// implementation is the OpenAI client; tests use in-memory fakes.
type TextGenerator interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

// GeneratorFunc adapts a closure to TextGenerator.
type GeneratorFunc func(ctx context.Context, system string, user string) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, system string, user string) (string, error) {
	return f(ctx, system, user)
}
