package ai

import (
	"context"
	"errors"
)

const (
	ProviderGemini   = "gemini"
	ProviderDeepSeek = "deepseek"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("provider returned empty response")

// Generator turns a prompt into free text. Implementations must honour the
// deadline carried by ctx.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Exchange is a previously answered question used as prompt history.
type Exchange struct {
	Question string
	Answer   string
}
