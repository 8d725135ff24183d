package ai

import (
	"context"
	"errors"
	"fmt"
)

// VisionModel produces text from a prompt plus an image reference.
// Implementations are single-attempt; fallback ordering is the caller's job.
type VisionModel interface {
	Describe(ctx context.Context, imageURL, prompt string) (string, error)
	Name() string
}

// TextModel produces text from a text-only prompt.
type TextModel interface {
	Complete(ctx context.Context, prompt string) (string, error)
	Name() string
}

// EmbeddingModel produces a fixed-dimension vector for an image.
type EmbeddingModel interface {
	Embed(ctx context.Context, imageURL string) ([]float32, error)
	Dimensions() int
}

// ModelUnavailableError marks a transport or provider failure for one model
// invocation. Stages with a fallback catch it and try the next model; stages
// without one surface it as fatal.
type ModelUnavailableError struct {
	Model string
	Err   error
}

func (e *ModelUnavailableError) Error() string {
	return fmt.Sprintf("model %s unavailable: %v", e.Model, e.Err)
}

func (e *ModelUnavailableError) Unwrap() error { return e.Err }

// IsModelUnavailable reports whether err is (or wraps) a model-unavailable
// failure.
func IsModelUnavailable(err error) bool {
	var mu *ModelUnavailableError
	return errors.As(err, &mu)
}
