package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/your-org/styleum/internal/ai"
	"github.com/your-org/styleum/internal/observability"
)

// OCRNone is the sentinel for "OCR ran and found no text". It is distinct
// from the empty string, which means the OCR stage did not run.
const OCRNone = "<none>"

// describeWithFallback walks an ordered model list and stops at the first
// success. Caption and OCR are load-bearing: if every model fails, the last
// error propagates and aborts the run.
func describeWithFallback(ctx context.Context, stage string, chain []ai.VisionModel, imageURL, prompt string) (string, error) {
	var lastErr error
	for i, model := range chain {
		if i > 0 {
			observability.ModelFallbacks.WithLabelValues(stage).Inc()
			slog.Warn("falling back to secondary model",
				"stage", stage, "model", model.Name(), "error", lastErr)
		}
		text, err := model.Describe(ctx, imageURL, prompt)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", fmt.Errorf("%s stage exhausted %d models: %w", stage, len(chain), lastErr)
}

// normalizeOCR collapses the model's "nothing visible" phrasings into the
// OCRNone sentinel so downstream logic branches on one value.
func normalizeOCR(raw string) string {
	text := strings.TrimSpace(raw)
	switch strings.ToLower(strings.Trim(text, ".!")) {
	case "", "none", "n/a", "no text", "no text visible", "no visible text":
		return OCRNone
	}
	return text
}
