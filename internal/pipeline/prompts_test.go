package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
)

func TestBuildCorrectionContext_Empty(t *testing.T) {
	assert.Empty(t, buildCorrectionContext(nil))
	assert.Empty(t, buildCorrectionContext([]models.CorrectionRecord{}))
}

func TestBuildCorrectionContext_PreservesGivenOrder(t *testing.T) {
	// The store returns records most-recent first; the block must keep
	// that order.
	records := []models.CorrectionRecord{
		{Field: "category", OriginalValue: "dress", CorrectedValue: "top"},
		{Field: "material", OriginalValue: "polyester", CorrectedValue: "silk"},
	}
	ctx := buildCorrectionContext(records)

	catIdx := strings.Index(ctx, "category")
	matIdx := strings.Index(ctx, "material")
	require.GreaterOrEqual(t, catIdx, 0)
	require.GreaterOrEqual(t, matIdx, 0)
	assert.Less(t, catIdx, matIdx)

	assert.Contains(t, ctx, `the AI said "dress", the owner corrected it to "top"`)
}

func TestBuildReasoningPrompt_IncludesInputs(t *testing.T) {
	cat := catalog.Default()
	prompt := buildReasoningPrompt("a red wool coat", "MAX MARA", "- brand: the AI said \"Zara\", the owner corrected it to \"Max Mara\"\n", cat)

	assert.Contains(t, prompt, "a red wool coat")
	assert.Contains(t, prompt, "MAX MARA")
	assert.Contains(t, prompt, "Max Mara")
	assert.Contains(t, prompt, `"outerwear"`)
	assert.Contains(t, prompt, `"oversized"`)
	assert.Contains(t, prompt, "old money")
}

func TestBuildReasoningPrompt_OCRNone(t *testing.T) {
	prompt := buildReasoningPrompt("a plain tee", OCRNone, "", catalog.Default())
	assert.Contains(t, prompt, "TEXT VISIBLE ON ITEM: none")
	assert.NotContains(t, prompt, OCRNone)
}

func TestBuildReasoningPrompt_NoCorrectionBlockWhenEmpty(t *testing.T) {
	prompt := buildReasoningPrompt("a plain tee", OCRNone, "", catalog.Default())
	assert.NotContains(t, prompt, "previously corrected")
}
