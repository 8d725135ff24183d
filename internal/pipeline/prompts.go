package pipeline

import (
	"fmt"
	"strings"

	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
)

const captionPrompt = `Describe this single clothing item in detail for a fashion catalog.
Cover: garment type, silhouette, fabric and texture, colors and patterns,
hardware (buttons, zippers, buckles), stitching, condition, and any styling
cues. Write one dense paragraph, no preamble.`

const ocrPrompt = `Read any visible text on this clothing item: brand labels, care tags,
printed graphics, embroidery. Reply with the text only, exactly as written,
one line per distinct piece of text. If no text is visible, reply with
exactly: NONE`

// buildReasoningPrompt assembles the text-only reasoning prompt from the
// caption, the OCR result, the user's recent correction history, and the
// closed aesthetic catalog. The model is instructed to answer with a single
// JSON object matching the FashionAnalysis schema, no prose wrapper.
func buildReasoningPrompt(caption, ocrText, correctionContext string, cat catalog.Catalog) string {
	var b strings.Builder

	b.WriteString("You are a fashion archivist analyzing a single clothing item.\n\n")
	b.WriteString("IMAGE DESCRIPTION:\n")
	b.WriteString(caption)
	b.WriteString("\n\n")

	if ocrText != OCRNone && ocrText != "" {
		b.WriteString("TEXT VISIBLE ON ITEM:\n")
		b.WriteString(ocrText)
		b.WriteString("\n\n")
	} else {
		b.WriteString("TEXT VISIBLE ON ITEM: none\n\n")
	}

	if correctionContext != "" {
		b.WriteString("The owner of this item has previously corrected AI analyses. ")
		b.WriteString("Weigh these corrections when labeling:\n")
		b.WriteString(correctionContext)
		b.WriteString("\n")
	}

	b.WriteString("Analyze the item:\n")
	b.WriteString("- Infer the likely era or decade from silhouette, fabric, and hardware cues.\n")
	fmt.Fprintf(&b, "- Score the item against each of these aesthetics with a 0.0-1.0 confidence: %s.\n",
		strings.Join(cat.Aesthetics, ", "))
	b.WriteString("- Flag the item as unorthodox if it is avant-garde, deconstructed, or otherwise uncategorizable, and say why.\n\n")

	fmt.Fprintf(&b, `Respond with a single JSON object and nothing else, exactly this schema:
{
  "item_name": string,
  "category": one of [%s],
  "subcategory": string,
  "primary_color": string,
  "secondary_colors": [string],
  "color_hex": string,
  "material": string,
  "fit": one of [%s],
  "formality": integer 1-5,
  "seasonality": [string],
  "occasions": [string],
  "style_bucket": string,
  "era": string ("%s" if current),
  "era_confidence": number 0.0-1.0,
  "vibe_scores": {aesthetic name: number 0.0-1.0},
  "dense_caption": string,
  "notable_details": string,
  "style_description": string,
  "unorthodox": boolean,
  "unorthodox_reason": string,
  "ocr_text": string,
  "brand": string
}`,
		quoteJoin(cat.Categories), quoteJoin(cat.Fits), cat.ContemporaryEra)

	return b.String()
}

// buildCorrectionContext formats recent corrections into a few-shot block,
// most-recent first. An empty slice yields an empty string.
func buildCorrectionContext(records []models.CorrectionRecord) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range records {
		fmt.Fprintf(&b, "- %s: the AI said %q, the owner corrected it to %q\n",
			r.Field, r.OriginalValue, r.CorrectedValue)
	}
	return b.String()
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + v + `"`
	}
	return strings.Join(quoted, ", ")
}
