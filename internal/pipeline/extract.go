package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
)

// ExtractAnalysis locates the first balanced JSON object in the reasoning
// model's raw output and parses it into a validated FashionAnalysis.
// Tolerates leading/trailing prose, markdown code fences, and braces inside
// string values. Category and fit are case-coerced against the closed
// catalogs; out-of-set values are rejected, never defaulted.
func ExtractAnalysis(raw string, cat catalog.Catalog) (*models.FashionAnalysis, error) {
	objText, ok := extractJSONObject(raw)
	if !ok {
		return nil, &MalformedAnalysisError{Reason: "no balanced JSON object found"}
	}

	var analysis models.FashionAnalysis
	if err := json.Unmarshal([]byte(objText), &analysis); err != nil {
		return nil, &MalformedAnalysisError{Reason: fmt.Sprintf("parse JSON: %v", err)}
	}

	if err := validateAnalysis(&analysis, cat); err != nil {
		return nil, err
	}

	return &analysis, nil
}

// extractJSONObject scans for the first '{' and returns the substring up to
// its matching '}' by brace-depth counting, skipping braces inside quoted
// strings and honoring escapes.
func extractJSONObject(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(raw); i++ {
		ch := raw[i]

		if escaped {
			escaped = false
			continue
		}

		switch ch {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return raw[start : i+1], true
				}
			}
		}
	}

	return "", false
}

func validateAnalysis(a *models.FashionAnalysis, cat catalog.Catalog) error {
	if strings.TrimSpace(a.ItemName) == "" {
		return &MalformedAnalysisError{Reason: "item_name is required"}
	}

	a.Category = strings.ToLower(strings.TrimSpace(a.Category))
	if !cat.ValidCategory(a.Category) {
		return &MalformedAnalysisError{Reason: fmt.Sprintf("category %q is not in the closed set", a.Category)}
	}

	a.Fit = strings.ToLower(strings.TrimSpace(a.Fit))
	if !cat.ValidFit(a.Fit) {
		return &MalformedAnalysisError{Reason: fmt.Sprintf("fit %q is not in the closed set", a.Fit)}
	}

	if a.EraConfidence < 0 {
		a.EraConfidence = 0
	} else if a.EraConfidence > 1 {
		a.EraConfidence = 1
	}

	for name, score := range a.VibeScores {
		if score < 0 {
			a.VibeScores[name] = 0
		} else if score > 1 {
			a.VibeScores[name] = 1
		}
	}

	return nil
}
