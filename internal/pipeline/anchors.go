package pipeline

import (
	"github.com/your-org/styleum/internal/models"
)

// blendAnchorScores raises vibe scores from anchor similarity matches.
// Anchor similarity only ever lifts a score; it never lowers one the
// reasoning stage already assigned.
func blendAnchorScores(analysis *models.FashionAnalysis, matches []models.AnchorMatch) {
	if len(matches) == 0 {
		return
	}
	if analysis.VibeScores == nil {
		analysis.VibeScores = make(map[string]float64, len(matches))
	}
	for _, m := range matches {
		sim := m.Similarity
		if sim > 1 {
			sim = 1
		}
		if sim < 0 {
			continue
		}
		if existing, ok := analysis.VibeScores[m.Name]; !ok || sim > existing {
			analysis.VibeScores[m.Name] = sim
		}
	}
}
