package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/your-org/styleum/internal/models"
)

func TestBlendAnchorScores_LiftsScore(t *testing.T) {
	analysis := &models.FashionAnalysis{
		VibeScores: map[string]float64{"grunge": 0.3},
	}
	blendAnchorScores(analysis, []models.AnchorMatch{
		{Name: "grunge", Similarity: 0.7},
	})
	assert.Equal(t, 0.7, analysis.VibeScores["grunge"])
}

func TestBlendAnchorScores_NeverLowers(t *testing.T) {
	analysis := &models.FashionAnalysis{
		VibeScores: map[string]float64{"streetwear": 0.9},
	}
	blendAnchorScores(analysis, []models.AnchorMatch{
		{Name: "streetwear", Similarity: 0.4},
	})
	assert.Equal(t, 0.9, analysis.VibeScores["streetwear"])
}

func TestBlendAnchorScores_AddsNewVibe(t *testing.T) {
	analysis := &models.FashionAnalysis{}
	blendAnchorScores(analysis, []models.AnchorMatch{
		{Name: "y2k", Similarity: 0.6},
	})
	assert.Equal(t, 0.6, analysis.VibeScores["y2k"])
}

func TestBlendAnchorScores_ClampsAboveOne(t *testing.T) {
	analysis := &models.FashionAnalysis{}
	blendAnchorScores(analysis, []models.AnchorMatch{
		{Name: "minimalist", Similarity: 1.3},
	})
	assert.Equal(t, 1.0, analysis.VibeScores["minimalist"])
}

func TestBlendAnchorScores_SkipsNegative(t *testing.T) {
	analysis := &models.FashionAnalysis{
		VibeScores: map[string]float64{"gorpcore": 0.2},
	}
	blendAnchorScores(analysis, []models.AnchorMatch{
		{Name: "gorpcore", Similarity: -0.5},
	})
	assert.Equal(t, 0.2, analysis.VibeScores["gorpcore"])
}

func TestBlendAnchorScores_EmptyMatchesNoop(t *testing.T) {
	analysis := &models.FashionAnalysis{
		VibeScores: map[string]float64{"grunge": 0.5},
	}
	blendAnchorScores(analysis, nil)
	assert.Equal(t, map[string]float64{"grunge": 0.5}, analysis.VibeScores)
}
