package pipeline

import (
	"sort"
	"strings"

	"github.com/your-org/styleum/internal/catalog"
	"github.com/your-org/styleum/internal/models"
)

// DeriveTags computes the normalized tag set for a completed analysis.
// Deterministic and order-independent: everything is lower-cased and
// accumulated into a set, so permuting list-valued inputs yields the same
// result. The returned slice is sorted.
func DeriveTags(analysis *models.FashionAnalysis, cat catalog.Catalog, vibeThreshold float64) []string {
	set := make(map[string]struct{})

	add := func(tag string) {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" {
			set[tag] = struct{}{}
		}
	}

	add(analysis.Category)
	add(analysis.Subcategory)
	add(analysis.PrimaryColor)
	add(analysis.Material)
	add(analysis.Fit)
	add(analysis.StyleBucket)

	if analysis.Era != "" {
		add(analysis.Era)
		if !strings.EqualFold(analysis.Era, cat.ContemporaryEra) {
			add(cat.VintageTag)
		}
	}

	for name, score := range analysis.VibeScores {
		if score > vibeThreshold {
			add(strings.ReplaceAll(name, " ", "-"))
		}
	}

	for _, color := range analysis.SecondaryColors {
		add(color)
	}
	for _, occasion := range analysis.Occasions {
		add(occasion)
	}
	for _, season := range analysis.Seasonality {
		add(season)
	}

	if analysis.Brand != "" {
		add(analysis.Brand)
	}

	// Out-of-range formality contributes no tag rather than erroring.
	if label, ok := cat.FormalityLabel(analysis.Formality); ok {
		add(label)
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
