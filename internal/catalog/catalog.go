package catalog

// Catalog holds the closed vocabularies the analysis pipeline validates and
// derives against. It is an immutable value injected into the pipeline, so
// tests can swap in fixture catalogs.
type Catalog struct {
	Categories      []string
	Fits            []string
	Aesthetics      []string
	FormalityLabels map[int]string
	ContemporaryEra string
	VintageTag      string
}

// Default returns the production catalog.
func Default() Catalog {
	return Catalog{
		Categories: []string{
			"top", "bottom", "shoes", "outerwear", "accessory", "dress", "other",
		},
		Fits: []string{
			"slim", "regular", "relaxed", "oversized",
		},
		Aesthetics: []string{
			"y2k", "old money", "streetwear", "cottagecore", "minimalist",
			"grunge", "preppy", "bohemian", "avant-garde", "athleisure",
			"dark academia", "coquette", "normcore", "gorpcore", "western",
		},
		FormalityLabels: map[int]string{
			1: "very-casual",
			2: "casual",
			3: "smart-casual",
			4: "semi-formal",
			5: "formal",
		},
		ContemporaryEra: "contemporary",
		VintageTag:      "vintage",
	}
}

// ValidCategory reports whether c is one of the closed category values.
func (c Catalog) ValidCategory(category string) bool {
	return contains(c.Categories, category)
}

// ValidFit reports whether f is one of the closed fit values.
func (c Catalog) ValidFit(fit string) bool {
	return contains(c.Fits, fit)
}

// FormalityLabel returns the tag for a 1-5 formality score. Out-of-range
// values return ok=false rather than erroring.
func (c Catalog) FormalityLabel(formality int) (string, bool) {
	label, ok := c.FormalityLabels[formality]
	return label, ok
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
