package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCategory(t *testing.T) {
	cat := Default()
	for _, c := range []string{"top", "bottom", "shoes", "outerwear", "accessory", "dress", "other"} {
		assert.True(t, cat.ValidCategory(c), c)
	}
	assert.False(t, cat.ValidCategory("hat"))
	assert.False(t, cat.ValidCategory("Top"), "validation is exact match, coercion happens upstream")
	assert.False(t, cat.ValidCategory(""))
}

func TestValidFit(t *testing.T) {
	cat := Default()
	for _, f := range []string{"slim", "regular", "relaxed", "oversized"} {
		assert.True(t, cat.ValidFit(f), f)
	}
	assert.False(t, cat.ValidFit("bootcut"))
}

func TestFormalityLabel(t *testing.T) {
	cat := Default()

	label, ok := cat.FormalityLabel(3)
	assert.True(t, ok)
	assert.Equal(t, "smart-casual", label)

	_, ok = cat.FormalityLabel(0)
	assert.False(t, ok)
	_, ok = cat.FormalityLabel(6)
	assert.False(t, ok)
}
