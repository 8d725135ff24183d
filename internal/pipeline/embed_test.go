package pipeline

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vectorNorm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestFallbackEmbedding_Deterministic(t *testing.T) {
	a := FallbackEmbedding("black leather moto jacket", 128)
	b := FallbackEmbedding("black leather moto jacket", 128)
	assert.Equal(t, a, b)
}

func TestFallbackEmbedding_Dimensions(t *testing.T) {
	for _, dim := range []int{8, 128, 512} {
		vec := FallbackEmbedding("anything", dim)
		assert.Len(t, vec, dim)
	}
}

func TestFallbackEmbedding_UnitNorm(t *testing.T) {
	vec := FallbackEmbedding("silk slip dress with lace trim", 256)
	assert.InDelta(t, 1.0, vectorNorm(vec), 1e-6)
}

func TestFallbackEmbedding_EmptyInputNeverZeroVector(t *testing.T) {
	vec := FallbackEmbedding("", 64)
	require.Len(t, vec, 64)
	assert.InDelta(t, 1.0, vectorNorm(vec), 1e-6)
	for _, x := range vec {
		assert.NotZero(t, x)
	}
}

func TestFallbackEmbedding_MultibyteIndexedByRune(t *testing.T) {
	const text = "velours côtelé"
	const dim = 16

	// Recompute from the definition with an explicit rune position.
	want := make([]float64, dim)
	pos := 0
	for _, r := range text {
		for d := 0; d < dim; d++ {
			want[d] += math.Sin(float64(r) * float64(d+1) * float64(pos+1) * fallbackScale)
		}
		pos++
	}
	var sum float64
	for _, v := range want {
		sum += v * v
	}
	norm := math.Sqrt(sum)

	got := FallbackEmbedding(text, dim)
	require.Len(t, got, dim)
	for d := 0; d < dim; d++ {
		assert.InDelta(t, want[d]/norm, float64(got[d]), 1e-6)
	}
}

func TestFallbackEmbedding_DistinctInputsDiffer(t *testing.T) {
	a := FallbackEmbedding("red wool coat", 128)
	b := FallbackEmbedding("blue denim shirt", 128)
	assert.NotEqual(t, a, b)
}

func TestUnitNormalize(t *testing.T) {
	vec, ok := unitNormalize([]float32{3, 4})
	require.True(t, ok)
	assert.InDelta(t, 0.6, float64(vec[0]), 1e-6)
	assert.InDelta(t, 0.8, float64(vec[1]), 1e-6)
}

func TestUnitNormalize_ZeroVector(t *testing.T) {
	_, ok := unitNormalize([]float32{0, 0, 0})
	assert.False(t, ok)
}
