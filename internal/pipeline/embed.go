package pipeline

import "math"

// fallbackScale keeps the sine argument well away from float precision loss
// on long inputs.
const fallbackScale = 0.001

// FallbackEmbedding builds a deterministic pseudo-embedding from text. Each
// dimension accumulates sin(charCode * (dim+1) * (charIndex+1) * k) over the
// whole input, then the vector is L2-normalized. It exists only to keep the
// pipeline alive when the embedding model is down; it makes no semantic
// neighborhood promises. The output always has exactly dim dimensions and
// never a zero norm.
func FallbackEmbedding(text string, dim int) []float32 {
	vec := make([]float64, dim)
	i := 0
	for _, r := range text {
		// i counts runes, not bytes; ranging indexes would skip positions
		// on multibyte input.
		code := float64(r)
		for d := 0; d < dim; d++ {
			vec[d] += math.Sin(code * float64(d+1) * float64(i+1) * fallbackScale)
		}
		i++
	}

	var sum float64
	for _, v := range vec {
		sum += v * v
	}

	out := make([]float32, dim)
	if sum == 0 {
		// Empty or degenerate input: a fixed unit basis vector keeps the
		// L2-norm invariant without ever emitting the zero vector.
		uniform := 1.0 / math.Sqrt(float64(dim))
		for d := range out {
			out[d] = float32(uniform)
		}
		return out
	}

	norm := math.Sqrt(sum)
	for d, v := range vec {
		out[d] = float32(v / norm)
	}
	return out
}
