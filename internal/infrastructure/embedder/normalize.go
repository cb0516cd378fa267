// Package embedder holds helpers shared by the embedding backends.
package embedder

import "math"

// Normalize scales v to unit length in place so inner product equals cosine
// similarity. Zero vectors are left unchanged.
func Normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
