// Package mathutil provides the vector arithmetic used by the local
// vector backends. The remote backends compute distances server-side.
package mathutil

import "math"

// DotProduct computes the dot product of two vectors.
// Vectors of unequal length are compared over the shorter prefix.
func DotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm computes the L2 norm (magnitude) of a vector.
func Norm(v []float32) float64 {
	return math.Sqrt(DotProduct(v, v))
}

// CosineSimilarity computes cosine similarity between two vectors.
// Returns 1 for identical directions, 0 for perpendicular or
// zero-magnitude input, -1 for opposite directions.
func CosineSimilarity(a, b []float32) float64 {
	normA := Norm(a)
	normB := Norm(b)
	if normA == 0 || normB == 0 {
		return 0
	}
	return DotProduct(a, b) / (normA * normB)
}

// CosineDistance converts cosine similarity to a distance metric.
// Returns 0 for identical vectors, 2 for opposite vectors.
func CosineDistance(a, b []float32) float64 {
	return 1 - CosineSimilarity(a, b)
}
