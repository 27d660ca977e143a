package semcache

import "math"

// Cosine computes cosine similarity between two vectors. The edge cases
// are deliberate policy, not incidental: an empty vector scores 0, and
// mismatched lengths score 0 rather than erroring, so a lookup against
// entries embedded under a different model simply never hits.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(a) != len(b) {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}
