// Package embedding provides a deterministic bag-of-hashed-tokens text
// fingerprint and cosine similarity scoring.
//
// This is a deliberate low-cost substitute for a real embedding model: each
// distinct token hashes into one of Dims buckets and the bucket counts are
// L2-normalized. The hash is FNV-1a, so the same text always produces a
// bit-identical vector across process restarts and persisted vectors stay
// comparable to freshly computed query vectors.
package embedding

import (
	"hash/fnv"
	"math"
	"strings"
)

// Dims is the fixed embedding dimensionality.
const Dims = 128

// Vector is a fixed-length embedding vector.
type Vector = []float32

// Embed computes the fingerprint of a text. Texts with no tokens yield the
// zero vector, which has similarity 0 to everything.
func Embed(text string) Vector {
	vec := make(Vector, Dims)
	seen := map[string]bool{}
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		if seen[tok] {
			continue
		}
		seen[tok] = true
		vec[bucket(tok)]++
	}
	normalize(vec)
	return vec
}

func bucket(token string) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % Dims)
}

func normalize(vec Vector) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
}

// Cosine computes cosine similarity between two vectors. It returns 0 when
// either vector has zero norm or the lengths differ.
func Cosine(a, b Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
