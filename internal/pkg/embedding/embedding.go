// Package embedding derives deterministic pseudo-embeddings for note text.
//
// The vectors are digest projections, not semantic embeddings: identical text
// always yields an identical vector, and similarity between different texts is
// incidental byte-pattern overlap. Search behavior depends on this exact
// shape, so the algorithm must not be swapped for a real embedding model.
package embedding

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// Dim is the fixed vector length.
const Dim = 128

// FromText maps text to a Dim-length vector with elements in [-1, 1).
// sha256 yields 32 bytes per block, so digests of (block index, text) are
// chained until Dim bytes are produced; each byte b becomes (b-128)/128.
func FromText(text string) []float32 {
	vec := make([]float32, 0, Dim)
	var block [8]byte
	for i := 0; len(vec) < Dim; i++ {
		binary.BigEndian.PutUint64(block[:], uint64(i))
		h := sha256.New()
		h.Write(block[:])
		h.Write([]byte(text))
		for _, b := range h.Sum(nil) {
			if len(vec) == Dim {
				break
			}
			vec = append(vec, (float32(b)-128)/128)
		}
	}
	return vec
}

// Cosine returns dot(a,b)/(|a|*|b|), or 0 when either magnitude is zero or
// the lengths differ.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
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
