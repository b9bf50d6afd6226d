package domain

import (
	"math"
	"sort"
)

// CosineSimilarity computes dot(a,b) / (|a| * |b|). Returns 0.0 when either
// vector has zero norm; that keeps degenerate vectors at the bottom of the
// ranking instead of failing on division by zero.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		normA += float64(v) * float64(v)
	}
	for _, v := range b {
		normB += float64(v) * float64(v)
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}
	return dot / denom
}

// RankedSection pairs a section with its similarity score to the query.
type RankedSection struct {
	Section Section
	Score   float64
}

// RankSections scores each section against the query vector and returns the
// top k by descending similarity. Ties keep the original relative order
// (stable sort). k is clamped to max(1, min(topK, len(sections))), so at
// least one section is returned whenever any are supplied.
func RankSections(query []float32, sections []Section, topK int) []RankedSection {
	if len(sections) == 0 {
		return nil
	}

	ranked := make([]RankedSection, len(sections))
	for i, s := range sections {
		ranked[i] = RankedSection{Section: s, Score: CosineSimilarity(query, s.Vector())}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	k := topK
	if k < 1 {
		k = 1
	}
	if k > len(ranked) {
		k = len(ranked)
	}
	return ranked[:k]
}
