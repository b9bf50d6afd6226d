package domain

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0}, []float32{1, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector left", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"zero vector right", []float32{1, 1}, []float32{0, 0}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func sectionWithVector(id int, vec []float32) Section {
	return ReconstructSection(id, 1, "text", vec)
}

func TestRankSections_DescendingOrder(t *testing.T) {
	query := []float32{1, 0}
	sections := []Section{
		sectionWithVector(1, []float32{0, 1}),   // similarity 0
		sectionWithVector(2, []float32{1, 0}),   // similarity 1
		sectionWithVector(3, []float32{0.7, 0.7}), // similarity ~0.707
	}

	ranked := RankSections(query, sections, 3)
	if len(ranked) != 3 {
		t.Fatalf("expected 3 ranked sections, got %d", len(ranked))
	}
	if ranked[0].Section.ID() != 2 || ranked[1].Section.ID() != 3 || ranked[2].Section.ID() != 1 {
		t.Errorf("wrong order: %d, %d, %d",
			ranked[0].Section.ID(), ranked[1].Section.ID(), ranked[2].Section.ID())
	}
}

func TestRankSections_TiesKeepOriginalOrder(t *testing.T) {
	query := []float32{1, 0}
	sections := []Section{
		sectionWithVector(1, []float32{1, 0}),
		sectionWithVector(2, []float32{2, 0}), // same direction, same similarity
		sectionWithVector(3, []float32{3, 0}),
	}

	ranked := RankSections(query, sections, 3)
	for i, want := range []int{1, 2, 3} {
		if ranked[i].Section.ID() != want {
			t.Errorf("position %d: got section %d, want %d", i, ranked[i].Section.ID(), want)
		}
	}
}

func TestRankSections_ClampsK(t *testing.T) {
	query := []float32{1, 0}
	sections := []Section{
		sectionWithVector(1, []float32{1, 0}),
		sectionWithVector(2, []float32{0, 1}),
	}

	if got := RankSections(query, sections, 10); len(got) != 2 {
		t.Errorf("topK above count: got %d sections, want 2", len(got))
	}
	if got := RankSections(query, sections, 0); len(got) != 1 {
		t.Errorf("topK zero: got %d sections, want 1", len(got))
	}
	if got := RankSections(query, sections, -5); len(got) != 1 {
		t.Errorf("topK negative: got %d sections, want 1", len(got))
	}
}

func TestRankSections_Empty(t *testing.T) {
	if got := RankSections([]float32{1}, nil, 3); got != nil {
		t.Errorf("expected nil for no sections, got %v", got)
	}
}
