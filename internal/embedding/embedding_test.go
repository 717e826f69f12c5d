package embedding

import (
	"math"
	"testing"
)

func TestEmbedDeterministic(t *testing.T) {
	a := Embed("parse CSV with a streaming reader")
	b := Embed("parse CSV with a streaming reader")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestEmbedUnitNorm(t *testing.T) {
	vec := Embed("one two three four")
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1.0) > 1e-6 {
		t.Errorf("expected unit norm, got squared norm %f", sum)
	}
}

func TestEmbedEmptyText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		vec := Embed(text)
		if len(vec) != Dims {
			t.Fatalf("expected %d dims, got %d", Dims, len(vec))
		}
		for i, v := range vec {
			if v != 0 {
				t.Errorf("Embed(%q)[%d] = %v, want 0", text, i, v)
			}
		}
		if sim := Cosine(vec, Embed("anything")); sim != 0 {
			t.Errorf("zero vector similarity = %f, want 0", sim)
		}
	}
}

func TestEmbedDuplicateTokensIgnored(t *testing.T) {
	a := Embed("cache cache cache miss")
	b := Embed("cache miss")
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("duplicate tokens changed the vector at bucket %d", i)
		}
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Vector
		expected float64
		delta    float64
	}{
		{"identical", Vector{1, 0, 0}, Vector{1, 0, 0}, 1.0, 0.001},
		{"orthogonal", Vector{1, 0, 0}, Vector{0, 1, 0}, 0.0, 0.001},
		{"similar", Vector{1, 1, 0}, Vector{1, 0, 0}, 0.707, 0.01},
		{"empty", Vector{}, Vector{}, 0.0, 0.001},
		{"different lengths", Vector{1, 0}, Vector{1, 0, 0}, 0.0, 0.001},
		{"zero vector", Vector{0, 0, 0}, Vector{1, 0, 0}, 0.0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.expected) > tt.delta {
				t.Errorf("Cosine(%v, %v) = %f, want %f (±%f)", tt.a, tt.b, got, tt.expected, tt.delta)
			}
		})
	}
}

func TestSelfSimilarityRanksHighest(t *testing.T) {
	query := Embed("fix flaky docker healthcheck")
	same := Embed("fix flaky docker healthcheck")
	other := Embed("rotate postgres credentials quarterly")

	if Cosine(query, same) <= Cosine(query, other) {
		t.Error("expected identical text to outscore unrelated text")
	}
	if sim := Cosine(query, same); math.Abs(sim-1.0) > 1e-6 {
		t.Errorf("self similarity = %f, want 1.0", sim)
	}
}
