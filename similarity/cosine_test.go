package similarity

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    map[string]float64
		b    map[string]float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    map[string]float64{"x": 1, "y": 2, "z": 3},
			b:    map[string]float64{"x": 1, "y": 2, "z": 3},
			want: 1.0,
		},
		{
			name: "no common keys",
			a:    map[string]float64{"x": 1, "y": 2},
			b:    map[string]float64{"p": 3, "q": 4},
			want: 0,
		},
		{
			name: "empty vector",
			a:    map[string]float64{},
			b:    map[string]float64{"x": 1},
			want: 0,
		},
		{
			name: "negative dot clamped to zero",
			a:    map[string]float64{"x": 1},
			b:    map[string]float64{"x": -1},
			want: 0,
		},
		{
			name: "partial overlap uses full magnitudes",
			// dot = 1*1 = 1, |a| = sqrt(2), |b| = 1
			a:    map[string]float64{"x": 1, "y": 1},
			b:    map[string]float64{"x": 1},
			want: 1 / math.Sqrt2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCosineSymmetric(t *testing.T) {
	pairs := []struct {
		a, b map[string]float64
	}{
		{map[string]float64{"x": 1, "y": 2}, map[string]float64{"x": 3, "z": 4}},
		{map[string]float64{"a": 0.5}, map[string]float64{"a": 2, "b": 1}},
		{map[string]float64{}, map[string]float64{"a": 1}},
	}
	for _, p := range pairs {
		if got, want := Cosine(p.a, p.b), Cosine(p.b, p.a); got != want {
			t.Errorf("Cosine not symmetric: %v vs %v", got, want)
		}
	}
}

func TestCosineSelfSimilarity(t *testing.T) {
	v := map[string]float64{"cat:tech": 2.0, "tag:golang": 1.5, "kw:server": 1.0}
	if got := Cosine(v, v); math.Abs(got-1.0) > 1e-9 {
		t.Errorf("self similarity = %v, want 1.0", got)
	}
}

func TestJaccard(t *testing.T) {
	set := func(ws ...string) map[string]struct{} {
		s := make(map[string]struct{})
		for _, w := range ws {
			s[w] = struct{}{}
		}
		return s
	}

	tests := []struct {
		name string
		a    map[string]struct{}
		b    map[string]struct{}
		want float64
	}{
		{"identical", set("a", "b"), set("a", "b"), 1.0},
		{"disjoint", set("a"), set("b"), 0},
		{"half overlap", set("a", "b"), set("b", "c"), 1.0 / 3.0},
		{"empty side", set(), set("a"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Jaccard(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Jaccard() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := map[string]float64{"x": 3, "y": 4}
	n := Normalize(v)

	var norm float64
	for _, x := range n {
		norm += x * x
	}
	if math.Abs(norm-1.0) > 1e-9 {
		t.Errorf("normalized norm = %v, want 1.0", norm)
	}
	// 原向量不被修改
	if v["x"] != 3 || v["y"] != 4 {
		t.Errorf("Normalize mutated input: %v", v)
	}

	zero := map[string]float64{"x": 0}
	if got := Normalize(zero); got["x"] != 0 {
		t.Errorf("zero vector should pass through, got %v", got)
	}
}
