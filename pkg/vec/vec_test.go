package vec

import (
	"math"
	"testing"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{
			name: "identical vectors",
			a:    []float64{1, 2, 3},
			b:    []float64{1, 2, 3},
			want: 1,
		},
		{
			name: "orthogonal vectors",
			a:    []float64{1, 0},
			b:    []float64{0, 1},
			want: 0,
		},
		{
			name: "opposite vectors",
			a:    []float64{1, 1},
			b:    []float64{-1, -1},
			want: -1,
		},
		{
			name: "zero vector returns 0",
			a:    []float64{0, 0, 0},
			b:    []float64{1, 2, 3},
			want: 0,
		},
		{
			name: "length mismatch returns 0",
			a:    []float64{1, 2},
			b:    []float64{1, 2, 3},
			want: 0,
		},
		{
			name: "empty vectors return 0",
			a:    nil,
			b:    nil,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestCosineClamped(t *testing.T) {
	// scaled copies of the same direction must give exactly 1 even with
	// floating point noise in the intermediate products
	a := []float64{0.1, 0.2, 0.3, 0.7}
	b := make([]float64, len(a))
	for i := range a {
		b[i] = a[i] * 3.0
	}
	got := Cosine(a, b)
	if got > 1 || got < 0.999999 {
		t.Errorf("Cosine(scaled copies) = %v, want 1 (clamped)", got)
	}
}

func TestL2Normalize(t *testing.T) {
	v := []float64{3, 4}
	L2Normalize(v)
	if math.Abs(v[0]-0.6) > 1e-12 || math.Abs(v[1]-0.8) > 1e-12 {
		t.Errorf("L2Normalize([3 4]) = %v, want [0.6 0.8]", v)
	}
	if n := Norm(v); math.Abs(n-1) > 1e-12 {
		t.Errorf("norm after normalize = %v, want 1", n)
	}

	// zero vector stays untouched
	z := []float64{0, 0, 0}
	L2Normalize(z)
	for i, x := range z {
		if x != 0 {
			t.Errorf("zero vector changed at %d: %v", i, x)
		}
	}
}

func TestMinMaxNormalize(t *testing.T) {
	tests := []struct {
		name   string
		scores map[string]float64
		want   map[string]float64
	}{
		{
			name:   "empty set",
			scores: map[string]float64{},
			want:   map[string]float64{},
		},
		{
			name:   "single candidate maps to 1",
			scores: map[string]float64{"a": 42},
			want:   map[string]float64{"a": 1},
		},
		{
			name:   "constant set maps to 1",
			scores: map[string]float64{"a": 5, "b": 5, "c": 5},
			want:   map[string]float64{"a": 1, "b": 1, "c": 1},
		},
		{
			name:   "linear rescale to [0,1]",
			scores: map[string]float64{"a": 10, "b": 20, "c": 30},
			want:   map[string]float64{"a": 0, "b": 0.5, "c": 1},
		},
		{
			name:   "negative scores",
			scores: map[string]float64{"a": -2, "b": 0, "c": 2},
			want:   map[string]float64{"a": 0, "b": 0.5, "c": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinMaxNormalize(tt.scores)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for id, w := range tt.want {
				if math.Abs(got[id]-w) > 1e-12 {
					t.Errorf("got[%s] = %v, want %v", id, got[id], w)
				}
			}
		})
	}
}
