package semcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a    []float32
		b    []float32
		want float64
	}{
		{name: "identical unit vectors", a: []float32{1, 0, 0}, b: []float32{1, 0, 0}, want: 1},
		{name: "identical scaled vectors", a: []float32{2, 4, 6}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "both empty", a: nil, b: nil, want: 0},
		{name: "one empty", a: []float32{1, 2}, b: nil, want: 0},
		{name: "length mismatch", a: []float32{1, 2, 3}, b: []float32{1, 2}, want: 0},
		{name: "zero norm", a: []float32{0, 0, 0}, b: []float32{1, 2, 3}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineIsSymmetric(t *testing.T) {
	a := []float32{0.3, -0.2, 0.9, 0.1}
	b := []float32{0.1, 0.4, 0.5, -0.7}
	assert.InDelta(t, Cosine(a, b), Cosine(b, a), 1e-9)
}
