package window

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func TestGenerate_Sizes(t *testing.T) {
	if got := Generate(TypeHann, 0); len(got) != 0 {
		t.Fatalf("n=0: got %d coefficients", len(got))
	}
	if got := Generate(TypeHann, 1); len(got) != 1 || got[0] != 1 {
		t.Fatalf("n=1: got %v", got)
	}
}

func TestGenerate_HannEndpoints(t *testing.T) {
	w := Generate(TypeHann, 64)
	if !approxEqual(w[0], 0, 1e-12) || !approxEqual(w[63], 0, 1e-12) {
		t.Fatalf("hann endpoints: %g, %g", w[0], w[63])
	}
	// Symmetric form peaks at the centre.
	if w[31] < 0.99 && w[32] < 0.99 {
		t.Fatalf("hann centre too low: %g / %g", w[31], w[32])
	}
}

func TestGenerate_Symmetry(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeBlackman, TypeFlatTop} {
		w := Generate(typ, 127)
		for i := range w {
			j := len(w) - 1 - i
			if !approxEqual(w[i], w[j], 1e-12) {
				t.Fatalf("%v: asymmetric at %d: %g vs %g", typ, i, w[i], w[j])
			}
		}
	}
}

func TestGenerate_RectangularIsUnity(t *testing.T) {
	for _, c := range Generate(TypeRectangular, 32) {
		if c != 1 {
			t.Fatalf("rectangular coefficient %g", c)
		}
	}
}

func TestApplyInPlace(t *testing.T) {
	samples := []float64{1, 2, 3, 4}
	coeffs := []float64{0.5, 0.5, 2, 0}
	ApplyInPlace(samples, coeffs)
	want := []float64{0.5, 1, 6, 0}
	for i := range want {
		if samples[i] != want[i] {
			t.Fatalf("index %d: got %g want %g", i, samples[i], want[i])
		}
	}
}

func TestApplyInPlace_LengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	ApplyInPlace(make([]float64, 3), make([]float64, 4))
}

func TestCoherentGain(t *testing.T) {
	if got := CoherentGain(Generate(TypeRectangular, 16)); !approxEqual(got, 1, 1e-12) {
		t.Fatalf("rectangular coherent gain %g", got)
	}
	// Hann coherent gain approaches 0.5 for large N.
	if got := CoherentGain(Generate(TypeHann, 4096)); !approxEqual(got, 0.5, 1e-3) {
		t.Fatalf("hann coherent gain %g", got)
	}
}

func TestENBW(t *testing.T) {
	if got := ENBW(Generate(TypeRectangular, 64)); !approxEqual(got, 1, 1e-12) {
		t.Fatalf("rectangular ENBW %g", got)
	}
	// Hann ENBW is 1.5 bins.
	if got := ENBW(Generate(TypeHann, 4096)); !approxEqual(got, 1.5, 1e-2) {
		t.Fatalf("hann ENBW %g", got)
	}
}
