// Package window provides the window functions used by the analysis
// tooling for spectral measurements of processed audio.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackman
	TypeFlatTop
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "rectangular"
	case TypeHann:
		return "hann"
	case TypeBlackman:
		return "blackman"
	case TypeFlatTop:
		return "flattop"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Generate returns the symmetric window coefficients for n points.
// Unknown types fall back to rectangular.
func Generate(t Type, n int) []float64 {
	coeffs := make([]float64, n)
	if n == 0 {
		return coeffs
	}
	if n == 1 {
		coeffs[0] = 1
		return coeffs
	}

	den := float64(n - 1)
	for i := range coeffs {
		x := float64(i) / den
		switch t {
		case TypeHann:
			coeffs[i] = 0.5 - 0.5*math.Cos(2*math.Pi*x)
		case TypeBlackman:
			coeffs[i] = 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
		case TypeFlatTop:
			coeffs[i] = 0.21557895 -
				0.41663158*math.Cos(2*math.Pi*x) +
				0.277263158*math.Cos(4*math.Pi*x) -
				0.083578947*math.Cos(6*math.Pi*x) +
				0.006947368*math.Cos(8*math.Pi*x)
		default:
			coeffs[i] = 1
		}
	}
	return coeffs
}

// ApplyInPlace multiplies samples by the window coefficients element-wise.
// Panics if lengths differ.
func ApplyInPlace(samples, coeffs []float64) {
	if len(samples) != len(coeffs) {
		panic(fmt.Sprintf("window: length mismatch %d vs %d", len(samples), len(coeffs)))
	}
	vecmath.MulBlockInPlace(samples, coeffs)
}

// CoherentGain returns sum(w[n])/N, the amplitude correction factor for the
// window.
func CoherentGain(coeffs []float64) float64 {
	if len(coeffs) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	return sum / float64(len(coeffs))
}

// ENBW returns the equivalent noise bandwidth of the window in bins.
func ENBW(coeffs []float64) float64 {
	sum := 0.0
	sumSq := 0.0
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}
	if sum == 0 {
		return 0
	}
	return float64(len(coeffs)) * sumSq / (sum * sum)
}
