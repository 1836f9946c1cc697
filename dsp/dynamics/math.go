//go:build !fastmath

package dynamics

import "math"

// expNeg computes e^(-x) using standard library math.
func expNeg(x float64) float64 {
	return math.Exp(-x)
}
