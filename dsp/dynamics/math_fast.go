//go:build fastmath

package dynamics

import "github.com/meko-christian/algo-approx"

// expNeg computes e^(-x) using a fast approximation. Coefficient conversion
// runs at configuration time only, but builds that opt into fast math get
// the same approximation everywhere.
func expNeg(x float64) float64 {
	return approx.FastExp(-x)
}
