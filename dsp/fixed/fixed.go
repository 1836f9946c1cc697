package fixed

// Sample is an audio sample in Q1.23 fixed point: one sign bit and 23
// fractional bits, representing values in [-1.0, +1.0).
type Sample int32

// Coeff is a filter or smoothing coefficient in Q2.30 fixed point. The two
// integer bits give headroom for biquad coefficients that exceed unity.
type Coeff int32

// Gain is a linear gain factor in Q8.24 fixed point. Unity gain is GainUnity;
// the format covers gains up to just under +42 dB.
type Gain int32

const (
	// SampleFracBits is the number of fractional bits in a Sample.
	SampleFracBits = 23
	// SampleMax is the largest representable Sample (just below +1.0).
	SampleMax Sample = 1<<SampleFracBits - 1
	// SampleMin is the smallest representable Sample (-1.0).
	SampleMin Sample = -1 << SampleFracBits

	// CoeffFracBits is the number of fractional bits in a Coeff.
	CoeffFracBits = 30
	// CoeffOne is 1.0 in Coeff format.
	CoeffOne Coeff = 1 << CoeffFracBits
	// CoeffMax is the largest representable Coeff (just below +2.0).
	CoeffMax Coeff = 1<<31 - 1
	// CoeffMin is the smallest representable Coeff (-2.0).
	CoeffMin Coeff = -1 << 31

	// GainFracBits is the number of fractional bits in a Gain.
	GainFracBits = 24
	// GainUnity is 1.0 in Gain format.
	GainUnity Gain = 1 << GainFracBits
	// GainMax is the largest representable Gain.
	GainMax Gain = 1<<31 - 1
)

// SatCounter counts saturation events. Saturation at this layer is silent
// (clamp, never error); components own a counter and expose it read-only for
// diagnostics.
type SatCounter struct {
	n uint64
}

// Count returns the number of saturation events observed.
func (c *SatCounter) Count() uint64 { return c.n }

// Reset clears the counter.
func (c *SatCounter) Reset() { c.n = 0 }

// Clamp bounds v to the inclusive range [lo, hi].
func Clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// Saturate clamps a widened accumulator value to the Sample range. When
// clamping occurs the counter is incremented; n may be nil.
func Saturate(v int64, n *SatCounter) Sample {
	if v > int64(SampleMax) {
		if n != nil {
			n.n++
		}

		return SampleMax
	}

	if v < int64(SampleMin) {
		if n != nil {
			n.n++
		}

		return SampleMin
	}

	return Sample(v)
}

// SaturateAdd widens both samples to accumulator width, adds them, and
// saturates the result to the Sample range.
func SaturateAdd(a, b Sample, n *SatCounter) Sample {
	return Saturate(int64(a)+int64(b), n)
}

// ApplyGain multiplies a sample by a Q8.24 linear gain in accumulator width,
// rescales with an arithmetic right shift (rounding toward negative infinity),
// and saturates to the Sample range.
func ApplyGain(s Sample, g Gain, n *SatCounter) Sample {
	return Saturate((int64(s)*int64(g))>>GainFracBits, n)
}

// MulCoeff multiplies a sample by a Q2.30 coefficient into accumulator width.
// No shift is applied; callers sum products in int64 and rescale once.
func MulCoeff(s Sample, c Coeff) int64 {
	return int64(s) * int64(c)
}

// Abs returns the magnitude of s. The result is always non-negative;
// SampleMin saturates to SampleMax.
func Abs(s Sample) Sample {
	if s >= 0 {
		return s
	}

	if s == SampleMin {
		return SampleMax
	}

	return -s
}

// FromFloat converts a float in [-1, 1) to Q1.23, clamping out-of-range input.
func FromFloat(f float64) Sample {
	v := int64(f * float64(1<<SampleFracBits))
	return Sample(Clamp(v, int64(SampleMin), int64(SampleMax)))
}

// ToFloat converts a Q1.23 sample to a float in [-1.0, 1.0).
func ToFloat(s Sample) float64 {
	return float64(s) / float64(1<<SampleFracBits)
}

// CoeffFromFloat converts a float in [-2, 2) to Q2.30, clamping out-of-range
// input.
func CoeffFromFloat(f float64) Coeff {
	v := int64(f * float64(1<<CoeffFracBits))
	return Coeff(Clamp(v, int64(CoeffMin), int64(CoeffMax)))
}

// CoeffToFloat converts a Q2.30 coefficient to a float.
func CoeffToFloat(c Coeff) float64 {
	return float64(c) / float64(1<<CoeffFracBits)
}

// GainFromFloat converts a non-negative float to Q8.24, clamping to [0, GainMax].
func GainFromFloat(f float64) Gain {
	if f <= 0 {
		return 0
	}

	v := int64(f * float64(1<<GainFracBits))
	if v > int64(GainMax) {
		return GainMax
	}

	return Gain(v)
}

// GainToFloat converts a Q8.24 gain to a float.
func GainToFloat(g Gain) float64 {
	return float64(g) / float64(1<<GainFracBits)
}
