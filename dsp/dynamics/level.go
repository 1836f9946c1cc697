package dynamics

import (
	"math/bits"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Level is a log2-domain signal level or gain in Q8.23 fixed point: one unit
// is one octave (6.0206 dB). Zero is full scale for levels and unity for
// gains.
type Level int32

const (
	// LevelFracBits is the number of fractional bits in a Level.
	LevelFracBits = 23
	// LevelFloor is the value reported for a zero magnitude, far below the
	// smallest representable non-zero sample (-23 octaves).
	LevelFloor Level = -128 << LevelFracBits
)

// log2CorrC is the Q23 coefficient of the quadratic mantissa correction
// log2(1+x) ≈ x + c*x*(1-x), exact at x = 0 and x = 1. Maximum error is
// below 0.008 octave (~0.05 dB) and the mapping is strictly monotonic.
const log2CorrC = 2874776 // 0.3427 in Q23

// exp2 polynomial coefficients in Q24: 2^x ≈ 1 + x*(c1 + c2*x) on [0, 1),
// exact at both endpoints, monotonic, relative error below 0.4%.
const (
	exp2C1 = 11014242 // 0.6565 in Q24
	exp2C2 = 5762974  // 0.3435 in Q24
)

// LevelFromMagnitude maps a non-negative Q1.23 magnitude to its log2-domain
// level relative to full scale. Zero or negative input returns LevelFloor.
//
// The integer part comes from the magnitude's bit position and the
// fractional part from a quadratic correction of the normalized mantissa.
// This replaces the coarse bit-position-only approximation of the original
// hardware design with a mapping that is still cheap, still integer-only,
// and strictly monotonic.
func LevelFromMagnitude(v fixed.Sample) Level {
	if v <= 0 {
		return LevelFloor
	}

	u := uint32(v)
	p := bits.Len32(u) // 1..23 for valid magnitudes

	// Normalize so bit 23 is the leading bit: mantissa in [1.0, 2.0) Q23.
	m := u << (24 - p)
	f := int64(m - 1<<23) // fractional part x in [0, 1) Q23

	corr := (f * ((1 << 23) - f)) >> 23
	frac := f + (corr*log2CorrC)>>23

	return Level(int64(p-24)<<23 + frac)
}

// LevelFromSample maps a sample to the level of its magnitude.
func LevelFromSample(s fixed.Sample) Level {
	return LevelFromMagnitude(fixed.Abs(s))
}

// GainFromLevel maps a log2-domain gain to a linear Q8.24 gain, saturating
// at the Gain range boundaries. The mapping is monotonic; levels at or below
// LevelFloor return zero.
func GainFromLevel(l Level) fixed.Gain {
	if l <= LevelFloor {
		return 0
	}

	k := int64(l) >> LevelFracBits // floor of the octave count
	f := int64(l) - k<<LevelFracBits

	f24 := f << 1 // Q23 -> Q24
	inner := exp2C1 + (exp2C2*f24)>>24
	val := int64(1<<24) + (f24*inner)>>24 // 2^f in Q24, [1.0, 2.0)

	switch {
	case k >= 7:
		return fixed.GainMax
	case k >= 0:
		return fixed.Gain(val << uint(k))
	case k <= -56:
		return 0
	default:
		return fixed.Gain(val >> uint(-k))
	}
}
