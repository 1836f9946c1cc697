package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// RequireWithinLSB fails t if got and want differ by more than lsb Q1.23
// steps.
func RequireWithinLSB(t *testing.T, got, want fixed.Sample, lsb int64, msg string) {
	t.Helper()

	diff := int64(got) - int64(want)
	if diff < 0 {
		diff = -diff
	}

	if diff > lsb {
		t.Fatalf("%s: got %d, want %d (diff %d > %d LSB)", msg, got, want, diff, lsb)
	}
}

// RequireInRange fails t if any element lies outside the Q1.23 sample range.
// The primitives make out-of-range values unrepresentable, so this guards
// against arithmetic done outside the fixed package.
func RequireInRange(t *testing.T, data []fixed.Sample) {
	t.Helper()

	for i, v := range data {
		if v > fixed.SampleMax || v < fixed.SampleMin {
			t.Fatalf("index %d: value %d outside sample range", i, v)
		}
	}
}

// PeakAbs returns the largest sample magnitude in the slice.
func PeakAbs(data []fixed.Sample) fixed.Sample {
	var peak fixed.Sample
	for _, v := range data {
		if a := fixed.Abs(v); a > peak {
			peak = a
		}
	}

	return peak
}

// RatioDB returns 20*log10(a/b) for two sample magnitudes.
func RatioDB(a, b fixed.Sample) float64 {
	if a <= 0 || b <= 0 {
		return math.Inf(-1)
	}

	return 20 * math.Log10(float64(a)/float64(b))
}
