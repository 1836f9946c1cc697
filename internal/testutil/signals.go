// Package testutil provides deterministic fixed-point test signals and
// tolerance helpers shared by the package tests.
package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Sine generates a deterministic sine wave quantized to Q1.23.
func Sine(freqHz, sampleRate, amplitude float64, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = fixed.FromFloat(amplitude * math.Sin(step*float64(i)))
	}

	return out
}

// Square generates a square wave of the given peak amplitude, switching
// polarity every half period.
func Square(periodTicks int, amplitude fixed.Sample, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	half := periodTicks / 2

	for i := range out {
		if (i/half)%2 == 0 {
			out[i] = amplitude
		} else {
			out[i] = -amplitude
		}
	}

	return out
}

// Noise generates seeded uniform white noise quantized to Q1.23.
func Noise(seed int64, amplitude float64, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	rng := rand.New(rand.NewSource(seed))

	for i := range out {
		out[i] = fixed.FromFloat((rng.Float64()*2 - 1) * amplitude)
	}

	return out
}

// Step generates a signal that is zero for onset ticks, then holds value.
func Step(onset int, value fixed.Sample, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	for i := onset; i < length; i++ {
		out[i] = value
	}

	return out
}

// DC generates a constant-valued signal.
func DC(value fixed.Sample, length int) []fixed.Sample {
	out := make([]fixed.Sample, length)
	for i := range out {
		out[i] = value
	}

	return out
}

// ToFloat converts a fixed-point signal to float64 for analysis.
func ToFloat(in []fixed.Sample) []float64 {
	out := make([]float64, len(in))
	for i, s := range in {
		out[i] = fixed.ToFloat(s)
	}

	return out
}
