// Package time computes time-domain statistics of fixed-point signals.
// Extrema and zero-crossing counts are integer-exact; derived level metrics
// are reported as floats.
package time

import (
	"math"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Stats holds time-domain signal statistics. Peak, Max and Min are exact
// Q1.23 values; dB fields are relative to full scale.
type Stats struct {
	Length        int
	Max           fixed.Sample
	MaxPos        int
	Min           fixed.Sample
	MinPos        int
	Peak          fixed.Sample
	PeakdB        float64
	DC            float64
	RMS           float64
	RMSdB         float64
	CrestFactor   float64
	CrestFactordB float64
	Energy        float64 // sum of squares, full-scale units
	Power         float64 // energy / length
	ZeroCrossings int
}

// ampTodB converts a full-scale amplitude to decibels. Returns -Inf for
// zero.
func ampTodB(value float64) float64 {
	a := math.Abs(value)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}

// emptyStats returns a zero-valued Stats with -Inf for all dB fields.
func emptyStats() Stats {
	return Stats{
		PeakdB:        math.Inf(-1),
		RMSdB:         math.Inf(-1),
		CrestFactordB: math.Inf(-1),
	}
}

// Calculate computes all statistics in a single pass.
func Calculate(signal []fixed.Sample) Stats {
	n := len(signal)
	if n == 0 {
		return emptyStats()
	}

	var (
		sum           float64
		sumSq         float64
		maxVal        = signal[0]
		maxPos        int
		minVal        = signal[0]
		minPos        int
		zeroCrossings int
	)

	for i, s := range signal {
		x := fixed.ToFloat(s)
		sum += x
		sumSq += x * x

		if s > maxVal {
			maxVal = s
			maxPos = i
		}
		if s < minVal {
			minVal = s
			minPos = i
		}
		if i > 0 && int64(signal[i-1])*int64(s) < 0 {
			zeroCrossings++
		}
	}

	nf := float64(n)
	rms := math.Sqrt(sumSq / nf)
	peak := fixed.Abs(maxVal)
	if a := fixed.Abs(minVal); a > peak {
		peak = a
	}
	peakF := fixed.ToFloat(peak)

	var crest, crestdB float64
	if rms == 0 {
		crestdB = math.Inf(-1)
	} else {
		crest = peakF / rms
		crestdB = 20 * math.Log10(crest)
	}

	return Stats{
		Length:        n,
		Max:           maxVal,
		MaxPos:        maxPos,
		Min:           minVal,
		MinPos:        minPos,
		Peak:          peak,
		PeakdB:        ampTodB(peakF),
		DC:            sum / nf,
		RMS:           rms,
		RMSdB:         ampTodB(rms),
		CrestFactor:   crest,
		CrestFactordB: crestdB,
		Energy:        sumSq,
		Power:         sumSq / nf,
		ZeroCrossings: zeroCrossings,
	}
}

// RMS returns the root-mean-square of the signal in full-scale units.
func RMS(signal []fixed.Sample) float64 {
	if len(signal) == 0 {
		return 0
	}
	var sumSq float64
	for _, s := range signal {
		x := fixed.ToFloat(s)
		sumSq += x * x
	}
	return math.Sqrt(sumSq / float64(len(signal)))
}

// Peak returns the largest absolute sample value.
func Peak(signal []fixed.Sample) fixed.Sample {
	var peak fixed.Sample
	for _, s := range signal {
		if a := fixed.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}
