package design

import (
	"math"
)

// butterworthQ returns the quality factor for one section of an order-N
// Butterworth filter. index ranges from 0 to (order/2 - 1).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}

// LinkwitzRileyLP designs a lowpass LR4 crossover half: two cascaded
// second-order Butterworth lowpass sections at the same frequency. This
// produces -6.02 dB at the crossover and in-phase summation with the
// matching highpass half.
//
// Returns nil for invalid parameters.
func LinkwitzRileyLP(freq, sampleRate float64) []Coefficients {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return nil
	}

	q := butterworthQ(2, 0)
	section := Lowpass(freq, q, sampleRate)

	return []Coefficients{section, section}
}

// LinkwitzRileyHP designs the complementary highpass LR4 crossover half:
// two cascaded second-order Butterworth highpass sections. The denominator
// is shared with [LinkwitzRileyLP] at the same frequency; only the numerator
// differs, so the pair sums to an allpass response.
//
// Returns nil for invalid parameters.
func LinkwitzRileyHP(freq, sampleRate float64) []Coefficients {
	if _, ok := normalizedW0(freq, sampleRate); !ok {
		return nil
	}

	q := butterworthQ(2, 0)
	section := Highpass(freq, q, sampleRate)

	return []Coefficients{section, section}
}
