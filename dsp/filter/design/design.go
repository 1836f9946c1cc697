package design

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-wdrc/dsp/filter/biquad"
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

const defaultQ = 1 / math.Sqrt2

// Coefficients is a float64-domain biquad prototype produced by the design
// functions, before quantization to Q2.30. a0 is normalized to 1.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
// Returns zero coefficients for invalid parameters.
func Lowpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 - cw) / 2
	b1 := 1 - cw
	b2 := (1 - cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with quality factor q.
// Returns zero coefficients for invalid parameters.
func Highpass(freq, q, sampleRate float64) Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := (1 + cw) / 2
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalize(b0, b1, b2, a0, a1, a2)
}

// Invert returns the coefficients with negated numerator, flipping the
// polarity of the designed filter. The complementary highpass half of an
// LR2/LR6 crossover is derived this way rather than duplicated.
func (c Coefficients) Invert() Coefficients {
	c.B0 = -c.B0
	c.B1 = -c.B1
	c.B2 = -c.B2

	return c
}

// Quantize converts float64-domain coefficients to Q2.30. It returns an error
// when any coefficient falls outside the representable (-2.0, +2.0) range,
// since silently clamping a filter coefficient would change the transfer
// function.
func (c Coefficients) Quantize() (biquad.Coefficients, error) {
	vals := [5]float64{c.B0, c.B1, c.B2, c.A1, c.A2}
	names := [5]string{"b0", "b1", "b2", "a1", "a2"}

	for i, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return biquad.Coefficients{}, fmt.Errorf("design: coefficient %s is not finite: %v", names[i], v)
		}

		if v >= 2.0 || v < -2.0 {
			return biquad.Coefficients{}, fmt.Errorf("design: coefficient %s = %v exceeds Q2.30 range [-2, 2)", names[i], v)
		}
	}

	return biquad.Coefficients{
		B0: fixedCoeff(c.B0),
		B1: fixedCoeff(c.B1),
		B2: fixedCoeff(c.B2),
		A1: fixedCoeff(c.A1),
		A2: fixedCoeff(c.A2),
	}, nil
}

// QuantizeAll converts a slice of float64 coefficient sets to Q2.30,
// failing on the first section that does not fit.
func QuantizeAll(coeffs []Coefficients) ([]biquad.Coefficients, error) {
	out := make([]biquad.Coefficients, len(coeffs))

	for i, c := range coeffs {
		q, err := c.Quantize()
		if err != nil {
			return nil, fmt.Errorf("section %d: %w", i, err)
		}

		out[i] = q
	}

	return out, nil
}

// fixedCoeff rounds to the nearest Q2.30 step. Range is checked by callers.
func fixedCoeff(v float64) fixed.Coeff {
	return fixed.Coeff(math.Round(v * float64(int64(1)<<fixed.CoeffFracBits)))
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) {
		return defaultQ
	}

	return q
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return Coefficients{}
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
