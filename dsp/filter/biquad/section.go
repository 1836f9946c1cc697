package biquad

import (
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad) in Q2.30. a0 is normalized to 1 and not
// stored.
//
// Sign convention, applied consistently throughout this module: A1 and A2 are
// the denominator coefficients as designed (not pre-negated); ProcessSample
// subtracts the feedback products:
//
//	y[n] = b0*x[n] + b1*x[n-1] + b2*x[n-2] - a1*y[n-1] - a2*y[n-2]
type Coefficients struct {
	B0, B1, B2 fixed.Coeff // feedforward (numerator)
	A1, A2     fixed.Coeff // feedback (denominator)
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form I processing on Q1.23 samples: the delay lines
// hold the last two inputs and last two outputs, owned exclusively by this
// instance.
type Section struct {
	Coefficients

	x1, x2 fixed.Sample
	y1, y2 fixed.Sample

	sat fixed.SatCounter
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
//
// All five products accumulate at full width in int64; the accumulated sum
// is rescaled with one arithmetic right shift by the coefficient fractional
// bit count and saturated once to Sample width. The delay lines advance
// unconditionally on every call.
func (s *Section) ProcessSample(x fixed.Sample) fixed.Sample {
	acc := fixed.MulCoeff(x, s.B0)
	acc += fixed.MulCoeff(s.x1, s.B1)
	acc += fixed.MulCoeff(s.x2, s.B2)
	acc -= fixed.MulCoeff(s.y1, s.A1)
	acc -= fixed.MulCoeff(s.y2, s.A2)

	y := fixed.Saturate(acc>>fixed.CoeffFracBits, &s.sat)

	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

// ProcessBlock filters a block of samples in-place.
func (s *Section) ProcessBlock(buf []fixed.Sample) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the delay lines to zero. The saturation counter is preserved.
func (s *Section) Reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

// Saturations returns the number of output saturation events since
// construction or the last counter reset.
func (s *Section) Saturations() uint64 {
	return s.sat.Count()
}

// ResetSaturations clears the saturation counter.
func (s *Section) ResetSaturations() {
	s.sat.Reset()
}

// State returns the current delay-line state [x1, x2, y1, y2].
func (s *Section) State() [4]fixed.Sample {
	return [4]fixed.Sample{s.x1, s.x2, s.y1, s.y2}
}

// SetState restores a previously saved delay-line state.
func (s *Section) SetState(state [4]fixed.Sample) {
	s.x1, s.x2 = state[0], state[1]
	s.y1, s.y2 = state[2], state[3]
}
