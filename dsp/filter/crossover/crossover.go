package crossover

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/filter/biquad"
	"github.com/cwbudde/algo-wdrc/dsp/filter/design"
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Crossover is a two-way LR4 Linkwitz-Riley crossover that splits
// a Q1.23 input stream into complementary lowpass and highpass outputs.
//
// Each half is two cascaded second-order Butterworth sections (4th order
// total). LP and HP sum to an allpass response, so bands recombined with
// unity gain reconstruct the input to within fixed-point rounding error.
type Crossover struct {
	lp   *biquad.Chain
	hp   *biquad.Chain
	freq float64
	sr   float64
}

// New creates a two-way LR4 crossover at the given frequency. The frequency
// must lie in (0, sampleRate/2).
func New(freq, sampleRate float64) (*Crossover, error) {
	lpProto := design.LinkwitzRileyLP(freq, sampleRate)
	hpProto := design.LinkwitzRileyHP(freq, sampleRate)

	if lpProto == nil || hpProto == nil {
		return nil, fmt.Errorf("crossover: frequency must be in (0, %v), got %v", sampleRate/2, freq)
	}

	lp, err := design.QuantizeAll(lpProto)
	if err != nil {
		return nil, fmt.Errorf("crossover: lowpass at %.1f Hz: %w", freq, err)
	}

	hp, err := design.QuantizeAll(hpProto)
	if err != nil {
		return nil, fmt.Errorf("crossover: highpass at %.1f Hz: %w", freq, err)
	}

	return &Crossover{
		lp:   biquad.NewChain(lp),
		hp:   biquad.NewChain(hp),
		freq: freq,
		sr:   sampleRate,
	}, nil
}

// NewFromCoefficients creates a two-way crossover from pre-quantized
// coefficient sets, one slice per half. Both halves must carry the same
// number of sections.
func NewFromCoefficients(lp, hp []biquad.Coefficients) (*Crossover, error) {
	if len(lp) == 0 || len(lp) != len(hp) {
		return nil, fmt.Errorf("crossover: halves must have equal non-zero section counts, got %d and %d", len(lp), len(hp))
	}

	return &Crossover{
		lp: biquad.NewChain(lp),
		hp: biquad.NewChain(hp),
	}, nil
}

// ProcessSample filters one input sample and returns the lowpass and
// highpass outputs for this tick.
func (c *Crossover) ProcessSample(x fixed.Sample) (lo, hi fixed.Sample) {
	return c.lp.ProcessSample(x), c.hp.ProcessSample(x)
}

// LP returns the lowpass chain for direct inspection.
func (c *Crossover) LP() *biquad.Chain { return c.lp }

// HP returns the highpass chain for direct inspection.
func (c *Crossover) HP() *biquad.Chain { return c.hp }

// Freq returns the crossover frequency in Hz (zero when constructed from
// raw coefficients).
func (c *Crossover) Freq() float64 { return c.freq }

// Reset clears the internal filter states of both halves.
func (c *Crossover) Reset() {
	c.lp.Reset()
	c.hp.Reset()
}

// Saturations returns the summed saturation count of both halves.
func (c *Crossover) Saturations() uint64 {
	return c.lp.Saturations() + c.hp.Saturations()
}

// MultiBand splits an input stream into N+1 frequency bands for N crossover
// points, using cascaded two-way crossovers: at each stage the highpass
// output is one band and the lowpass output feeds the next stage, so the
// final stage's lowpass is the lowest band.
//
// Bands are ordered from lowest to highest frequency. All per-band state is
// private to this instance; one call to ProcessSampleInto mutates each
// filter exactly once.
type MultiBand struct {
	stages []*Crossover
	bands  int
}

// NewMultiBand creates a multi-way crossover from strictly ascending
// crossover frequencies. For N frequencies the network produces N+1 bands
// using 2N biquad pairs.
func NewMultiBand(freqs []float64, sampleRate float64) (*MultiBand, error) {
	if len(freqs) == 0 {
		return nil, fmt.Errorf("crossover: at least one frequency is required")
	}

	for i := 1; i < len(freqs); i++ {
		if freqs[i] <= freqs[i-1] {
			return nil, fmt.Errorf("crossover: frequencies must be strictly ascending, got %.1f after %.1f", freqs[i], freqs[i-1])
		}
	}

	stages := make([]*Crossover, len(freqs))

	for i, f := range freqs {
		xo, err := New(f, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("crossover: stage %d: %w", i, err)
		}

		stages[i] = xo
	}

	return &MultiBand{
		stages: stages,
		bands:  len(freqs) + 1,
	}, nil
}

// NumBands returns the number of output bands.
func (m *MultiBand) NumBands() int { return m.bands }

// Stages returns the underlying two-way crossover stages.
func (m *MultiBand) Stages() []*Crossover { return m.stages }

// ProcessSampleInto filters one input sample, writing per-band outputs into
// out, which must have NumBands() elements. Using a caller-owned buffer
// keeps the per-tick path allocation-free.
//
// Stages are processed from the highest crossover point down: the input
// enters the last stage, whose highpass output is the top band, and each
// stage's lowpass remainder feeds the stage below.
func (m *MultiBand) ProcessSampleInto(x fixed.Sample, out []fixed.Sample) {
	_ = out[m.bands-1]

	remainder := x
	for i := len(m.stages) - 1; i >= 0; i-- {
		lo, hi := m.stages[i].ProcessSample(remainder)
		out[i+1] = hi
		remainder = lo
	}

	out[0] = remainder
}

// ProcessSample filters one input sample and returns a freshly allocated
// per-band output slice. Streaming callers should prefer ProcessSampleInto.
func (m *MultiBand) ProcessSample(x fixed.Sample) []fixed.Sample {
	out := make([]fixed.Sample, m.bands)
	m.ProcessSampleInto(x, out)

	return out
}

// Reset clears all internal filter states.
func (m *MultiBand) Reset() {
	for _, s := range m.stages {
		s.Reset()
	}
}

// Saturations returns the summed saturation count across all stages.
func (m *MultiBand) Saturations() uint64 {
	var n uint64
	for _, s := range m.stages {
		n += s.Saturations()
	}

	return n
}
