// Package pipeline composes the full hearing-compensation chain: crossover
// bank, per-band WDRC compression, band summation, noise gate, and output
// limiter. One ProcessSample call consumes exactly one input sample and
// produces exactly one output sample; all state advances once per call, so
// replaying the same input against the same configuration reproduces the
// same output bit for bit.
package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/dynamics"
	"github.com/cwbudde/algo-wdrc/dsp/filter/crossover"
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// Config assembles the full processing chain. CrossoverFreqs must be
// strictly ascending; Bands holds one compressor configuration per band,
// so len(Bands) must equal len(CrossoverFreqs)+1, ordered low band first.
type Config struct {
	SampleRate     float64
	CrossoverFreqs []float64
	Bands          []dynamics.CompressorConfig
	Gate           dynamics.GateConfig
	Limiter        dynamics.LimiterConfig
}

// Pipeline is the composed per-sample processing chain.
type Pipeline struct {
	bank    *crossover.MultiBand
	comps   []*dynamics.Compressor
	gate    *dynamics.Gate
	limiter *dynamics.Limiter

	scratch []fixed.Sample
	sumSat  fixed.SatCounter
}

// Status is a read-only snapshot of the pipeline's observability counters
// and flags.
type Status struct {
	CrossoverSaturations uint64
	BandSaturations      []uint64
	SumSaturations       uint64
	GateSaturations      uint64
	LimiterSaturations   uint64
	GateOpen             bool
	LimiterActive        bool
}

// New validates the configuration and builds a pipeline with all state at
// its defined initial values: filter delay lines zero, compressor gains at
// their makeup levels, gate closed, limiter at unity.
func New(cfg Config) (*Pipeline, error) {
	if len(cfg.Bands) != len(cfg.CrossoverFreqs)+1 {
		return nil, fmt.Errorf("pipeline: %d band configs for %d crossover frequencies, want %d",
			len(cfg.Bands), len(cfg.CrossoverFreqs), len(cfg.CrossoverFreqs)+1)
	}

	bank, err := crossover.NewMultiBand(cfg.CrossoverFreqs, cfg.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	comps := make([]*dynamics.Compressor, len(cfg.Bands))
	for i, bc := range cfg.Bands {
		c, err := dynamics.NewCompressor(bc)
		if err != nil {
			return nil, fmt.Errorf("pipeline: band %d: %w", i, err)
		}
		comps[i] = c
	}

	gate, err := dynamics.NewGate(cfg.Gate)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	limiter, err := dynamics.NewLimiter(cfg.Limiter)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	return &Pipeline{
		bank:    bank,
		comps:   comps,
		gate:    gate,
		limiter: limiter,
		scratch: make([]fixed.Sample, len(cfg.Bands)),
	}, nil
}

// NumBands returns the number of frequency bands.
func (p *Pipeline) NumBands() int {
	return len(p.comps)
}

// Latency returns the constant pipeline delay in samples. Only the limiter
// lookahead contributes; the IIR crossover is zero-latency in the causal
// sense.
func (p *Pipeline) Latency() int {
	return p.limiter.Latency()
}

// ProcessSample runs one tick: the input fans into the crossover bank, each
// band is compressed independently, the bands are summed with saturating
// adds, and the sum passes through the gate and limiter.
func (p *Pipeline) ProcessSample(x fixed.Sample) fixed.Sample {
	p.bank.ProcessSampleInto(x, p.scratch)

	var sum fixed.Sample
	for i, c := range p.comps {
		sum = fixed.SaturateAdd(sum, c.ProcessSample(p.scratch[i]), &p.sumSat)
	}

	return p.limiter.ProcessSample(p.gate.ProcessSample(sum))
}

// Process runs ProcessSample over a buffer in place.
func (p *Pipeline) Process(buf []fixed.Sample) {
	for i, x := range buf {
		buf[i] = p.ProcessSample(x)
	}
}

// Status returns the current observability snapshot. The returned band
// slice is freshly allocated; reading status never disturbs processing
// state.
func (p *Pipeline) Status() Status {
	bands := make([]uint64, len(p.comps))
	for i, c := range p.comps {
		bands[i] = c.Saturations()
	}
	return Status{
		CrossoverSaturations: p.bank.Saturations(),
		BandSaturations:      bands,
		SumSaturations:       p.sumSat.Count(),
		GateSaturations:      p.gate.Saturations(),
		LimiterSaturations:   p.limiter.Saturations(),
		GateOpen:             p.gate.Open(),
		LimiterActive:        p.limiter.Active(),
	}
}

// Reset restores every component to its initial state and zeroes all
// saturation counters.
func (p *Pipeline) Reset() {
	p.bank.Reset()
	for _, c := range p.comps {
		c.Reset()
	}
	p.gate.Reset()
	p.limiter.Reset()
	p.sumSat.Reset()
}
