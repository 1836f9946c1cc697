package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// GateConfig holds the parameters for a hysteresis noise gate. Threshold is
// a linear Q1.23 envelope magnitude; Reduction is the Q8.24 gain applied
// while the gate is closed. OpenCoeff smooths the gain when the gate opens
// (fast) and CloseCoeff when it closes (slow).
type GateConfig struct {
	Threshold  fixed.Sample
	Reduction  fixed.Gain
	EnvAttack  fixed.Coeff
	EnvRelease fixed.Coeff
	OpenCoeff  fixed.Coeff
	CloseCoeff fixed.Coeff
}

// Gate suppresses low-level signal with a two-threshold hysteresis state
// machine. The envelope must rise above threshold plus one eighth before
// the gate opens and fall below threshold minus one eighth before it closes
// again, so a signal hovering at the boundary cannot chatter the state.
type Gate struct {
	cfg     GateConfig
	highThr fixed.Sample
	lowThr  fixed.Sample

	detector EnvelopeDetector
	open     bool
	gain     fixed.Gain
	sat      fixed.SatCounter
}

// NewGate validates the configuration and creates a gate. The gate starts
// closed with its gain already settled at the closed value.
func NewGate(cfg GateConfig) (*Gate, error) {
	if cfg.Threshold <= 0 || cfg.Threshold > fixed.SampleMax {
		return nil, fmt.Errorf("dynamics: gate threshold %d out of (0, full scale]", cfg.Threshold)
	}
	if cfg.Reduction < 0 || cfg.Reduction > fixed.GainUnity {
		return nil, fmt.Errorf("dynamics: gate reduction gain %d out of [0, unity]", cfg.Reduction)
	}
	det, err := NewEnvelopeDetector(cfg.EnvAttack, cfg.EnvRelease)
	if err != nil {
		return nil, err
	}
	if cfg.OpenCoeff <= 0 || cfg.OpenCoeff > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: gate open coefficient %d out of (0, 1]", cfg.OpenCoeff)
	}
	if cfg.CloseCoeff <= 0 || cfg.CloseCoeff > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: gate close coefficient %d out of (0, 1]", cfg.CloseCoeff)
	}

	hyst := cfg.Threshold >> 3
	high := cfg.Threshold + hyst
	if high > fixed.SampleMax {
		high = fixed.SampleMax
	}
	return &Gate{
		cfg:      cfg,
		highThr:  high,
		lowThr:   cfg.Threshold - hyst,
		detector: *det,
		gain:     cfg.Reduction,
	}, nil
}

// ProcessSample gates one sample and returns the gained output.
func (g *Gate) ProcessSample(x fixed.Sample) fixed.Sample {
	env := g.detector.ProcessSample(x)

	if g.open {
		if env < g.lowThr {
			g.open = false
		}
	} else if env > g.highThr {
		g.open = true
	}

	target := g.cfg.Reduction
	coeff := g.cfg.CloseCoeff
	if g.open {
		target = fixed.GainUnity
		coeff = g.cfg.OpenCoeff
	}
	g.gain = smoothGain(g.gain, target, coeff)

	if g.gain < 0 || g.gain > fixed.GainUnity {
		panic(fmt.Sprintf("dynamics: gate gain %d outside [0, unity]", g.gain))
	}

	return fixed.ApplyGain(x, g.gain, &g.sat)
}

// Open reports whether the gate is currently open.
func (g *Gate) Open() bool {
	return g.open
}

// Gain returns the current smoothed gain.
func (g *Gate) Gain() fixed.Gain {
	return g.gain
}

// Saturations returns the number of saturated output samples.
func (g *Gate) Saturations() uint64 {
	return g.sat.Count()
}

// Reset returns the gate to its initial closed, settled state.
func (g *Gate) Reset() {
	g.detector.Reset()
	g.open = false
	g.gain = g.cfg.Reduction
	g.sat.Reset()
}
