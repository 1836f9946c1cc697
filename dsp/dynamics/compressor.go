package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// CompressorConfig holds the parameters for one wide-dynamic-range
// compressor. Threshold and Makeup are log2-domain levels; Ratio is the
// conventional compression ratio (2.0 means 2:1). The four coefficients are
// Q2.30 per-sample smoothing factors.
type CompressorConfig struct {
	Threshold  Level
	Ratio      float64
	Makeup     Level
	EnvAttack  fixed.Coeff
	EnvRelease fixed.Coeff

	// GainAttack smooths increasing gain reduction, GainRelease the
	// recovery back toward makeup.
	GainAttack  fixed.Coeff
	GainRelease fixed.Coeff
}

// Compressor implements downward wide-dynamic-range compression on a single
// band. The gain computation runs entirely in the log2 domain: envelope
// level above threshold is scaled by 1-1/ratio and subtracted from the
// makeup level, then the resulting gain level is smoothed asymmetrically
// before conversion to a linear gain.
type Compressor struct {
	cfg   CompressorConfig
	slope fixed.Coeff // 1 - 1/ratio in Q2.30

	detector  EnvelopeDetector
	gainLevel Level
	sat       fixed.SatCounter
}

// NewCompressor validates the configuration and creates a compressor. The
// smoothed gain starts at the makeup level so the first samples are not
// attacked from silence.
func NewCompressor(cfg CompressorConfig) (*Compressor, error) {
	if cfg.Ratio < 1 {
		return nil, fmt.Errorf("dynamics: compression ratio %g below 1", cfg.Ratio)
	}
	if cfg.Threshold > 0 {
		return nil, fmt.Errorf("dynamics: threshold level %d above full scale", cfg.Threshold)
	}
	det, err := NewEnvelopeDetector(cfg.EnvAttack, cfg.EnvRelease)
	if err != nil {
		return nil, err
	}
	if cfg.GainAttack <= 0 || cfg.GainAttack > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: gain attack coefficient %d out of (0, 1]", cfg.GainAttack)
	}
	if cfg.GainRelease <= 0 || cfg.GainRelease > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: gain release coefficient %d out of (0, 1]", cfg.GainRelease)
	}

	return &Compressor{
		cfg:       cfg,
		slope:     fixed.CoeffFromFloat(1.0 - 1.0/cfg.Ratio),
		detector:  *det,
		gainLevel: cfg.Makeup,
	}, nil
}

// ProcessSample compresses one sample and returns the gained output.
func (c *Compressor) ProcessSample(x fixed.Sample) fixed.Sample {
	env := c.detector.ProcessSample(x)
	target := c.targetLevel(LevelFromMagnitude(env))

	coeff := c.cfg.GainRelease
	if target < c.gainLevel {
		coeff = c.cfg.GainAttack
	}
	c.gainLevel = smoothLevel(c.gainLevel, target, coeff)

	if hi := max(Level(0), c.cfg.Makeup); c.gainLevel < LevelFloor || c.gainLevel > hi {
		panic(fmt.Sprintf("dynamics: compressor gain level %d outside [%d, %d]",
			c.gainLevel, LevelFloor, hi))
	}

	return fixed.ApplyGain(x, GainFromLevel(c.gainLevel), &c.sat)
}

// targetLevel computes the instantaneous gain level for an input level.
func (c *Compressor) targetLevel(l Level) Level {
	if l <= c.cfg.Threshold {
		return c.cfg.Makeup
	}
	overshoot := int64(l) - int64(c.cfg.Threshold)
	reduction := (overshoot * int64(c.slope)) >> fixed.CoeffFracBits
	t := Level(int64(c.cfg.Makeup) - reduction)
	if t < LevelFloor {
		t = LevelFloor
	}
	return t
}

// GainLevel returns the current smoothed gain level.
func (c *Compressor) GainLevel() Level {
	return c.gainLevel
}

// Saturations returns the number of saturated output samples.
func (c *Compressor) Saturations() uint64 {
	return c.sat.Count()
}

// Reset clears envelope and gain state and the saturation counter.
func (c *Compressor) Reset() {
	c.detector.Reset()
	c.gainLevel = c.cfg.Makeup
	c.sat.Reset()
}
