package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/delay"
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// LimiterConfig holds the parameters for the output limiter. Threshold is a
// linear Q1.23 magnitude; Ratio is a Q2.30 factor in (0, 1] scaling the
// ceiling that overshooting peaks are pulled back to (smaller means more
// aggressive reduction). Lookahead is an optional delay depth in samples;
// zero disables the delay line.
type LimiterConfig struct {
	Threshold fixed.Sample
	Ratio     fixed.Coeff
	Attack    fixed.Coeff
	Release   fixed.Coeff
	Lookahead int
}

// maxLookahead bounds the lookahead delay so the latency contribution stays
// small and constant.
const maxLookahead = 64

// Limiter is the final safety stage. Peaks above threshold drive a smoothed
// gain reduction, detected on the incoming sample and applied lookahead
// samples later so the gain is already falling when the peak leaves the
// delay line. The gained output passes through saturating arithmetic, so no
// sample can leave the representable range regardless of upstream state.
type Limiter struct {
	cfg     LimiterConfig
	ceiling fixed.Sample // threshold scaled by ratio

	line *delay.Line
	gain fixed.Gain
	sat  fixed.SatCounter
}

// NewLimiter validates the configuration and creates a limiter with unity
// gain and an empty lookahead buffer.
func NewLimiter(cfg LimiterConfig) (*Limiter, error) {
	if cfg.Threshold <= 0 || cfg.Threshold > fixed.SampleMax {
		return nil, fmt.Errorf("dynamics: limiter threshold %d out of (0, full scale]", cfg.Threshold)
	}
	if cfg.Ratio <= 0 || cfg.Ratio > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: limiter ratio %d out of (0, 1]", cfg.Ratio)
	}
	if cfg.Attack <= 0 || cfg.Attack > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: limiter attack coefficient %d out of (0, 1]", cfg.Attack)
	}
	if cfg.Release <= 0 || cfg.Release > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: limiter release coefficient %d out of (0, 1]", cfg.Release)
	}
	if cfg.Lookahead < 0 || cfg.Lookahead > maxLookahead {
		return nil, fmt.Errorf("dynamics: limiter lookahead %d out of [0, %d]", cfg.Lookahead, maxLookahead)
	}

	ceiling := fixed.Sample((int64(cfg.Threshold) * int64(cfg.Ratio)) >> fixed.CoeffFracBits)
	if ceiling < 1 {
		ceiling = 1
	}

	l := &Limiter{cfg: cfg, ceiling: ceiling, gain: fixed.GainUnity}
	if cfg.Lookahead > 0 {
		line, err := delay.New(cfg.Lookahead)
		if err != nil {
			return nil, err
		}
		l.line = line
	}
	return l, nil
}

// ProcessSample limits one sample. With lookahead enabled the returned
// sample is the input from Lookahead ticks ago.
func (l *Limiter) ProcessSample(x fixed.Sample) fixed.Sample {
	peak := fixed.Abs(x)

	target := fixed.GainUnity
	if peak > l.cfg.Threshold {
		target = fixed.Gain((int64(l.ceiling) << fixed.GainFracBits) / int64(peak))
	}

	coeff := l.cfg.Release
	if target < l.gain {
		coeff = l.cfg.Attack
	}
	l.gain = smoothGain(l.gain, target, coeff)

	if l.gain <= 0 || l.gain > fixed.GainUnity {
		panic(fmt.Sprintf("dynamics: limiter gain %d outside (0, unity]", l.gain))
	}

	out := x
	if l.line != nil {
		out = l.line.Process(x)
	}
	// ApplyGain saturates unconditionally, which doubles as the hard-clip
	// safety stage: no output can leave the representable range.
	return fixed.ApplyGain(out, l.gain, &l.sat)
}

// Active reports whether the limiter is currently reducing gain.
func (l *Limiter) Active() bool {
	return l.gain < fixed.GainUnity
}

// Gain returns the current smoothed gain.
func (l *Limiter) Gain() fixed.Gain {
	return l.gain
}

// Latency returns the constant delay in samples introduced by lookahead.
func (l *Limiter) Latency() int {
	return l.cfg.Lookahead
}

// Saturations returns the number of saturated output samples.
func (l *Limiter) Saturations() uint64 {
	return l.sat.Count()
}

// Reset restores unity gain and clears the lookahead buffer.
func (l *Limiter) Reset() {
	l.gain = fixed.GainUnity
	if l.line != nil {
		l.line.Reset()
	}
	l.sat.Reset()
}
