package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// EnvelopeDetector tracks the rectified amplitude of a signal with an
// asymmetric one-pole smoother. Attack and release coefficients are Q2.30
// per-sample smoothing factors in (0, 1]; use CoeffForTime to derive them
// from time constants.
type EnvelopeDetector struct {
	attack  fixed.Coeff
	release fixed.Coeff
	env     fixed.Sample
}

// NewEnvelopeDetector creates a detector with the given smoothing
// coefficients.
func NewEnvelopeDetector(attack, release fixed.Coeff) (*EnvelopeDetector, error) {
	if attack <= 0 || attack > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: attack coefficient %d out of (0, 1]", attack)
	}
	if release <= 0 || release > fixed.CoeffOne {
		return nil, fmt.Errorf("dynamics: release coefficient %d out of (0, 1]", release)
	}
	return &EnvelopeDetector{attack: attack, release: release}, nil
}

// ProcessSample feeds one sample and returns the updated envelope.
// The envelope rises toward the rectified input with the attack coefficient
// and falls with the release coefficient.
func (d *EnvelopeDetector) ProcessSample(x fixed.Sample) fixed.Sample {
	r := fixed.Abs(x)
	c := d.release
	if r > d.env {
		c = d.attack
	}
	d.env = smoothTowards(d.env, r, c)
	return d.env
}

// Envelope returns the current envelope value without advancing state.
func (d *EnvelopeDetector) Envelope() fixed.Sample {
	return d.env
}

// Reset clears the envelope to zero.
func (d *EnvelopeDetector) Reset() {
	d.env = 0
}

// smoothTowards moves cur one smoothing step toward target. When the scaled
// step underflows to zero the value is nudged by one LSB so the smoother
// always reaches its target exactly instead of stalling one step short.
func smoothTowards(cur, target fixed.Sample, coeff fixed.Coeff) fixed.Sample {
	diff := int64(target) - int64(cur)
	if diff == 0 {
		return cur
	}
	step := (diff * int64(coeff)) >> fixed.CoeffFracBits
	if step == 0 {
		if diff > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	return fixed.Sample(int64(cur) + step)
}

// smoothGain is smoothTowards for Q8.24 gains.
func smoothGain(cur, target fixed.Gain, coeff fixed.Coeff) fixed.Gain {
	diff := int64(target) - int64(cur)
	if diff == 0 {
		return cur
	}
	step := (diff * int64(coeff)) >> fixed.CoeffFracBits
	if step == 0 {
		if diff > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	return fixed.Gain(int64(cur) + step)
}

// smoothLevel is smoothTowards for log2-domain levels.
func smoothLevel(cur, target Level, coeff fixed.Coeff) Level {
	diff := int64(target) - int64(cur)
	if diff == 0 {
		return cur
	}
	step := (diff * int64(coeff)) >> fixed.CoeffFracBits
	if step == 0 {
		if diff > 0 {
			step = 1
		} else {
			step = -1
		}
	}
	return Level(int64(cur) + step)
}
