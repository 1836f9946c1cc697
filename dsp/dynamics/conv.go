package dynamics

import (
	"fmt"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// log2Of10Div20 converts decibels to octaves: level_log2 = dB * log2(10)/20.
const log2Of10Div20 = 0.166096404744

// CoeffForTime converts a time constant in seconds to a Q2.30 one-pole
// smoothing coefficient for the given sample rate, using the standard
// 1 - e^(-1/(t*fs)) mapping. A non-positive time constant yields CoeffOne
// (instantaneous response).
func CoeffForTime(seconds, sampleRate float64) (fixed.Coeff, error) {
	if sampleRate <= 0 {
		return 0, fmt.Errorf("dynamics: sample rate must be positive, got %g", sampleRate)
	}
	if seconds <= 0 {
		return fixed.CoeffOne, nil
	}
	c := 1.0 - expNeg(1.0/(seconds*sampleRate))
	v := fixed.CoeffFromFloat(c)
	if v <= 0 {
		v = 1
	}
	return v, nil
}

// LevelFromDB converts decibels relative to full scale to a Q8.23 log2 level.
func LevelFromDB(db float64) Level {
	v := db * log2Of10Div20 * float64(int64(1)<<LevelFracBits)
	if v <= float64(LevelFloor) {
		return LevelFloor
	}
	if v >= float64(1<<30) {
		return Level(1 << 30)
	}
	return Level(int32(v + copysignHalf(v)))
}

// LevelToDB converts a Q8.23 log2 level to decibels.
func LevelToDB(l Level) float64 {
	return float64(l) / float64(int64(1)<<LevelFracBits) / log2Of10Div20
}

// GainFromDB converts decibels to a linear Q8.24 gain.
func GainFromDB(db float64) fixed.Gain {
	return GainFromLevel(LevelFromDB(db))
}

func copysignHalf(v float64) float64 {
	if v < 0 {
		return -0.5
	}
	return 0.5
}
