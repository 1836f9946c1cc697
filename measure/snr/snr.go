// Package snr measures signal-to-noise ratio of processed audio by FFT
// analysis: the power around the strongest (or a configured) tone is the
// signal, everything else up to Nyquist is noise.
package snr

import (
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
	"github.com/cwbudde/algo-wdrc/dsp/window"
)

const defaultCaptureBins = 3

// Config holds SNR analysis parameters.
type Config struct {
	SampleRate float64
	// FFTSize must be a power of two; zero picks the next power of two at
	// or above the signal length.
	FFTSize int
	// FundamentalFreq pins the signal bin; zero searches for the peak.
	FundamentalFreq float64
	// CaptureBins widens the signal capture window on each side of the
	// fundamental bin.
	CaptureBins int
	WindowType  window.Type
}

// Result holds SNR measurement results. Powers are raw squared-magnitude
// sums; levels are in dB.
type Result struct {
	FundamentalFreq float64
	SignalPower     float64
	NoisePower      float64
	SNRdB           float64
	SignalLeveldB   float64
}

// Analyze measures the SNR of a fixed-point signal.
func Analyze(signal []fixed.Sample, cfg Config) (Result, error) {
	if len(signal) == 0 {
		return Result{}, fmt.Errorf("snr: empty signal")
	}
	if cfg.SampleRate <= 0 {
		return Result{}, fmt.Errorf("snr: sample rate must be positive, got %g", cfg.SampleRate)
	}

	fftSize := cfg.FFTSize
	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(signal))
	}
	if fftSize&(fftSize-1) != 0 {
		return Result{}, fmt.Errorf("snr: FFT size %d is not a power of two", fftSize)
	}
	if len(signal) > fftSize {
		signal = signal[:fftSize]
	}

	data := make([]float64, len(signal))
	for i, s := range signal {
		data[i] = fixed.ToFloat(s)
	}
	coeffs := window.Generate(cfg.WindowType, len(data))
	window.ApplyInPlace(data, coeffs)

	inData := make([]complex128, fftSize)
	for i, v := range data {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return Result{}, fmt.Errorf("snr: %w", err)
	}
	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return Result{}, fmt.Errorf("snr: %w", err)
	}

	binCount := fftSize/2 + 1
	magSquared := make([]float64, binCount)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	binHz := cfg.SampleRate / float64(fftSize)
	maxBin := binCount - 1

	fundamentalBin := 0
	if cfg.FundamentalFreq > 0 {
		fundamentalBin = clampInt(int(math.Round(cfg.FundamentalFreq/binHz)), 1, maxBin)
	} else {
		peak := 0.0
		for bin := 1; bin <= maxBin; bin++ {
			if magSquared[bin] > peak {
				peak = magSquared[bin]
				fundamentalBin = bin
			}
		}
		if fundamentalBin == 0 {
			return Result{}, fmt.Errorf("snr: no spectral peak found")
		}
	}

	captureBins := cfg.CaptureBins
	if captureBins <= 0 {
		captureBins = defaultCaptureBins
	}

	signalPower := 0.0
	noisePower := 0.0
	for bin := 1; bin <= maxBin; bin++ {
		if absInt(bin-fundamentalBin) <= captureBins {
			signalPower += magSquared[bin]
		} else {
			noisePower += magSquared[bin]
		}
	}

	res := Result{
		FundamentalFreq: float64(fundamentalBin) * binHz,
		SignalPower:     signalPower,
		NoisePower:      noisePower,
	}
	if signalPower > 0 {
		// Scale by window gain and transform size so the level reads in
		// dBFS of the tone amplitude.
		cg := window.CoherentGain(coeffs)
		amp := 2 * math.Sqrt(signalPower) / (float64(fftSize) * cg)
		res.SignalLeveldB = 20 * math.Log10(amp)
	} else {
		res.SignalLeveldB = math.Inf(-1)
	}
	if noisePower > 0 {
		res.SNRdB = 10 * math.Log10(signalPower/noisePower)
	} else {
		res.SNRdB = math.Inf(1)
	}
	return res, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
