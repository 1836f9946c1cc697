package design

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

// response evaluates the float-domain transfer function at freq.
func response(c Coefficients, freq, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
	den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2

	return num / den
}

func TestLowpass_Response(t *testing.T) {
	c := Lowpass(1000, 0, 48000)

	// DC passes at unity, Nyquist is strongly attenuated.
	dc := cmplx.Abs(response(c, 1e-6, 48000))
	if math.Abs(dc-1) > 1e-6 {
		t.Errorf("DC gain = %v, want 1", dc)
	}

	ny := cmplx.Abs(response(c, 23999, 48000))
	if ny > 1e-3 {
		t.Errorf("near-Nyquist gain = %v, want ~0", ny)
	}
}

func TestHighpass_Response(t *testing.T) {
	c := Highpass(1000, 0, 48000)

	dc := cmplx.Abs(response(c, 1e-6, 48000))
	if dc > 1e-6 {
		t.Errorf("DC gain = %v, want ~0", dc)
	}

	ny := cmplx.Abs(response(c, 23999, 48000))
	if math.Abs(ny-1) > 1e-3 {
		t.Errorf("near-Nyquist gain = %v, want 1", ny)
	}
}

func TestDesign_InvalidParameters(t *testing.T) {
	tests := []struct {
		name string
		freq float64
		sr   float64
	}{
		{"zero freq", 0, 48000},
		{"negative freq", -100, 48000},
		{"freq at Nyquist", 24000, 48000},
		{"zero sample rate", 1000, 0},
	}
	for _, tt := range tests {
		if c := Lowpass(tt.freq, 0, tt.sr); c != (Coefficients{}) {
			t.Errorf("%s: Lowpass returned non-zero coefficients", tt.name)
		}

		if lr := LinkwitzRileyLP(tt.freq, tt.sr); lr != nil {
			t.Errorf("%s: LinkwitzRileyLP returned non-nil", tt.name)
		}
	}
}

func TestLinkwitzRiley_AllpassSum(t *testing.T) {
	sr := 48000.0

	for _, freq := range []float64{200, 1000, 4000} {
		lp := LinkwitzRileyLP(freq, sr)
		hp := LinkwitzRileyHP(freq, sr)

		if len(lp) != 2 || len(hp) != 2 {
			t.Fatalf("freq %.0f: expected 2 sections per half", freq)
		}

		for _, f := range []float64{50, 200, 500, 1000, 2000, 8000, 20000} {
			lpH := response(lp[0], f, sr) * response(lp[1], f, sr)
			hpH := response(hp[0], f, sr) * response(hp[1], f, sr)

			sum := 20 * math.Log10(cmplx.Abs(lpH+hpH))
			if math.Abs(sum) > 0.05 {
				t.Errorf("freq %.0f Hz crossover, probe %.0f Hz: sum %.4f dB, want 0", freq, f, sum)
			}
		}
	}
}

func TestQuantize_RoundTrip(t *testing.T) {
	c := Lowpass(1000, 0, 48000)

	q, err := c.Quantize()
	if err != nil {
		t.Fatal(err)
	}

	step := 1.0 / float64(int64(1)<<fixed.CoeffFracBits)
	pairs := []struct {
		name  string
		f     float64
		fixed fixed.Coeff
	}{
		{"b0", c.B0, q.B0},
		{"b1", c.B1, q.B1},
		{"b2", c.B2, q.B2},
		{"a1", c.A1, q.A1},
		{"a2", c.A2, q.A2},
	}
	for _, p := range pairs {
		if diff := math.Abs(fixed.CoeffToFloat(p.fixed) - p.f); diff > step {
			t.Errorf("%s: quantization error %v exceeds one Q2.30 step", p.name, diff)
		}
	}
}

func TestQuantize_RejectsOutOfRange(t *testing.T) {
	tests := []Coefficients{
		{B0: 2.0},
		{A1: -2.5},
		{B2: math.NaN()},
		{A2: math.Inf(1)},
	}
	for i, c := range tests {
		if _, err := c.Quantize(); err == nil {
			t.Errorf("case %d: expected error, got nil", i)
		}
	}
}

func TestQuantizeAll_ReportsSection(t *testing.T) {
	_, err := QuantizeAll([]Coefficients{{B0: 1}, {B0: 3}})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestInvert(t *testing.T) {
	c := Lowpass(1000, 0, 48000)
	inv := c.Invert()

	if inv.B0 != -c.B0 || inv.B1 != -c.B1 || inv.B2 != -c.B2 {
		t.Error("numerator not negated")
	}

	if inv.A1 != c.A1 || inv.A2 != c.A2 {
		t.Error("denominator must be unchanged")
	}
}
