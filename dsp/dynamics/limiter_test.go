package dynamics

import (
	"testing"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

func testLimiterConfig() LimiterConfig {
	return LimiterConfig{
		Threshold: 0x400000,
		Ratio:     fixed.CoeffOne,
		Attack:    fixed.CoeffOne / 2,
		Release:   fixed.CoeffOne / 1024,
	}
}

func TestNewLimiter_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*LimiterConfig)
	}{
		{"zero threshold", func(c *LimiterConfig) { c.Threshold = 0 }},
		{"zero ratio", func(c *LimiterConfig) { c.Ratio = 0 }},
		{"ratio above one", func(c *LimiterConfig) { c.Ratio = fixed.CoeffOne + 1 }},
		{"zero attack", func(c *LimiterConfig) { c.Attack = 0 }},
		{"zero release", func(c *LimiterConfig) { c.Release = 0 }},
		{"negative lookahead", func(c *LimiterConfig) { c.Lookahead = -1 }},
		{"oversized lookahead", func(c *LimiterConfig) { c.Lookahead = maxLookahead + 1 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testLimiterConfig()
			c.mutate(&cfg)
			if _, err := NewLimiter(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLimiter_TransparentBelowThreshold(t *testing.T) {
	l, err := NewLimiter(testLimiterConfig())
	if err != nil {
		t.Fatal(err)
	}
	in := fixed.Sample(0x200000)
	for i := 0; i < 1000; i++ {
		if out := l.ProcessSample(in); out != in {
			t.Fatalf("tick %d: sub-threshold input altered: %d -> %d", i, in, out)
		}
		if l.Active() {
			t.Fatalf("tick %d: limiter active below threshold", i)
		}
	}
}

func TestLimiter_SteadyStateBound(t *testing.T) {
	cfg := testLimiterConfig()
	l, err := NewLimiter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Full-scale square input; after the attack settles, every output
	// magnitude must stay within 2 LSB of the threshold.
	x := fixed.Sample(fixed.SampleMax)
	for i := 0; i < 2000; i++ {
		l.ProcessSample(x)
		x = -x
	}
	for i := 0; i < 2000; i++ {
		out := l.ProcessSample(x)
		x = -x
		if fixed.Abs(out) > cfg.Threshold+2 {
			t.Fatalf("tick %d: output magnitude %d exceeds threshold %d by more than 2 LSB",
				i, fixed.Abs(out), cfg.Threshold)
		}
	}
	if !l.Active() {
		t.Fatal("limiter not active on sustained over-threshold input")
	}
}

func TestLimiter_RatioScalesCeiling(t *testing.T) {
	cfg := testLimiterConfig()
	cfg.Ratio = fixed.CoeffOne / 2
	l, err := NewLimiter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	x := fixed.Sample(fixed.SampleMax)
	var out fixed.Sample
	for i := 0; i < 4000; i++ {
		out = l.ProcessSample(x)
		x = -x
	}
	// Ceiling is threshold/2 for ratio 0.5.
	if got := fixed.Abs(out); got > cfg.Threshold/2+2 {
		t.Fatalf("output magnitude %d, want at most %d", got, cfg.Threshold/2+2)
	}
}

func TestLimiter_LookaheadDelaysSignal(t *testing.T) {
	cfg := testLimiterConfig()
	cfg.Lookahead = 8
	l, err := NewLimiter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if l.Latency() != 8 {
		t.Fatalf("latency: got %d want 8", l.Latency())
	}

	in := fixed.Sample(0x100000)
	for i := 0; i < 8; i++ {
		if out := l.ProcessSample(in); out != 0 {
			t.Fatalf("tick %d: expected silence from the lookahead buffer, got %d", i, out)
		}
	}
	if out := l.ProcessSample(in); out != in {
		t.Fatalf("delayed sample: got %d want %d", out, in)
	}
}

func TestLimiter_LookaheadEngagesBeforePeak(t *testing.T) {
	cfg := testLimiterConfig()
	cfg.Lookahead = 8
	l, err := NewLimiter(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Feed one over-threshold peak. The gain must already be reduced when
	// the peak emerges from the delay line.
	l.ProcessSample(fixed.SampleMax)
	if !l.Active() {
		t.Fatal("limiter gain did not engage on peak entry")
	}
	var out fixed.Sample
	for i := 0; i < 8; i++ {
		out = l.ProcessSample(0)
	}
	if fixed.Abs(out) >= fixed.SampleMax {
		t.Fatal("peak left the delay line without gain reduction")
	}
}

func TestLimiter_HardClipUnderGainError(t *testing.T) {
	// Even at unity gain the output path saturates, so nothing can exceed
	// the representable range.
	l, err := NewLimiter(testLimiterConfig())
	if err != nil {
		t.Fatal(err)
	}
	out := l.ProcessSample(fixed.SampleMax)
	if out < fixed.SampleMin || out > fixed.SampleMax {
		t.Fatalf("output %d out of range", out)
	}
}

func TestLimiter_Reset(t *testing.T) {
	cfg := testLimiterConfig()
	cfg.Lookahead = 4
	l, err := NewLimiter(cfg)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 100; i++ {
		l.ProcessSample(fixed.SampleMax)
	}
	l.Reset()
	if l.Gain() != fixed.GainUnity {
		t.Fatalf("gain after reset: got %d want unity", l.Gain())
	}
	if l.Active() {
		t.Fatal("limiter active after reset")
	}
	if out := l.ProcessSample(0x100000); out != 0 {
		t.Fatalf("lookahead buffer not cleared, got %d", out)
	}
}
