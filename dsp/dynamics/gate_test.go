package dynamics

import (
	"testing"

	"github.com/cwbudde/algo-wdrc/dsp/fixed"
)

func testGateConfig() GateConfig {
	return GateConfig{
		Threshold:  0x100000,
		Reduction:  fixed.GainUnity / 16,
		EnvAttack:  fixed.CoeffOne,
		EnvRelease: fixed.CoeffOne,
		OpenCoeff:  fixed.CoeffOne / 4,
		CloseCoeff: fixed.CoeffOne / 256,
	}
}

func TestNewGate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*GateConfig)
	}{
		{"zero threshold", func(c *GateConfig) { c.Threshold = 0 }},
		{"negative threshold", func(c *GateConfig) { c.Threshold = -1 }},
		{"reduction above unity", func(c *GateConfig) { c.Reduction = fixed.GainUnity + 1 }},
		{"negative reduction", func(c *GateConfig) { c.Reduction = -1 }},
		{"zero open coeff", func(c *GateConfig) { c.OpenCoeff = 0 }},
		{"zero close coeff", func(c *GateConfig) { c.CloseCoeff = 0 }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := testGateConfig()
			c.mutate(&cfg)
			if _, err := NewGate(cfg); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestGate_StartsClosed(t *testing.T) {
	g, err := NewGate(testGateConfig())
	if err != nil {
		t.Fatal(err)
	}
	if g.Open() {
		t.Fatal("gate should start closed")
	}
	if g.Gain() != testGateConfig().Reduction {
		t.Fatalf("initial gain %d, want settled reduction %d", g.Gain(), testGateConfig().Reduction)
	}
}

func TestGate_OpensAboveHighThreshold(t *testing.T) {
	cfg := testGateConfig()
	g, err := NewGate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Exactly at the configured threshold: inside the hysteresis band,
	// must stay closed.
	g.ProcessSample(cfg.Threshold)
	if g.Open() {
		t.Fatal("gate opened inside hysteresis band")
	}

	// Above threshold + 1/8: opens.
	g.ProcessSample(cfg.Threshold + cfg.Threshold>>3 + 1)
	if !g.Open() {
		t.Fatal("gate did not open above the high threshold")
	}

	// Back inside the band: stays open.
	g.ProcessSample(cfg.Threshold)
	if !g.Open() {
		t.Fatal("gate closed inside hysteresis band")
	}

	// Below threshold - 1/8: closes.
	g.ProcessSample(cfg.Threshold - cfg.Threshold>>3 - 1)
	if g.Open() {
		t.Fatal("gate did not close below the low threshold")
	}
}

func TestGate_NoChattering(t *testing.T) {
	// An input hovering across the inner threshold but inside the
	// hysteresis band must not toggle the state at all over 10k ticks.
	cfg := testGateConfig()
	g, err := NewGate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	hyst := cfg.Threshold >> 3
	transitions := 0
	prev := g.Open()
	for i := 0; i < 10000; i++ {
		x := cfg.Threshold - hyst + 1
		if i%2 == 0 {
			x = cfg.Threshold + hyst
		}
		g.ProcessSample(x)
		if g.Open() != prev {
			transitions++
			prev = g.Open()
		}
	}
	if transitions != 0 {
		t.Fatalf("gate toggled %d times for input inside the hysteresis band", transitions)
	}

	// One excursion past each outer threshold gives exactly one toggle
	// each.
	g.ProcessSample(cfg.Threshold + hyst + 1)
	if !g.Open() {
		t.Fatal("gate did not open past the outer high threshold")
	}
	g.ProcessSample(cfg.Threshold - hyst - 1)
	if g.Open() {
		t.Fatal("gate did not close past the outer low threshold")
	}
}

func TestGate_GainSmoothsToUnity(t *testing.T) {
	cfg := testGateConfig()
	g, err := NewGate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	loud := fixed.Sample(0x400000)
	prev := g.Gain()
	for i := 0; i < 2000 && g.Gain() != fixed.GainUnity; i++ {
		g.ProcessSample(loud)
		if g.Gain() < prev {
			t.Fatalf("tick %d: opening gain moved backwards", i)
		}
		prev = g.Gain()
	}
	if g.Gain() != fixed.GainUnity {
		t.Fatalf("gain never settled at unity, got %d", g.Gain())
	}
}

func TestGate_ClosedAttenuates(t *testing.T) {
	cfg := testGateConfig()
	g, err := NewGate(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Quiet input keeps the gate closed; output is the reduction gain
	// applied exactly, since the gain starts settled.
	in := fixed.Sample(0x1000)
	out := g.ProcessSample(in)
	want := fixed.Sample((int64(in) * int64(cfg.Reduction)) >> fixed.GainFracBits)
	if out != want {
		t.Fatalf("closed output %d, want %d", out, want)
	}
}
