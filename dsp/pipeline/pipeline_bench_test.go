package pipeline

import (
	"testing"

	"github.com/cwbudde/algo-wdrc/internal/testutil"
)

func BenchmarkProcessSample(b *testing.B) {
	p, err := New(testConfig())
	if err != nil {
		b.Fatal(err)
	}
	in := testutil.Noise(1, 0.5, 4096)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessSample(in[i%len(in)])
	}
}

func BenchmarkProcess_Block(b *testing.B) {
	p, err := New(testConfig())
	if err != nil {
		b.Fatal(err)
	}
	buf := testutil.Noise(2, 0.5, 4096)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.Process(buf)
	}
}
