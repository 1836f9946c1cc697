// Command wdrcsim runs the hearing-compensation pipeline over a WAV file.
//
// Usage:
//
//	wdrcsim -o out.wav in.wav
//	wdrcsim --crossovers 250,1000,4000 --threshold -40 --ratio 3 -o out.wav in.wav
//	wdrcsim --status --snr -o out.wav in.wav
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-wdrc/dsp/dynamics"
	"github.com/cwbudde/algo-wdrc/dsp/fixed"
	"github.com/cwbudde/algo-wdrc/dsp/pipeline"
	"github.com/cwbudde/algo-wdrc/measure/snr"
	timestats "github.com/cwbudde/algo-wdrc/stats/time"
)

var version = "0.1.0"

// CLI defines the command-line interface.
type CLI struct {
	Version bool   `short:"v" help:"Show version information"`
	Output  string `short:"o" required:"" help:"Output WAV file" type:"path"`
	Input   string `arg:"" name:"input" help:"Input WAV file" type:"existingfile"`

	Crossovers []float64 `default:"250,1000,4000" help:"Crossover frequencies in Hz, ascending"`
	Threshold  float64   `default:"-40" help:"Compression threshold in dBFS, all bands"`
	Ratio      float64   `default:"3" help:"Compression ratio, all bands"`
	Makeup     float64   `default:"0" help:"Makeup gain in dB, all bands"`
	Attack     float64   `default:"5" help:"Compressor attack time in ms"`
	Release    float64   `default:"50" help:"Compressor release time in ms"`

	GateThreshold  float64 `default:"-60" help:"Gate threshold in dBFS"`
	GateReduction  float64 `default:"-36" help:"Gate closed gain in dB"`
	LimitThreshold float64 `default:"-1" help:"Limiter threshold in dBFS"`
	Lookahead      int     `default:"16" help:"Limiter lookahead in samples"`

	Status bool `help:"Print saturation counters and component state after processing"`
	SNR    bool `help:"Measure output SNR via FFT analysis"`
}

func main() {
	cliArgs := &CLI{}
	ctx := kong.Parse(cliArgs,
		kong.Name("wdrcsim"),
		kong.Description("Multiband WDRC hearing-compensation simulator"),
		kong.UsageOnError(),
	)

	if cliArgs.Version {
		fmt.Printf("wdrcsim %s\n", version)
		os.Exit(0)
	}

	ctx.FatalIfErrorf(run(cliArgs))
}

func run(cliArgs *CLI) error {
	in, err := os.Open(cliArgs.Input)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("decode %s: %w", cliArgs.Input, err)
	}
	if buf.Format == nil || len(buf.Data) == 0 {
		return fmt.Errorf("decode %s: empty or malformed file", cliArgs.Input)
	}

	bitDepth := int(dec.BitDepth)
	channels := buf.Format.NumChannels
	sampleRate := float64(buf.Format.SampleRate)

	cfg, err := buildConfig(cliArgs, sampleRate)
	if err != nil {
		return err
	}

	// One pipeline instance per channel; channel state never mixes.
	pipes := make([]*pipeline.Pipeline, channels)
	for ch := range pipes {
		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		pipes[ch] = p
	}

	frames := len(buf.Data) / channels
	input := make([]fixed.Sample, 0, frames)
	processed := make([]fixed.Sample, 0, frames)
	for i, v := range buf.Data {
		x := sampleFromPCM(v, bitDepth)
		s := pipes[i%channels].ProcessSample(x)
		buf.Data[i] = pcmFromSample(s, bitDepth)
		if i%channels == 0 {
			input = append(input, x)
			processed = append(processed, s)
		}
	}

	if err := writeWAV(cliArgs.Output, buf, bitDepth); err != nil {
		return err
	}

	if cliArgs.Status {
		inStats := timestats.Calculate(input)
		outStats := timestats.Calculate(processed)
		fmt.Printf("input:  peak %.2f dBFS  rms %.2f dBFS\n", inStats.PeakdB, inStats.RMSdB)
		fmt.Printf("output: peak %.2f dBFS  rms %.2f dBFS\n", outStats.PeakdB, outStats.RMSdB)
		printStatus(os.Stdout, pipes)
	}
	if cliArgs.SNR {
		res, err := snr.Analyze(processed, snr.Config{SampleRate: sampleRate})
		if err != nil {
			return err
		}
		fmt.Printf("fundamental %.1f Hz  level %.2f dBFS  SNR %.1f dB\n",
			res.FundamentalFreq, res.SignalLeveldB, res.SNRdB)
	}
	return nil
}

func buildConfig(cliArgs *CLI, sampleRate float64) (pipeline.Config, error) {
	envAttack, err := dynamics.CoeffForTime(cliArgs.Attack/1000, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	envRelease, err := dynamics.CoeffForTime(cliArgs.Release/1000, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	gainAttack, err := dynamics.CoeffForTime(2*cliArgs.Attack/1000, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	gainRelease, err := dynamics.CoeffForTime(2*cliArgs.Release/1000, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}

	band := dynamics.CompressorConfig{
		Threshold:   dynamics.LevelFromDB(cliArgs.Threshold),
		Ratio:       cliArgs.Ratio,
		Makeup:      dynamics.LevelFromDB(cliArgs.Makeup),
		EnvAttack:   envAttack,
		EnvRelease:  envRelease,
		GainAttack:  gainAttack,
		GainRelease: gainRelease,
	}
	bands := make([]dynamics.CompressorConfig, len(cliArgs.Crossovers)+1)
	for i := range bands {
		bands[i] = band
	}

	gateAttack, err := dynamics.CoeffForTime(0.001, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	gateRelease, err := dynamics.CoeffForTime(0.100, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	limAttack, err := dynamics.CoeffForTime(0.0005, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}
	limRelease, err := dynamics.CoeffForTime(0.200, sampleRate)
	if err != nil {
		return pipeline.Config{}, err
	}

	return pipeline.Config{
		SampleRate:     sampleRate,
		CrossoverFreqs: cliArgs.Crossovers,
		Bands:          bands,
		Gate: dynamics.GateConfig{
			Threshold:  magnitudeFromDB(cliArgs.GateThreshold),
			Reduction:  dynamics.GainFromDB(cliArgs.GateReduction),
			EnvAttack:  gateAttack,
			EnvRelease: gateRelease,
			OpenCoeff:  gateAttack,
			CloseCoeff: gateRelease,
		},
		Limiter: dynamics.LimiterConfig{
			Threshold: magnitudeFromDB(cliArgs.LimitThreshold),
			Ratio:     fixed.CoeffOne,
			Attack:    limAttack,
			Release:   limRelease,
			Lookahead: cliArgs.Lookahead,
		},
	}, nil
}

// magnitudeFromDB converts a dBFS value to a linear Q1.23 magnitude.
func magnitudeFromDB(db float64) fixed.Sample {
	g := dynamics.GainFromDB(db)
	return fixed.Sample(fixed.Clamp(int64(g)>>1, 0, int64(fixed.SampleMax)))
}

// sampleFromPCM converts an integer PCM sample of the given bit depth to
// Q1.23.
func sampleFromPCM(v, bitDepth int) fixed.Sample {
	switch {
	case bitDepth < fixed.SampleFracBits+1:
		return fixed.Sample(v << (fixed.SampleFracBits + 1 - bitDepth))
	case bitDepth > fixed.SampleFracBits+1:
		return fixed.Sample(v >> (bitDepth - fixed.SampleFracBits - 1))
	default:
		return fixed.Sample(v)
	}
}

// pcmFromSample converts a Q1.23 sample back to integer PCM of the given
// bit depth.
func pcmFromSample(s fixed.Sample, bitDepth int) int {
	switch {
	case bitDepth < fixed.SampleFracBits+1:
		return int(s >> (fixed.SampleFracBits + 1 - bitDepth))
	case bitDepth > fixed.SampleFracBits+1:
		return int(s) << (bitDepth - fixed.SampleFracBits - 1)
	default:
		return int(s)
	}
}

func writeWAV(path string, buf *audio.IntBuffer, bitDepth int) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	enc := wav.NewEncoder(out, buf.Format.SampleRate, bitDepth, buf.Format.NumChannels, 1)
	if err := enc.Write(buf); err != nil {
		out.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func printStatus(w *os.File, pipes []*pipeline.Pipeline) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "channel\tcrossover\tbands\tsum\tgate\tlimiter\tgate open\tlimiting")
	for ch, p := range pipes {
		st := p.Status()
		bandCounts := make([]string, len(st.BandSaturations))
		for i, n := range st.BandSaturations {
			bandCounts[i] = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%v\t%v\n",
			ch, st.CrossoverSaturations, strings.Join(bandCounts, "/"),
			st.SumSaturations, st.GateSaturations, st.LimiterSaturations,
			st.GateOpen, st.LimiterActive)
	}
	tw.Flush()
}
