// Command gen-gestures generates synthetic gesture transcripts for dev
// mode and testing. Each gesture is a START line, a smooth 12-axis signal
// with noise, and an END line.
package main

import (
	"bufio"
	"flag"
	"log"
	"math"
	"math/rand"
	"os"

	"github.com/airglyph/airglyph/internal/wire"
)

func main() {
	output := flag.String("o", "fixtures.txt", "output path")
	gestures := flag.Int("n", 10, "number of gestures")
	minSteps := flag.Int("min", 40, "minimum timesteps per gesture")
	maxSteps := flag.Int("max", 120, "maximum timesteps per gesture")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	if *minSteps < 1 || *maxSteps < *minSteps {
		log.Fatalf("invalid timestep range [%d, %d]", *minSteps, *maxSteps)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rng := rand.New(rand.NewSource(*seed))

	for g := 0; g < *gestures; g++ {
		steps := *minSteps + rng.Intn(*maxSteps-*minSteps+1)

		// Each axis gets its own frequency and phase so the two IMUs
		// diverge and the relative-motion channels carry signal.
		freq := make([]float64, wire.SampleWidth)
		phase := make([]float64, wire.SampleWidth)
		amp := make([]float64, wire.SampleWidth)
		for a := range freq {
			freq[a] = 0.5 + 3*rng.Float64()
			phase[a] = 2 * math.Pi * rng.Float64()
			amp[a] = 0.5 + rng.Float64()
		}

		if _, err := w.WriteString("START\n"); err != nil {
			log.Fatalf("write failed: %v", err)
		}
		for t := 0; t < steps; t++ {
			values := make([]float64, wire.SampleWidth)
			progress := float64(t) / float64(steps)
			for a := range values {
				values[a] = amp[a]*math.Sin(2*math.Pi*freq[a]*progress+phase[a]) + 0.05*rng.NormFloat64()
			}
			if _, err := w.WriteString(wire.FormatSample(values) + "\n"); err != nil {
				log.Fatalf("write failed: %v", err)
			}
		}
		if _, err := w.WriteString("END\n"); err != nil {
			log.Fatalf("write failed: %v", err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("flush failed: %v", err)
	}
	log.Printf("wrote %d gestures to %s", *gestures, *output)
}
