// Command combine merges the per-category dataset files into a single
// training artifact with metadata.
package main

import (
	"flag"
	"log"

	"github.com/airglyph/airglyph/internal/dataset"
	"github.com/airglyph/airglyph/internal/fsutil"
)

func main() {
	dir := flag.String("data", "imu_dataset", "dataset directory")
	output := flag.String("o", "combined_dataset.json", "output path")
	flag.Parse()

	fs := &fsutil.OSFileSystem{}

	combined, err := dataset.Combine(fs, *dir)
	if err != nil {
		log.Fatalf("failed to combine dataset: %v", err)
	}

	if err := dataset.WriteCombined(fs, *output, combined); err != nil {
		log.Fatalf("failed to write combined dataset: %v", err)
	}

	meta := combined.Metadata
	log.Printf("wrote %s: %d sequences across %d categories", *output, meta.NumSamples, len(meta.Categories))
	for _, c := range meta.Categories {
		log.Printf("  %-12s %d", c, meta.SamplesPerCategory[c])
	}
}
