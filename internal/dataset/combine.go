package dataset

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/airglyph/airglyph/internal/fsutil"
)

// CombinedRecord is one labeled sequence in the combined dataset artifact.
type CombinedRecord struct {
	Category       string      `json:"category"`
	Sequence       [][]float64 `json:"sequence"`
	SequenceLength int         `json:"sequence_length"`
}

// CombinedMetadata summarizes the combined dataset.
type CombinedMetadata struct {
	NumSamples         int            `json:"num_samples"`
	Categories         []string       `json:"categories"`
	SamplesPerCategory map[string]int `json:"samples_per_category"`
}

// Combined is the single-file training artifact built from the per-category
// dataset files. Training tooling consumes it directly.
type Combined struct {
	Data     []CombinedRecord `json:"data"`
	Metadata CombinedMetadata `json:"metadata"`
}

// Combine reads every category file under dir and assembles the combined
// dataset artifact. Categories appear in sorted order, and sequences keep
// their per-file order.
func Combine(fs fsutil.FileSystem, dir string) (*Combined, error) {
	entries, err := fs.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("dataset: list %s: %w", dir, err)
	}

	combined := &Combined{
		Data: []CombinedRecord{},
		Metadata: CombinedMetadata{
			Categories:         []string{},
			SamplesPerCategory: make(map[string]int),
		},
	}

	store := NewStore(fs, dir)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		category := strings.TrimSuffix(e.Name(), ".json")

		seqs, err := store.readCategory(category)
		if err != nil {
			return nil, err
		}

		for _, s := range seqs {
			combined.Data = append(combined.Data, CombinedRecord{
				Category:       category,
				Sequence:       s,
				SequenceLength: len(s),
			})
		}
		combined.Metadata.Categories = append(combined.Metadata.Categories, category)
		combined.Metadata.SamplesPerCategory[category] = len(seqs)
		combined.Metadata.NumSamples += len(seqs)
	}

	sort.Strings(combined.Metadata.Categories)
	return combined, nil
}

// WriteCombined serializes the combined artifact to path.
func WriteCombined(fs fsutil.FileSystem, path string, combined *Combined) error {
	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		return fmt.Errorf("dataset: encode combined artifact: %w", err)
	}
	if err := fs.WriteFile(path, data, os.FileMode(0644)); err != nil {
		return fmt.Errorf("dataset: write %s: %w", path, err)
	}
	return nil
}
