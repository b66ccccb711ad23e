package dataset

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/airglyph/airglyph/internal/fsutil"
)

func TestCombine(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeCategory(t, fs, "B", [][][]float64{seq(2)})
	writeCategory(t, fs, "A", [][][]float64{seq(1), seq(3)})
	require.NoError(t, fs.WriteFile("dataset/readme.md", []byte("skip"), 0644))

	combined, err := Combine(fs, "dataset")
	require.NoError(t, err)

	require.Equal(t, 3, combined.Metadata.NumSamples)
	require.Equal(t, []string{"A", "B"}, combined.Metadata.Categories)
	require.Equal(t, map[string]int{"A": 2, "B": 1}, combined.Metadata.SamplesPerCategory)

	require.Len(t, combined.Data, 3)
	for _, rec := range combined.Data {
		require.Equal(t, len(rec.Sequence), rec.SequenceLength)
	}
	// Per-file sequence order is preserved.
	require.Equal(t, "A", combined.Data[0].Category)
	require.Equal(t, seq(1), combined.Data[0].Sequence)
	require.Equal(t, seq(3), combined.Data[1].Sequence)
}

func TestCombineEmptyDir(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	require.NoError(t, fs.MkdirAll("dataset", 0755))

	combined, err := Combine(fs, "dataset")
	require.NoError(t, err)
	require.Equal(t, 0, combined.Metadata.NumSamples)
	require.Empty(t, combined.Data)
}

func TestWriteCombined(t *testing.T) {
	fs := fsutil.NewMemoryFileSystem()
	writeCategory(t, fs, "A", [][][]float64{seq(1)})

	combined, err := Combine(fs, "dataset")
	require.NoError(t, err)
	require.NoError(t, WriteCombined(fs, "combined.json", combined))

	data, err := fs.ReadFile("combined.json")
	require.NoError(t, err)

	var decoded Combined
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, combined.Metadata, decoded.Metadata)
	require.Len(t, decoded.Data, 1)
}
