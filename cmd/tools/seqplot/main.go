// Command seqplot renders a category's recorded sequences as an ECharts
// line chart for visual inspection of the preprocessed signals.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/airglyph/airglyph/internal/dataset"
	"github.com/airglyph/airglyph/internal/fsutil"
	"github.com/airglyph/airglyph/internal/pipeline"
)

func main() {
	dir := flag.String("data", "imu_dataset", "dataset directory")
	category := flag.String("category", "", "category to plot")
	axis := flag.Int("axis", 0, "feature axis to plot (0-17)")
	maxSeqs := flag.Int("max", 20, "maximum sequences to plot")
	output := flag.String("o", "seqplot.html", "output HTML path")
	flag.Parse()

	if *category == "" {
		log.Fatal("seqplot requires -category")
	}
	if *axis < 0 || *axis >= pipeline.FeatureWidth {
		log.Fatalf("axis %d out of range (0-%d)", *axis, pipeline.FeatureWidth-1)
	}

	store := dataset.NewStore(&fsutil.OSFileSystem{}, *dir)
	n, err := store.Load(*category)
	if err != nil {
		log.Fatalf("failed to load category %s: %v", *category, err)
	}
	if n == 0 {
		log.Fatalf("category %s has no sequences in %s", *category, *dir)
	}

	seqs := store.Sequences(*category)
	if len(seqs) > *maxSeqs {
		seqs = seqs[:*maxSeqs]
	}

	longest := 0
	for _, seq := range seqs {
		if len(seq) > longest {
			longest = len(seq)
		}
	}
	xAxis := make([]string, longest)
	for i := range xAxis {
		xAxis[i] = strconv.Itoa(i)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: fmt.Sprintf("%s axis %d", *category, *axis),
			Width:     "1200px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Category %s", *category),
			Subtitle: fmt.Sprintf("axis=%d sequences=%d", *axis, len(seqs)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "timestep"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "normalized value"}),
	)
	line.SetXAxis(xAxis)

	for i, seq := range seqs {
		data := make([]opts.LineData, len(seq))
		for t, sample := range seq {
			data[t] = opts.LineData{Value: sample[*axis]}
		}
		line.AddSeries(fmt.Sprintf("seq %d", i), data)
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("failed to create %s: %v", *output, err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		log.Fatalf("failed to render chart: %v", err)
	}
	log.Printf("wrote %s (%d sequences)", *output, len(seqs))
}
