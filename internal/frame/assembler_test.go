package frame

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/airglyph/airglyph/internal/wire"
)

func sampleLine(first float64) wire.Line {
	values := make([]float64, wire.SampleWidth)
	values[0] = first
	return wire.Line{Kind: wire.Sample, Values: values}
}

func feedAll(t *testing.T, a *Assembler, lines []wire.Line) [][][]float64 {
	t.Helper()
	var emitted [][][]float64
	for _, l := range lines {
		if seq, ok := a.Feed(l); ok {
			emitted = append(emitted, seq)
		}
	}
	return emitted
}

func TestSingleFrame(t *testing.T) {
	const n = 5
	lines := []wire.Line{{Kind: wire.MarkerStart}}
	for i := 0; i < n; i++ {
		lines = append(lines, sampleLine(float64(i)))
	}
	lines = append(lines, wire.Line{Kind: wire.MarkerEnd})

	var a Assembler
	emitted := feedAll(t, &a, lines)

	if len(emitted) != 1 {
		t.Fatalf("emitted %d frames, want 1", len(emitted))
	}
	if len(emitted[0]) != n {
		t.Fatalf("frame length = %d, want %d", len(emitted[0]), n)
	}
	for i, sample := range emitted[0] {
		if sample[0] != float64(i) {
			t.Errorf("sample %d out of order: first value = %v, want %d", i, sample[0], i)
		}
	}
}

func TestRestartDiscardsPartialBuffer(t *testing.T) {
	var a Assembler
	emitted := feedAll(t, &a, []wire.Line{
		{Kind: wire.MarkerStart},
		sampleLine(1),
		sampleLine(2),
		{Kind: wire.MarkerStart}, // fresh START wins
		sampleLine(3),
		{Kind: wire.MarkerEnd},
	})

	if len(emitted) != 1 {
		t.Fatalf("emitted %d frames, want 1", len(emitted))
	}
	want := [][]float64{sampleLine(3).Values}
	if diff := cmp.Diff(want, emitted[0]); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyFrameDiscarded(t *testing.T) {
	var a Assembler
	emitted := feedAll(t, &a, []wire.Line{
		{Kind: wire.MarkerStart},
		{Kind: wire.MarkerEnd},
	})
	if len(emitted) != 0 {
		t.Fatalf("emitted %d frames, want 0", len(emitted))
	}
	if a.Recording() {
		t.Error("assembler still recording after END")
	}
}

func TestStrayEndIgnored(t *testing.T) {
	var a Assembler
	if _, ok := a.Feed(wire.Line{Kind: wire.MarkerEnd}); ok {
		t.Fatal("stray END emitted a frame")
	}
	if a.Recording() {
		t.Error("stray END started a recording")
	}

	// A normal frame still works afterwards.
	emitted := feedAll(t, &a, []wire.Line{
		{Kind: wire.MarkerStart},
		sampleLine(7),
		{Kind: wire.MarkerEnd},
	})
	if len(emitted) != 1 {
		t.Fatalf("emitted %d frames after stray END, want 1", len(emitted))
	}
}

func TestMalformedLinesDropped(t *testing.T) {
	var a Assembler
	emitted := feedAll(t, &a, []wire.Line{
		{Kind: wire.MarkerStart},
		sampleLine(1),
		{Kind: wire.Malformed}, // dropped, does not corrupt the frame
		sampleLine(2),
		{Kind: wire.MarkerEnd},
	})

	if len(emitted) != 1 {
		t.Fatalf("emitted %d frames, want 1", len(emitted))
	}
	if len(emitted[0]) != 2 {
		t.Errorf("frame length = %d, want 2", len(emitted[0]))
	}
}

func TestSamplesOutsideRecordingIgnored(t *testing.T) {
	var a Assembler
	if _, ok := a.Feed(sampleLine(9)); ok {
		t.Fatal("sample outside a recording emitted a frame")
	}
	if a.Buffered() != 0 {
		t.Errorf("Buffered() = %d, want 0", a.Buffered())
	}
}

func TestConsecutiveFrames(t *testing.T) {
	var lines []wire.Line
	for f := 0; f < 3; f++ {
		lines = append(lines, wire.Line{Kind: wire.MarkerStart})
		for i := 0; i <= f; i++ {
			lines = append(lines, sampleLine(float64(f*10+i)))
		}
		lines = append(lines, wire.Line{Kind: wire.MarkerEnd})
	}

	var a Assembler
	emitted := feedAll(t, &a, lines)
	if len(emitted) != 3 {
		t.Fatalf("emitted %d frames, want 3", len(emitted))
	}
	for f, seq := range emitted {
		if len(seq) != f+1 {
			t.Errorf("frame %d length = %d, want %d", f, len(seq), f+1)
		}
	}
}

func Example() {
	var a Assembler
	a.Feed(wire.ParseLine("START"))
	a.Feed(wire.ParseLine("1,2,3,4,5,6,7,8,9,10,11,12"))
	seq, ok := a.Feed(wire.ParseLine("END"))
	fmt.Println(ok, len(seq))
	// Output: true 1
}
