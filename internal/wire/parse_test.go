package wire

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLineMarkers(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"START", MarkerStart},
		{"END", MarkerEnd},
		{"  START  ", MarkerStart},
		{"END\r", MarkerEnd},
		{"start", Malformed},
		{"STARTED", Malformed},
		{"", Malformed},
	}

	for _, tt := range tests {
		got := ParseLine(tt.in)
		if got.Kind != tt.want {
			t.Errorf("ParseLine(%q).Kind = %v, want %v", tt.in, got.Kind, tt.want)
		}
	}
}

func TestParseLineSample(t *testing.T) {
	line := "0.1,-0.2,9.81,0,0,0,1.5,2.5,-3.5,0.001,-0.002,100"
	got := ParseLine(line)
	if got.Kind != Sample {
		t.Fatalf("ParseLine(%q).Kind = %v, want Sample", line, got.Kind)
	}

	want := []float64{0.1, -0.2, 9.81, 0, 0, 0, 1.5, 2.5, -3.5, 0.001, -0.002, 100}
	if diff := cmp.Diff(want, got.Values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLineMalformed(t *testing.T) {
	tests := []string{
		"1,2,3",                          // too few tokens
		strings.Repeat("1,", 12) + "1",   // too many tokens
		"1,2,3,4,5,6,7,8,9,10,11,twelve", // non-numeric token
		"1,2,3,4,5,6,7,8,9,10,11,",       // trailing empty token
		"{\"clock\": 12}",                // stray JSON from another device
	}

	for _, in := range tests {
		if got := ParseLine(in); got.Kind != Malformed {
			t.Errorf("ParseLine(%q).Kind = %v, want Malformed", in, got.Kind)
		}
	}
}

// Sample values must survive a parse → format → parse round trip exactly.
func TestSampleRoundTrip(t *testing.T) {
	lines := []string{
		"0.1,-0.2,9.81,0,0,0,1.5,2.5,-3.5,0.001,-0.002,100",
		"1e-12,2.5e8,-0.000001,3.14159265358979,0,0,0,0,0,0,0,-1",
	}

	for _, line := range lines {
		first := ParseLine(line)
		if first.Kind != Sample {
			t.Fatalf("ParseLine(%q).Kind = %v, want Sample", line, first.Kind)
		}
		second := ParseLine(FormatSample(first.Values))
		if second.Kind != Sample {
			t.Fatalf("re-parse of %q failed", FormatSample(first.Values))
		}
		if diff := cmp.Diff(first.Values, second.Values); diff != "" {
			t.Errorf("round trip mismatch (-first +second):\n%s", diff)
		}
	}
}
