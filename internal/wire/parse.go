// Package wire decodes the line protocol spoken by the dual-IMU glove.
//
// The device emits newline-delimited UTF-8 text: a bare "START" or "END"
// marker bracketing each gesture, and between them comma-separated sample
// lines carrying twelve floating-point axis values (accel x/y/z and gyro
// x/y/z for each of the two IMUs).
package wire

import (
	"strconv"
	"strings"
)

// SampleWidth is the number of axis values on a well-formed sample line:
// six axes from IMU-1 followed by six axes from IMU-2.
const SampleWidth = 12

// Kind classifies a decoded line.
type Kind int

const (
	// Malformed is any line that is neither a marker nor a valid sample.
	// Callers skip these; a bad line never aborts the stream.
	Malformed Kind = iota
	// MarkerStart is the "START" gesture delimiter.
	MarkerStart
	// MarkerEnd is the "END" gesture delimiter.
	MarkerEnd
	// Sample is a line of exactly SampleWidth numeric values.
	Sample
)

// Line is one decoded line from the device stream.
type Line struct {
	Kind   Kind
	Values []float64 // populated only when Kind == Sample
}

// ParseLine classifies a single raw line. Leading and trailing whitespace
// (including the CR left behind by CRLF transports) is trimmed before
// classification. Parsing is pure and has no side effects.
func ParseLine(raw string) Line {
	line := strings.TrimSpace(raw)

	switch line {
	case "START":
		return Line{Kind: MarkerStart}
	case "END":
		return Line{Kind: MarkerEnd}
	}

	tokens := strings.Split(line, ",")
	if len(tokens) != SampleWidth {
		return Line{Kind: Malformed}
	}

	values := make([]float64, SampleWidth)
	for i, tok := range tokens {
		v, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			return Line{Kind: Malformed}
		}
		values[i] = v
	}
	return Line{Kind: Sample, Values: values}
}

// FormatSample renders axis values back into the device's sample line
// format. ParseLine(FormatSample(v)) yields v exactly: values are printed
// with the shortest representation that round-trips a float64.
func FormatSample(values []float64) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return b.String()
}
