// Package frame assembles the decoded line stream into complete gesture
// recordings delimited by START/END marker pairs.
package frame

import "github.com/airglyph/airglyph/internal/wire"

// Assembler is the framing state machine. It consumes decoded lines one at
// a time, strictly in arrival order, and emits a raw sequence each time a
// recording completes. The zero value is ready to use (idle, empty buffer).
//
// Assembler is not safe for concurrent use; a single goroutine must own it
// for the lifetime of the stream.
type Assembler struct {
	recording bool
	buf       [][]float64
}

// Feed advances the state machine by one decoded line. It returns the
// completed raw sequence and true when the line was an END marker closing a
// recording with at least one accumulated sample. In every other case it
// returns nil, false.
//
// A START while already recording discards the partial buffer: the most
// recent START wins. An END with no accumulated samples discards the frame.
// An END while idle is ignored. Malformed lines never change state.
func (a *Assembler) Feed(line wire.Line) ([][]float64, bool) {
	switch line.Kind {
	case wire.MarkerStart:
		a.recording = true
		a.buf = nil

	case wire.MarkerEnd:
		if !a.recording {
			return nil, false
		}
		seq := a.buf
		a.recording = false
		a.buf = nil
		if len(seq) == 0 {
			return nil, false
		}
		return seq, true

	case wire.Sample:
		if a.recording {
			a.buf = append(a.buf, line.Values)
		}
	}
	return nil, false
}

// Recording reports whether the assembler is between a START and an END.
func (a *Assembler) Recording() bool { return a.recording }

// Buffered returns the number of samples accumulated since the last START.
func (a *Assembler) Buffered() int { return len(a.buf) }
