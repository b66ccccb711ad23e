package serialmux

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/airglyph/airglyph/internal/timeutil"
)

// MockSerialPort implements SerialPorter for dev mode.
type MockSerialPort struct {
	io.Reader
	writes bytes.Buffer
	mu     sync.Mutex
}

func (m *MockSerialPort) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes.Write(p)
}

func (m *MockSerialPort) Close() error { return nil }

// replayInterval matches the glove's 100 Hz sample rate.
const replayInterval = 10 * time.Millisecond

// NewMockSerialMux creates a SerialMux backed by a mock serial port that
// replays the given fixture bytes (complete START/sample/END gesture
// transcripts) at roughly the glove's line rate, looping forever. Commands
// written to the port are discarded.
func NewMockSerialMux(fixture []byte) *SerialMux[*MockSerialPort] {
	return NewMockSerialMuxClock(fixture, timeutil.RealClock{})
}

// NewMockSerialMuxClock is NewMockSerialMux with an injectable clock so
// tests can drive the replay deterministically.
func NewMockSerialMuxClock(fixture []byte, clock timeutil.Clock) *SerialMux[*MockSerialPort] {
	r, w := io.Pipe()

	mockPort := &MockSerialPort{Reader: r}

	lines := bytes.Split(bytes.TrimSpace(fixture), []byte("\n"))

	go func() {
		defer w.Close()
		ticker := clock.NewTicker(replayInterval)
		defer ticker.Stop()
		i := 0
		for range ticker.C() {
			line := append(lines[i%len(lines)], '\n')
			if _, err := w.Write(line); err != nil {
				return
			}
			i++
		}
	}()

	return NewSerialMux(mockPort)
}

// TestableSerialPort implements SerialPorter with configurable behaviour
// for tests: scripted read data, injectable errors, and deterministic
// blocking until data arrives or the port closes.
type TestableSerialPort struct {
	mu       sync.Mutex
	readCond *sync.Cond

	readBuf  bytes.Buffer
	writeBuf bytes.Buffer

	// ReadErr is returned by the next Read call if set, then cleared.
	ReadErr error
	// WriteErr is returned by the next Write call if set, then cleared.
	WriteErr error

	closed bool
}

// NewTestableSerialPort creates a new TestableSerialPort.
func NewTestableSerialPort() *TestableSerialPort {
	p := &TestableSerialPort{}
	p.readCond = sync.NewCond(&p.mu)
	return p
}

// FeedLine appends a line (newline-terminated) to the read buffer and
// wakes any blocked reader.
func (p *TestableSerialPort) FeedLine(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readBuf.WriteString(line)
	p.readBuf.WriteByte('\n')
	p.readCond.Broadcast()
}

// Read blocks until data is available or the port is closed.
func (p *TestableSerialPort) Read(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ReadErr != nil {
		err := p.ReadErr
		p.ReadErr = nil
		return 0, err
	}

	for !p.closed && p.readBuf.Len() == 0 {
		p.readCond.Wait()
	}
	if p.readBuf.Len() == 0 && p.closed {
		return 0, io.EOF
	}
	return p.readBuf.Read(buf)
}

// Write captures data written to the port.
func (p *TestableSerialPort) Write(buf []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.WriteErr != nil {
		err := p.WriteErr
		p.WriteErr = nil
		return 0, err
	}
	if p.closed {
		return 0, errors.New("serial port closed")
	}
	return p.writeBuf.Write(buf)
}

// Written returns everything written to the port so far.
func (p *TestableSerialPort) Written() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.writeBuf.String()
}

// Close marks the port closed and wakes blocked readers.
func (p *TestableSerialPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.readCond.Broadcast()
	return nil
}
