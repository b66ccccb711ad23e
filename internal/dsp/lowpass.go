// Package dsp provides the zero-phase low-pass filtering used to smooth
// recorded IMU sequences before feature extraction.
//
// The filter is applied post-hoc to a complete recording, not sample by
// sample: each axis is run forward and then backward through the same
// Butterworth sections so the output has no net time shift relative to the
// input. Boundary transients are suppressed by extending the sequence with
// odd-reflected padding and seeding each pass with the filter's steady-state
// response to the first padded sample.
package dsp

import (
	"fmt"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
)

// transientLen is the per-edge padding length for one second-order section,
// three times the section's coefficient count.
const transientLen = 9

// LowPass is a zero-phase Butterworth low-pass filter for fixed-rate
// sequences. It is stateless across calls and safe to reuse.
type LowPass struct {
	sections []biquad.Coefficients
}

// NewLowPass designs a Butterworth low-pass of the given order with cutoff
// and sampling rate in Hz. The cutoff must sit below the Nyquist rate.
func NewLowPass(cutoffHz float64, order int, sampleRateHz float64) (*LowPass, error) {
	sections := pass.ButterworthLP(cutoffHz, order, sampleRateHz)
	if sections == nil {
		return nil, fmt.Errorf("dsp: invalid low-pass design (cutoff %g Hz, order %d, rate %g Hz)",
			cutoffHz, order, sampleRateHz)
	}
	return &LowPass{sections: sections}, nil
}

// Apply filters x with zero phase and returns a new slice of the same
// length. The input is not modified. Sequences shorter than the filter's
// settling length are handled by clamping the edge padding to len(x)-1;
// very short inputs therefore degrade gracefully rather than erroring.
func (lp *LowPass) Apply(x []float64) []float64 {
	if len(x) == 0 {
		return nil
	}

	out := make([]float64, len(x))
	copy(out, x)
	if len(x) == 1 {
		// A single sample has no transient to remove; the zero-phase
		// response of a unity-DC-gain low-pass is the sample itself.
		return out
	}

	for _, c := range lp.sections {
		out = filtFilt(c, out)
	}
	return out
}

// filtFilt runs one forward and one backward pass of a single biquad
// section over x, with odd-reflection padding at both edges.
func filtFilt(c biquad.Coefficients, x []float64) []float64 {
	pad := transientLen
	if pad > len(x)-1 {
		pad = len(x) - 1
	}

	ext := oddExtend(x, pad)

	sec := biquad.NewSection(c)
	zi := steadyState(c)

	// Forward pass.
	sec.SetState([2]float64{zi[0] * ext[0], zi[1] * ext[0]})
	sec.ProcessBlock(ext)

	// Backward pass with the same coefficients.
	reverse(ext)
	sec.SetState([2]float64{zi[0] * ext[0], zi[1] * ext[0]})
	sec.ProcessBlock(ext)
	reverse(ext)

	return ext[pad : pad+len(x)]
}

// oddExtend returns x with pad samples of odd (point-reflected) extension
// on each side: ext[i] = 2*x[0] - x[pad-i] before the sequence and the
// mirror image after it.
func oddExtend(x []float64, pad int) []float64 {
	ext := make([]float64, pad+len(x)+pad)
	for i := 0; i < pad; i++ {
		ext[i] = 2*x[0] - x[pad-i]
	}
	copy(ext[pad:], x)
	last := len(x) - 1
	for i := 0; i < pad; i++ {
		ext[pad+len(x)+i] = 2*x[last] - x[last-1-i]
	}
	return ext
}

// steadyState returns the Direct Form II Transposed state that makes the
// section's response to a constant unit input constant from the first
// output sample. Scaling it by the first input sample removes the startup
// transient of each pass.
func steadyState(c biquad.Coefficients) [2]float64 {
	// DC gain of the section; the denominator cannot vanish for a stable
	// low-pass design.
	k := (c.B0 + c.B1 + c.B2) / (1 + c.A1 + c.A2)
	return [2]float64{k - c.B0, c.B2 - c.A2*k}
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
