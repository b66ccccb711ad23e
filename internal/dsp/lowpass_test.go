package dsp

import (
	"math"
	"testing"
)

func newTestFilter(t *testing.T) *LowPass {
	t.Helper()
	lp, err := NewLowPass(20, 2, 100)
	if err != nil {
		t.Fatalf("NewLowPass: %v", err)
	}
	return lp
}

func TestNewLowPassRejectsBadDesign(t *testing.T) {
	tests := []struct {
		name       string
		cutoff     float64
		order      int
		sampleRate float64
	}{
		{"zero order", 20, 0, 100},
		{"cutoff at nyquist", 50, 2, 100},
		{"negative cutoff", -1, 2, 100},
		{"zero sample rate", 20, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewLowPass(tt.cutoff, tt.order, tt.sampleRate); err == nil {
				t.Error("expected design error, got nil")
			}
		})
	}
}

func TestApplyPreservesLength(t *testing.T) {
	lp := newTestFilter(t)
	for _, n := range []int{1, 2, 3, 5, 9, 10, 50, 500} {
		x := make([]float64, n)
		for i := range x {
			x[i] = math.Sin(float64(i) / 3)
		}
		got := lp.Apply(x)
		if len(got) != n {
			t.Errorf("len(Apply(x)) = %d for n=%d, want %d", len(got), n, n)
		}
	}
}

func TestApplyEmpty(t *testing.T) {
	lp := newTestFilter(t)
	if got := lp.Apply(nil); got != nil {
		t.Errorf("Apply(nil) = %v, want nil", got)
	}
}

func TestApplyDoesNotModifyInput(t *testing.T) {
	lp := newTestFilter(t)
	x := []float64{1, 4, 2, 8, 5, 7, 1, 0, 3, 6, 2, 9}
	orig := append([]float64(nil), x...)
	lp.Apply(x)
	for i := range x {
		if x[i] != orig[i] {
			t.Fatalf("input modified at %d: %v != %v", i, x[i], orig[i])
		}
	}
}

// A constant signal is a DC input; a unity-DC-gain low-pass with proper
// initial conditions must return it unchanged, edges included.
func TestApplyConstantSignal(t *testing.T) {
	lp := newTestFilter(t)
	x := make([]float64, 40)
	for i := range x {
		x[i] = 3.25
	}
	got := lp.Apply(x)
	for i, v := range got {
		if math.Abs(v-3.25) > 1e-9 {
			t.Fatalf("constant signal distorted at %d: got %v", i, v)
		}
	}
}

// Zero phase: filtering a symmetric signal must yield a symmetric result.
func TestApplyZeroPhaseSymmetry(t *testing.T) {
	lp := newTestFilter(t)
	const n = 101
	x := make([]float64, n)
	for i := range x {
		d := float64(i - n/2)
		x[i] = math.Exp(-d * d / 50)
	}
	got := lp.Apply(x)
	for i := 0; i < n/2; i++ {
		if math.Abs(got[i]-got[n-1-i]) > 1e-6 {
			t.Fatalf("asymmetry at %d: %v vs %v", i, got[i], got[n-1-i])
		}
	}
}

// A 40 Hz tone sits well above the 20 Hz cutoff and must be strongly
// attenuated; a 2 Hz tone sits well below it and must pass nearly intact.
func TestApplyAttenuation(t *testing.T) {
	lp := newTestFilter(t)
	const n = 400
	rate := 100.0

	amplitude := func(freq float64) float64 {
		x := make([]float64, n)
		for i := range x {
			x[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
		}
		y := lp.Apply(x)
		peak := 0.0
		// Skip the edges; measure the settled middle.
		for _, v := range y[n/4 : 3*n/4] {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
		return peak
	}

	if low := amplitude(2); low < 0.95 {
		t.Errorf("2 Hz amplitude = %v, want ≥ 0.95", low)
	}
	// The forward-backward pass squares the magnitude response, so
	// stopband attenuation is doubled in dB terms.
	if high := amplitude(40); high > 0.1 {
		t.Errorf("40 Hz amplitude = %v, want ≤ 0.1", high)
	}
}
