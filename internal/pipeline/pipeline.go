// Package pipeline converts a raw recorded IMU sequence into the fixed
// feature representation the gesture classifier consumes.
//
// The pipeline is a pure function of its input and runs in three ordered
// stages: low-pass filtering of each raw axis, expansion with the relative
// motion between the two IMUs, and per-sequence normalization of every
// output axis. Collection and prediction share this one implementation;
// any divergence between the two would silently break the trained model.
package pipeline

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/airglyph/airglyph/internal/dsp"
	"github.com/airglyph/airglyph/internal/wire"
)

const (
	// RawWidth is the number of axes in a recorded sample.
	RawWidth = wire.SampleWidth
	// FeatureWidth is the number of axes in an output feature vector:
	// six IMU-1 axes, six IMU-2 axes, and six relative-motion axes.
	FeatureWidth = 18

	imuAxes = RawWidth / 2
)

// Default filter parameters, matched to the device's 100 Hz output rate.
const (
	DefaultCutoffHz     = 20.0
	DefaultFilterOrder  = 2
	DefaultSampleRateHz = 100.0
)

// ErrEmptySequence is returned when a zero-length sequence reaches the
// pipeline. The framing layer discards empty frames, so this indicates a
// caller bug; the pipeline rejects it rather than crashing.
var ErrEmptySequence = errors.New("pipeline: empty sequence")

// Pipeline preprocesses raw sequences. It is stateless across calls and
// safe for concurrent use once constructed.
type Pipeline struct {
	lowpass *dsp.LowPass
}

// New builds a pipeline with the given low-pass filter parameters.
func New(cutoffHz float64, order int, sampleRateHz float64) (*Pipeline, error) {
	lp, err := dsp.NewLowPass(cutoffHz, order, sampleRateHz)
	if err != nil {
		return nil, err
	}
	return &Pipeline{lowpass: lp}, nil
}

// NewDefault builds a pipeline with the standard filter parameters. Both
// collection and prediction must use the same parameters the training data
// was produced with.
func NewDefault() (*Pipeline, error) {
	return New(DefaultCutoffHz, DefaultFilterOrder, DefaultSampleRateHz)
}

// Preprocess converts a T×12 raw sequence into a T×18 feature sequence.
// All three stages preserve sequence length. The input is not modified.
func (p *Pipeline) Preprocess(raw [][]float64) ([][]float64, error) {
	if len(raw) == 0 {
		return nil, ErrEmptySequence
	}
	for i, sample := range raw {
		if len(sample) != RawWidth {
			return nil, fmt.Errorf("pipeline: sample %d has %d values, want %d", i, len(sample), RawWidth)
		}
	}

	filtered := p.filter(raw)
	features := relativeMotion(filtered)
	normalize(features)
	return features, nil
}

// filter applies the zero-phase low-pass independently to each of the 12
// raw axes across the full sequence.
func (p *Pipeline) filter(raw [][]float64) [][]float64 {
	n := len(raw)
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, RawWidth)
	}

	col := make([]float64, n)
	for axis := 0; axis < RawWidth; axis++ {
		for i, sample := range raw {
			col[i] = sample[axis]
		}
		for i, v := range p.lowpass.Apply(col) {
			out[i][axis] = v
		}
	}
	return out
}

// relativeMotion expands each filtered 12-vector into
// [imu1, imu2, imu1-imu2], a fixed per-timestep transform.
func relativeMotion(filtered [][]float64) [][]float64 {
	out := make([][]float64, len(filtered))
	for i, sample := range filtered {
		v := make([]float64, FeatureWidth)
		copy(v, sample)
		for axis := 0; axis < imuAxes; axis++ {
			v[RawWidth+axis] = sample[axis] - sample[imuAxes+axis]
		}
		out[i] = v
	}
	return out
}

// normalize z-scores each of the 18 axes in place using the mean and
// population standard deviation of this single sequence. A zero-variance
// axis divides by 1, yielding a uniformly zero axis. The per-sequence
// statistics are intentional: the trained model expects them, and a global
// normalization must not be substituted.
func normalize(features [][]float64) {
	col := make([]float64, len(features))
	for axis := 0; axis < FeatureWidth; axis++ {
		for i, v := range features {
			col[i] = v[axis]
		}
		mean := stat.Mean(col, nil)
		std := stat.PopStdDev(col, nil)
		if std == 0 {
			std = 1
		}
		for _, v := range features {
			v[axis] = (v[axis] - mean) / std
		}
	}
}
