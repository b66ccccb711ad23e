// Package session drives the live gesture stream end to end: it subscribes
// to the serial mux, decodes lines, assembles frames, and preprocesses each
// completed recording.
//
// A single worker goroutine owns the framing state and processes lines
// strictly in arrival order. Results cross to the caller only over
// channels, so a UI or CLI shell can consume them on its own thread
// without sharing mutable state with the worker.
package session

import (
	"context"

	"github.com/google/uuid"

	"github.com/airglyph/airglyph/internal/classifier"
	"github.com/airglyph/airglyph/internal/frame"
	"github.com/airglyph/airglyph/internal/monitoring"
	"github.com/airglyph/airglyph/internal/pipeline"
	"github.com/airglyph/airglyph/internal/wire"
)

// LineSource is the subset of the serial mux the session layer needs.
type LineSource interface {
	Subscribe() (string, chan string)
	Unsubscribe(string)
}

// Recording is one completed, preprocessed gesture.
type Recording struct {
	ID        string
	Category  string
	Sequence  [][]float64
	Timesteps int
}

// Acceptor receives each accepted recording's feature sequence. The
// dataset store satisfies this with its Accept method.
type Acceptor interface {
	Accept(category string, seq [][]float64)
}

// Collector records gestures for one category at a time and hands each
// accepted recording to the dataset store and to the Recordings channel.
type Collector struct {
	source LineSource
	pipe   *pipeline.Pipeline
	store  Acceptor

	recordings chan Recording
}

// NewCollector creates a collector. The caller retains ownership of the
// store; the collector only calls Accept on it.
func NewCollector(source LineSource, pipe *pipeline.Pipeline, store Acceptor) *Collector {
	return &Collector{
		source:     source,
		pipe:       pipe,
		store:      store,
		recordings: make(chan Recording),
	}
}

// Recordings delivers each accepted recording in stream order.
func (c *Collector) Recordings() <-chan Recording { return c.recordings }

// Run consumes the line stream and collects gestures for the given
// category until the context is cancelled or the line source closes. It
// is the single owner of the framing state machine for this session.
func (c *Collector) Run(ctx context.Context, category string) error {
	id, lines := c.source.Subscribe()
	defer c.source.Unsubscribe(id)

	var asm frame.Assembler
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			raw, done := asm.Feed(wire.ParseLine(line))
			if !done {
				continue
			}

			features, err := c.pipe.Preprocess(raw)
			if err != nil {
				// Should not happen for a framed sequence; drop the
				// frame and keep the stream alive.
				monitoring.Logf("session: preprocessing failed: %v", err)
				continue
			}

			rec := Recording{
				ID:        uuid.NewString(),
				Category:  category,
				Sequence:  features,
				Timesteps: len(features),
			}
			c.store.Accept(category, features)

			select {
			case c.recordings <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Prediction is a classification result for one completed gesture.
type Prediction struct {
	RecordingID string
	Label       string
	Confidence  float64
	Timesteps   int
}

// Predictor classifies each completed gesture as it is written.
type Predictor struct {
	source LineSource
	pipe   *pipeline.Pipeline
	model  classifier.Classifier

	predictions chan Prediction
}

// NewPredictor creates a predictor for the given classifier.
func NewPredictor(source LineSource, pipe *pipeline.Pipeline, model classifier.Classifier) *Predictor {
	return &Predictor{
		source:      source,
		pipe:        pipe,
		model:       model,
		predictions: make(chan Prediction),
	}
}

// Predictions delivers classification results in stream order.
func (p *Predictor) Predictions() <-chan Prediction { return p.predictions }

// Run consumes the line stream and classifies each completed gesture
// until the context is cancelled or the line source closes. A failed
// classification is logged and skipped; the stream keeps running.
func (p *Predictor) Run(ctx context.Context) error {
	id, lines := p.source.Subscribe()
	defer p.source.Unsubscribe(id)

	var asm frame.Assembler
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			raw, done := asm.Feed(wire.ParseLine(line))
			if !done {
				continue
			}

			features, err := p.pipe.Preprocess(raw)
			if err != nil {
				monitoring.Logf("session: preprocessing failed: %v", err)
				continue
			}

			result, err := p.model.Classify(ctx, features)
			if err != nil {
				monitoring.Logf("session: classification failed: %v", err)
				continue
			}

			pred := Prediction{
				RecordingID: uuid.NewString(),
				Label:       result.Label,
				Confidence:  result.Confidence,
				Timesteps:   len(features),
			}

			select {
			case p.predictions <- pred:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}
