// Package classifier is the client side of the gesture classification
// contract: a preprocessed feature sequence goes in, a label with a
// confidence comes out. The model itself lives behind a serving endpoint;
// this package only speaks its wire format.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/airglyph/airglyph/internal/httputil"
)

// Result is a classification outcome for one feature sequence.
type Result struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Classifier classifies one feature sequence per call.
type Classifier interface {
	Classify(ctx context.Context, sequence [][]float64) (Result, error)
}

// HTTPClassifier calls a model server over HTTP/JSON. The server receives
// {"sequence": [[...18 floats...], ...]} and responds with parallel
// "labels" and "probabilities" arrays covering the known categories.
type HTTPClassifier struct {
	client  httputil.HTTPClient
	baseURL string
}

// NewHTTPClassifier creates a classifier client for the given base URL.
// A nil client falls back to the standard HTTP client.
func NewHTTPClassifier(client httputil.HTTPClient, baseURL string) *HTTPClassifier {
	if client == nil {
		client = httputil.NewStandardClient(nil)
	}
	return &HTTPClassifier{client: client, baseURL: baseURL}
}

type predictRequest struct {
	Sequence [][]float64 `json:"sequence"`
}

type predictResponse struct {
	Labels        []string  `json:"labels"`
	Probabilities []float64 `json:"probabilities"`
}

// Classify posts the sequence to the model server and returns the highest
// probability label.
func (c *HTTPClassifier) Classify(ctx context.Context, sequence [][]float64) (Result, error) {
	payload, err := json.Marshal(predictRequest{Sequence: sequence})
	if err != nil {
		return Result{}, fmt.Errorf("classifier: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/predict", bytes.NewReader(payload))
	if err != nil {
		return Result{}, fmt.Errorf("classifier: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("classifier: predict call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, fmt.Errorf("classifier: predict returned %d: %s", resp.StatusCode, body)
	}

	var decoded predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Result{}, fmt.Errorf("classifier: decode response: %w", err)
	}
	return argmax(decoded)
}

// argmax picks the label with the highest probability from the server's
// probability vector.
func argmax(resp predictResponse) (Result, error) {
	if len(resp.Labels) == 0 || len(resp.Labels) != len(resp.Probabilities) {
		return Result{}, fmt.Errorf("classifier: malformed response: %d labels, %d probabilities",
			len(resp.Labels), len(resp.Probabilities))
	}

	best := 0
	for i, p := range resp.Probabilities {
		if p > resp.Probabilities[best] {
			best = i
		}
	}
	return Result{Label: resp.Labels[best], Confidence: resp.Probabilities[best]}, nil
}
