// Package provider adapts external classifier models -- FastText
// binaries, statistical n-gram detectors, whatever a deployment has on
// disk -- into the classifier.PredictFunc/SeededPredictFunc shape C1
// fans text out to. The engine never trains or loads a model itself: it
// treats each one as an opaque subprocess that takes a line of text and
// returns a line of predictions.
package provider

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// request/response are the coprocess's line-delimited JSON protocol: one
// request line in, one response line out, per Predict call.
type request struct {
	Text string `json:"text"`
	Seed *int64 `json:"seed,omitempty"`
}

type response struct {
	Predictions []types.Prediction `json:"predictions"`
	Error       string              `json:"error,omitempty"`
}

// Coprocess is a classifier model run as a long-lived subprocess,
// started once at C1 startup and held for the process lifetime -- the
// Go-side analogue of loading a multi-hundred-megabyte FastText binary
// into memory once and never mutating it. Requests are serialized: the
// coprocess itself is not assumed to support concurrent requests on one
// stdin/stdout pair, so calls queue behind a mutex.
type Coprocess struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

// StartCoprocess launches name with args and leaves it running,
// communicating over stdin/stdout with one JSON request/response per
// line. Call Close when the classifier driver shuts down.
func StartCoprocess(ctx context.Context, name string, args ...string) (*Coprocess, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("provider: %s: stdin pipe: %w", name, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("provider: %s: stdout pipe: %w", name, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("provider: %s: start: %w", name, err)
	}
	return &Coprocess{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

// Close closes the coprocess's stdin, signaling it to exit, and waits
// for it to terminate.
func (c *Coprocess) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.stdin.Close(); err != nil {
		return err
	}
	return c.cmd.Wait()
}

// Predict sends text (and, for seeded providers, seed) to the
// coprocess and returns its predictions. A non-nil seed is included in
// the request so a seeded provider (langdetect) can reproduce the same
// draw given the same seed.
func (c *Coprocess) Predict(text string, seed *int64) (types.Predictions, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	line, err := json.Marshal(request{Text: text, Seed: seed})
	if err != nil {
		return nil, fmt.Errorf("provider: encode request: %w", err)
	}
	line = append(line, '\n')
	if _, err := c.stdin.Write(line); err != nil {
		return nil, fmt.Errorf("provider: write request: %w", err)
	}

	raw, err := c.stdout.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("provider: read response: %w", err)
	}
	var resp response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("provider: decode response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("provider: %s", resp.Error)
	}
	return types.Predictions(resp.Predictions), nil
}

// PredictFunc adapts Predict to classifier.PredictFunc's unseeded shape.
func (c *Coprocess) PredictFunc(_ context.Context, text string) (types.Predictions, error) {
	return c.Predict(text, nil)
}

// SeededPredictFunc adapts Predict to classifier.SeededPredictFunc's
// shape, for langdetect's seeded re-draw loop.
func (c *Coprocess) SeededPredictFunc(_ context.Context, text string, seed int64) (types.Predictions, error) {
	return c.Predict(text, &seed)
}
