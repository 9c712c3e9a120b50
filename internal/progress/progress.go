// Package progress displays a live item-count spinner for the classify
// subcommand: a ticker-driven redraw, gated on
// whether stdout/stderr is a terminal, colored with fatih/color, with
// counts formatted by dustin/go-humanize.
package progress

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Spinner reports processed/total item counts for one partition pass.
// Safe for concurrent Increment calls.
type Spinner struct {
	mu        sync.Mutex
	label     string
	total     int
	processed int
	skipped   int
	startTime time.Time
	isTTY     bool
	writer    *os.File
	ticker    *time.Ticker
	done      chan struct{}
	active    bool
}

// New creates a Spinner labeled label (e.g. "classify GDL-1900") that
// will report progress toward total items on w. If w is not a
// terminal, no redraw loop runs; Stop still prints the final summary
// line.
func New(w *os.File, label string, total int) *Spinner {
	return &Spinner{
		label:  label,
		total:  total,
		isTTY:  isatty.IsTerminal(w.Fd()) || isatty.IsCygwinTerminal(w.Fd()),
		writer: w,
		done:   make(chan struct{}),
	}
}

// Start begins the redraw loop.
func (s *Spinner) Start() {
	s.mu.Lock()
	s.active = true
	s.startTime = time.Now()
	s.mu.Unlock()

	if !s.isTTY {
		return
	}
	s.ticker = time.NewTicker(200 * time.Millisecond)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.render()
			}
		}
	}()
}

// Increment records n more items processed.
func (s *Spinner) Increment(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.processed += n
}

// IncrementSkipped records n more items skipped (e.g. below
// minimal_text_length).
func (s *Spinner) IncrementSkipped(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipped += n
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return
	}

	pct := 0
	if s.total > 0 {
		pct = (s.processed * 100) / s.total
	}
	elapsed := time.Since(s.startTime).Round(time.Second)
	rate := 0.0
	if secs := time.Since(s.startTime).Seconds(); secs > 0 {
		rate = float64(s.processed) / secs
	}

	status := color.New(color.FgCyan).Sprintf("%d%%", pct)
	line := fmt.Sprintf("\r%s [%s]: %s (%s/%s, %s skipped, %.0f/s)",
		s.label, elapsed, status,
		humanize.Comma(int64(s.processed)), humanize.Comma(int64(s.total)),
		humanize.Comma(int64(s.skipped)), rate,
	)
	fmt.Fprintf(s.writer, "%-110s", line)
}

// Stop halts the redraw loop and prints a final summary line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)

	if s.isTTY {
		fmt.Fprintf(s.writer, "\r\033[K")
	}

	elapsed := time.Since(s.startTime).Round(time.Second)
	summary := color.New(color.FgGreen).Sprintf("done")
	fmt.Fprintf(s.writer, "%s %s: %s items in %s (%s skipped)\n",
		s.label, summary,
		humanize.Comma(int64(s.processed)), elapsed,
		humanize.Comma(int64(s.skipped)),
	)
}
