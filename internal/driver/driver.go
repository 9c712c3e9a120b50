// Package driver implements the classifier driver (C1): for each input
// content item it produces a stage-1 record by fanning the item's text
// out to every configured classifier concurrently.
package driver

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/impresso-project/lid-ensemble-go/internal/classifier"
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/textstat"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

// SkipReason enumerates why an item was not sent to any classifier.
type SkipReason string

const (
	SkipNoText        SkipReason = "no_text"
	SkipTooShort      SkipReason = "too_short"
	SkipLowAlphaRatio SkipReason = "low_alphabetical_ratio"
)

// Counters accumulates the per-batch diagnostics the driver collects
// alongside its stage-1 records: one counter per skip reason, plus a
// count of classifier-level failures and a frequency table of
// per-item classifier disagreement, keyed by the sorted, comma-joined
// set of disagreeing top languages.
type Counters struct {
	mu              sync.Mutex
	Skipped         map[SkipReason]int
	ClassifierFails int
	Disagreements   map[string]int
}

// NewCounters returns an empty Counters.
func NewCounters() *Counters {
	return &Counters{
		Skipped:       make(map[SkipReason]int),
		Disagreements: make(map[string]int),
	}
}

func (c *Counters) addSkip(reason SkipReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Skipped[reason]++
}

func (c *Counters) addClassifierFail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ClassifierFails++
}

func (c *Counters) addDisagreement(langs []string) {
	if len(langs) < 2 {
		return
	}
	sorted := append([]string(nil), langs...)
	sort.Strings(sorted)
	key := strings.Join(sorted, ",")

	c.mu.Lock()
	defer c.mu.Unlock()
	c.Disagreements[key]++
}

// Driver runs the configured classifiers against a stream of content
// items, concurrently per classifier within one item.
type Driver struct {
	registry *classifier.Registry
	cfg      ensconfig.C1Config
	version  types.LIDVersion
}

// New returns a Driver calling the classifiers named in cfg.Lids that
// are present in registry, in cfg.Lids order.
func New(registry *classifier.Registry, cfg ensconfig.C1Config, version types.LIDVersion) *Driver {
	return &Driver{registry: registry, cfg: cfg, version: version}
}

// ClassifyItem produces the stage-1 record for one content item,
// recording any skip/failure/disagreement into counters.
func (d *Driver) ClassifyItem(ctx context.Context, item types.ContentItem, counters *Counters) (types.Stage1Record, error) {
	rec := types.Stage1Record{
		ID:      item.ID,
		Type:    item.Type,
		Len:     textstat.RuneLen(item.Text),
		OrigLg:  item.OrigLg,
		Version: d.version,
	}

	if !item.HasText {
		counters.addSkip(SkipNoText)
		return rec, nil
	}

	trimmed := strings.TrimSpace(item.Text)
	if textstat.RuneLen(trimmed) < d.cfg.MinimalTextLength {
		counters.addSkip(SkipTooShort)
		return rec, nil
	}

	ratio := textstat.AlphabeticalRatio(item.Text)
	if ratio < d.cfg.AlphabeticalRatioThreshold {
		counters.addSkip(SkipLowAlphaRatio)
		return rec, nil
	}

	rec.AlphabeticalRatio = textstat.Round(ratio, d.cfg.RoundNDigits)
	rec.HasAlphaRatio = true

	classifiers := d.registry.Ordered(d.cfg.Lids)
	rec.Classifiers = types.NewClassifierFields(namesOf(classifiers))

	g, gctx := errgroup.WithContext(ctx)
	results := make([]types.Predictions, len(classifiers))
	errs := make([]error, len(classifiers))

	for i, c := range classifiers {
		i, c := i, c
		g.Go(func() error {
			preds, err := c.Predict(gctx, item.Text)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = roundPredictions(preds, d.cfg.RoundNDigits)
			return nil
		})
	}
	// errgroup.Wait only ever returns an error from a Go func that
	// itself returns one; this driver swallows classifier errors into
	// errs[], so Wait cannot fail.
	_ = g.Wait()

	tops := make([]string, 0, len(classifiers))
	for i, c := range classifiers {
		if errs[i] != nil {
			counters.addClassifierFail()
			fmt.Fprintf(os.Stderr, "driver: warning: %s failed on %s: %v\n", c.Name(), item.ID, errs[i])
			rec.Classifiers.Set(c.Name(), nil)
			continue
		}
		rec.Classifiers.Set(c.Name(), results[i])
		if top, ok := results[i].Top(); ok {
			tops = append(tops, top.Lang)
		}
	}
	counters.addDisagreement(distinct(tops))

	return rec, nil
}

func namesOf(classifiers []classifier.Classifier) []string {
	names := make([]string, len(classifiers))
	for i, c := range classifiers {
		names[i] = c.Name()
	}
	return names
}

func roundPredictions(preds types.Predictions, ndigits int) types.Predictions {
	out := make(types.Predictions, len(preds))
	for i, p := range preds {
		out[i] = types.Prediction{Lang: p.Lang, Prob: textstat.Round(p.Prob, ndigits)}
	}
	return out
}

func distinct(langs []string) []string {
	seen := make(map[string]bool, len(langs))
	out := make([]string, 0, len(langs))
	for _, l := range langs {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	return out
}
