package driver

import (
	"context"
	"errors"
	"testing"

	"github.com/impresso-project/lid-ensemble-go/internal/classifier"
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

func stubRegistry(t *testing.T, results map[string]types.Predictions, fail map[string]bool) *classifier.Registry {
	t.Helper()
	r := classifier.NewRegistry()
	for name, preds := range results {
		name, preds := name, preds
		shouldFail := fail[name]
		r.Register(stubClassifier{name: name, preds: preds, fail: shouldFail})
	}
	return r
}

type stubClassifier struct {
	name  string
	preds types.Predictions
	fail  bool
}

func (s stubClassifier) Name() string { return s.name }
func (s stubClassifier) Predict(ctx context.Context, text string) (types.Predictions, error) {
	if s.fail {
		return nil, errors.New("boom")
	}
	return s.preds, nil
}

func testConfig() ensconfig.C1Config {
	return ensconfig.C1Config{
		Lids:                       []string{"langdetect", "langid"},
		MinimalTextLength:          20,
		AlphabeticalRatioThreshold: 0.5,
		RoundNDigits:               3,
	}
}

func TestClassifyItemSkipsAbsentText(t *testing.T) {
	reg := stubRegistry(t, nil, nil)
	d := New(reg, testConfig(), types.LIDVersion{Version: "test"})
	counters := NewCounters()

	item := types.ContentItem{ID: "X-1900-01-01-a-i0001", Type: "ar", HasText: false}
	rec, err := d.ClassifyItem(context.Background(), item, counters)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Classifiers != nil {
		t.Error("want nil Classifiers when text absent")
	}
	if counters.Skipped[SkipNoText] != 1 {
		t.Errorf("SkipNoText count = %d, want 1", counters.Skipped[SkipNoText])
	}
}

func TestClassifyItemSkipsTooShort(t *testing.T) {
	reg := stubRegistry(t, nil, nil)
	d := New(reg, testConfig(), types.LIDVersion{})
	counters := NewCounters()

	item := types.ContentItem{ID: "id", Type: "ar", Text: "short", HasText: true}
	rec, err := d.ClassifyItem(context.Background(), item, counters)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Classifiers != nil {
		t.Error("want nil Classifiers for too-short text")
	}
	if counters.Skipped[SkipTooShort] != 1 {
		t.Errorf("SkipTooShort = %d, want 1", counters.Skipped[SkipTooShort])
	}
}

func TestClassifyItemSkipsLowAlphaRatio(t *testing.T) {
	reg := stubRegistry(t, nil, nil)
	d := New(reg, testConfig(), types.LIDVersion{})
	counters := NewCounters()

	text := "123456789012345678901234567890" // all digits, long enough, ratio 0
	item := types.ContentItem{ID: "id", Type: "ar", Text: text, HasText: true}
	rec, err := d.ClassifyItem(context.Background(), item, counters)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Classifiers != nil {
		t.Error("want nil Classifiers for low alphabetical ratio")
	}
	if counters.Skipped[SkipLowAlphaRatio] != 1 {
		t.Errorf("SkipLowAlphaRatio = %d, want 1", counters.Skipped[SkipLowAlphaRatio])
	}
}

func TestClassifyItemRunsConfiguredClassifiers(t *testing.T) {
	reg := stubRegistry(t, map[string]types.Predictions{
		"langdetect": {{Lang: "de", Prob: 0.9}},
		"langid":     {{Lang: "de", Prob: 0.8}},
	}, nil)
	d := New(reg, testConfig(), types.LIDVersion{Version: "v1"})
	counters := NewCounters()

	text := "Dies ist ein deutscher Beispieltext für den Test."
	item := types.ContentItem{ID: "id", Type: "ar", Text: text, HasText: true}
	rec, err := d.ClassifyItem(context.Background(), item, counters)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Classifiers == nil {
		t.Fatal("want non-nil Classifiers")
	}
	preds, ok := rec.Classifiers.Get("langdetect")
	if !ok {
		t.Fatal("want langdetect present")
	}
	top, _ := preds.Top()
	if top.Lang != "de" || top.Prob != 0.9 {
		t.Errorf("langdetect top = %+v, want {de 0.9}", top)
	}
	if counters.Disagreements["de"] != 0 {
		t.Errorf("unanimous predictions should not count as disagreement")
	}
}

func TestClassifyItemRecordsDisagreement(t *testing.T) {
	reg := stubRegistry(t, map[string]types.Predictions{
		"langdetect": {{Lang: "de", Prob: 0.9}},
		"langid":     {{Lang: "fr", Prob: 0.8}},
	}, nil)
	d := New(reg, testConfig(), types.LIDVersion{})
	counters := NewCounters()

	text := "Dies ist ein deutscher Beispieltext für den Test."
	item := types.ContentItem{ID: "id", Type: "ar", Text: text, HasText: true}
	if _, err := d.ClassifyItem(context.Background(), item, counters); err != nil {
		t.Fatal(err)
	}
	if counters.Disagreements["de,fr"] != 1 {
		t.Errorf("Disagreements[de,fr] = %d, want 1; got %v", counters.Disagreements["de,fr"], counters.Disagreements)
	}
}

func TestClassifyItemClassifierFailureIsNullNotFatal(t *testing.T) {
	reg := stubRegistry(t, map[string]types.Predictions{
		"langdetect": {{Lang: "de", Prob: 0.9}},
		"langid":     {{Lang: "de", Prob: 0.8}},
	}, map[string]bool{"langid": true})
	d := New(reg, testConfig(), types.LIDVersion{})
	counters := NewCounters()

	text := "Dies ist ein deutscher Beispieltext für den Test."
	item := types.ContentItem{ID: "id", Type: "ar", Text: text, HasText: true}
	rec, err := d.ClassifyItem(context.Background(), item, counters)
	if err != nil {
		t.Fatal(err)
	}
	preds, ok := rec.Classifiers.Get("langid")
	if !ok {
		t.Fatal("want langid present (declared) even though it failed")
	}
	if preds != nil {
		t.Errorf("failed classifier predictions = %v, want nil", preds)
	}
	if counters.ClassifierFails != 1 {
		t.Errorf("ClassifierFails = %d, want 1", counters.ClassifierFails)
	}
}

func TestClassifyBatchPreservesOrder(t *testing.T) {
	reg := stubRegistry(t, map[string]types.Predictions{
		"langdetect": {{Lang: "de", Prob: 0.9}},
		"langid":     {{Lang: "de", Prob: 0.8}},
	}, nil)
	d := New(reg, testConfig(), types.LIDVersion{})
	counters := NewCounters()

	items := []types.ContentItem{
		{ID: "a", Type: "ar", Text: "Dies ist ein deutscher Beispieltext.", HasText: true},
		{ID: "b", Type: "ar", Text: "Dies ist noch ein deutscher Beispieltext.", HasText: true},
	}
	records, err := d.ClassifyBatch(context.Background(), items, counters)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].ID != "a" || records[1].ID != "b" {
		t.Errorf("ClassifyBatch order not preserved: %+v", records)
	}
}
