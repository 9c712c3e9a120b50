package jsonl

import (
	"bytes"
	"strings"
	"testing"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

func TestReadAllParsesContentItems(t *testing.T) {
	input := strings.NewReader(
		`{"id":"X-1900-01-01-a-i0001","tp":"ar","ft":"Hello world","lg":"en"}` + "\n" +
			`{"id":"X-1900-01-01-a-i0002","tp":"img"}` + "\n",
	)
	items, err := ReadAll(input)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Text != "Hello world" || !items[0].HasText || items[0].OrigLg != "en" {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].HasText {
		t.Errorf("items[1].HasText = true, want false (no ft field)")
	}
}

func TestReadAllRejectsMalformedLine(t *testing.T) {
	input := strings.NewReader(`not json` + "\n")
	if _, err := ReadAll(input); err == nil {
		t.Error("want error on malformed line")
	}
}

func TestStage1WriteThenReadRoundTrips(t *testing.T) {
	cf := types.NewClassifierFields([]string{"langdetect", "langid"})
	cf.Set("langdetect", types.Predictions{{Lang: "de", Prob: 0.9}})
	cf.Set("langid", nil) // failed classifier

	rec := types.Stage1Record{
		ID:                "X-1900-01-01-a-i0001",
		Type:              "ar",
		Len:               42,
		OrigLg:            "de",
		AlphabeticalRatio: 0.8,
		HasAlphaRatio:     true,
		Classifiers:       cf,
		Version:           types.LIDVersion{Version: "1.0", Ts: "2026-01-01"},
	}

	var buf bytes.Buffer
	if err := NewStage1Writer(&buf).Write(rec); err != nil {
		t.Fatal(err)
	}

	reader := NewStage1Reader(&buf, []string{"langdetect", "langid"})
	got, err := reader.Next()
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != rec.ID || got.Len != 42 || got.OrigLg != "de" {
		t.Errorf("round-tripped record = %+v", got)
	}
	preds, ok := got.Classifiers.Get("langdetect")
	if !ok || len(preds) != 1 || preds[0].Lang != "de" {
		t.Errorf("langdetect predictions = %v", preds)
	}
	failedPreds, ok := got.Classifiers.Get("langid")
	if !ok || failedPreds != nil {
		t.Errorf("langid predictions = %v, want nil (failed classifier)", failedPreds)
	}
}

func TestFinalWriterEmitsNullLgForImages(t *testing.T) {
	rec := types.FinalRecord{ID: "id", Type: "img", Collection: "X", Year: "1900"}
	var buf bytes.Buffer
	if err := NewFinalWriter(&buf).Write(rec); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"lg":null`) {
		t.Errorf("output = %s, want literal null lg", buf.String())
	}
	if strings.Contains(buf.String(), "lg_decision") {
		t.Errorf("output = %s, want no lg_decision field for images", buf.String())
	}
}

func TestFinalWriterEmitsVotes(t *testing.T) {
	lang := "fr"
	rec := types.FinalRecord{
		ID: "id", Type: "ar", Collection: "X", Year: "1900",
		Lg: &lang, LgDecision: "voting",
		Votes: []types.Vote{{Lang: "fr", Vote: 1.62}, {Lang: "de", Vote: 0.855}},
	}
	var buf bytes.Buffer
	if err := NewFinalWriter(&buf).Write(rec); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, `"lg":"fr"`) || !strings.Contains(out, `"lg_decision":"voting"`) {
		t.Errorf("output = %s", out)
	}
	if !strings.Contains(out, `"votes"`) {
		t.Errorf("output missing votes: %s", out)
	}
}
