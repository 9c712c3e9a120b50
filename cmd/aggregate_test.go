package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/impresso-project/lid-ensemble-go/internal/aggregator"
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/jsonl"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

func TestStage1PathsForSingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "GDL-1900.jsonl")
	if err := os.WriteFile(path, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := stage1PathsFor(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0] != path {
		t.Errorf("stage1PathsFor(file) = %v, want [%s]", paths, path)
	}
}

func TestStage1PathsForDirectoryDiscoversPartitions(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "GDL-1900.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := stage1PathsFor(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 {
		t.Errorf("stage1PathsFor(dir) found %d files, want 1", len(paths))
	}
}

func TestAggregateFileGroupsByCollectionParsedFromID(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stage1.jsonl")
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := jsonl.NewStage1Writer(out)
	cf := types.NewClassifierFields([]string{"langdetect"})
	cf.Set("langdetect", types.Predictions{{Lang: "de", Prob: 1}})
	if err := w.Write(types.Stage1Record{
		ID: "GDL-1900-01-01-a-i0001", Type: "ar", Len: 500,
		AlphabeticalRatio: 0.8, HasAlphaRatio: true, Classifiers: cf,
	}); err != nil {
		t.Fatal(err)
	}
	if err := w.Write(types.Stage1Record{
		ID: "JDG-1900-01-01-a-i0001", Type: "ar", Len: 500,
		AlphabeticalRatio: 0.8, HasAlphaRatio: true, Classifiers: cf,
	}); err != nil {
		t.Fatal(err)
	}
	out.Close()

	cfg := ensconfig.DefaultConfig().C2
	cfg.Lids = []string{"langdetect"}
	cfg.MinimalTextLength = 0
	aggregators := make(map[string]*aggregator.Aggregator)
	if err := aggregateFile(path, cfg, aggregators); err != nil {
		t.Fatal(err)
	}

	if len(aggregators) != 2 {
		t.Fatalf("aggregateFile() produced %d collections, want 2: %v", len(aggregators), aggregators)
	}
	if _, ok := aggregators["GDL"]; !ok {
		t.Error("expected a GDL aggregator")
	}
	if _, ok := aggregators["JDG"]; !ok {
		t.Error("expected a JDG aggregator")
	}
}
