package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/impresso-project/lid-ensemble-go/internal/aggregator"
	"github.com/impresso-project/lid-ensemble-go/internal/corpuswalk"
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/jsonl"
	"github.com/impresso-project/lid-ensemble-go/internal/store"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

var (
	aggregateConfigPath string
	aggregateDBPath     string
)

var aggregateCmd = &cobra.Command{
	Use:          "aggregate <stage1-input>",
	Short:        "Run the collection aggregator (C2) over stage-1 records, persisting collection stats",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("aggregate: cannot resolve path: %w", err)
		}

		cfg, err := ensconfig.Load(aggregateConfigPath)
		if err != nil {
			return err
		}

		paths, err := stage1PathsFor(input)
		if err != nil {
			return err
		}

		db, err := store.Open(aggregateDBPath)
		if err != nil {
			return fmt.Errorf("aggregate: open store: %w", err)
		}
		defer db.Close()

		aggregators := make(map[string]*aggregator.Aggregator)

		for _, path := range paths {
			if err := aggregateFile(path, cfg.C2, aggregators); err != nil {
				return fmt.Errorf("aggregate: %s: %w", path, err)
			}
		}

		for collection, agg := range aggregators {
			stats := agg.Finalize()
			if err := db.Put(stats); err != nil {
				return fmt.Errorf("aggregate: persist %s: %w", collection, err)
			}
			if verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "aggregate: %s n=%d dominant=%s (%.3f)\n",
					collection, stats.N, stats.DominantLanguage, stats.DominantLanguageRatio)
			}
		}
		return nil
	},
}

func init() {
	aggregateCmd.Flags().StringVar(&aggregateConfigPath, "config", "", "path to a YAML override of the default thresholds")
	aggregateCmd.Flags().StringVar(&aggregateDBPath, "db", "lidens-stats.sqlite", "path to the collection-stats SQLite database")
	rootCmd.AddCommand(aggregateCmd)
}

func stage1PathsFor(input string) ([]string, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("aggregate: cannot access %s: %w", input, err)
	}
	if !info.IsDir() {
		return []string{input}, nil
	}
	w := corpuswalk.NewWalker()
	partitions, err := w.Discover(input)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(partitions))
	for i, p := range partitions {
		paths[i] = p.Path
	}
	return paths, nil
}

// aggregateFile feeds every record in path's stage-1 file into the
// Aggregator for its collection, creating one on first sight.
func aggregateFile(path string, cfg ensconfig.C2Config, aggregators map[string]*aggregator.Aggregator) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := jsonl.NewStage1Reader(f, cfg.Lids)
	for {
		rec, err := reader.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		collection, _, parseErr := types.ParseID(rec.ID)
		if parseErr != nil {
			return fmt.Errorf("parse id %q: %w", rec.ID, parseErr)
		}
		agg, ok := aggregators[collection]
		if !ok {
			agg = aggregator.New(collection, cfg)
			aggregators[collection] = agg
		}
		agg.Add(rec)
	}
}
