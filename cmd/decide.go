package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/ensemble"
	"github.com/impresso-project/lid-ensemble-go/internal/jsonl"
	"github.com/impresso-project/lid-ensemble-go/internal/store"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
)

var (
	decideConfigPath string
	decideDBPath     string
	decideOutputPath string
)

var decideCmd = &cobra.Command{
	Use:          "decide <stage1-file>",
	Short:        "Run the ensemble decider (C3) over one partition's stage-1 records",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		inputPath, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("decide: cannot resolve path: %w", err)
		}

		cfg, err := ensconfig.Load(decideConfigPath)
		if err != nil {
			return err
		}

		db, err := store.Open(decideDBPath)
		if err != nil {
			return fmt.Errorf("decide: open store: %w", err)
		}
		defer db.Close()

		in, err := os.Open(inputPath)
		if err != nil {
			return err
		}
		defer in.Close()

		var out io.Writer = os.Stdout
		if decideOutputPath != "" {
			f, err := os.Create(decideOutputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		writer := jsonl.NewFinalWriter(out)

		statsCache := make(map[string]types.CollectionStats)
		reader := jsonl.NewStage1Reader(in, cfg.C3.Lids)
		for {
			rec, err := reader.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				return fmt.Errorf("decide: %w", err)
			}

			collection, year, err := types.ParseID(rec.ID)
			if err != nil {
				return fmt.Errorf("decide: %w", err)
			}

			stats, ok := statsCache[collection]
			if !ok {
				stats, ok, err = db.Get(collection)
				if err != nil {
					return fmt.Errorf("decide: load stats for %s: %w", collection, err)
				}
				if !ok && verbose {
					fmt.Fprintf(cmd.ErrOrStderr(), "decide: warning: no stats for collection %s, using empty stats\n", collection)
				}
				statsCache[collection] = stats
			}

			final := ensemble.Decide(rec, collection, year, stats, cfg.C3)
			if err := writer.Write(final); err != nil {
				return fmt.Errorf("decide: write %s: %w", rec.ID, err)
			}
		}
		return nil
	},
}

func init() {
	decideCmd.Flags().StringVar(&decideConfigPath, "config", "", "path to a YAML override of the default thresholds")
	decideCmd.Flags().StringVar(&decideDBPath, "db", "lidens-stats.sqlite", "path to the collection-stats SQLite database")
	decideCmd.Flags().StringVar(&decideOutputPath, "output", "", "path to write final records to (default stdout)")
	rootCmd.AddCommand(decideCmd)
}
