package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/impresso-project/lid-ensemble-go/internal/report"
	"github.com/impresso-project/lid-ensemble-go/internal/store"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
	"github.com/impresso-project/lid-ensemble-go/pkg/version"
)

var (
	reportDBPath     string
	reportOutputPath string
)

var reportCmd = &cobra.Command{
	Use:          "report",
	Short:        "Render an HTML dashboard from every collection-stats document in the store",
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := store.Open(reportDBPath)
		if err != nil {
			return fmt.Errorf("report: open store: %w", err)
		}
		defer db.Close()

		names, err := db.Collections()
		if err != nil {
			return fmt.Errorf("report: list collections: %w", err)
		}
		if len(names) == 0 {
			return fmt.Errorf("report: no collection stats found in %s -- run aggregate first", reportDBPath)
		}

		stats := make([]types.CollectionStats, 0, len(names))
		for _, name := range names {
			s, ok, err := db.Get(name)
			if err != nil {
				return fmt.Errorf("report: load %s: %w", name, err)
			}
			if ok {
				stats = append(stats, s)
			}
		}

		f, err := os.Create(reportOutputPath)
		if err != nil {
			return err
		}
		defer f.Close()

		if err := report.WriteHTML(f, version.Version, time.Now().UTC().Format(time.RFC3339), stats); err != nil {
			return fmt.Errorf("report: render: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", reportOutputPath)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportDBPath, "db", "lidens-stats.sqlite", "path to the collection-stats SQLite database")
	reportCmd.Flags().StringVar(&reportOutputPath, "output", "lidens-report.html", "path to write the HTML dashboard to")
	rootCmd.AddCommand(reportCmd)
}
