package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/impresso-project/lid-ensemble-go/pkg/types"
	"github.com/impresso-project/lid-ensemble-go/pkg/version"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "lidens",
	Short: "Ensemble language identification for historical newspaper corpora",
	Long: "lidens runs the three-pass ensemble language identification engine over\n" +
		"a corpus of rebuilt-text content items: classify (C1) fans each item's\n" +
		"text out to the configured classifiers, aggregate (C2) reduces one\n" +
		"collection's classified items into a collection-stats document, and\n" +
		"decide (C3) applies the rule cascade and weighted vote to produce each\n" +
		"item's final language decision.",
	Version: version.Version,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.SilenceErrors = true
}

// Execute runs the root command; on error it prints the error to stderr
// and exits with code 1. ExitError is handled specially: its Code is
// used as the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *types.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
