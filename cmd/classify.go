package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/impresso-project/lid-ensemble-go/internal/classifier"
	"github.com/impresso-project/lid-ensemble-go/internal/corpuswalk"
	"github.com/impresso-project/lid-ensemble-go/internal/driver"
	"github.com/impresso-project/lid-ensemble-go/internal/ensconfig"
	"github.com/impresso-project/lid-ensemble-go/internal/jsonl"
	"github.com/impresso-project/lid-ensemble-go/internal/progress"
	"github.com/impresso-project/lid-ensemble-go/internal/provider"
	"github.com/impresso-project/lid-ensemble-go/pkg/types"
	"github.com/impresso-project/lid-ensemble-go/pkg/version"
)

var (
	classifyConfigPath string
	classifyOutputDir  string

	langdetectBin string
	langidBin     string
	impressoFtBin string
	wpFtBin       string
	linguaBin     string
)

var classifyCmd = &cobra.Command{
	Use:          "classify <input>",
	Short:        "Run the classifier driver (C1) over one partition file or a corpus root",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("classify: cannot resolve path: %w", err)
		}

		cfg, err := ensconfig.Load(classifyConfigPath)
		if err != nil {
			return err
		}

		partitions, err := partitionsFor(input)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		registry, closers, err := buildRegistry(ctx, cfg.C1)
		if err != nil {
			return err
		}
		defer closeAll(closers)

		buildVersion := types.LIDVersion{
			Version: version.Version,
			Ts:      time.Now().UTC().Format(time.RFC3339),
			RunID:   uuid.NewString(),
		}
		d := driver.New(registry, cfg.C1, buildVersion)
		counters := driver.NewCounters()

		for _, part := range partitions {
			if err := classifyPartition(ctx, d, part, classifyOutputDir, counters); err != nil {
				return fmt.Errorf("classify: %s: %w", part.RelPath, err)
			}
		}

		if verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "classify: skipped=%v classifier_fails=%d disagreements=%v\n",
				counters.Skipped, counters.ClassifierFails, counters.Disagreements)
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyConfigPath, "config", "", "path to a YAML override of the default thresholds")
	classifyCmd.Flags().StringVar(&classifyOutputDir, "output", ".", "directory to write stage-1 partition files into")
	classifyCmd.Flags().StringVar(&langdetectBin, "langdetect-bin", "", "path to the langdetect coprocess binary")
	classifyCmd.Flags().StringVar(&langidBin, "langid-bin", "", "path to the langid coprocess binary")
	classifyCmd.Flags().StringVar(&impressoFtBin, "impresso-ft-bin", "", "path to the impresso_ft FastText coprocess binary")
	classifyCmd.Flags().StringVar(&wpFtBin, "wp-ft-bin", "", "path to the wp_ft FastText coprocess binary")
	classifyCmd.Flags().StringVar(&linguaBin, "lingua-bin", "", "path to the lingua coprocess binary")
	rootCmd.AddCommand(classifyCmd)
}

// partitionsFor returns a single partition for a file argument, or every
// discovered partition under a directory argument.
func partitionsFor(input string) ([]corpuswalk.Partition, error) {
	info, err := os.Stat(input)
	if err != nil {
		return nil, fmt.Errorf("classify: cannot access %s: %w", input, err)
	}
	if !info.IsDir() {
		return []corpuswalk.Partition{{Path: input, RelPath: filepath.Base(input)}}, nil
	}
	w := corpuswalk.NewWalker()
	return w.Discover(input)
}

// buildRegistry starts one coprocess per configured classifier whose
// binary path was given, registering it under its lid name. Classifiers
// named in cfg.Lids without a configured binary are silently absent from
// the registry; Driver.ClassifyItem treats an unregistered classifier
// the same as one that produced no prediction.
func buildRegistry(ctx context.Context, cfg ensconfig.C1Config) (*classifier.Registry, []*provider.Coprocess, error) {
	registry := classifier.NewRegistry()
	var closers []*provider.Coprocess

	start := func(bin string) (*provider.Coprocess, error) {
		if bin == "" {
			return nil, nil
		}
		return provider.StartCoprocess(ctx, bin)
	}

	langdetectProc, err := start(langdetectBin)
	if err != nil {
		return nil, closers, fmt.Errorf("classify: start langdetect: %w", err)
	}
	if langdetectProc != nil {
		closers = append(closers, langdetectProc)
		registry.Register(classifier.NewLangDetect(
			langdetectProc.SeededPredictFunc,
			cfg.LangdetectSeed, cfg.LangdetectRedraws,
			cfg.LangdetectDefaultLangs, cfg.LangdetectEarlyStopProb,
		))
	}

	langidProc, err := start(langidBin)
	if err != nil {
		return nil, closers, fmt.Errorf("classify: start langid: %w", err)
	}
	if langidProc != nil {
		closers = append(closers, langidProc)
		registry.Register(classifier.NewLangID(langidProc.PredictFunc))
	}

	impressoFtProc, err := start(impressoFtBin)
	if err != nil {
		return nil, closers, fmt.Errorf("classify: start impresso_ft: %w", err)
	}
	if impressoFtProc != nil {
		closers = append(closers, impressoFtProc)
		registry.Register(classifier.NewFastText("impresso_ft", impressoFtProc.PredictFunc))
	}

	wpFtProc, err := start(wpFtBin)
	if err != nil {
		return nil, closers, fmt.Errorf("classify: start wp_ft: %w", err)
	}
	if wpFtProc != nil {
		closers = append(closers, wpFtProc)
		registry.Register(classifier.NewFastText("wp_ft", wpFtProc.PredictFunc))
	}

	linguaProc, err := start(linguaBin)
	if err != nil {
		return nil, closers, fmt.Errorf("classify: start lingua: %w", err)
	}
	if linguaProc != nil {
		closers = append(closers, linguaProc)
		registry.Register(classifier.NewLingua(linguaProc.PredictFunc))
	}

	return registry, closers, nil
}

func closeAll(closers []*provider.Coprocess) {
	for _, c := range closers {
		c.Close()
	}
}

func classifyPartition(ctx context.Context, d *driver.Driver, part corpuswalk.Partition, outputDir string, counters *driver.Counters) error {
	in, err := os.Open(part.Path)
	if err != nil {
		return err
	}
	defer in.Close()

	items, err := jsonl.ReadAll(in)
	if err != nil {
		return err
	}

	bar := progress.New(os.Stderr, part.RelPath, len(items))
	bar.Start()
	defer bar.Stop()

	records := make([]types.Stage1Record, 0, len(items))
	for _, item := range items {
		rec, err := d.ClassifyItem(ctx, item, counters)
		if err != nil {
			return err
		}
		records = append(records, rec)
		bar.Increment(1)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	outPath := filepath.Join(outputDir, filepath.Base(part.RelPath))
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	w := jsonl.NewStage1Writer(out)
	for _, rec := range records {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
