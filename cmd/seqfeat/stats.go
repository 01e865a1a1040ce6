package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/seqfeat/internal/stats"
)

func newStatsCmd() *cobra.Command {
	var (
		names      []string
		typeCounts []string
		output     string
	)

	cmd := &cobra.Command{
		Use:   "stats [flags] [file...]",
		Short: "Compute statistics over fixed-size windows",
		Long: `Split every sequence into windows of --window positions and compute the
selected statistics for the features overlapping each window. One
tab-delimited row is written per window, in sequence and position order.

Available statistics: BlockLength, FeatureCount, Coverage, MeanScore.
Use --type-counts to count features of given types.`,
		Example: `  seqfeat stats --window 100000 genes.gff3
  seqfeat stats --stat Coverage --type-counts gene,exon genes.gtf.gz
  seqfeat stats --db features.duckdb --workers 8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			statistics, err := selectStatistics(names, typeCounts)
			if err != nil {
				return err
			}
			window := viper.GetInt64("stats.window")
			if window <= 0 {
				return &usageError{fmt.Errorf("invalid window size %d", window)}
			}

			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			set, err := loadInput(cmd.Context(), cmd, args, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			engine := stats.NewEngine(statistics...)
			engine.SetLogger(logger)
			return engine.Run(set, window, viper.GetInt("stats.workers"), stats.NewTabWriter(out, statistics))
		},
	}

	f := cmd.Flags()
	f.Int64("window", 10000, "Window size in positions")
	f.Int("workers", 0, "Number of workers (default: number of CPUs)")
	f.StringSliceVar(&names, "stat", nil, "Statistics to compute (default: all)")
	f.StringSliceVar(&typeCounts, "type-counts", nil, "Feature types to count per window")
	f.StringVarP(&output, "output", "o", "", "Output file (default: stdout)")
	viper.BindPFlag("stats.window", f.Lookup("window"))
	viper.BindPFlag("stats.workers", f.Lookup("workers"))

	return cmd
}

func selectStatistics(names, typeCounts []string) ([]stats.Statistic, error) {
	var statistics []stats.Statistic
	for _, name := range names {
		s, ok := stats.Lookup(name)
		if !ok {
			var known []string
			for _, d := range stats.Default() {
				known = append(known, d.ShortName())
			}
			return nil, &usageError{fmt.Errorf("unknown statistic %q (known: %s)", name, strings.Join(known, ", "))}
		}
		statistics = append(statistics, s)
	}
	if len(names) == 0 {
		statistics = stats.Default()
	}
	if len(typeCounts) > 0 {
		statistics = append(statistics, stats.NewTypeCounts(typeCounts...))
	}
	return statistics, nil
}
