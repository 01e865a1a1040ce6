package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inodb/seqfeat/internal/feature"
)

type sequenceSummary struct {
	ID       string `yaml:"id"`
	Features int    `yaml:"features"`
	Start    int64  `yaml:"start"`
	End      int64  `yaml:"end"`
	Covered  int64  `yaml:"covered"`
}

type setSummary struct {
	Features  int               `yaml:"features"`
	Sequences []sequenceSummary `yaml:"sequences"`
	Types     map[string]int    `yaml:"types"`
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [file...]",
		Short: "Summarize features per sequence and type",
		Long: `Print the number of features, the features per type, and for each
sequence its feature count, span and number of covered positions, as YAML.`,
		Example: `  seqfeat summary genes.gff3
  seqfeat summary --db features.duckdb`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			set, err := loadInput(cmd.Context(), cmd, args, logger)
			if err != nil {
				return err
			}

			out, err := yaml.Marshal(summarize(set))
			if err != nil {
				return fmt.Errorf("marshaling summary: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}

func summarize(set *feature.Set) setSummary {
	s := setSummary{
		Features:  set.Len(),
		Sequences: []sequenceSummary{},
		Types:     make(map[string]int),
	}
	for _, f := range set.All() {
		s.Types[f.Type()]++
	}

	for _, id := range set.Sequences() {
		onSeq := set.SubsetForSequence(id)
		seq := sequenceSummary{ID: id, Features: onSeq.Len()}

		var union feature.RangeUnion
		onSeq.FillRangeCollection(&union)
		seq.Covered = union.TotalLength()

		for i, f := range onSeq.All() {
			if i == 0 {
				seq.Start, seq.End = f.Start(), f.End()
			}
			seq.Start = min(seq.Start, f.Start())
			seq.End = max(seq.End, f.End())
		}
		s.Sequences = append(s.Sequences, seq)
	}
	return s
}
