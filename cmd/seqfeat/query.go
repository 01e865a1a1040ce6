package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/apimachinery/pkg/labels"

	"github.com/inodb/seqfeat/internal/feature"
	"github.com/inodb/seqfeat/internal/gff"
	"github.com/inodb/seqfeat/internal/store"
)

type queryOptions struct {
	types      []string
	sequences  []string
	start, end int64
	complete   bool
	selector   string
	output     string
}

func newQueryCmd() *cobra.Command {
	var opts queryOptions

	cmd := &cobra.Command{
		Use:   "query [flags] [file...]",
		Short: "Select features and write them as GFF3",
		Long: `Select features by type, sequence, range and attribute selector and
write them as GFF3. Filters are applied in that order. Ranges are 0-based
half-open; without --complete a feature is kept when it overlaps the range.`,
		Example: `  seqfeat query --type exon --seq chr12 genes.gtf.gz
  seqfeat query --seq chr1 --start 1000 --end 2000 --complete genes.gff3
  seqfeat query --selector 'gene_type=protein_coding,tag!=readthrough' genes.gtf
  seqfeat query --db features.duckdb --seq chr1 --start 0 --end 50000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringArrayVar(&opts.types, "type", nil, "Keep features of this type (repeatable)")
	f.StringArrayVar(&opts.sequences, "seq", nil, "Keep features on this sequence (repeatable)")
	f.Int64Var(&opts.start, "start", 0, "Range start, 0-based")
	f.Int64Var(&opts.end, "end", 0, "Range end, exclusive")
	f.BoolVar(&opts.complete, "complete", false, "Keep only features lying entirely within the range")
	f.StringVar(&opts.selector, "selector", "", "Attribute selector, e.g. 'gene_type=protein_coding'")
	f.StringVarP(&opts.output, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *queryOptions) error {
	var sel labels.Selector
	if opts.selector != "" {
		var err error
		if sel, err = labels.Parse(opts.selector); err != nil {
			return &usageError{fmt.Errorf("parse selector: %w", err)}
		}
	}
	hasRange := cmd.Flags().Changed("start") || cmd.Flags().Changed("end")
	r := feature.Range{Begin: opts.start, End: opts.end}
	if opts.complete && !hasRange {
		return &usageError{errors.New("--complete requires --start and --end")}
	}
	if hasRange && r.End < r.Begin {
		return &usageError{fmt.Errorf("end %d before start %d", r.End, r.Begin)}
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	var set *feature.Set
	if len(args) == 0 && hasRange && len(opts.sequences) == 1 && viper.GetString("db") != "" {
		// Push the sequence and range predicates down to the store.
		set, err = loadStoreRange(viper.GetString("db"), opts.sequences[0], r, opts.complete)
	} else {
		set, err = loadInput(cmd.Context(), cmd, args, logger)
	}
	if err != nil {
		return err
	}

	if len(opts.types) > 0 {
		set = set.SubsetForTypes(opts.types)
	}
	if len(opts.sequences) > 0 {
		set = set.SubsetForSequences(opts.sequences)
	}
	if hasRange {
		set = set.SubsetForRange(feature.WithStrand(r, feature.StrandNone), opts.complete)
	}
	if sel != nil {
		set = set.SubsetForSelector(sel)
	}

	out := cmd.OutOrStdout()
	if opts.output != "" {
		file, err := os.Create(opts.output)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	return gff.NewWriter(out).WriteSet(set)
}

func loadStoreRange(path, seqID string, r feature.Range, complete bool) (*feature.Set, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()
	return s.LoadRange(seqID, r, complete)
}
