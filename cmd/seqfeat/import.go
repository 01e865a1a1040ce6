package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/seqfeat/internal/store"
)

func newImportCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import [flags] <store> <file...>",
		Short: "Load annotation files into a DuckDB store",
		Long: `Parse GFF3 or GTF files and append their features to a DuckDB store,
creating it if needed. Later commands read the store with --db.`,
		Example: `  seqfeat import features.duckdb gencode.v47.annotation.gtf.gz
  seqfeat import --replace features.duckdb genes.gff3`,
		Args: minimumArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			l, err := newFileLoader(cmd, logger)
			if err != nil {
				return err
			}
			set, err := l.LoadFiles(cmd.Context(), args[1:])
			if err != nil {
				return err
			}

			s, err := store.Open(args[0])
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer s.Close()

			if replace {
				if err := s.Clear(); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
			}
			if err := s.WriteSet(set); err != nil {
				return fmt.Errorf("write store: %w", err)
			}

			n, err := s.Count()
			if err != nil {
				return err
			}
			logger.Info("imported features",
				zap.String("store", args[0]),
				zap.Int("added", set.Len()),
				zap.Int("total", n))
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d features into %s (%d total)\n", set.Len(), args[0], n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Remove stored features before importing")
	return cmd
}
