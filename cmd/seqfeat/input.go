package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/seqfeat/internal/feature"
	"github.com/inodb/seqfeat/internal/gff"
	"github.com/inodb/seqfeat/internal/store"
)

// newFileLoader returns a loader configured from the --format and strict
// settings.
func newFileLoader(cmd *cobra.Command, logger *zap.Logger) (*gff.Loader, error) {
	l := gff.NewLoader()
	l.SetLogger(logger)
	l.Strict = viper.GetBool("strict")

	if name, _ := cmd.Flags().GetString("format"); name != "" {
		format, err := gff.ParseFormat(name)
		if err != nil {
			return nil, &usageError{err}
		}
		l.Format = &format
	}
	return l, nil
}

// loadInput loads the features named by args, or the configured store when
// no file is given.
func loadInput(ctx context.Context, cmd *cobra.Command, args []string, logger *zap.Logger) (*feature.Set, error) {
	if len(args) > 0 {
		l, err := newFileLoader(cmd, logger)
		if err != nil {
			return nil, err
		}
		return l.LoadFiles(ctx, args)
	}

	path := viper.GetString("db")
	if path == "" {
		return nil, &usageError{errors.New("no input files given and no --db store configured")}
	}
	s, err := store.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	set, err := s.LoadSet()
	if err != nil {
		return nil, fmt.Errorf("load store: %w", err)
	}
	logger.Debug("loaded store", zap.String("path", path), zap.Int("features", set.Len()))
	return set, nil
}
