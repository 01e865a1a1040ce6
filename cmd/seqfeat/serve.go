package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/seqfeat/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve [flags] [file...]",
		Short: "Serve features over HTTP",
		Long: `Load features and serve them read-only over HTTP:

  GET /sequences
  GET /types
  GET /features?type=&seq=&start=&end=&complete=&selector=
  GET /features/:index`,
		Example: `  seqfeat serve --addr :9000 genes.gff3
  seqfeat serve --db features.duckdb`,
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

			gin.SetMode(gin.ReleaseMode)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(set, logger).ListenAndServe(ctx, viper.GetString("serve.addr"))
		},
	}

	cmd.Flags().String("addr", ":8080", "Address to listen on")
	viper.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	return cmd
}
