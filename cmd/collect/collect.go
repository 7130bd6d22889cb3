// Package collect implements the collect command, which runs the pipeline once.
package collect

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tknemuru/kindergarten-collecting/cmd/common"
	"github.com/tknemuru/kindergarten-collecting/internal/table"
)

// Command returns the collect command for use in the root command.
func Command() *cobra.Command {
	var noSummary bool

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Run the collection pipeline once",
		Long: `Download the configured listing pages and their detail pages, subject to
the collector gates, then extract the selected detail directory into the CSV.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pipeline, err := common.BuildPipeline(ctx, deps)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}
			defer pipeline.Close()

			res, err := pipeline.Collector.Run(ctx)
			if res != nil && !noSummary {
				out := cmd.OutOrStdout()
				table.RenderSummary(out, res.Schema, res.Records)
				fmt.Fprintf(out, "Wrote %d records to %s in %s (run %s)\n",
					len(res.Records), res.OutputPath, res.Duration.Round(time.Millisecond), res.RunID)
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "do not print the field summary table")
	return cmd
}
