package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mill/internal/app"
)

func (c *CLI) newRunCmd() *cobra.Command {
	var opts app.RunOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the build plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// Batching cannot attribute a batch's exit code to one
			// constituent, so it implies continuing past errors.
			if opts.BatchMode {
				opts.ContinueAfterErrors = true
			}
			code, err := c.app.Run(cmd.Context(), opts)
			c.exitCode = code
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.Incremental, "incremental", true, "Skip jobs whose dependencies are unchanged")
	cmd.Flags().BoolVar(&opts.BatchMode, "batch", false, "Merge combinable compile jobs into batches")
	cmd.Flags().IntVar(&opts.BatchCount, "batch-count", 0, "Explicit number of batch partitions (0 = derive)")
	cmd.Flags().IntVar(&opts.BatchSizeLimit, "batch-size-limit", 0, "Maximum constituents per batch (0 = default)")
	cmd.Flags().Int64Var(&opts.BatchSeed, "batch-seed", 0, "Deterministic batch shuffle seed (0 = disabled)")
	cmd.Flags().BoolVar(&opts.ContinueAfterErrors, "continue-after-errors", false, "Keep building past job failures")
	cmd.Flags().IntVarP(&opts.Parallelism, "jobs", "j", 0, "Process parallelism (0 = host parallelism)")

	return cmd
}
