package commands

import (
	"github.com/beam-cloud/pngme/pkg/metrics"
	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	LogLevel string
}

// NewRootCmd builds the pngme command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "pngme",
		Short:         "Hide messages in png files",
		Long:          "pngme hides, reveals and removes messages stored as chunks in png files. Paths may be local files or s3://bucket/key.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return pngme.SetLogLevel(opts.LogLevel)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			metrics.LogMetricsSummary()
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", getEnvString("PNGME_LOG_LEVEL", "info"), "Log level (debug, info, warn, error, disabled)")

	rootCmd.AddCommand(
		newEncodeCmd(),
		newDecodeCmd(),
		newRemoveCmd(),
		newPrintCmd(),
		newScanCmd(),
	)

	return rootCmd
}
