package commands

import (
	"fmt"

	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

type scanOptions struct {
	Concurrency int
}

func newScanCmd() *cobra.Command {
	opts := &scanOptions{}

	cmd := &cobra.Command{
		Use:     "scan <dir> <chunk-type>",
		Short:   "List png files below a directory that hold a chunk of the given type",
		Example: "  pngme scan ./images ruSt",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := pngme.Scan(cmd.Context(), pngme.ScanOptions{
				Root:        args[0],
				ChunkType:   args[1],
				Concurrency: opts.Concurrency,
			})
			if err != nil {
				return err
			}

			for _, r := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d %s chunk(s)\n", r.Path, r.Count, args[1])
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", getEnvInt("PNGME_SCAN_CONCURRENCY", pngme.DefaultConcurrency), "Number of files loaded at once")
	return cmd
}
