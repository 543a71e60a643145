package commands

import (
	"fmt"

	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

type printOptions struct {
	Concurrency int
}

func newPrintCmd() *cobra.Command {
	opts := &printOptions{}

	cmd := &cobra.Command{
		Use:     "print <path>...",
		Short:   "Print the chunks of one or more png files",
		Example: "  pngme print ./dice.png ./cat.png",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := pngme.PrintPngs(cmd.Context(), pngme.PrintOptions{
				Paths:       args,
				Concurrency: opts.Concurrency,
				Storage:     storageOptionsFromEnv(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, summary := range summaries {
				if i > 0 {
					fmt.Fprintln(out)
				}
				if err := summary.Write(out); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", getEnvInt("PNGME_SCAN_CONCURRENCY", pngme.DefaultConcurrency), "Number of files loaded at once")
	return cmd
}
