package commands

import (
	"fmt"

	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "decode <path> <chunk-type>",
		Short:   "Print the message held by the first chunk of the given type",
		Example: "  pngme decode ./dice.png ruSt",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			message, err := pngme.DecodeMessage(cmd.Context(), pngme.DecodeOptions{
				Path:      args[0],
				ChunkType: args[1],
				Storage:   storageOptionsFromEnv(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}
