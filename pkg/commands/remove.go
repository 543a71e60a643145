package commands

import (
	"fmt"

	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <path> <chunk-type>",
		Short:   "Remove the first chunk of the given type from the png",
		Example: "  pngme remove ./dice.png ruSt",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunk, err := pngme.RemoveMessage(cmd.Context(), pngme.RemoveOptions{
				Path:      args[0],
				ChunkType: args[1],
				Storage:   storageOptionsFromEnv(),
			})
			if err != nil {
				return err
			}

			if message, err := chunk.DataAsString(); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s chunk: %s\n", chunk.Type(), message)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s chunk (%d bytes of binary data)\n", chunk.Type(), chunk.Length())
			}
			return nil
		},
	}
}
