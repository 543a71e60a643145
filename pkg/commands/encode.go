package commands

import (
	"fmt"

	"github.com/beam-cloud/pngme/pkg/pngme"
	"github.com/spf13/cobra"
)

type encodeOptions struct {
	OutputPath string
}

func newEncodeCmd() *cobra.Command {
	opts := &encodeOptions{}

	cmd := &cobra.Command{
		Use:     "encode <path> <chunk-type> <message>",
		Short:   "Hide a message in a new chunk appended to the png",
		Example: "  pngme encode ./dice.png ruSt \"This is a secret message!\"",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			chunk, err := pngme.EncodeMessage(cmd.Context(), pngme.EncodeOptions{
				Path:       args[0],
				OutputPath: opts.OutputPath,
				ChunkType:  args[1],
				Message:    args[2],
				Storage:    storageOptionsFromEnv(),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Encoded %s chunk (%d bytes)\n", chunk.Type(), chunk.Length())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Write the result here instead of overwriting the input")
	return cmd
}
