package cli

import (
	"fmt"

	"mandalart-cli/internal/docs"
	"mandalart-cli/internal/format"

	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var raw bool
	var render string
	var width int

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show on-demand documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, format.Envelope{
					Data:  map[string]any{"topics": docs.Topics()},
					Hints: []string{"mandalart docs overview --raw"},
				})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `mandalart docs` to list topics)", topic))
			}

			if render != "" {
				out, err := docs.Render(body, render, width)
				if err != nil {
					return writeErr(cmd, err)
				}
				_, err = fmt.Fprint(cmd.OutOrStdout(), out)
				return err
			}
			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"topic": topic, "markdown": body}})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown (no JSON envelope)")
	cmd.Flags().StringVar(&render, "render", "", "Render for the terminal ("+docs.StyleDark+"|"+docs.StyleLight+"|"+docs.StylePlain+")")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width for --render")

	return cmd
}
