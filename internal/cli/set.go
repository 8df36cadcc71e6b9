package cli

import (
	"fmt"
	"strings"

	"mandalart-cli/internal/format"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/mutate"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetCmd(app *App) *cobra.Command {
	var src gridSource
	var block, cell int
	var value string
	var clearBlock bool

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Edit one cell (key-area titles stay mirrored)",
		Long: strings.TrimSpace(`
Writes one cell. A title written in the center block also updates the center of its
outer block, and the other way round.

With --draft the draft is saved in place; with --grid-file or --sample the edited grid
is printed.
`),
		Example: strings.TrimSpace(`
mandalart set --draft 2025 --block 4 --cell 2 --value "Health"
mandalart set --draft 2025 --block 2 --clear-block
mandalart set --grid-file grid.json --block 0 --cell 0 --value "Run 5k" > next.json
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !model.ValidIndex(block) {
				return writeErr(cmd, fmt.Errorf("set: --block must be 0..8, got %d", block))
			}
			if !clearBlock {
				if !model.ValidIndex(cell) {
					return writeErr(cmd, fmt.Errorf("set: --cell must be 0..8, got %d", cell))
				}
				if !cmd.Flags().Changed("value") {
					return writeErr(cmd, errMissingFlag("set", "value", "clear-block"))
				}
			}

			var d model.Draft
			var g model.Grid
			if src.Draft != "" && src.GridFile == "" && !src.Sample {
				var err error
				d, err = app.draftStore().LoadDraft(cmd.Context(), src.Draft)
				if err != nil {
					return writeErr(cmd, err)
				}
				g = d.Grid
			} else {
				var err error
				g, _, err = src.load(cmd, app)
				if err != nil {
					return writeErr(cmd, err)
				}
			}

			var res mutate.SetCellResult
			if clearBlock {
				res = mutate.ClearBlock(g, block)
			} else {
				res = mutate.SetCell(g, block, cell, value)
			}
			cells := res.Cells
			if cells == nil {
				cells = []model.CellRef{}
			}

			data := gridData(res.Grid)
			data["changed"] = res.Changed
			data["cells"] = cells

			if d.ID == "" {
				return writeOut(cmd, app, format.Envelope{Data: data})
			}

			if res.Changed {
				d.Grid = res.Grid
				d.Source = model.DraftSourceManual
				saved, err := app.draftStore().SaveDraft(cmd.Context(), d)
				if err != nil {
					return writeErr(cmd, err)
				}
				d = saved
				app.logger().Info("draft edited", zap.String("id", d.ID), zap.Int("cells", len(cells)))
			}
			data["draft"] = draftSummary(d)
			return writeOut(cmd, app, format.Envelope{Data: data})
		},
	}

	src.register(cmd)
	cmd.Flags().IntVar(&block, "block", -1, "Block index 0..8 (reading order; 4 is the center block)")
	cmd.Flags().IntVar(&cell, "cell", -1, "Cell index 0..8 within the block")
	cmd.Flags().StringVar(&value, "value", "", "New cell text (empty clears the cell)")
	cmd.Flags().BoolVar(&clearBlock, "clear-block", false, "Clear the block's sub-goals instead (the center block clears every title)")
	return cmd
}
