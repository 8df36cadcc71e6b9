package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mandalart-cli/internal/format"
	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/mutate"
	"mandalart-cli/internal/store"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func draftSummary(d model.Draft) map[string]any {
	return map[string]any{
		"id":             d.ID,
		"name":           d.Name,
		"source":         d.Source,
		"centralKeyword": d.Grid.CentralKeyword(),
		"filled":         d.Grid.FilledCount(),
		"createdAt":      d.CreatedAt.Format(time.RFC3339Nano),
		"updatedAt":      d.UpdatedAt.Format(time.RFC3339Nano),
	}
}

func newDraftsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Manage saved grids",
	}
	cmd.AddCommand(newDraftsListCmd(app))
	cmd.AddCommand(newDraftsShowCmd(app))
	cmd.AddCommand(newDraftsSaveCmd(app))
	cmd.AddCommand(newDraftsDeleteCmd(app))
	return cmd
}

func newDraftsListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List drafts (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := app.draftStore().ListDrafts(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			out := make([]map[string]any, 0, len(ds))
			for _, d := range ds {
				out = append(out, draftSummary(d))
			}
			var hints []string
			if len(out) == 0 {
				hints = append(hints, "mandalart drafts save --name example --sample")
			}
			return writeOut(cmd, app, format.Envelope{Data: out, Hints: hints})
		},
	}
}

func newDraftsShowCmd(app *App) *cobra.Command {
	var as string

	cmd := &cobra.Command{
		Use:   "show <draft>",
		Short: "Show a draft (id, name or id prefix)",
		Example: strings.TrimSpace(`
mandalart drafts show 2025
mandalart drafts show 2025 --as plan
mandalart drafts show 2025 --as answers --format yaml
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.draftStore().LoadDraft(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			hints := []string{"mandalart export --draft " + d.ID, "mandalart --draft " + d.ID}

			switch as {
			case "", "draft":
				return writeOut(cmd, app, format.Envelope{Data: d, Hints: hints})
			case "plan":
				return writeOut(cmd, app, format.Envelope{Data: gridmap.ToAIResult(d.Grid), Hints: hints})
			case "answers":
				// The stored answers, else the keyword and titles as they read now.
				answers := d.Answers
				if len(answers) == 0 {
					answers = gridmap.Answers(d.Grid)
				}
				return writeOut(cmd, app, format.Envelope{
					Data:  answers,
					Hints: []string{"mandalart generate --answers-file <this list>"},
				})
			default:
				return writeErr(cmd, fmt.Errorf("drafts show: unknown --as %q (expected draft|plan|answers)", as))
			}
		},
	}

	cmd.Flags().StringVar(&as, "as", "draft", "Output shape (draft|plan|answers)")
	return cmd
}

func newDraftsSaveCmd(app *App) *cobra.Command {
	var src gridSource
	var name, id, answersFile string

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a grid as a draft",
		Example: strings.TrimSpace(`
mandalart drafts save --name 2025 --grid-file grid.json
mandalart generate --answers-file answers.txt | mandalart drafts save --name 2025 --grid-file -
mandalart drafts save --name quick --answers-file answers.txt
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(name) == "" {
				return writeErr(cmd, errMissingFlag("drafts save", "name"))
			}

			d := model.Draft{ID: strings.TrimSpace(id), Name: name}
			if answersFile != "" {
				as, err := loadAnswers(cmd.InOrStdin(), answersFile, nil)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Answers = as
			}

			hasGrid := src.GridFile != "" || src.Draft != "" || src.Sample
			switch {
			case hasGrid:
				g, answers, err := src.load(cmd, app)
				if err != nil {
					return writeErr(cmd, err)
				}
				d.Grid = g
				if d.Answers == nil {
					d.Answers = answers
				}
				d.Source = model.DraftSourceManual
				if src.Sample {
					d.Source = model.DraftSourceSample
				}
			case d.Answers != nil:
				d.Grid = gridmap.FromAnswers(d.Answers)
				d.Source = model.DraftSourceAnswers
			default:
				return writeErr(cmd, errMissingFlag("drafts save", "grid-file", "draft", "sample", "answers-file"))
			}

			st := app.draftStore()
			if err := st.Ensure(); err != nil {
				return writeErr(cmd, err)
			}

			// Replacing by id reports how many cells differ from the stored grid.
			changed := -1
			if d.ID != "" {
				prev, err := st.LoadDraft(cmd.Context(), d.ID)
				switch {
				case err == nil && prev.ID == d.ID:
					changed = len(mutate.Replace(prev.Grid, d.Grid).Cells)
				case err != nil && !errors.Is(err, store.ErrNotFound):
					return writeErr(cmd, err)
				}
			}

			saved, err := st.SaveDraft(cmd.Context(), d)
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("draft saved", zap.String("id", saved.ID), zap.String("name", saved.Name))

			data := draftSummary(saved)
			if changed >= 0 {
				data["changedCells"] = changed
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  data,
				Hints: []string{"mandalart export --draft " + saved.ID},
			})
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&name, "name", "", "Draft name")
	cmd.Flags().StringVar(&id, "id", "", "Replace the draft with this id instead of creating one")
	cmd.Flags().StringVar(&answersFile, "answers-file", "", "Questionnaire answers to keep with the draft (maps them when no grid is given)")
	return cmd
}

func newDraftsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <draft>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return writeErr(cmd, errors.New("drafts delete: refusing without --yes"))
			}
			d, err := app.draftStore().DeleteDraft(cmd.Context(), args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			app.logger().Info("draft deleted", zap.String("id", d.ID))
			return writeOut(cmd, app, format.Envelope{Data: map[string]any{"deleted": draftSummary(d)}})
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm deletion")
	return cmd
}
