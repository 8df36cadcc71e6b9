package cli

import (
	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/format"
	"mandalart-cli/internal/gridmap"

	"github.com/spf13/cobra"
)

func newQuestionsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "List the questionnaire (built-in, or questionsPath from config)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			qs, err := loadQuestions(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  qs,
				Hints: []string{"mandalart map --answers-file answers.txt", "mandalart generate --answers-file answers.txt"},
			})
		},
	}
}

func newSampleCmd(app *App) *cobra.Command {
	var plan bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the bundled example grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := catalog.Sample()
			if plan {
				return writeOut(cmd, app, format.Envelope{Data: r})
			}
			return writeOut(cmd, app, format.Envelope{
				Data:  gridData(gridmap.FromAIResult(r)),
				Hints: []string{"mandalart drafts save --name example --sample"},
			})
		},
	}

	cmd.Flags().BoolVar(&plan, "plan", false, "Print the plan (central keyword + key areas) instead of the grid")
	return cmd
}
