package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"mandalart-cli/internal/flow"
	"mandalart-cli/internal/format"
	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func gridData(g model.Grid) map[string]any {
	return map[string]any{
		"centralKeyword": g.CentralKeyword(),
		"filled":         g.FilledCount(),
		"grid":           g,
	}
}

func newMapCmd(app *App) *cobra.Command {
	var answersFile string
	var answers []string

	cmd := &cobra.Command{
		Use:   "map",
		Short: "Build a grid straight from answers (no model)",
		Long: strings.TrimSpace(`
The first answer becomes the central keyword; the next eight become the key-area
titles. Extra answers are ignored and missing ones stay blank.
`),
		Example: strings.TrimSpace(`
mandalart map --answer "Growth" --answer "Health" --answer "Craft"
mandalart map --answers-file answers.txt
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if answersFile == "" && len(answers) == 0 {
				return writeErr(cmd, errMissingFlag("map", "answers-file", "answer"))
			}
			as, err := loadAnswers(cmd.InOrStdin(), answersFile, answers)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, format.Envelope{Data: gridData(gridmap.FromAnswers(as))})
		},
	}

	cmd.Flags().StringVar(&answersFile, "answers-file", "", "Answers file: a YAML/JSON list, or one answer per line ('-' for stdin)")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer (repeatable; appended after --answers-file)")
	return cmd
}

func newGenerateCmd(app *App) *cobra.Command {
	var answersFile string
	var answers []string
	var fallback bool
	var lf llmFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Ask the local model for a plan and print the grid",
		Example: strings.TrimSpace(`
mandalart generate --answers-file answers.txt --pretty
mandalart generate --answers-file - --strict < answers.txt
mandalart generate --answers-file answers.txt --fallback
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if answersFile == "" && len(answers) == 0 {
				return writeErr(cmd, errMissingFlag("generate", "answers-file", "answer"))
			}
			as, err := loadAnswers(cmd.InOrStdin(), answersFile, answers)
			if err != nil {
				return writeErr(cmd, err)
			}
			qs, err := loadQuestions(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			client, err := newLLMClient(app, qs, lf)
			if err != nil {
				return writeErr(cmd, err)
			}

			log := app.logger().With(zap.String("endpoint", client.Endpoint()), zap.String("model", client.Model()))
			log.Debug("generating", zap.Int("answers", len(as)), zap.String("policy", string(client.Policy())))

			r, err := client.Generate(cmd.Context(), as)
			if err != nil {
				log.Warn("generation failed", zap.Error(err))
				if !fallback {
					return writeErr(cmd, err)
				}
				data := gridData(gridmap.FromAnswers(as))
				data["source"] = model.DraftSourceAnswers
				data["fallback"] = generationFailure(err)
				return writeOut(cmd, app, format.Envelope{
					Data:  data,
					Hints: []string{flow.FallbackWarning},
				})
			}

			data := gridData(gridmap.FromAIResult(r))
			data["source"] = model.DraftSourceAI
			data["plan"] = r
			return writeOut(cmd, app, format.Envelope{
				Data:  data,
				Hints: []string{"mandalart drafts save --name <name> --grid-file <this output>"},
			})
		},
	}

	cmd.Flags().StringVar(&answersFile, "answers-file", "", "Answers file: a YAML/JSON list, or one answer per line ('-' for stdin)")
	cmd.Flags().StringArrayVar(&answers, "answer", nil, "Answer (repeatable; appended after --answers-file)")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "On failure, print the grid mapped from the answers instead of failing")
	lf.register(cmd)
	return cmd
}

func newExtractCmd(app *App) *cobra.Command {
	var file string
	var strict bool

	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Parse a raw model reply (stdin) into a plan",
		Long: strings.TrimSpace(`
Runs the same extraction as generate on text you already have: a fenced json block,
else the outermost {...}. The lenient policy pads the plan to 8 areas of 8 sub-goals.
`),
		Example: strings.TrimSpace(`
pbpaste | mandalart extract --pretty
mandalart extract --file reply.txt --strict
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var b []byte
			var err error
			if file == "" {
				b, err = io.ReadAll(cmd.InOrStdin())
			} else {
				b, err = readInput(cmd.InOrStdin(), file)
			}
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(string(b)) == "" {
				return writeErr(cmd, errors.New("extract: empty input"))
			}

			client, err := newLLMClient(app, nil, llmFlags{Strict: strict})
			if err != nil {
				return writeErr(cmd, err)
			}
			r, err := client.Parse(string(b))
			if err != nil {
				return writeErr(cmd, fmt.Errorf("extract: %w", err))
			}
			return writeOut(cmd, app, format.Envelope{Data: r})
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Read the reply from a file instead of stdin")
	cmd.Flags().BoolVar(&strict, "strict", false, "Reject plans without a central keyword or with a key-area count other than 8")
	return cmd
}
