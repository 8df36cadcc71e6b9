package cli

import (
	"fmt"
	"os"
	"strings"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/format"
	"mandalart-cli/internal/logging"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/store"
	"mandalart-cli/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	Dir        string
	PrettyJSON bool
	Format     string
	LogFile    string
	Verbose    bool

	// Set by PersistentPreRunE.
	cfg *store.GlobalConfig
	log *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var draftRef string

	cmd := &cobra.Command{
		Use:          "mandalart",
		Short:        "Mandalart planning grid (local-first) CLI + TUI",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive questionnaire
  mandalart

  # Reopen a saved draft in the editor
  mandalart --draft 2025

  # Scriptable commands
  mandalart generate --answers-file answers.txt --pretty
  mandalart export --draft 2025 --to mandalart.html
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(cmd, app, draftRef)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cfg, err := store.LoadConfig()
		if err != nil {
			return writeErr(cmd, err)
		}
		app.cfg = cfg

		// The TUI owns the terminal: it only ever logs to --log-file.
		interactive := cmd == cmd.Root()
		log, err := logging.New(logging.Options{
			Verbose: app.Verbose,
			File:    app.LogFile,
			Stderr:  app.Verbose && !interactive,
		})
		if err != nil {
			return writeErr(cmd, err)
		}
		app.log = log
		return nil
	}

	cmd.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		if app.log != nil {
			_ = app.log.Sync()
		}
	}

	cmd.PersistentFlags().StringVar(&app.Dir, "dir", envOr("MANDALART_DIR", ""), "Drafts directory (default: the config directory, ~/.mandalart)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MANDALART_FORMAT", "json"), "Output format ("+strings.Join(format.Names, "|")+")")
	cmd.PersistentFlags().StringVar(&app.LogFile, "log-file", envOr("MANDALART_LOG_FILE", ""), "Write JSON logs to this file")
	cmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "Debug logging (to stderr for subcommands)")
	cmd.Flags().StringVar(&draftRef, "draft", "", "Open a saved draft (id, name or id prefix) in the editor")

	cmd.AddCommand(newQuestionsCmd(app))
	cmd.AddCommand(newSampleCmd(app))
	cmd.AddCommand(newMapCmd(app))
	cmd.AddCommand(newGenerateCmd(app))
	cmd.AddCommand(newExtractCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSetCmd(app))
	cmd.AddCommand(newDraftsCmd(app))
	cmd.AddCommand(newPreviewCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func runTUI(cmd *cobra.Command, app *App, draftRef string) error {
	qs, err := loadQuestions(app)
	if err != nil {
		return writeErr(cmd, err)
	}
	st := app.draftStore()
	if err := st.Ensure(); err != nil {
		return writeErr(cmd, err)
	}

	opts := tui.Options{
		Questions: qs,
		Store:     &st,
		ExportDir: app.config().ExportDir,
		Logger:    app.logger(),
	}
	if app.config().TUI != nil {
		opts.Theme = app.config().TUI.Theme
	}
	if !llmDisabled(app) {
		c, err := newLLMClient(app, qs, llmFlags{})
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Generator = c
	}
	if ref := strings.TrimSpace(draftRef); ref != "" {
		d, err := st.LoadDraft(cmd.Context(), ref)
		if err != nil {
			return writeErr(cmd, err)
		}
		opts.Initial = &d
	}

	app.logger().Info("starting tui",
		zap.Int("questions", len(qs)),
		zap.Bool("ai", opts.Generator != nil),
		zap.String("dir", st.Dir),
	)
	return tui.Run(opts)
}

// draftStore returns the drafts library: --dir, else the config directory.
func (app *App) draftStore() store.Store {
	if d := strings.TrimSpace(app.Dir); d != "" {
		return store.Store{Dir: d}
	}
	d, err := store.DefaultDir()
	if err != nil {
		return store.Store{Dir: ".mandalart"}
	}
	return store.Store{Dir: d}
}

func (app *App) config() *store.GlobalConfig {
	if app.cfg == nil {
		app.cfg = &store.GlobalConfig{}
	}
	return app.cfg
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

func loadQuestions(app *App) ([]model.Question, error) {
	return catalog.Load(app.config().QuestionsPath)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
