// Package tui is the interactive front-end: intro, questionnaire, generation,
// then the grid editor with export and drafts.
package tui

import (
	"context"

	"mandalart-cli/internal/model"
	"mandalart-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Generator produces a plan from questionnaire answers (llm.Client satisfies it).
type Generator interface {
	Generate(ctx context.Context, answers []string) (model.AIResult, error)
}

type Options struct {
	Questions []model.Question
	// Generator is nil when AI is disabled; answers are then mapped directly.
	Generator Generator
	// Store enables saving drafts with `s`.
	Store *store.Store
	// ExportDir is where `x` writes mandalart.html.
	ExportDir string
	// Theme is the configured tui.theme (auto|light|dark).
	Theme string
	// Initial opens the editor on an existing draft instead of the intro.
	Initial *model.Draft
	Logger  *zap.Logger
}

func Run(opts Options) error {
	applyColorProfilePreference()
	applyThemePreference(opts.Theme)

	m := newAppModel(opts)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if fm, ok := final.(appModel); ok && fm.cancel != nil {
		fm.cancel()
	}
	return err
}
