package tui

import (
	"context"

	"mandalart-cli/internal/flow"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type appModel struct {
	flow      *flow.Controller
	gen       Generator
	store     *store.Store
	exportDir string
	log       *zap.Logger

	width  int
	height int

	answer  textarea.Model
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	// cancel aborts the in-flight generation request.
	cancel context.CancelFunc

	// Cursor in global 9x9 coordinates.
	row int
	col int

	modal        modalKind
	confirmFocus confirmModalFocus

	// questionErr is shown under the answer box (e.g. blank answer).
	questionErr string

	// banner holds the generation fallback warning until the next key press in the editor.
	banner string

	flash     string
	flashKind flashKind
	flashSeq  int

	draftID   string
	draftName string
}

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	ta := textarea.New()
	ta.Placeholder = "자유롭게 적어주세요..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetHeight(5)
	ta.KeyMap.InsertNewline.SetKeys(questionKeys.Newline.Keys()...)

	ti := textinput.New()
	ti.Prompt = "› "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := appModel{
		flow:      flow.New(opts.Questions, opts.Generator != nil),
		gen:       opts.Generator,
		store:     opts.Store,
		exportDir: opts.ExportDir,
		log:       log,
		answer:    ta,
		input:     ti,
		spinner:   sp,
		help:      help.New(),
		row:       model.CenterBlock,
		col:       model.CenterCell,
	}
	if d := opts.Initial; d != nil {
		m.flow.Load(d.Grid, d.Source)
		m.draftID = d.ID
		m.draftName = d.Name
	}
	return m
}

// cursor returns the focused cell as block/cell indices.
func (m appModel) cursor() model.CellRef {
	return cellAt(m.row, m.col)
}

func cellAt(row, col int) model.CellRef {
	return model.CellRef{
		Block: (row/3)*3 + col/3,
		Cell:  (row%3)*3 + col%3,
	}
}

// areaNumber is the 1-based key-area number owning block (0 for the Center Block).
func areaNumber(block int) int {
	for i, b := range model.Surrounding {
		if b == block {
			return i + 1
		}
	}
	return 0
}
