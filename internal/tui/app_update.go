package tui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"mandalart-cli/internal/catalog"
	"mandalart-cli/internal/export"
	"mandalart-cli/internal/flow"
	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"
	"mandalart-cli/internal/store"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

const flashDuration = 4 * time.Second

func (m appModel) Init() tea.Cmd {
	return nil
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.answer.SetWidth(min(max(msg.Width-8, 20), 80))
		return m, nil

	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil

	case generatedMsg:
		return m.applyGenerated(msg)

	case exportedMsg:
		if msg.err != nil {
			m.log.Warn("export failed", zap.Error(msg.err))
			cmd := m.showFlash(flashError, "Export failed: "+msg.err.Error())
			return m, cmd
		}
		m.log.Info("exported", zap.String("path", msg.path))
		cmd := m.showFlash(flashInfo, "Exported "+msg.path)
		return m, cmd

	case savedMsg:
		if msg.err != nil {
			m.log.Warn("save draft failed", zap.Error(msg.err))
			cmd := m.showFlash(flashError, "Save failed: "+msg.err.Error())
			return m, cmd
		}
		m.draftID = msg.draft.ID
		m.draftName = msg.draft.Name
		m.log.Info("draft saved", zap.String("id", msg.draft.ID), zap.String("name", msg.draft.Name))
		cmd := m.showFlash(flashInfo, fmt.Sprintf("Saved draft %q (%s)", msg.draft.Name, shortID(msg.draft.ID)))
		return m, cmd

	case copiedMsg:
		if msg.err != nil {
			cmd := m.showFlash(flashError, "Copy failed: "+msg.err.Error())
			return m, cmd
		}
		cmd := m.showFlash(flashInfo, "Copied ("+msg.via+")")
		return m, cmd

	case spinner.TickMsg:
		if m.flow.Step() != flow.StepLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if isCtrlC(msg) {
			return m, tea.Quit
		}
		switch m.flow.Step() {
		case flow.StepIntro:
			return m.updateIntro(msg)
		case flow.StepQuestions:
			return m.updateQuestions(msg)
		case flow.StepLoading:
			return m.updateLoading(msg)
		case flow.StepResult:
			return m.updateEditor(msg)
		}
	}

	if m.flow.Step() == flow.StepQuestions && m.modal == modalNone {
		var cmd tea.Cmd
		m.answer, cmd = m.answer.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m appModel) updateIntro(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, editorKeys.Sample):
		return m.loadSample()
	case msg.String() == "enter" || msg.String() == " ":
		m.flow.Start()
		return m.afterQuestionMove()
	case msg.String() == "q" || msg.String() == "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m appModel) updateQuestions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.modal == modalConfirmReset {
		return m.updateConfirmReset(msg)
	}

	switch {
	case key.Matches(msg, questionKeys.Next):
		m.flow.SetAnswer(m.answer.Value())
		if err := m.flow.Next(); err != nil {
			if errors.Is(err, flow.ErrBlankAnswer) {
				m.questionErr = "답변을 입력해주세요."
				return m, nil
			}
			m.questionErr = err.Error()
			return m, nil
		}
		return m.afterQuestionMove()

	case key.Matches(msg, questionKeys.Prev):
		m.flow.SetAnswer(m.answer.Value())
		if m.flow.Prev() {
			return m.afterQuestionMove()
		}
		return m, nil

	case key.Matches(msg, questionKeys.Sample):
		return m.loadSample()

	case key.Matches(msg, questionKeys.Abort):
		m.modal = modalConfirmReset
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	if strings.TrimSpace(m.answer.Value()) != "" {
		m.questionErr = ""
	}
	return m, cmd
}

// afterQuestionMove syncs the widgets with the controller after Start/Next/Prev.
func (m appModel) afterQuestionMove() (tea.Model, tea.Cmd) {
	m.questionErr = ""
	switch m.flow.Step() {
	case flow.StepQuestions:
		m.answer.SetValue(m.flow.Answer())
		m.answer.CursorEnd()
		cmd := m.answer.Focus()
		return m, cmd
	case flow.StepLoading:
		m.answer.Blur()
		return m.startGeneration()
	case flow.StepResult:
		m.answer.Blur()
		return m.enterEditor()
	}
	return m, nil
}

func (m appModel) startGeneration() (tea.Model, tea.Cmd) {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	seq := m.flow.Pending()
	answers := m.flow.Answers()
	gen := m.gen
	m.log.Info("generation started", zap.Int("seq", seq), zap.Int("answers", len(answers)))
	return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
		res, err := gen.Generate(ctx, answers)
		return generatedMsg{seq: seq, result: res, err: err}
	})
}

func (m appModel) applyGenerated(msg generatedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.flow.Pending() || m.flow.Step() != flow.StepLoading {
		m.log.Debug("stale generation result dropped", zap.Int("seq", msg.seq))
		return m, nil
	}
	m.stopGeneration()
	m.flow.Finish(msg.result, msg.err)
	if msg.err != nil {
		m.log.Warn("generation failed; using answers", zap.Error(msg.err))
	} else {
		m.log.Info("generation finished", zap.String("keyword", msg.result.CentralKeyword))
	}
	return m.enterEditor()
}

func (m appModel) updateLoading(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "esc" {
		return m, nil
	}
	m.stopGeneration()
	m.flow.Finish(model.AIResult{}, context.Canceled)
	m.log.Info("generation canceled")
	return m.enterEditor()
}

func (m *appModel) stopGeneration() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m appModel) enterEditor() (tea.Model, tea.Cmd) {
	m.row, m.col = model.CenterBlock, model.CenterCell
	m.modal = modalNone
	m.banner = m.flow.Warning()
	if kind := m.flow.FailureKind(); m.banner != "" && kind != "" {
		m.banner += " (" + string(kind) + ")"
	}
	m.flow.DismissWarning()
	return m, nil
}

func (m appModel) loadSample() (tea.Model, tea.Cmd) {
	m.stopGeneration()
	m.answer.Blur()
	m.flow.Load(gridmap.FromAIResult(catalog.Sample()), model.DraftSourceSample)
	m.draftID, m.draftName = "", ""
	mm, _ := m.enterEditor()
	m = mm.(appModel)
	cmd := m.showFlash(flashInfo, "Loaded the sample plan")
	return m, cmd
}

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalEditCell, modalSaveDraft:
		return m.updateInputModal(msg)
	case modalConfirmReset:
		return m.updateConfirmReset(msg)
	}
	m.banner = ""

	k := editorKeys
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		m.row = max(m.row-1, 0)
	case key.Matches(msg, k.Down):
		m.row = min(m.row+1, model.BlockCount-1)
	case key.Matches(msg, k.Left):
		m.col = max(m.col-1, 0)
	case key.Matches(msg, k.Right):
		m.col = min(m.col+1, model.CellCount-1)
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, k.Edit):
		c := m.cursor()
		m.modal = modalEditCell
		m.input.SetValue(m.flow.Grid()[c.Block][c.Cell])
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, k.Clear):
		c := m.cursor()
		cmd := m.reportEdit(m.flow.SetCell(c.Block, c.Cell, "").Cells)
		return m, cmd

	case key.Matches(msg, k.ClearBlock):
		cmd := m.reportEdit(m.flow.ClearBlock(m.cursor().Block).Cells)
		return m, cmd

	case key.Matches(msg, k.Save):
		if m.store == nil {
			cmd := m.showFlash(flashError, "Drafts are not available")
			return m, cmd
		}
		name := m.draftName
		if name == "" {
			name = strings.Join(strings.Fields(m.flow.Grid().CentralKeyword()), " ")
		}
		m.modal = modalSaveDraft
		m.input.SetValue(name)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd

	case key.Matches(msg, k.Export):
		return m, exportCmd(m.flow.Grid(), catalog.Notes(m.flow.Questions(), m.flow.Answers()), m.exportDir)

	case key.Matches(msg, k.Copy):
		c := m.cursor()
		v := m.flow.Grid()[c.Block][c.Cell]
		if strings.TrimSpace(v) == "" {
			cmd := m.showFlash(flashWarn, "Cell is empty")
			return m, cmd
		}
		return m, func() tea.Msg {
			via, err := copyToClipboard(v)
			return copiedMsg{via: via, err: err}
		}

	case key.Matches(msg, k.Sample):
		return m.loadSample()

	case key.Matches(msg, k.Reset):
		m.modal = modalConfirmReset
		m.confirmFocus = confirmFocusCancel
	}
	return m, nil
}

func (m appModel) updateInputModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.modal = modalNone
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		kind := m.modal
		m.modal = modalNone
		m.input.Blur()
		if kind == modalSaveDraft {
			if value == "" {
				cmd := m.showFlash(flashWarn, "Draft name is required")
				return m, cmd
			}
			return m, saveCmd(*m.store, model.Draft{
				ID:      m.draftID,
				Name:    value,
				Source:  m.flow.Source(),
				Answers: nonEmptyAnswers(m.flow.Answers()),
				Grid:    m.flow.Grid(),
			})
		}
		c := m.cursor()
		cmd := m.reportEdit(m.flow.SetCell(c.Block, c.Cell, value).Cells)
		return m, cmd
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirmReset(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.modal = modalNone
	case "tab", "shift+tab", "left", "right":
		m.confirmFocus = m.confirmFocus.toggle()
	case "y":
		m.confirmFocus = confirmFocusConfirm
		return m.updateConfirmReset(tea.KeyMsg{Type: tea.KeyEnter})
	case "enter":
		m.modal = modalNone
		if m.confirmFocus != confirmFocusConfirm {
			return m, nil
		}
		m.stopGeneration()
		m.flow.Reset()
		m.answer.Reset()
		m.answer.Blur()
		m.draftID, m.draftName = "", ""
		m.banner, m.questionErr = "", ""
		m.row, m.col = model.CenterBlock, model.CenterCell
		m.log.Info("flow reset")
	}
	return m, nil
}

// reportEdit flashes a note when an edit also updated the mirrored title.
func (m *appModel) reportEdit(cells []model.CellRef) tea.Cmd {
	if len(cells) < 2 {
		return nil
	}
	return m.showFlash(flashInfo, fmt.Sprintf("Updated %d cells", len(cells)))
}

func (m *appModel) showFlash(kind flashKind, text string) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash = text
	m.flashKind = kind
	return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

func exportCmd(g model.Grid, notes []model.Note, dir string) tea.Cmd {
	return func() tea.Msg {
		page, err := export.RenderHTML(g, export.HTMLOptions{Notes: notes})
		if err != nil {
			return exportedMsg{err: err}
		}
		path := filepath.Join(dir, export.DefaultFileName)
		if err := export.WriteFile(path, []byte(page), true); err != nil {
			return exportedMsg{err: err}
		}
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return exportedMsg{path: path}
	}
}

func saveCmd(s store.Store, d model.Draft) tea.Cmd {
	return func() tea.Msg {
		saved, err := s.SaveDraft(context.Background(), d)
		return savedMsg{draft: saved, err: err}
	}
}

func nonEmptyAnswers(answers []string) []string {
	for _, a := range answers {
		if strings.TrimSpace(a) != "" {
			return answers
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
