package tui

import (
	"fmt"
	"strings"

	"mandalart-cli/internal/export"
	"mandalart-cli/internal/flow"
	"mandalart-cli/internal/model"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) View() string {
	var body string
	switch m.flow.Step() {
	case flow.StepIntro:
		body = m.viewIntro()
	case flow.StepQuestions:
		body = m.viewQuestions()
	case flow.StepLoading:
		body = m.viewLoading()
	case flow.StepResult:
		body = m.viewEditor()
	}

	switch m.modal {
	case modalConfirmReset:
		return m.overlay(renderConfirmModal(m.width, "처음부터 다시 시작할까요?",
			"입력한 답변과 편집한 내용이 모두 사라집니다.", "Start over", "Cancel", m.confirmFocus))
	case modalEditCell:
		c := m.cursor()
		return m.overlay(renderInputModal(m.width, fmt.Sprintf("Edit block %d · cell %d", c.Block, c.Cell),
			m.input.View(), "enter: save   esc: cancel"))
	case modalSaveDraft:
		return m.overlay(renderInputModal(m.width, "Save draft", m.input.View(), "enter: save   esc: cancel"))
	}
	return body
}

func (m appModel) overlay(modal string) string {
	if m.width <= 0 || m.height <= 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m appModel) center(s string) string {
	if m.width <= 0 || m.height <= 0 {
		return s
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}

func (m appModel) viewIntro() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("Mandalart")
	lines := []string{
		title,
		"",
		"나를 찾는 8가지 질문으로",
		"당신의 한 해를 설계해보세요.",
		"",
		styleAccent().Render("enter") + styleMuted().Render("  시작하기"),
		styleMuted().Render("ctrl+l  예시 보기   q  종료"),
	}
	if !m.flow.AIEnabled() {
		lines = append(lines, "", styleMuted().Render("AI is off: answers are placed on the grid as written."))
	}
	return m.center(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m appModel) viewQuestions() string {
	qs := m.flow.Questions()
	q, _ := m.flow.Question()

	dots := make([]string, len(qs))
	for i := range qs {
		switch {
		case i == m.flow.Index():
			dots[i] = styleAccent().Render("●")
		case i < m.flow.Index():
			dots[i] = lipgloss.NewStyle().Foreground(colorSurfaceFg).Render("●")
		default:
			dots[i] = styleMuted().Render("○")
		}
	}

	header := styleMuted().Render(fmt.Sprintf("Q%d / %d · %s", m.flow.Index()+1, len(qs), q.Category))
	text := styleHeading().Width(min(max(m.width-8, 20), 80)).Render(q.Text)

	lines := []string{
		strings.Join(dots, " "),
		"",
		header,
		text,
		"",
		m.answer.View(),
	}
	if m.questionErr != "" {
		lines = append(lines, lipgloss.NewStyle().Foreground(colorErrBg).Render(m.questionErr))
	} else {
		lines = append(lines, "")
	}
	lines = append(lines, "", m.help.View(questionKeys))
	return m.center(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m appModel) viewLoading() string {
	lines := []string{
		m.spinner.View() + " 내 답변을 분석하고, 만다라트를 그리는 중...",
		styleMuted().Render("잠시만 기다려주세요 (최대 1분 소요)"),
		"",
		styleMuted().Render("esc: cancel and use my answers"),
	}
	return m.center(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m appModel) viewEditor() string {
	g := m.flow.Grid()
	cur := m.cursor()

	cellW := 10
	detailW := 36
	if m.width > 0 {
		// 9 cells + 6 inner gaps + 2 block separators (3 cols each).
		avail := m.width - detailW - 4
		if avail < 9*6+12 {
			detailW = 0
			avail = m.width - 2
		}
		cellW = min(max((avail-12)/9, 4), 14)
	}

	grid := renderGrid(g, cur, cellW)

	var top string
	if detailW > 0 {
		detail := m.renderDetail(g, cur, detailW)
		top = lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", detail)
	} else {
		top = grid
	}

	var status string
	switch {
	case m.banner != "":
		status = lipgloss.NewStyle().Foreground(colorWarnFg).Background(colorWarnBg).Padding(0, 1).Render(m.banner)
	case m.flash != "":
		st := lipgloss.NewStyle().Padding(0, 1)
		switch m.flashKind {
		case flashError:
			st = st.Foreground(colorAccentFg).Background(colorErrBg)
		case flashWarn:
			st = st.Foreground(colorWarnFg).Background(colorWarnBg)
		default:
			st = st.Foreground(colorAccentFg).Background(colorAccent)
		}
		status = st.Render(m.flash)
	default:
		status = styleMuted().Render(m.statusLine())
	}

	return lipgloss.JoinVertical(lipgloss.Left, top, "", status, m.help.View(editorKeys))
}

func (m appModel) statusLine() string {
	g := m.flow.Grid()
	parts := []string{fmt.Sprintf("%d/72 cells", g.FilledCount())}
	if m.draftName != "" {
		parts = append(parts, "draft: "+m.draftName)
	}
	if src := m.flow.Source(); src != "" {
		parts = append(parts, "source: "+string(src))
	}
	return strings.Join(parts, " · ")
}

func (m appModel) renderDetail(g model.Grid, cur model.CellRef, width int) string {
	md := export.RenderBlockMarkdown(g, cur.Block, areaNumber(cur.Block))
	value := g[cur.Block][cur.Cell]
	if strings.TrimSpace(value) == "" {
		value = "_(empty)_"
	}
	md += fmt.Sprintf("\n---\n\n**Block %d · Cell %d**\n\n%s\n", cur.Block, cur.Cell, value)
	return normalizePane(renderMarkdown(md, width), width, 0)
}

// renderGrid draws the 9x9 grid: two text lines per cell, block borders between
// every third row and column.
func renderGrid(g model.Grid, cur model.CellRef, cellW int) string {
	const cellRows = 2
	sepV := lipgloss.NewStyle().Foreground(colorBorder).Render("│")
	rowW := 9*cellW + 6 + 2*3

	var lines []string
	for row := 0; row < 9; row++ {
		if row > 0 && row%3 == 0 {
			lines = append(lines, lipgloss.NewStyle().Foreground(colorBorder).Render(strings.Repeat("─", rowW)))
		} else if row > 0 {
			lines = append(lines, "")
		}
		cells := make([][]string, 9)
		for col := 0; col < 9; col++ {
			ref := cellAt(row, col)
			st := cellStyle(ref, ref == cur)
			for _, ln := range cellLines(g[ref.Block][ref.Cell], cellW, cellRows) {
				cells[col] = append(cells[col], st.Render(ln))
			}
		}
		for l := 0; l < cellRows; l++ {
			var b strings.Builder
			for col := 0; col < 9; col++ {
				switch {
				case col == 0:
				case col%3 == 0:
					b.WriteString(" " + sepV + " ")
				default:
					b.WriteString(" ")
				}
				b.WriteString(cells[col][l])
			}
			lines = append(lines, b.String())
		}
	}
	return strings.Join(lines, "\n")
}

func cellStyle(ref model.CellRef, focused bool) lipgloss.Style {
	st := lipgloss.NewStyle()
	switch {
	case focused:
		return st.Foreground(colorCursorFg).Background(colorCursorBg).Bold(true)
	case ref.Block == model.CenterBlock && ref.Cell == model.CenterCell:
		return st.Foreground(colorKeywordFg).Background(colorKeywordBg).Bold(true)
	case ref.Block == model.CenterBlock || ref.Cell == model.CenterCell:
		return st.Foreground(colorTitleFg).Background(colorTitleBg)
	default:
		return st.Foreground(colorSurfaceFg).Background(colorControlBg)
	}
}
