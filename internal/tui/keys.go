package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type editorKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Edit       key.Binding
	Clear      key.Binding
	ClearBlock key.Binding
	Export     key.Binding
	Save       key.Binding
	Copy       key.Binding
	Sample     key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

var editorKeys = editorKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Edit: key.NewBinding(
		key.WithKeys("enter", "e"),
		key.WithHelp("enter", "edit cell"),
	),
	Clear: key.NewBinding(
		key.WithKeys("backspace", "delete"),
		key.WithHelp("del", "clear cell"),
	),
	ClearBlock: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "clear block"),
	),
	Export: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "export html"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save draft"),
	),
	Copy: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy cell"),
	),
	Sample: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "load sample"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "start over"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Edit, k.Export, k.Save, k.Reset, k.Help, k.Quit}
}

func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Edit, k.Clear, k.ClearBlock, k.Copy},
		{k.Export, k.Save, k.Sample, k.Reset},
		{k.Help, k.Quit},
	}
}

type questionKeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Newline key.Binding
	Sample  key.Binding
	Abort   key.Binding
}

var questionKeys = questionKeyMap{
	Next: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "next"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab", "ctrl+p"),
		key.WithHelp("shift+tab", "previous"),
	),
	Newline: key.NewBinding(
		key.WithKeys("alt+enter", "ctrl+j"),
		key.WithHelp("alt+enter", "new line"),
	),
	Sample: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "skip to sample"),
	),
	Abort: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "start over"),
	),
}

func (k questionKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Newline, k.Sample, k.Abort}
}

func (k questionKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func isCtrlC(msg tea.KeyMsg) bool { return msg.String() == "ctrl+c" }
