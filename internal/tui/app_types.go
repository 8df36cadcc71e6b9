package tui

import "mandalart-cli/internal/model"

type modalKind int

const (
	modalNone modalKind = iota
	modalEditCell
	modalSaveDraft
	modalConfirmReset
)

type flashKind int

const (
	flashInfo flashKind = iota
	flashWarn
	flashError
)

// generatedMsg carries a generation outcome. seq ties it to the request that produced it.
type generatedMsg struct {
	seq    int
	result model.AIResult
	err    error
}

type flashDoneMsg struct{ seq int }

type exportedMsg struct {
	path string
	err  error
}

type savedMsg struct {
	draft model.Draft
	err   error
}

type copiedMsg struct {
	via string
	err error
}
