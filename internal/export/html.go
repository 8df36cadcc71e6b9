// Package export renders a grid into standalone artifacts: an interactive HTML
// page that needs no network access at view time, and a Markdown outline.
package export

import (
	"bytes"
	"embed"
	"html/template"
	"strings"

	"mandalart-cli/internal/model"
)

const (
	DefaultFileName = "mandalart.html"
	ContentType     = "text/html; charset=utf-8"

	defaultTitle       = "My Mandalart"
	defaultLang        = "ko"
	defaultInstruction = "중앙의 핵심 영역을 클릭하면 세부 목표가 아래에 표시됩니다."
	defaultNotesTitle  = "회고"
)

//go:embed templates/*.tmpl assets/*
var assetsFS embed.FS

var pageTmpl = template.Must(template.ParseFS(assetsFS, "templates/mandalart.html.tmpl"))

// The interaction script and styles are inlined into every export.
var (
	pageScript = mustAsset("assets/mandalart.js")
	pageCSS    = mustAsset("assets/mandalart.css")
)

func mustAsset(name string) string {
	b, err := assetsFS.ReadFile(name)
	if err != nil {
		panic("export: missing asset " + name)
	}
	return string(b)
}

type HTMLOptions struct {
	Title       string
	Lang        string
	Instruction string
	// Notes, when set, appends the questionnaire answers below the grid.
	Notes        []model.Note
	NotesHeading string
}

type noteVM struct {
	Category string
	Question string
	Answer   template.HTML
}

type pageVM struct {
	Title        string
	Lang         string
	Instruction  string
	NotesHeading string
	Notes        []noteVM
	Grid         model.Grid
	Surrounding  [model.AreaCount]int
	Center       int
	CSS          template.CSS
	Script       template.JS
}

// HTML renders g with default options.
func HTML(g model.Grid) (string, error) {
	return RenderHTML(g, HTMLOptions{})
}

// RenderHTML renders g as a self-contained page. The grid is embedded as a JSON
// literal (`const gridData = ...;`) consumed by the inline script.
func RenderHTML(g model.Grid, opt HTMLOptions) (string, error) {
	vm := pageVM{
		Title:        firstNonBlank(opt.Title, defaultTitle),
		Lang:         firstNonBlank(opt.Lang, defaultLang),
		Instruction:  firstNonBlank(opt.Instruction, defaultInstruction),
		NotesHeading: firstNonBlank(opt.NotesHeading, defaultNotesTitle),
		Grid:         g,
		Surrounding:  model.Surrounding,
		Center:       model.CenterCell,
		CSS:          template.CSS(pageCSS),
		Script:       template.JS(pageScript),
	}
	for _, n := range opt.Notes {
		if strings.TrimSpace(n.Answer) == "" {
			continue
		}
		vm.Notes = append(vm.Notes, noteVM{
			Category: n.Category,
			Question: n.Question,
			Answer:   renderNoteHTML(n.Answer),
		})
	}

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, vm); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func firstNonBlank(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
