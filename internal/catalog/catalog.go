// Package catalog holds the questionnaire prompts and the bundled sample plan.
//
// The default catalog is embedded; a user catalog can replace it without any
// change to grid mapping, which only depends on answer order.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"mandalart-cli/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultQuestionsYAML []byte

//go:embed sample.yaml
var sampleYAML []byte

var ErrEmptyCatalog = errors.New("catalog has no questions")

type file struct {
	Questions []model.Question `yaml:"questions"`
}

// Default returns the built-in questions.
func Default() []model.Question {
	qs, err := Parse(defaultQuestionsYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a programming error.
		panic("catalog: invalid embedded questions: " + err.Error())
	}
	return qs
}

// Load reads a catalog from path. An empty path returns Default().
func Load(path string) ([]model.Question, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	qs, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return qs, nil
}

// Parse decodes and validates a YAML catalog.
func Parse(b []byte) ([]model.Question, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	if err := Validate(f.Questions); err != nil {
		return nil, err
	}
	return f.Questions, nil
}

func Validate(qs []model.Question) error {
	if len(qs) == 0 {
		return ErrEmptyCatalog
	}
	seen := map[int]bool{}
	for i, q := range qs {
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id %d", i+1, q.ID)
		}
		seen[q.ID] = true
		if strings.TrimSpace(q.Text) == "" {
			return fmt.Errorf("question %d: empty text", i+1)
		}
	}
	return nil
}

// Sample returns the bundled example plan.
func Sample() model.AIResult {
	var r model.AIResult
	if err := yaml.Unmarshal(sampleYAML, &r); err != nil {
		panic("catalog: invalid embedded sample: " + err.Error())
	}
	return r
}

// Notes pairs questions with answers by position. Missing answers are empty.
func Notes(qs []model.Question, answers []string) []model.Note {
	out := make([]model.Note, 0, len(qs))
	for i, q := range qs {
		n := model.Note{Category: q.Category, Question: q.Text}
		if i < len(answers) {
			n.Answer = answers[i]
		}
		out = append(out, n)
	}
	return out
}
