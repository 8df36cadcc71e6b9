package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"mandalart-cli/internal/gridmap"
	"mandalart-cli/internal/model"

	"gopkg.in/yaml.v3"
)

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if strings.TrimSpace(path) == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

// parseAnswers accepts a YAML/JSON list of strings, or plain text with one answer
// per non-blank line.
func parseAnswers(b []byte) []string {
	var list []string
	if err := yaml.Unmarshal(b, &list); err == nil && len(list) > 0 {
		return list
	}
	var out []string
	for _, ln := range strings.Split(string(b), "\n") {
		if ln = strings.TrimSpace(ln); ln != "" {
			out = append(out, ln)
		}
	}
	return out
}

func loadAnswers(stdin io.Reader, path string, inline []string) ([]string, error) {
	if strings.TrimSpace(path) == "" {
		return inline, nil
	}
	b, err := readInput(stdin, path)
	if err != nil {
		return nil, err
	}
	return append(parseAnswers(b), inline...), nil
}

// parseGrid accepts any JSON this CLI prints for a grid: a bare 9x9 array, a
// draft ({"grid": ...}), a plan ({"centralKeyword": ...}), or any of these
// wrapped in the {"data": ...} envelope.
func parseGrid(b []byte) (model.Grid, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return model.Grid{}, errors.New("empty grid input")
	}
	if b[0] == '[' {
		var g model.Grid
		if err := json.Unmarshal(b, &g); err != nil {
			return model.Grid{}, fmt.Errorf("parse grid: %w", err)
		}
		return g, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err != nil {
		return model.Grid{}, fmt.Errorf("parse grid: %w", err)
	}
	if raw, ok := obj["data"]; ok {
		return parseGrid(raw)
	}
	if raw, ok := obj["grid"]; ok {
		return parseGrid(raw)
	}
	if _, ok := obj["centralKeyword"]; ok {
		var r model.AIResult
		if err := json.Unmarshal(b, &r); err != nil {
			return model.Grid{}, fmt.Errorf("parse plan: %w", err)
		}
		return gridmap.FromAIResult(r), nil
	}
	return model.Grid{}, errors.New("parse grid: expected a 9x9 array, a draft, or a plan")
}

func openPath(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("empty path")
	}
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", path).Run()
	case "windows":
		return exec.Command("cmd", "/c", "start", "", path).Run()
	default:
		return exec.Command("xdg-open", path).Run()
	}
}
