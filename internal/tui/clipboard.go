package tui

import (
	"errors"
	"os/exec"
	"runtime"
	"strings"

	"github.com/muesli/termenv"
)

// copyToClipboard tries the platform clipboard tool and falls back to an OSC 52
// escape (works over SSH in most modern terminals).
func copyToClipboard(s string) (via string, err error) {
	s = strings.ReplaceAll(s, "\r\n", "\n")

	var tools [][]string
	switch runtime.GOOS {
	case "darwin":
		tools = [][]string{{"pbcopy"}}
	case "windows":
		tools = [][]string{{"cmd", "/c", "clip"}}
	default:
		tools = [][]string{{"wl-copy"}, {"xclip", "-selection", "clipboard"}, {"xsel", "--clipboard", "--input"}}
	}
	for _, t := range tools {
		if err := runClipboardCmd(t[0], t[1:], s); err == nil {
			return t[0], nil
		}
	}
	if s == "" {
		return "", errors.New("nothing to copy")
	}
	termenv.Copy(s)
	return "osc52", nil
}

func runClipboardCmd(name string, args []string, stdin string) error {
	if _, err := exec.LookPath(name); err != nil {
		return err
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = strings.NewReader(stdin)
	if err := cmd.Run(); err != nil {
		return errors.New(name + ": " + err.Error())
	}
	return nil
}
