package cli

import (
	"errors"
	"fmt"

	"mandalart-cli/internal/llm"
)

type missingFlagError struct {
	cmd   string
	flags []string
}

func (e missingFlagError) Error() string {
	if len(e.flags) == 1 {
		return fmt.Sprintf("%s: missing --%s", e.cmd, e.flags[0])
	}
	s := ""
	for i, f := range e.flags {
		if i > 0 {
			s += " or "
		}
		s += "--" + f
	}
	return fmt.Sprintf("%s: missing %s", e.cmd, s)
}

func errMissingFlag(cmd string, flags ...string) error {
	return missingFlagError{cmd: cmd, flags: flags}
}

// generationFailure is the error payload for generate/extract.
func generationFailure(err error) map[string]any {
	out := map[string]any{"error": err.Error()}
	var ge *llm.GenerationError
	if errors.As(err, &ge) {
		out["kind"] = string(ge.Kind)
		if ge.StatusCode != 0 {
			out["status"] = ge.StatusCode
		}
	}
	return out
}
