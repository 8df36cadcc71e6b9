package llm

import (
	"strings"

	"mandalart-cli/internal/model"
)

// PlaceholderAreaTitle is used for key areas appended by Repair.
const PlaceholderAreaTitle = "empty area"

// Policy selects how structurally incomplete plans are handled.
type Policy string

const (
	// PolicyLenient pads missing areas and sub-goals (the default).
	PolicyLenient Policy = "lenient"
	// PolicyStrict rejects plans without a central keyword or with a key-area count other than 8.
	PolicyStrict Policy = "strict"
)

func ParsePolicy(s string) (Policy, bool) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyLenient:
		return PolicyLenient, true
	case PolicyStrict:
		return PolicyStrict, true
	default:
		return "", false
	}
}

// Repair returns a complete plan: exactly 8 key areas with exactly 8 sub-goals each.
// Missing areas are titled PlaceholderAreaTitle. Repair never fails.
func Repair(r model.AIResult) model.AIResult {
	return r.Normalized(PlaceholderAreaTitle)
}

// Validate applies the strict structural checks.
func Validate(r model.AIResult) error {
	if strings.TrimSpace(r.CentralKeyword) == "" {
		return errMissingKeyword
	}
	if len(r.KeyAreas) != model.AreaCount {
		return errAreaCount
	}
	return nil
}

// NeedsRepair reports whether Repair would change the shape of r.
func NeedsRepair(r model.AIResult) bool {
	if len(r.KeyAreas) != model.AreaCount {
		return true
	}
	for _, a := range r.KeyAreas {
		if len(a.SubGoals) != model.AreaCount {
			return true
		}
	}
	return false
}
