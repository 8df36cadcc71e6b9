package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies why a generation attempt failed.
type ErrorKind string

const (
	// KindTransport: the endpoint was unreachable or returned a non-success status.
	KindTransport ErrorKind = "transport"
	// KindMalformed: the response text could not be parsed as a plan, even after extraction.
	KindMalformed ErrorKind = "malformed"
	// KindIncomplete: strict policy only; the plan lacks a central keyword or 8 key areas.
	KindIncomplete ErrorKind = "incomplete"
)

// GenerationError is returned by Client.Generate for every failure.
type GenerationError struct {
	Kind       ErrorKind
	StatusCode int
	// Raw is the model's response text, when one was received.
	Raw string
	Err error
}

func (e *GenerationError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("generation failed (%s): status %d: %v", e.Kind, e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("generation failed (%s)", e.Kind)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf returns the kind of the GenerationError in err's chain ("" when there is none).
func KindOf(err error) ErrorKind {
	var ge *GenerationError
	if !errors.As(err, &ge) {
		return ""
	}
	return ge.Kind
}

var (
	errMissingKeyword = errors.New("missing central keyword")
	errAreaCount      = errors.New("expected exactly 8 key areas")
)
