package runner

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyOutput is returned when a script exits 0 without printing a
// single non-blank line.
var ErrEmptyOutput = errors.New("script stdout is empty")

// ParseError is returned when no line of the script output yields a
// parseable object. Raw carries the full captured stdout so the
// operator can triage without rerunning the scrape.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("no parseable JSON/dict object in script output:\n%s", e.Raw)
}

// ExecError is returned when a script exits non-zero. Stdout and
// Stderr are captured verbatim, Artifacts points at any debug dumps
// the script wrote while failing.
type ExecError struct {
	Script    string
	Stdout    string
	Stderr    string
	Artifacts []Artifact
	Err       error
}

func (e *ExecError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "script failed: %s: %s", e.Script, e.Err)
	fmt.Fprintf(&b, "\nSTDOUT:\n%s", e.Stdout)
	fmt.Fprintf(&b, "\nSTDERR:\n%s", e.Stderr)
	for _, a := range e.Artifacts {
		if a.Title != "" {
			fmt.Fprintf(&b, "\ndebug artifact: %s (%s)", a.Path, a.Title)
			continue
		}
		fmt.Fprintf(&b, "\ndebug artifact: %s", a.Path)
	}
	return b.String()
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
