package requirement

import (
	"fmt"
	"regexp"
	"strings"
)

// orRegex splits an expression into groups. The keyword must stand alone as a
// word so codes or names containing "ou" are never split.
var orRegex = regexp.MustCompile(`(?i)\s+ou\s+`)

// andSeparator splits a group into atoms.
const andSeparator = "+"

// ParseError describes why a prerequisite expression was rejected.
type ParseError struct {
	Raw   string
	Group int
	Atom  int
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse requirements %q: group %d atom %d: %v", e.Raw, e.Group, e.Atom, e.Err)
}

// Unwrap returns the underlying classification error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parse parses raw prerequisite text into an Expression. It returns a nil
// Expression and a nil error when raw is blank, and a *ParseError when any atom
// fails classification.
func Parse(raw string) (Expression, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, nil
	}

	var expr Expression
	for gi, groupStr := range orRegex.Split(text, -1) {
		tokens := strings.Split(groupStr, andSeparator)
		group := make(Group, 0, len(tokens))
		for ai, token := range tokens {
			atom, err := Classify(strings.TrimSpace(token))
			if err != nil {
				return nil, &ParseError{Raw: raw, Group: gi, Atom: ai, Err: err}
			}
			group = append(group, atom)
		}
		expr = append(expr, group)
	}

	return expr, nil
}

// NewRequirements parses raw text into tagged Requirements. It never fails;
// malformed text yields Presence Invalid with the parse error attached.
func NewRequirements(raw string) Requirements {
	expr, err := Parse(raw)
	switch {
	case err != nil:
		return Requirements{Presence: Invalid, Raw: raw, Err: err}
	case len(expr) == 0:
		return Requirements{Presence: Absent, Raw: raw}
	default:
		return Requirements{Presence: Present, Raw: raw, Expr: expr}
	}
}
