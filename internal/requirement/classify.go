package requirement

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidAtom is returned when a token is not a discipline code.
var ErrInvalidAtom = errors.New("invalid requirement atom")

// partialMarker prefixes atoms that accept partial completion.
const partialMarker = "*"

// codeRegex matches the canonical code (`MC102`) and the irregular
// single-letter department form (`F 000`).
var codeRegex = regexp.MustCompile(`^(?i:[a-z]{2}[0-9]{3}|[a-z] [0-9]{3})$`)

// IsCode reports whether s is a discipline code, ignoring case.
func IsCode(s string) bool {
	return codeRegex.MatchString(s)
}

// Canonical returns the canonical form of a discipline code.
func Canonical(code string) string {
	return strings.ToUpper(code)
}

// Classify turns a single trimmed token into an Atom.
func Classify(token string) (Atom, error) {
	if IsCode(token) {
		return Atom{Code: Canonical(token)}, nil
	}

	if rest, ok := strings.CutPrefix(token, partialMarker); ok && IsCode(rest) {
		return Atom{Code: Canonical(rest), Partial: true}, nil
	}

	return Atom{}, fmt.Errorf("%w: %q", ErrInvalidAtom, token)
}
