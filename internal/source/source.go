// Package source defines the page source provider contract: the collaborator
// that fetches catalog pages and yields already-isolated text fragments
// without interpreting them.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/specialistvlad/reqgraph/internal/curriculum"
)

// headingSeparator splits a "CODE - Name" heading.
const headingSeparator = " - "

// ErrMalformedHeading is returned when a heading has no code/name separator.
var ErrMalformedHeading = errors.New("malformed heading")

// Fragment is the raw data extracted for one discipline.
type Fragment struct {
	Code string
	Name string
	// Requirements is the raw prerequisite text; nil means the discipline
	// declares none.
	Requirements *string
	Credits      int
	Syllabus     string
}

// Provider yields discipline fragments partitioned by catalog group.
type Provider interface {
	// Groups lists every group key (discipline initials) in the catalog.
	Groups(ctx context.Context) ([]string, error)
	// Disciplines returns the fragments of a single group.
	Disciplines(ctx context.Context, group string) ([]Fragment, error)
}

// CourseProvider yields the suggested curricula of the catalog's courses.
type CourseProvider interface {
	Courses(ctx context.Context) ([]curriculum.Course, error)
}

// SplitHeading splits a "CODE - Name" heading on the first separator.
func SplitHeading(heading string) (code, name string, err error) {
	code, name, ok := strings.Cut(strings.TrimSpace(heading), headingSeparator)
	if !ok {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedHeading, heading)
	}
	return strings.TrimSpace(code), strings.TrimSpace(name), nil
}
