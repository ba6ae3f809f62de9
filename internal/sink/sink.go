// Package sink persists resolved catalog records. Sinks are only invoked after
// a harvest resolved successfully, so they never see a partial catalog.
package sink

import (
	"context"

	"github.com/specialistvlad/reqgraph/internal/record"
)

// Sink writes the disciplines of a harvest.
type Sink interface {
	Write(ctx context.Context, groups []record.Group) error
}

// CourseWriter is implemented by sinks that can also store curricula.
type CourseWriter interface {
	WriteCourses(ctx context.Context, courses []record.Course) error
}
