package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/record"
)

// coursesDir is the subdirectory holding one file per course.
const coursesDir = "courses"

// JSONDir writes one indented JSON file per catalog group into a directory.
type JSONDir struct {
	dir string
}

// NewJSONDir creates a sink rooted at dir. The directory is created on write.
func NewJSONDir(dir string) *JSONDir {
	return &JSONDir{dir: dir}
}

// FileName returns the file name used for a group, e.g. "F_.json" for "F ".
func FileName(key string) string {
	return strings.ReplaceAll(key, " ", "_") + ".json"
}

// Write stores every group as <group>.json.
func (s *JSONDir) Write(ctx context.Context, groups []record.Group) error {
	logger := ctxlog.FromContext(ctx)
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", s.dir, err)
	}

	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.dir, FileName(g.Name))
		if err := writeJSON(path, g.Records); err != nil {
			return err
		}
		logger.Debug("Group written.", "group", g.Name, "path", path, "records", len(g.Records))
	}
	return nil
}

// WriteCourses stores every course as courses/<code>.json.
func (s *JSONDir) WriteCourses(ctx context.Context, courses []record.Course) error {
	dir := filepath.Join(s.dir, coursesDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create courses directory '%s': %w", dir, err)
	}
	for _, c := range courses {
		if err := writeJSON(filepath.Join(dir, FileName(c.Code)), c); err != nil {
			return err
		}
	}
	ctxlog.FromContext(ctx).Debug("Courses written.", "dir", dir, "count", len(courses))
	return nil
}

// writeJSON encodes v into a temporary file and renames it into place so
// readers never observe a half-written file.
func writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for '%s': %w", path, err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode '%s': %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush '%s': %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to move '%s' into place: %w", path, err)
	}
	return nil
}
