package sink

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/specialistvlad/reqgraph/internal/ctxlog"
	"github.com/specialistvlad/reqgraph/internal/record"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS disciplines (
	code TEXT PRIMARY KEY,
	catalog_group TEXT NOT NULL,
	name TEXT NOT NULL,
	credits INTEGER,
	syllabus TEXT
);

CREATE TABLE IF NOT EXISTS requirements (
	discipline TEXT NOT NULL,
	grp INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	code TEXT NOT NULL,
	partial INTEGER NOT NULL,
	special INTEGER NOT NULL,
	PRIMARY KEY (discipline, grp, pos)
);

CREATE TABLE IF NOT EXISTS required_by (
	discipline TEXT NOT NULL,
	required_by TEXT NOT NULL,
	PRIMARY KEY (discipline, required_by)
);

CREATE TABLE IF NOT EXISTS curriculum (
	course TEXT NOT NULL,
	course_name TEXT NOT NULL,
	variant TEXT NOT NULL,
	semester INTEGER NOT NULL,
	position INTEGER NOT NULL,
	code TEXT NOT NULL,
	PRIMARY KEY (course, variant, semester, position)
);

CREATE INDEX IF NOT EXISTS idx_requirements_code ON requirements(code);
CREATE INDEX IF NOT EXISTS idx_curriculum_code ON curriculum(code);
`

// SQLite stores a harvest in a SQLite database. Every write replaces the
// previous contents in a single transaction.
type SQLite struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the database at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLite{db: db, path: path}, nil
}

// DB exposes the underlying handle for read queries.
func (s *SQLite) DB() *sql.DB {
	return s.db
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Write replaces the stored catalog with groups.
func (s *SQLite) Write(ctx context.Context, groups []record.Group) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"disciplines", "requirements", "required_by"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	insertDiscipline, err := tx.PrepareContext(ctx, `INSERT INTO disciplines (code, catalog_group, name, credits, syllabus) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare discipline insert: %w", err)
	}
	defer insertDiscipline.Close()

	insertRequirement, err := tx.PrepareContext(ctx, `INSERT INTO requirements (discipline, grp, pos, code, partial, special) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare requirement insert: %w", err)
	}
	defer insertRequirement.Close()

	insertRequiredBy, err := tx.PrepareContext(ctx, `INSERT INTO required_by (discipline, required_by) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare required_by insert: %w", err)
	}
	defer insertRequiredBy.Close()

	for _, g := range groups {
		for _, r := range g.Records {
			if _, err := insertDiscipline.ExecContext(ctx, r.Code, g.Name, r.Name, r.Credits, r.Syllabus); err != nil {
				return fmt.Errorf("failed to insert discipline %s: %w", r.Code, err)
			}
			for gi, group := range r.Reqs {
				for pos, req := range group {
					if _, err := insertRequirement.ExecContext(ctx, r.Code, gi, pos, req.Code, req.Partial, req.Special); err != nil {
						return fmt.Errorf("failed to insert requirement of %s: %w", r.Code, err)
					}
				}
			}
			for _, by := range r.ReqBy {
				if _, err := insertRequiredBy.ExecContext(ctx, r.Code, by); err != nil {
					return fmt.Errorf("failed to insert required_by of %s: %w", r.Code, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit catalog: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Catalog stored in SQLite.", "path", s.path, "records", record.Count(groups))
	return nil
}

// WriteCourses replaces the stored curricula with courses. Courses without
// variants are stored under an empty variant name.
func (s *SQLite) WriteCourses(ctx context.Context, courses []record.Course) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM curriculum"); err != nil {
		return fmt.Errorf("failed to clear curriculum: %w", err)
	}

	insert, err := tx.PrepareContext(ctx, `INSERT INTO curriculum (course, course_name, variant, semester, position, code) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare curriculum insert: %w", err)
	}
	defer insert.Close()

	for _, c := range courses {
		trees := []record.Variant{{Name: "", Tree: c.Tree}}
		if len(c.Variant) > 0 {
			trees = c.Variant
		}
		for _, v := range trees {
			for sem, codes := range v.Tree {
				for pos, code := range codes {
					if _, err := insert.ExecContext(ctx, c.Code, c.Name, v.Name, sem+1, pos, code); err != nil {
						return fmt.Errorf("failed to insert curriculum of course %s: %w", c.Code, err)
					}
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit curriculum: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Curriculum stored in SQLite.", "path", s.path, "courses", len(courses))
	return nil
}
