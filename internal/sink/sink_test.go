package sink

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/reqgraph/internal/record"
	"github.com/specialistvlad/reqgraph/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGroups() []record.Group {
	return []record.Group{
		{
			Name: "F ",
			Records: []record.Record{
				{Code: "F 128", Name: "Física Geral I", Credits: 4, ReqBy: []string{"F 228"}},
				{Code: "F 228", Name: "Física Geral II", Reqs: [][]record.Requirement{{{Code: "F 128"}}}},
			},
		},
		{
			Name: "MC",
			Records: []record.Record{
				{Code: "MC102", Name: "Algoritmos e Programação de Computadores"},
				{Code: "MC202", Name: "Estruturas de Dados", Reqs: [][]record.Requirement{
					{{Code: "MC102"}},
					{{Code: "MC999", Special: true}, {Code: "AA200", Partial: true}},
				}},
			},
		},
	}
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "F_.json", FileName("F "))
	assert.Equal(t, "MC.json", FileName("MC"))
}

func TestJSONDir_Write(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	s := NewJSONDir(dir)

	require.NoError(t, s.Write(context.Background(), sampleGroups()))

	raw, err := os.ReadFile(filepath.Join(dir, "F_.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Física Geral I", "non-ASCII must be preserved")
	assert.Contains(t, string(raw), "\n    {\n        \"code\": \"F 128\"", "4-space indentation")
	assert.JSONEq(t, `[
		{"code": "F 128", "name": "Física Geral I", "credits": 4, "reqBy": ["F 228"]},
		{"code": "F 228", "name": "Física Geral II", "reqs": [[{"code": "F 128"}]]}
	]`, string(raw))

	raw, err = os.ReadFile(filepath.Join(dir, "MC.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"code": "MC102", "name": "Algoritmos e Programação de Computadores"},
		{"code": "MC202", "name": "Estruturas de Dados", "reqs": [
			[{"code": "MC102"}],
			[{"code": "MC999", "special": true}, {"code": "AA200", "partial": true}]
		]}
	]`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "no temporary files may be left behind")
}

func TestJSONDir_WriteCourses(t *testing.T) {
	dir := t.TempDir()
	s := NewJSONDir(dir)

	courses := []record.Course{
		{Code: "42", Name: "Ciência da Computação", Variant: []record.Variant{
			{Name: "AA", Tree: [][]string{{"MC102"}, {"MC202"}}},
		}},
	}
	require.NoError(t, s.WriteCourses(context.Background(), courses))

	raw, err := os.ReadFile(filepath.Join(dir, coursesDir, "42.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"code": "42", "name": "Ciência da Computação",
		"variant": [{"name": "AA", "tree": [["MC102"], ["MC202"]]}]}`, string(raw))
}

func TestJSONDir_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewJSONDir(dir).Write(ctx, sampleGroups())
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func openTestDB(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_Write(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, sampleGroups()))

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM disciplines").Scan(&count))
	assert.Equal(t, 4, count)

	var group, name string
	var credits int
	require.NoError(t, s.DB().QueryRow(
		"SELECT catalog_group, name, credits FROM disciplines WHERE code = ?", "F 128",
	).Scan(&group, &name, &credits))
	assert.Equal(t, "F ", group)
	assert.Equal(t, "Física Geral I", name)
	assert.Equal(t, 4, credits)

	rows, err := s.DB().Query("SELECT grp, pos, code, partial, special FROM requirements WHERE discipline = ? ORDER BY grp, pos", "MC202")
	require.NoError(t, err)
	defer rows.Close()

	type row struct {
		grp, pos         int
		code             string
		partial, special int
	}
	var got []row
	for rows.Next() {
		var r row
		require.NoError(t, rows.Scan(&r.grp, &r.pos, &r.code, &r.partial, &r.special))
		got = append(got, r)
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, []row{
		{0, 0, "MC102", 0, 0},
		{1, 0, "MC999", 0, 1},
		{1, 1, "AA200", 1, 0},
	}, got)

	var by string
	require.NoError(t, s.DB().QueryRow("SELECT required_by FROM required_by WHERE discipline = ?", "F 128").Scan(&by))
	assert.Equal(t, "F 228", by)
}

func TestSQLite_WriteReplacesPreviousRun(t *testing.T) {
	s := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, sampleGroups()))
	require.NoError(t, s.Write(ctx, sampleGroups()[1:]))

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM disciplines").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM required_by").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestSQLite_WriteCourses(t *testing.T) {
	s := openTestDB(t)
	ctx, logs := testutil.LoggedContext(context.Background())

	courses := []record.Course{
		{Code: "34", Name: "Engenharia", Tree: [][]string{{"MA111", "F 128"}, {"MA211"}}},
		{Code: "42", Name: "Computação", Variant: []record.Variant{
			{Name: "AA", Tree: [][]string{{"MC102"}}},
			{Name: "AB", Tree: [][]string{{"MC102"}, {"MC202"}}},
		}},
	}
	require.NoError(t, s.WriteCourses(ctx, courses))

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM curriculum").Scan(&count))
	assert.Equal(t, 6, count)

	var semester int
	require.NoError(t, s.DB().QueryRow(
		"SELECT semester FROM curriculum WHERE course = ? AND variant = ? AND code = ?", "42", "AB", "MC202",
	).Scan(&semester))
	assert.Equal(t, 2, semester)

	require.NoError(t, s.DB().QueryRow(
		"SELECT COUNT(*) FROM curriculum WHERE course = ? AND variant = ''", "34",
	).Scan(&count))
	assert.Equal(t, 3, count)
	assert.Contains(t, logs.String(), "Curriculum stored in SQLite.")
}

func TestSQLite_WriteCoursesCancelled(t *testing.T) {
	s := openTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.WriteCourses(ctx, []record.Course{{Code: "34", Name: "Engenharia", Tree: [][]string{{"MA111"}}}})
	require.ErrorIs(t, err, context.Canceled)
}

var (
	_ Sink         = (*JSONDir)(nil)
	_ Sink         = (*SQLite)(nil)
	_ CourseWriter = (*JSONDir)(nil)
	_ CourseWriter = (*SQLite)(nil)
)
