// Package record defines the JSON-serializable output shape of a resolved
// discipline, handed to the persistence sinks.
package record

import (
	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/requirement"
)

// Requirement is one serialized atom. Flags are omitted when false.
type Requirement struct {
	Code    string `json:"code"`
	Partial bool   `json:"partial,omitempty"`
	Special bool   `json:"special,omitempty"`
}

// Record is one serialized discipline.
type Record struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	Credits  int    `json:"credits,omitempty"`
	Syllabus string `json:"syllabus,omitempty"`
	// Reqs is present only when the requirements parsed into at least one group.
	Reqs [][]Requirement `json:"reqs,omitempty"`
	// ReqBy is present only when non-empty.
	ReqBy []string `json:"reqBy,omitempty"`
}

// Group is the set of records of one catalog group, in code order.
type Group struct {
	Name    string
	Records []Record
}

// FromDiscipline serializes a resolved discipline.
func FromDiscipline(d *catalog.Discipline) Record {
	r := Record{
		Code:     d.Code,
		Name:     d.Name,
		Credits:  d.Credits,
		Syllabus: d.Syllabus,
	}

	if d.Requirements.Presence == requirement.Present && len(d.Requirements.Expr) > 0 {
		r.Reqs = make([][]Requirement, 0, len(d.Requirements.Expr))
		for _, group := range d.Requirements.Expr {
			out := make([]Requirement, 0, len(group))
			for _, a := range group {
				out = append(out, Requirement{Code: a.Code, Partial: a.Partial, Special: a.Special})
			}
			r.Reqs = append(r.Reqs, out)
		}
	}

	if reqBy := d.RequiredBy(); len(reqBy) > 0 {
		r.ReqBy = reqBy
	}
	return r
}

// FromIndex serializes every discipline of the index, partitioned by group.
func FromIndex(ix *catalog.Index) []Group {
	names, byGroup := ix.Groups()
	groups := make([]Group, 0, len(names))
	for _, name := range names {
		disciplines := byGroup[name]
		g := Group{Name: name, Records: make([]Record, 0, len(disciplines))}
		for _, d := range disciplines {
			g.Records = append(g.Records, FromDiscipline(d))
		}
		groups = append(groups, g)
	}
	return groups
}

// Count returns the total number of records across groups.
func Count(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Records)
	}
	return n
}
