package catalog

import (
	"slices"
	"sync"

	"github.com/specialistvlad/reqgraph/internal/requirement"
)

// Discipline is one catalog entry.
type Discipline struct {
	Code     string
	Name     string
	Credits  int
	Syllabus string
	// Group is the catalog partition (initials) the discipline was read from.
	Group        string
	Requirements requirement.Requirements

	// mu guards requiredBy; contention is scoped to this discipline.
	mu         sync.Mutex
	requiredBy map[string]struct{}
}

// NewDiscipline creates a discipline and parses its raw requirement text. A
// nil rawRequirements means the discipline declares no prerequisites.
func NewDiscipline(group, code, name string, rawRequirements *string) *Discipline {
	d := &Discipline{
		Code:  requirement.Canonical(code),
		Name:  name,
		Group: group,
	}
	if rawRequirements != nil {
		d.Requirements = requirement.NewRequirements(*rawRequirements)
	}
	return d
}

// AddRequiredBy records that the discipline identified by code lists d as a
// prerequisite. Adding the same code twice has no effect. It reports whether
// the edge was new.
func (d *Discipline) AddRequiredBy(code string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.requiredBy == nil {
		d.requiredBy = make(map[string]struct{})
	}
	if _, ok := d.requiredBy[code]; ok {
		return false
	}
	d.requiredBy[code] = struct{}{}
	return true
}

// RequiredBy returns the codes of the disciplines that require d, sorted.
func (d *Discipline) RequiredBy() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	codes := make([]string, 0, len(d.requiredBy))
	for code := range d.requiredBy {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	return codes
}

// SameContent reports whether two records describe the same discipline. It
// compares the source data only; resolution results are ignored.
func (d *Discipline) SameContent(other *Discipline) bool {
	return d.Code == other.Code &&
		d.Name == other.Name &&
		d.Credits == other.Credits &&
		d.Syllabus == other.Syllabus &&
		d.Requirements.Presence == other.Requirements.Presence &&
		d.Requirements.Raw == other.Requirements.Raw
}
