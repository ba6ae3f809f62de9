package requirement

// Atom is one reference to a prerequisite discipline.
type Atom struct {
	// Code is the canonical, upper-case catalog key.
	Code string
	// Partial marks that partial completion of the discipline is accepted.
	Partial bool
	// Special marks a code that is not present in the resolved catalog.
	// Only the cross-reference resolver sets it.
	Special bool
}

// Group is a conjunction of atoms: all of them are required together.
type Group []Atom

// Expression is a disjunction of groups: any one group suffices.
type Expression []Group

// Presence tells apart a discipline without prerequisites from one whose
// prerequisite text could not be parsed.
type Presence uint8

const (
	// Absent means the discipline declares no prerequisites.
	Absent Presence = iota
	// Invalid means prerequisite text existed but failed to parse.
	Invalid
	// Present means the text parsed into an expression with at least one group.
	Present
)

// String returns a human-readable name for the presence state.
func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Present:
		return "present"
	default:
		return "unknown"
	}
}

// Requirements is the tagged result of parsing a discipline's prerequisite
// text. Expr is only meaningful when Presence is Present.
type Requirements struct {
	Presence Presence
	// Raw is the text the requirements were parsed from, kept for duplicate
	// detection and diagnostics.
	Raw  string
	Expr Expression
	// Err holds the parse failure when Presence is Invalid.
	Err error
}

// Atoms returns the number of atoms across all groups.
func (e Expression) Atoms() int {
	n := 0
	for _, g := range e {
		n += len(g)
	}
	return n
}
