package requirement

import "strings"

// String serializes the atom in the catalog's textual form.
func (a Atom) String() string {
	if a.Partial {
		return partialMarker + a.Code
	}
	return a.Code
}

// String serializes the group as `A+B`.
func (g Group) String() string {
	var sb strings.Builder
	for i, a := range g {
		if i > 0 {
			sb.WriteString(andSeparator)
		}
		sb.WriteString(a.String())
	}
	return sb.String()
}

// String serializes the expression as `A+B ou C`. Parsing the result yields
// an equal expression, apart from the Special annotation which is not part of
// the textual form.
func (e Expression) String() string {
	var sb strings.Builder
	for i, g := range e {
		if i > 0 {
			sb.WriteString(" ou ")
		}
		sb.WriteString(g.String())
	}
	return sb.String()
}
