/*
Package requirement parses the catalog's prerequisite text into a structured
boolean model.

The grammar is two levels deep:

	expression := group ("ou" group)*
	group      := atom ("+" atom)*

An expression is a disjunction of groups and a group is a conjunction of
atoms. An atom is a discipline code such as `MC102`, optionally prefixed with
`*` to mark that partial completion of the discipline is accepted. The irregular
single-letter department form `F 000` is a single atom.

Parsing is fail-fast: one malformed atom invalidates the whole expression.
*/
package requirement
