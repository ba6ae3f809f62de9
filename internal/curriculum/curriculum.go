// Package curriculum models the suggested curricula of catalog courses: per
// course, an ordered list of semesters with the disciplines suggested for each.
// Courses with specializations carry one named tree per variant instead of a
// single tree.
package curriculum

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/requirement"
)

// ErrNoCode is returned when a fragment does not start with a discipline code.
var ErrNoCode = errors.New("fragment has no discipline code")

// Tree lists the discipline codes suggested for each semester, in order.
type Tree [][]string

// Variant is a named specialization of a course with its own tree.
type Variant struct {
	Name string
	Tree Tree
}

// Course is one catalog course. Exactly one of Tree or Variants is set.
type Course struct {
	Code     string
	Name     string
	Tree     Tree
	Variants []Variant
}

// Trees returns every tree of the course.
func (c *Course) Trees() []Tree {
	if len(c.Variants) == 0 {
		if c.Tree == nil {
			return nil
		}
		return []Tree{c.Tree}
	}
	trees := make([]Tree, 0, len(c.Variants))
	for _, v := range c.Variants {
		trees = append(trees, v.Tree)
	}
	return trees
}

// CodeFromText extracts the discipline code from a curriculum entry such as
// "MC102 6" or "F 000 4". The irregular single-letter department code arrives
// as two whitespace-separated tokens and is joined back into one.
func CodeFromText(text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: %q", ErrNoCode, text)
	}

	code := fields[0]
	if utf8.RuneCountInString(code) == 1 && len(fields) > 1 {
		code += " " + fields[1]
	}
	if !requirement.IsCode(code) {
		return "", fmt.Errorf("%w: %q", ErrNoCode, text)
	}
	return requirement.Canonical(code), nil
}

// JoinCodeTokens turns a whitespace-split token stream into codes, joining
// each single-letter token with the token that follows it.
func JoinCodeTokens(tokens []string) []string {
	codes := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if utf8.RuneCountInString(tok) == 1 && i+1 < len(tokens) {
			tok += " " + tokens[i+1]
			i++
		}
		codes = append(codes, requirement.Canonical(tok))
	}
	return codes
}

// Unknown returns the sorted, distinct codes of the course's trees that have
// no discipline in the index.
func Unknown(c *Course, ix *catalog.Index) []string {
	seen := make(map[string]struct{})
	var unknown []string
	for _, tree := range c.Trees() {
		for _, semester := range tree {
			for _, code := range semester {
				if _, ok := ix.Get(code); ok {
					continue
				}
				if _, ok := seen[code]; ok {
					continue
				}
				seen[code] = struct{}{}
				unknown = append(unknown, code)
			}
		}
	}
	slices.Sort(unknown)
	return unknown
}
