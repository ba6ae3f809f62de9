package htmlsource

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/specialistvlad/reqgraph/internal/source"
	"golang.org/x/net/html"
)

const disciplinesDir = "disciplinas/"

var (
	discRegex         = regexp.MustCompile(`(?i)disc`)
	creditsRegex      = regexp.MustCompile(`(?i)créditos`)
	requirementsRegex = regexp.MustCompile(`(?i)requisitos`)
	syllabusRegex     = regexp.MustCompile(`(?i)ementa`)
)

// GroupPath returns the page of a group relative to the catalog root.
func GroupPath(group string) string {
	return disciplinesDir + strings.ReplaceAll(strings.ToLower(group), " ", "_") + ".html"
}

// Groups lists the discipline initials from the disciplines index page.
// Single-letter initials keep their trailing space ("F ").
func (s *Source) Groups(ctx context.Context) ([]string, error) {
	doc, err := s.fetch(ctx, disciplinesDir+"index.html")
	if err != nil {
		return nil, err
	}

	list := find(doc, attrMatches("class", discRegex))
	if list == nil {
		return nil, fmt.Errorf("disciplines index has no initials list")
	}

	var groups []string
	for _, n := range findAll(list, tagIs("div")) {
		initials := strings.ToUpper(cleanText(text(n)))
		if initials == "" {
			continue
		}
		if utf8.RuneCountInString(initials) == 1 {
			initials += " "
		}
		groups = append(groups, initials)
	}
	return groups, nil
}

// Disciplines fetches the page of group and isolates one fragment per
// innermost discipline row. Rows without a code heading are not disciplines
// and are skipped.
func (s *Source) Disciplines(ctx context.Context, group string) ([]source.Fragment, error) {
	doc, err := s.fetch(ctx, GroupPath(group))
	if err != nil {
		return nil, err
	}

	var frags []source.Fragment
	for _, row := range findAll(doc, hasClass("row")) {
		if find(row, hasClass("row")) != nil {
			continue
		}
		frag, ok, err := s.fragment(row)
		if err != nil {
			return nil, fmt.Errorf("group %q: %w", group, err)
		}
		if ok {
			frags = append(frags, frag)
		}
	}
	return frags, nil
}

func (s *Source) fragment(row *html.Node) (source.Fragment, bool, error) {
	heading := find(row, attrMatches("id", discRegex))
	if heading == nil {
		return source.Fragment{}, false, nil
	}
	code, name, err := source.SplitHeading(cleanText(text(heading)))
	if err != nil {
		return source.Fragment{}, false, err
	}
	frag := source.Fragment{Code: code, Name: name}

	if label := find(row, ownTextMatches(creditsRegex)); label != nil && label.NextSibling != nil {
		raw := cleanText(text(label.NextSibling))
		if raw != "" {
			credits, err := strconv.Atoi(raw)
			if err != nil {
				return source.Fragment{}, false, fmt.Errorf("discipline %s: invalid credits %q", code, raw)
			}
			frag.Credits = credits
		}
	}

	if value := labelledValue(row, requirementsRegex); value != "" && !s.isNone(value) {
		frag.Requirements = &value
	}
	frag.Syllabus = labelledValue(row, syllabusRegex)

	return frag, true, nil
}

// labelledValue returns the text of the element following the label matching re.
func labelledValue(row *html.Node, re *regexp.Regexp) string {
	label := find(row, ownTextMatches(re))
	if label == nil {
		return ""
	}
	value := nextElement(label)
	if value == nil {
		return ""
	}
	return cleanText(text(value))
}

func (s *Source) isNone(value string) bool {
	for _, m := range s.noneMarkers {
		if strings.EqualFold(value, m) {
			return true
		}
	}
	return false
}
