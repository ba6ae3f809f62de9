package htmlsource

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/specialistvlad/reqgraph/internal/curriculum"
	"github.com/specialistvlad/reqgraph/internal/source"
	"golang.org/x/net/html"
)

var (
	courseLabelRegex = regexp.MustCompile(`(?i)rotulo-curso`)
	semesterRegex    = regexp.MustCompile(`(?i)semestre`)
	// Pages of courses without specializations anchor their single tree
	// with <a name="${esp.codigo}">.
	singleTreeRegex = regexp.MustCompile(`(?i)codigo`)
)

// ignoredVariantHeader is an h2 on variant pages that names no specialization.
const ignoredVariantHeader = "observação"

// CoursePath returns the suggested curriculum page of a course.
func CoursePath(code string) string {
	return "cursos/" + code + "g/sugestao.html"
}

// Courses lists every course from the catalog index and fetches its
// suggested curriculum.
func (s *Source) Courses(ctx context.Context) ([]curriculum.Course, error) {
	doc, err := s.fetch(ctx, "index.html")
	if err != nil {
		return nil, err
	}

	var courses []curriculum.Course
	for _, label := range findAll(doc, attrMatches("class", courseLabelRegex)) {
		code, name, err := source.SplitHeading(cleanText(text(label)))
		if err != nil {
			return nil, fmt.Errorf("course index: %w", err)
		}
		c := curriculum.Course{Code: code, Name: name}

		page, err := s.fetch(ctx, CoursePath(code))
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", code, err)
		}
		if err := fillTrees(&c, page); err != nil {
			return nil, fmt.Errorf("course %s: %w", code, err)
		}
		courses = append(courses, c)
	}
	return courses, nil
}

func fillTrees(c *curriculum.Course, page *html.Node) error {
	if find(page, func(n *html.Node) bool {
		return n.Data == "a" && attrMatches("name", singleTreeRegex)(n)
	}) != nil {
		tree, err := buildTree(page)
		if err != nil {
			return err
		}
		c.Tree = tree
		return nil
	}

	for _, header := range findAll(page, tagIs("h2")) {
		name := cleanText(text(header))
		if name == "" || strings.Contains(strings.ToLower(name), ignoredVariantHeader) {
			continue
		}
		tree, err := buildTree(header.Parent)
		if err != nil {
			return fmt.Errorf("variant %q: %w", name, err)
		}
		c.Variants = append(c.Variants, curriculum.Variant{Name: name, Tree: tree})
	}
	return nil
}

// buildTree reads every "semestre" h3 under n and the discipline links in
// the element following it.
func buildTree(n *html.Node) (curriculum.Tree, error) {
	var tree curriculum.Tree
	for _, title := range findAll(n, func(m *html.Node) bool {
		return m.Data == "h3" && semesterRegex.MatchString(text(m))
	}) {
		content := nextElement(title)
		semester := []string{}
		if content != nil {
			for _, link := range findAll(content, attrMatches("href", discRegex)) {
				code, err := curriculum.CodeFromText(text(link))
				if err != nil {
					return nil, err
				}
				semester = append(semester, code)
			}
		}
		tree = append(tree, semester)
	}
	return tree, nil
}
