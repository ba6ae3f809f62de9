// Package yamlsource provides a page source backed by a YAML fixture file. It
// lets a harvest run offline against a frozen snapshot of the catalog.
//
// The fixture layout is:
//
//	groups:
//	  MC:
//	    - code: MC102
//	      name: Algoritmos e Programação de Computadores
//	      credits: 6
//	      requirements: "MC101 ou *AA200"   # omit for none
//	courses:
//	  - code: "42"
//	    name: Ciência da Computação
//	    semesters: ["MC102 MA111", "MC202 F 128"]
//	    variants:
//	      - name: AA
//	        semesters: ["MC102", "MC458"]
package yamlsource

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/specialistvlad/reqgraph/internal/curriculum"
	"github.com/specialistvlad/reqgraph/internal/source"
	"gopkg.in/yaml.v3"
)

type fixture struct {
	Groups  map[string][]discipline `yaml:"groups"`
	Courses []course                `yaml:"courses"`
}

type discipline struct {
	Code         string  `yaml:"code"`
	Name         string  `yaml:"name"`
	Credits      int     `yaml:"credits"`
	Syllabus     string  `yaml:"syllabus"`
	Requirements *string `yaml:"requirements"`
}

type course struct {
	Code      string    `yaml:"code"`
	Name      string    `yaml:"name"`
	Semesters []string  `yaml:"semesters"`
	Variants  []variant `yaml:"variants"`
}

type variant struct {
	Name      string   `yaml:"name"`
	Semesters []string `yaml:"semesters"`
}

// Source serves fragments from a decoded fixture.
type Source struct {
	fx fixture
}

// Load reads and decodes the fixture at path.
func Load(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file '%s': %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse fixture file '%s': %w", path, err)
	}
	return s, nil
}

// Parse decodes a fixture document.
func Parse(data []byte) (*Source, error) {
	var fx fixture
	if err := yaml.Unmarshal(data, &fx); err != nil {
		return nil, err
	}
	return &Source{fx: fx}, nil
}

// Groups returns the fixture's group keys in sorted order.
func (s *Source) Groups(ctx context.Context) ([]string, error) {
	groups := make([]string, 0, len(s.fx.Groups))
	for g := range s.fx.Groups {
		groups = append(groups, g)
	}
	slices.Sort(groups)
	return groups, nil
}

// Disciplines returns the fragments declared under group. Unknown groups
// yield an empty shard.
func (s *Source) Disciplines(ctx context.Context, group string) ([]source.Fragment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := s.fx.Groups[group]
	frags := make([]source.Fragment, 0, len(entries))
	for _, d := range entries {
		frags = append(frags, source.Fragment{
			Code:         d.Code,
			Name:         d.Name,
			Requirements: d.Requirements,
			Credits:      d.Credits,
			Syllabus:     d.Syllabus,
		})
	}
	return frags, nil
}

// Courses returns the fixture's courses with their semester strings split
// into codes.
func (s *Source) Courses(ctx context.Context) ([]curriculum.Course, error) {
	courses := make([]curriculum.Course, 0, len(s.fx.Courses))
	for _, c := range s.fx.Courses {
		out := curriculum.Course{Code: c.Code, Name: c.Name}
		if len(c.Variants) > 0 {
			for _, v := range c.Variants {
				out.Variants = append(out.Variants, curriculum.Variant{Name: v.Name, Tree: tree(v.Semesters)})
			}
		} else {
			out.Tree = tree(c.Semesters)
		}
		courses = append(courses, out)
	}
	return courses, nil
}

func tree(semesters []string) curriculum.Tree {
	t := make(curriculum.Tree, 0, len(semesters))
	for _, sem := range semesters {
		t = append(t, curriculum.JoinCodeTokens(strings.Fields(sem)))
	}
	return t
}
