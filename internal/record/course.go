package record

import "github.com/specialistvlad/reqgraph/internal/curriculum"

// Variant is one serialized course specialization.
type Variant struct {
	Name string     `json:"name"`
	Tree [][]string `json:"tree"`
}

// Course is one serialized course with its suggested curriculum.
type Course struct {
	Code    string     `json:"code"`
	Name    string     `json:"name"`
	Tree    [][]string `json:"tree,omitempty"`
	Variant []Variant  `json:"variant,omitempty"`
}

// FromCourse serializes a course.
func FromCourse(c curriculum.Course) Course {
	out := Course{Code: c.Code, Name: c.Name, Tree: c.Tree}
	for _, v := range c.Variants {
		out.Variant = append(out.Variant, Variant{Name: v.Name, Tree: v.Tree})
	}
	return out
}
