package htmlsource

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// walk visits n and its descendants in document order until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// findAll returns the element descendants of n (n excluded) matching pred.
func findAll(n *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(m *html.Node) bool {
			if m.Type == html.ElementNode && pred(m) {
				out = append(out, m)
			}
			return true
		})
	}
	return out
}

// find returns the first element descendant of n matching pred, or nil.
func find(n *html.Node, pred func(*html.Node) bool) *html.Node {
	var found *html.Node
	for c := n.FirstChild; c != nil && found == nil; c = c.NextSibling {
		walk(c, func(m *html.Node) bool {
			if m.Type == html.ElementNode && pred(m) {
				found = m
				return false
			}
			return true
		})
	}
	return found
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// attrMatches matches elements whose attribute value matches re.
func attrMatches(key string, re *regexp.Regexp) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attr(n, key)
		return ok && re.MatchString(v)
	}
}

// hasClass matches elements carrying class as one of their class tokens.
func hasClass(class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		v, ok := attr(n, "class")
		if !ok {
			return false
		}
		for _, c := range strings.Fields(v) {
			if c == class {
				return true
			}
		}
		return false
	}
}

// ownTextMatches matches elements whose direct text content matches re.
func ownTextMatches(re *regexp.Regexp) func(*html.Node) bool {
	return func(n *html.Node) bool {
		var sb strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.TextNode {
				sb.WriteString(c.Data)
			}
		}
		return re.MatchString(sb.String())
	}
}

func tagIs(tag string) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.Data == tag }
}

// text returns the concatenated text of n and its descendants.
func text(n *html.Node) string {
	var sb strings.Builder
	walk(n, func(m *html.Node) bool {
		if m.Type == html.TextNode {
			sb.WriteString(m.Data)
		}
		return true
	})
	return sb.String()
}

// cleanText collapses whitespace runs, including non-breaking spaces.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// nextElement returns the next element sibling of n, skipping text nodes.
func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
