// Package rendering turns ResumeData into template-specific document trees
// and serializes those trees into standalone HTML pages for preview and export.
package rendering

import (
	"strings"
)

// Kind identifies the role of a Node in a Document.
type Kind int

// Node kinds.
const (
	KindRoot Kind = iota
	KindHeader
	KindSection
	KindColumn
	KindRow
	KindHeading
	KindText
	KindItem
	KindTag
	KindContact
)

var kindNames = [...]string{"root", "header", "section", "column", "row", "heading", "text", "item", "tag", "contact"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// SectionKind names the resume section a KindSection node displays.
type SectionKind string

// Section kinds.
const (
	SectionSummary        SectionKind = "summary"
	SectionExperience     SectionKind = "experience"
	SectionProjects       SectionKind = "projects"
	SectionEducation      SectionKind = "education"
	SectionCertifications SectionKind = "certifications"
	SectionSkills         SectionKind = "skills"
	SectionContact        SectionKind = "contact"
)

// Node is one element of a rendered Document.
type Node struct {
	Kind    Kind
	Section SectionKind // set on KindSection nodes
	Level   int         // heading level on KindHeading nodes
	Class   string
	Text    string
	Href    string // optional link target on KindContact nodes
	Label   string // contact label, e.g. "email"

	Children []*Node
}

// Document is the output of a Renderer: a tree rooted at a KindRoot node.
type Document struct {
	Template TemplateID
	Root     *Node
}

// RootID is the element id of the document's outermost node.
func (d *Document) RootID() string {
	return "resume-" + string(d.Template)
}

// Handle returns a detached handle referencing the document's root element.
// Use Mount to obtain an attached one.
func (d *Document) Handle() Handle {
	return Handle{id: d.RootID(), template: d.Template}
}

// Sections lists the section kinds of the document in display order.
func (d *Document) Sections() []SectionKind {
	var out []SectionKind
	d.Root.Walk(func(n *Node) {
		if n.Kind == KindSection {
			out = append(out, n.Section)
		}
	})
	return out
}

// Find returns the first section of the given kind, or nil.
func (d *Document) Find(kind SectionKind) *Node {
	var found *Node
	d.Root.Walk(func(n *Node) {
		if found == nil && n.Kind == KindSection && n.Section == kind {
			found = n
		}
	})
	return found
}

// Text returns the document's text content, one node per line.
func (d *Document) Text() string {
	var lines []string
	d.Root.Walk(func(n *Node) {
		if n.Text != "" {
			lines = append(lines, n.Text)
		}
	})
	return strings.Join(lines, "\n")
}

// Walk visits n and its descendants depth-first in document order.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Collect returns every descendant of n (including n) of the given kind.
func (n *Node) Collect(kind Kind) []*Node {
	var out []*Node
	n.Walk(func(c *Node) {
		if c.Kind == kind {
			out = append(out, c)
		}
	})
	return out
}

func el(kind Kind, class string, children ...*Node) *Node {
	return &Node{Kind: kind, Class: class, Children: compact(children)}
}

func text(class, s string) *Node {
	return &Node{Kind: KindText, Class: class, Text: s}
}

func heading(level int, class, s string) *Node {
	return &Node{Kind: KindHeading, Level: level, Class: class, Text: s}
}

func section(kind SectionKind, class string, children ...*Node) *Node {
	return &Node{Kind: KindSection, Section: kind, Class: class, Children: compact(children)}
}

// optional returns a text node only when s is non-empty, so empty scalar
// fields leave no trace in the tree.
func optional(class, s string) *Node {
	if s == "" {
		return nil
	}
	return text(class, s)
}

// compact drops nil children so builders can pass optional nodes inline.
func compact(nodes []*Node) []*Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}
