package rendering

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed resume.tex.tmpl
var latexSource string

var latexTemplate = template.Must(template.New("resume").Funcs(template.FuncMap{
	"escape": EscapeLaTeX,
	"join":   strings.Join,
}).Parse(latexSource))

// latexData is the view of a Document that the LaTeX template consumes.
type latexData struct {
	Name     string
	Headline string
	Contact  []string
	Sections []latexSection
}

type latexSection struct {
	Title   string
	Summary string
	Tags    []string
	Entries []latexEntry
}

type latexEntry struct {
	Title string
	Lines []string
}

// RenderLaTeX writes doc as LaTeX source. Layout-only nodes (rows and
// columns) are flattened, so every template yields the same sections in its
// own order.
func RenderLaTeX(doc *Document) (string, error) {
	if doc == nil || doc.Root == nil {
		return "", &RenderError{Message: "document has no root"}
	}

	data := latexData{}
	doc.Root.Walk(func(n *Node) {
		switch {
		case n.Kind == KindHeading && n.Level == 1 && data.Name == "":
			data.Name = n.Text
		case n.Kind == KindText && n.Class == "headline" && data.Headline == "":
			data.Headline = n.Text
		case n.Kind == KindContact:
			data.Contact = append(data.Contact, n.Text)
		case n.Kind == KindSection && n.Section != SectionContact:
			data.Sections = append(data.Sections, latexSectionOf(n))
		}
	})

	var out strings.Builder
	if err := latexTemplate.Execute(&out, data); err != nil {
		return "", &RenderError{Message: "failed to execute latex template", Cause: err}
	}
	return out.String(), nil
}

func latexSectionOf(n *Node) latexSection {
	s := latexSection{}
	for _, c := range n.Children {
		switch c.Kind {
		case KindHeading:
			s.Title = c.Text
		case KindText:
			s.Summary = c.Text
		case KindRow:
			for _, tag := range c.Collect(KindTag) {
				s.Tags = append(s.Tags, tag.Text)
			}
		case KindItem:
			e := latexEntry{}
			for _, part := range c.Children {
				if part.Kind == KindHeading && e.Title == "" {
					e.Title = part.Text
					continue
				}
				e.Lines = append(e.Lines, part.Text)
			}
			if e.Title == "" && len(e.Lines) > 0 {
				e.Title, e.Lines = e.Lines[0], e.Lines[1:]
			}
			s.Entries = append(s.Entries, e)
		}
	}
	return s
}
