package rendering

import (
	"bytes"
	_ "embed"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed styles.css
var stylesheet string

// Mount serializes doc into a standalone HTML page with the embedded
// stylesheet and returns an attached handle carrying the page.
func Mount(doc *Document) (Handle, error) {
	if doc == nil || doc.Root == nil {
		return Handle{}, &RenderError{Message: "document has no root"}
	}

	page, err := renderPage(doc, pageTitle(doc))
	if err != nil {
		return Handle{}, err
	}
	h := doc.Handle()
	h.page = page
	return h, nil
}

// MountHTML is a convenience that mounts doc and returns only the page.
func MountHTML(doc *Document) ([]byte, error) {
	h, err := Mount(doc)
	if err != nil {
		return nil, err
	}
	return h.page, nil
}

func pageTitle(doc *Document) string {
	for _, n := range doc.Root.Collect(KindHeading) {
		if n.Level == 1 && n.Text != "" {
			return n.Text + " - Resume"
		}
	}
	return "Resume"
}

func renderPage(doc *Document, title string) ([]byte, error) {
	head := element(atom.Head, nil,
		element(atom.Meta, []html.Attribute{{Key: "charset", Val: "utf-8"}}),
		element(atom.Title, nil, textNode(title)),
		element(atom.Style, nil, textNode(stylesheet)),
	)

	root := toHTML(doc.Root)
	root.Attr = append(root.Attr, html.Attribute{Key: "id", Val: doc.RootID()})
	body := element(atom.Body, nil, root)

	page := &html.Node{Type: html.DocumentNode}
	page.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	page.AppendChild(element(atom.Html, []html.Attribute{{Key: "lang", Val: "en"}}, head, body))

	var buf bytes.Buffer
	if err := html.Render(&buf, page); err != nil {
		return nil, &RenderError{Message: "failed to serialize document", Cause: err}
	}
	return buf.Bytes(), nil
}

func toHTML(n *Node) *html.Node {
	var attrs []html.Attribute
	if n.Class != "" {
		attrs = append(attrs, html.Attribute{Key: "class", Val: n.Class})
	}

	tag := atom.Div
	switch n.Kind {
	case KindHeader:
		tag = atom.Header
	case KindSection:
		tag = atom.Section
		attrs = append(attrs, html.Attribute{Key: "data-section", Val: string(n.Section)})
	case KindHeading:
		tag = headingAtom(n.Level)
	case KindText:
		tag = atom.P
	case KindItem:
		tag = atom.Article
	case KindTag:
		tag = atom.Span
	case KindContact:
		tag = atom.Span
		if n.Href != "" {
			tag = atom.A
			attrs = append(attrs, html.Attribute{Key: "href", Val: n.Href})
		}
		attrs = append(attrs, html.Attribute{Key: "data-label", Val: n.Label})
	}

	out := element(tag, attrs)
	if n.Text != "" {
		out.AppendChild(textNode(n.Text))
	}
	for _, c := range n.Children {
		out.AppendChild(toHTML(c))
	}
	return out
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	}
	return atom.H4
}

func element(a atom.Atom, attrs []html.Attribute, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
