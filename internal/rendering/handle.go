package rendering

// Handle references the outermost element of a rendered Document. A handle
// is attached once its document has been mounted into an HTML page; only
// attached handles can be rasterized.
type Handle struct {
	id       string
	template TemplateID
	page     []byte
}

// ID returns the element id of the referenced root node.
func (h Handle) ID() string { return h.id }

// Template returns the template the referenced document was rendered with.
func (h Handle) Template() TemplateID { return h.template }

// Attached reports whether the handle points at a mounted page.
func (h Handle) Attached() bool { return h.id != "" && len(h.page) > 0 }

// Page returns the mounted HTML page, or nil for a detached handle.
func (h Handle) Page() []byte {
	if !h.Attached() {
		return nil
	}
	out := make([]byte, len(h.page))
	copy(out, h.page)
	return out
}

// Selector returns a CSS selector matching the referenced element.
func (h Handle) Selector() string { return "#" + h.id }
