package rendering

import (
	"strings"

	"github.com/jonathan/oneclickresume/internal/types"
)

// TemplateID identifies a visual template.
type TemplateID string

// Known templates.
const (
	TemplateClassic  TemplateID = "classic"
	TemplateModern   TemplateID = "modern"
	TemplateMinimal  TemplateID = "minimal"
	TemplateCreative TemplateID = "creative"
)

// DefaultTemplate is used when a record or request names no template.
const DefaultTemplate = TemplateClassic

// Renderer produces a Document from resume data. Implementations are pure:
// the same data always yields the same tree.
type Renderer interface {
	ID() TemplateID
	Render(types.ResumeData) *Document
}

// Entry is one registry row.
type Entry struct {
	ID          TemplateID `json:"id"`
	DisplayName string     `json:"name"`
	Renderer    Renderer   `json:"-"`
}

var (
	registryOrder = []TemplateID{TemplateClassic, TemplateModern, TemplateMinimal, TemplateCreative}
	registry      = map[TemplateID]Entry{
		TemplateClassic:  {ID: TemplateClassic, DisplayName: "Classic", Renderer: Classic{}},
		TemplateModern:   {ID: TemplateModern, DisplayName: "Modern", Renderer: Modern{}},
		TemplateMinimal:  {ID: TemplateMinimal, DisplayName: "Minimal", Renderer: Minimal{}},
		TemplateCreative: {ID: TemplateCreative, DisplayName: "Creative", Renderer: Creative{}},
	}
)

// Lookup returns the registry entry for id.
func Lookup(id string) (Entry, error) {
	entry, ok := registry[TemplateID(strings.TrimSpace(id))]
	if !ok {
		return Entry{}, &UnknownTemplateError{ID: id}
	}
	return entry, nil
}

// LookupOrDefault resolves an optional template id; the empty string selects
// DefaultTemplate.
func LookupOrDefault(id string) (Entry, error) {
	if strings.TrimSpace(id) == "" {
		return registry[DefaultTemplate], nil
	}
	return Lookup(id)
}

// Templates lists every entry in fixed display order.
func Templates() []Entry {
	out := make([]Entry, 0, len(registryOrder))
	for _, id := range registryOrder {
		out = append(out, registry[id])
	}
	return out
}

// Render looks up id and renders r with it.
func Render(id string, r types.ResumeData) (*Document, error) {
	entry, err := Lookup(id)
	if err != nil {
		return nil, err
	}
	return entry.Renderer.Render(r), nil
}
