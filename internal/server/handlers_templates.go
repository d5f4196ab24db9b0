package server

import (
	"net/http"

	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

type templateInfo struct {
	ID      rendering.TemplateID `json:"id"`
	Name    string               `json:"name"`
	Default bool                 `json:"default,omitempty"`
}

// handleListTemplates lists the templates in display order.
func (s *Server) handleListTemplates(w http.ResponseWriter, _ *http.Request) {
	entries := rendering.Templates()
	out := make([]templateInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, templateInfo{ID: e.ID, Name: e.DisplayName, Default: e.ID == rendering.DefaultTemplate})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

// handleTemplateSample previews the sample resume in one template.
func (s *Server) handleTemplateSample(w http.ResponseWriter, r *http.Request) {
	doc, err := rendering.Render(r.PathValue("id"), types.SampleResume())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlDocument(w, r, http.StatusOK, doc)
}
