package server

import (
	"context"
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/export"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

// previewable rejects resumes that would render as an empty page.
func previewable(data types.ResumeData) error {
	if data.IsBlank() {
		return &ErrNoResumeData{}
	}
	return nil
}

// htmlDocument mounts doc and writes the standalone page.
func (s *Server) htmlDocument(w http.ResponseWriter, r *http.Request, status int, doc *rendering.Document) {
	page, err := rendering.MountHTML(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlResponse(w, status, page)
}

func (s *Server) htmlResponse(w http.ResponseWriter, status int, page []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(page); err != nil {
		log.Printf("Error writing HTML response: %v", err)
	}
}

// exportDocument captures doc as a PDF download named after hint. Archived
// copies are filed under the owner's id.
func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request, owner uuid.UUID, doc *rendering.Document, hint string) {
	h, err := rendering.Mount(doc)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	download := &downloadSaver{inner: export.HTTPSaver{W: w}}
	exporter := s.exporter.ArchiveUnder(owner.String())
	if err := exporter.ExportToPDF(r.Context(), h, hint, download); err != nil {
		if download.started {
			// Headers are gone; all that is left is to record the failure.
			log.Printf("[export] Failed while sending %s: %v", export.FileName(hint), err)
			return
		}
		s.writeError(w, r, err)
	}
}

// downloadSaver remembers whether the response was started.
type downloadSaver struct {
	inner   export.Saver
	started bool
}

func (d *downloadSaver) Save(ctx context.Context, name string, data []byte) error {
	d.started = true
	return d.inner.Save(ctx, name, data)
}
