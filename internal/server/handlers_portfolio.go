package server

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"unicode"

	"github.com/lithammer/shortuuid/v4"

	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/types"
)

const notFoundPage = `<!DOCTYPE html>
<html lang="en"><head><meta charset="utf-8"><title>Portfolio Not Found</title></head>
<body><main><h1>Portfolio Not Found</h1><p>This resume does not exist or is no longer public.</p></main></body></html>
`

// publishAttempts bounds retries when a generated slug collides.
const publishAttempts = 3

func (s *Server) handlePublishResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	record, err := s.loadRecord(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	public := true
	if record.Slug != nil {
		err = s.resumes.UpdateResume(r.Context(), id, db.ResumePatch{IsPublic: &public})
	} else {
		base := slugBase(record.ResumeData.Name, record.Title)
		for attempt := 0; attempt < publishAttempts; attempt++ {
			slug := newSlug(base)
			err = s.resumes.UpdateResume(r.Context(), id, db.ResumePatch{IsPublic: &public, Slug: &slug})
			if !errors.Is(err, db.ErrSlugTaken) {
				break
			}
			log.Printf("[portfolio] Slug %s taken, retrying", slug)
		}
	}
	if err != nil {
		if !errors.Is(err, db.ErrSlugTaken) {
			err = resumeWriteError(err, "could not publish the resume")
		}
		s.writeError(w, r, err)
		return
	}

	record, err = s.loadRecord(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handleUnpublishResume hides the portfolio page. The slug is kept so a
// later publish restores the same URL.
func (s *Server) handleUnpublishResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	if _, err := s.loadOwned(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}
	public := false
	if err := s.resumes.UpdateResume(r.Context(), id, db.ResumePatch{IsPublic: &public}); err != nil {
		s.writeError(w, r, resumeWriteError(err, "could not unpublish the resume"))
		return
	}

	record, err := s.loadRecord(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

// handlePortfolio serves /p/{slug} as HTML and /p/{slug}.json as the
// normalized resume data.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	asJSON := strings.HasSuffix(slug, ".json")
	slug = strings.TrimSuffix(slug, ".json")

	row, err := s.resumes.GetPublicResumeBySlug(r.Context(), slug)
	if err != nil {
		s.writeError(w, r, types.NewCollaboratorError("database", "could not load the portfolio", err))
		return
	}
	if row == nil || !row.IsPublic {
		if asJSON {
			s.errorResponse(w, http.StatusNotFound, "Portfolio Not Found")
			return
		}
		s.htmlResponse(w, http.StatusNotFound, []byte(notFoundPage))
		return
	}

	record, err := toRecord(row)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if asJSON {
		s.jsonResponse(w, http.StatusOK, record.ResumeData)
		return
	}

	doc, err := renderWith(record.Template, record.ResumeData)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlDocument(w, r, http.StatusOK, doc)
}

// slugBase turns the owner's name (or the record title) into a lowercase
// dash-separated URL segment.
func slugBase(name, title string) string {
	src := strings.TrimSpace(name)
	if src == "" {
		src = strings.TrimSpace(title)
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(src) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if len(out) > 48 {
		out = strings.TrimSuffix(out[:48], "-")
	}
	if out == "" {
		return "resume"
	}
	return out
}

func newSlug(base string) string {
	return base + "-" + strings.ToLower(shortuuid.New()[:8])
}
