package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/schemas"
	"github.com/jonathan/oneclickresume/internal/server/middleware"
	"github.com/jonathan/oneclickresume/internal/types"
)

// maxBodyBytes caps request bodies; a full resume is a few kilobytes.
const maxBodyBytes = 1 << 20

func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	rows, err := s.resumes.ListResumes(r.Context(), userID)
	if err != nil {
		s.writeError(w, r, types.NewCollaboratorError("database", "could not load your resumes", err))
		return
	}

	out := make([]types.ResumeSummary, 0, len(rows))
	for _, row := range rows {
		out = append(out, types.ResumeSummary{
			ID:        row.ID,
			Title:     row.Title,
			Template:  row.Template,
			IsPublic:  row.IsPublic,
			Slug:      row.Slug,
			UpdatedAt: row.UpdatedAt,
		})
	}
	s.jsonResponse(w, http.StatusOK, out)
}

func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req types.CreateResumeRequest
	if !s.decodeJSON(w, r, &req, true) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var data types.ResumeData
	switch {
	case req.Sample:
		data = types.SampleResume()
	case req.ResumeData != nil:
		data = types.Normalize(*req.ResumeData)
	default:
		data = types.EmptyResume()
	}
	entry, err := rendering.LookupOrDefault(req.Template)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	id, err := s.resumes.CreateResume(r.Context(), userID, types.DefaultTitle(req.Title, data), data, string(entry.ID))
	if err != nil {
		s.writeError(w, r, types.NewCollaboratorError("database", "could not save the resume", err))
		return
	}

	record, err := s.loadRecord(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, record)
}

func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
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
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleUpdateResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}

	var req types.UpdateResumeRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if _, err := s.loadOwned(r.Context(), id, userID); err != nil {
		s.writeError(w, r, err)
		return
	}

	patch := db.ResumePatch{Title: req.Title, Template: req.Template}
	if req.ResumeData != nil {
		data := types.Normalize(*req.ResumeData)
		patch.Data = &data
	}
	if err := s.resumes.UpdateResume(r.Context(), id, patch); err != nil {
		s.writeError(w, r, resumeWriteError(err, "could not save the resume"))
		return
	}

	record, err := s.loadRecord(r.Context(), id, userID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, record)
}

func (s *Server) handleDeleteResume(w http.ResponseWriter, r *http.Request) {
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
	if err := s.resumes.DeleteResume(r.Context(), id); err != nil {
		s.writeError(w, r, resumeWriteError(err, "could not delete the resume"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleResumePreview renders a stored record as an HTML page. The template
// query parameter overrides the record's template without saving it.
func (s *Server) handleResumePreview(w http.ResponseWriter, r *http.Request) {
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
	if err := previewable(record.ResumeData); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := renderWith(pickTemplate(r, record.Template), record.ResumeData)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlDocument(w, r, http.StatusOK, doc)
}

func (s *Server) handleResumeExport(w http.ResponseWriter, r *http.Request) {
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
	if err := previewable(record.ResumeData); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := renderWith(pickTemplate(r, record.Template), record.ResumeData)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	hint := record.ResumeData.Name
	if hint == "" {
		hint = record.Title
	}
	s.exportDocument(w, r, userID, doc, hint)
}

// loadOwned returns the stored row for id when it belongs to userID.
// Missing rows and rows owned by someone else both yield ErrNotFound.
func (s *Server) loadOwned(ctx context.Context, id, userID uuid.UUID) (*db.Resume, error) {
	row, err := s.resumes.GetResume(ctx, id)
	if err != nil {
		return nil, types.NewCollaboratorError("database", "could not load the resume", err)
	}
	if row == nil || row.UserID != userID {
		return nil, &ErrNotFound{Resource: "resume"}
	}
	return row, nil
}

// resumeWriteError reports a row removed between the ownership check and the
// write as not found; any other failure is a database error.
func resumeWriteError(err error, message string) error {
	if errors.Is(err, db.ErrResumeNotFound) {
		return &ErrNotFound{Resource: "resume"}
	}
	return types.NewCollaboratorError("database", message, err)
}

func (s *Server) loadRecord(ctx context.Context, id, userID uuid.UUID) (*types.ResumeRecord, error) {
	row, err := s.loadOwned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return toRecord(row)
}

// toRecord decodes a stored row. Stored payloads are normalized on the way
// out; one that fails the schema is a server-side problem, not a bad request.
func toRecord(row *db.Resume) (*types.ResumeRecord, error) {
	data, err := schemas.DecodeResumeData(row.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode stored resume %s: %v", row.ID, err)
	}
	return &types.ResumeRecord{
		ID:         row.ID,
		UserID:     row.UserID,
		Title:      row.Title,
		ResumeData: data,
		Template:   row.Template,
		IsPublic:   row.IsPublic,
		Slug:       row.Slug,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}, nil
}

// requireUser returns the authenticated user id. Routes behind the auth
// middleware always have one.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return uuid.Nil, false
	}
	return userID, true
}

func (s *Server) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, r.PathValue(name)))
		return uuid.Nil, false
	}
	return id, true
}

// decodeJSON decodes the request body into dst. An empty body is accepted
// when allowEmpty is set and leaves dst untouched.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if err == nil || (allowEmpty && errors.Is(err, io.EOF)) {
		return true
	}
	s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// pickTemplate prefers the template query parameter over fallback.
func pickTemplate(r *http.Request, fallback string) string {
	if t := r.URL.Query().Get("template"); t != "" {
		return t
	}
	return fallback
}

func renderWith(template string, data types.ResumeData) (*rendering.Document, error) {
	entry, err := rendering.LookupOrDefault(template)
	if err != nil {
		return nil, err
	}
	return entry.Renderer.Render(data), nil
}
