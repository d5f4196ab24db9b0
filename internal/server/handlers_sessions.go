package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/builder"
	"github.com/jonathan/oneclickresume/internal/db"
	"github.com/jonathan/oneclickresume/internal/types"
)

// Seeds accepted by POST /sessions.
const (
	seedEmpty  = "empty"
	seedSample = "sample"
)

type createSessionRequest struct {
	Seed     string     `json:"seed" validate:"omitempty,oneof=empty sample"`
	ResumeID *uuid.UUID `json:"resume_id,omitempty"`
}

type templateRequest struct {
	Template string `json:"template" validate:"required"`
}

// sessionView is the API shape of a session: the stored session plus what
// a client needs to draw the current step.
type sessionView struct {
	*builder.Session
	Step       string               `json:"step"`
	StepIndex  int                  `json:"step_index"`
	StepFields []types.Field        `json:"step_fields"`
	Removable  map[types.Field]bool `json:"removable"`
	SkillsText string               `json:"skills_text"`
	Transition builder.Transition   `json:"transition,omitempty"`
}

func newSessionView(sess *builder.Session, t builder.Transition) sessionView {
	step := sess.Flow.Step()
	removable := make(map[types.Field]bool)
	for _, f := range step.Fields() {
		if f.IsList() {
			removable[f] = sess.CanRemoveRow(f)
		}
	}
	return sessionView{
		Session:    sess,
		Step:       step.String(),
		StepIndex:  int(step),
		StepFields: step.Fields(),
		Removable:  removable,
		SkillsText: types.JoinSkills(sess.Resume.Skills),
		Transition: t,
	}
}

type saveResponse struct {
	Session sessionView         `json:"session"`
	Resume  *types.ResumeRecord `json:"resume"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return
	}

	var req createSessionRequest
	if !s.decodeJSON(w, r, &req, true) {
		return
	}
	if err := types.Validator().Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	var sess *builder.Session
	switch {
	case req.ResumeID != nil:
		record, err := s.loadRecord(r.Context(), *req.ResumeID, userID)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		sess = builder.NewSession(userID, record.ResumeData)
		sess.ResumeID = &record.ID
		// Records may carry a template retired since they were saved.
		_ = sess.SetTemplate(record.Template)
	case req.Seed == seedSample:
		sess = builder.NewSession(userID, types.SampleResume())
	default:
		sess = builder.NewSession(userID, types.EmptyResume())
	}

	if err := s.sessions.Put(r.Context(), sess); err != nil {
		s.writeError(w, r, types.NewCollaboratorError("sessions", "could not start the builder", err))
		return
	}
	s.jsonResponse(w, http.StatusCreated, newSessionView(sess, builder.TransitionNone))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(sess, builder.TransitionNone))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := s.sessions.Delete(r.Context(), sess.ID); err != nil {
		s.writeError(w, r, types.NewCollaboratorError("sessions", "could not discard the builder session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionNext(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		return sess.Next(), nil
	})
}

func (s *Server) handleSessionPrev(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		return sess.Prev(), nil
	})
}

func (s *Server) handleSessionJump(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("step")
	step, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %q", builder.ErrInvalidStep, raw))
		return
	}
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		if err := sess.JumpTo(step); err != nil {
			return builder.TransitionNone, err
		}
		return builder.TransitionMoved, nil
	})
}

// handleSessionSetField replaces one field. The body is the field's JSON
// value; skills also accept a comma-separated string.
func (s *Server) handleSessionSetField(w http.ResponseWriter, r *http.Request) {
	var raw json.RawMessage
	if !s.decodeJSON(w, r, &raw, false) {
		return
	}
	name := r.PathValue("field")

	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		if types.Field(name) == types.FieldSkills && isJSONString(raw) {
			var text string
			if err := json.Unmarshal(raw, &text); err != nil {
				return builder.TransitionNone, &types.InvalidFieldError{Field: name, Reason: err.Error()}
			}
			return builder.TransitionNone, sess.SetSkillsText(text)
		}
		return builder.TransitionNone, sess.SetJSON(name, raw)
	})
}

func (s *Server) handleSessionAddRow(w http.ResponseWriter, r *http.Request) {
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		key, err := types.ParseField(r.PathValue("field"))
		if err != nil {
			return builder.TransitionNone, err
		}
		return builder.TransitionNone, sess.AddRow(key)
	})
}

func (s *Server) handleSessionRemoveRow(w http.ResponseWriter, r *http.Request) {
	raw := r.PathValue("index")
	index, err := strconv.Atoi(raw)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: %q", builder.ErrRowOutOfRange, raw))
		return
	}
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		key, err := types.ParseField(r.PathValue("field"))
		if err != nil {
			return builder.TransitionNone, err
		}
		return builder.TransitionNone, sess.RemoveRow(key, index)
	})
}

func (s *Server) handleSessionTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !s.decodeJSON(w, r, &req, false) {
		return
	}
	if err := types.Validator().Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	s.mutateSession(w, r, func(sess *builder.Session) (builder.Transition, error) {
		return builder.TransitionNone, sess.SetTemplate(req.Template)
	})
}

// handleSessionSave writes the session's resume to its record, creating the
// record on first save.
func (s *Server) handleSessionSave(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	template := string(sess.Template)

	status := http.StatusOK
	created := false
	if sess.ResumeID == nil {
		id, err := s.resumes.CreateResume(ctx, sess.UserID, types.DefaultTitle("", sess.Resume), sess.Resume, template)
		if err != nil {
			s.writeError(w, r, types.NewCollaboratorError("database", "could not save the resume", err))
			return
		}
		sess.ResumeID = &id
		created = true
		status = http.StatusCreated
	} else {
		if _, err := s.loadOwned(ctx, *sess.ResumeID, sess.UserID); err != nil {
			s.writeError(w, r, err)
			return
		}
		data := sess.Resume
		patch := db.ResumePatch{Data: &data, Template: &template}
		if err := s.resumes.UpdateResume(ctx, *sess.ResumeID, patch); err != nil {
			s.writeError(w, r, resumeWriteError(err, "could not save the resume"))
			return
		}
	}

	if err := s.sessions.Put(ctx, sess); err != nil {
		// A record the session cannot point at would be saved again as a
		// second record on retry.
		if created {
			if derr := s.resumes.DeleteResume(ctx, *sess.ResumeID); derr != nil {
				log.Printf("[sessions] Failed to remove unlinked resume %s: %v", *sess.ResumeID, derr)
			}
		}
		s.writeError(w, r, types.NewCollaboratorError("sessions", "could not update the builder session", err))
		return
	}
	record, err := s.loadRecord(ctx, *sess.ResumeID, sess.UserID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.jsonResponse(w, status, saveResponse{Session: newSessionView(sess, builder.TransitionNone), Resume: record})
}

func (s *Server) handleSessionPreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := previewable(sess.Resume); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := sess.Render()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.htmlDocument(w, r, http.StatusOK, doc)
}

func (s *Server) handleSessionExport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}
	if err := previewable(sess.Resume); err != nil {
		s.writeError(w, r, err)
		return
	}
	doc, err := sess.Render()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.exportDocument(w, r, sess.UserID, doc, sess.Resume.Name)
}

// loadSession fetches the session named in the path. Sessions of other
// users are reported as missing.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) (*builder.Session, bool) {
	userID, ok := s.requireUser(w, r)
	if !ok {
		return nil, false
	}
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return nil, false
	}

	sess, err := s.sessions.Get(r.Context(), id)
	if err != nil {
		if HTTPStatus(err) != http.StatusNotFound {
			err = types.NewCollaboratorError("sessions", "could not load the builder session", err)
		}
		s.writeError(w, r, err)
		return nil, false
	}
	if sess.UserID != userID {
		s.writeError(w, r, builder.ErrSessionNotFound)
		return nil, false
	}
	return sess, true
}

// mutateSession applies op to a fresh copy of the session and stores the
// result only when op succeeds.
func (s *Server) mutateSession(w http.ResponseWriter, r *http.Request, op func(*builder.Session) (builder.Transition, error)) {
	sess, ok := s.loadSession(w, r)
	if !ok {
		return
	}

	t, err := op(sess)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.sessions.Put(r.Context(), sess); err != nil {
		s.writeError(w, r, types.NewCollaboratorError("sessions", "could not update the builder session", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, newSessionView(sess, t))
}

func isJSONString(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '"'
}
