package builder

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/oneclickresume/internal/rendering"
	"github.com/jonathan/oneclickresume/internal/types"
)

var (
	// ErrFieldNotInStep is returned when a write targets a field owned by a
	// step other than the current one.
	ErrFieldNotInStep = errors.New("field is not edited on the current step")
	// ErrLastRow is returned when removing the only entry of a list.
	ErrLastRow = errors.New("cannot remove the last entry")
	// ErrRowOutOfRange is returned for a row index outside the list.
	ErrRowOutOfRange = errors.New("row index out of range")
	// ErrNotListField is returned by row operations on scalar fields.
	ErrNotListField = errors.New("field is not a list")
)

// now is swapped in tests.
var now = time.Now

// Session is the editing context for one resume. It is owned by a single
// caller at a time; handlers load it from a SessionStore, apply one
// operation and store it back. Failed operations leave Resume untouched.
type Session struct {
	ID        uuid.UUID            `json:"id"`
	UserID    uuid.UUID            `json:"user_id"`
	ResumeID  *uuid.UUID           `json:"resume_id,omitempty"`
	Template  rendering.TemplateID `json:"template"`
	Resume    types.ResumeData     `json:"resume_data"`
	Flow      Flow                 `json:"flow"`
	CreatedAt time.Time            `json:"created_at"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// NewSession starts a session at StepContact holding a normalized copy of seed.
func NewSession(userID uuid.UUID, seed types.ResumeData) *Session {
	ts := now().UTC()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		Template:  rendering.DefaultTemplate,
		Resume:    types.Normalize(seed),
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	out := *s
	out.Resume = s.Resume.Clone()
	if s.ResumeID != nil {
		id := *s.ResumeID
		out.ResumeID = &id
	}
	return &out
}

// Replace swaps in a whole resume, e.g. after loading a stored record, and
// returns to the first step.
func (s *Session) Replace(r types.ResumeData) {
	s.Resume = types.Normalize(r)
	s.Flow = Flow{}
	s.touch()
}

// Set replaces field key with value. The field must belong to the current step.
func (s *Session) Set(key types.Field, value any) error {
	if err := s.checkStep(key); err != nil {
		return err
	}
	updated, err := types.UpdateField(s.Resume, key, value)
	if err != nil {
		return err
	}
	s.commit(updated)
	return nil
}

// SetJSON decodes raw into the named field's type and applies Set.
func (s *Session) SetJSON(name string, raw json.RawMessage) error {
	key, err := types.ParseField(name)
	if err != nil {
		return err
	}
	if err := s.checkStep(key); err != nil {
		return err
	}
	updated, err := types.UpdateFieldJSON(s.Resume, name, raw)
	if err != nil {
		return err
	}
	s.commit(updated)
	return nil
}

// SetSkillsText parses comma-separated skills input. Blank input keeps one
// placeholder row so the list is never empty.
func (s *Session) SetSkillsText(text string) error {
	return s.Set(types.FieldSkills, types.ParseSkills(text))
}

// AddRow appends an empty entry to list field key.
func (s *Session) AddRow(key types.Field) error {
	if err := s.checkList(key); err != nil {
		return err
	}
	updated, err := s.Resume.WithRowAppended(key)
	if err != nil {
		return err
	}
	s.commit(updated)
	return nil
}

// RemoveRow deletes entry i of list field key. The last remaining entry
// cannot be removed.
func (s *Session) RemoveRow(key types.Field, i int) error {
	if err := s.checkList(key); err != nil {
		return err
	}
	n, err := s.Resume.RowCount(key)
	if err != nil {
		return err
	}
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %s[%d] (have %d)", ErrRowOutOfRange, key, i, n)
	}
	if n == 1 {
		return fmt.Errorf("%w: %s", ErrLastRow, key)
	}
	updated, err := s.Resume.WithRowRemoved(key, i)
	if err != nil {
		return err
	}
	s.commit(updated)
	return nil
}

// CanRemoveRow reports whether the remove affordance should be offered for key.
func (s *Session) CanRemoveRow(key types.Field) bool {
	n, err := s.Resume.RowCount(key)
	return err == nil && n > 1
}

// SetTemplate selects the preview template.
func (s *Session) SetTemplate(id string) error {
	entry, err := rendering.Lookup(id)
	if err != nil {
		return err
	}
	s.Template = entry.ID
	s.touch()
	return nil
}

// Render renders the session's resume with its selected template.
func (s *Session) Render() (*rendering.Document, error) {
	return rendering.Render(string(s.Template), s.Resume)
}

// Next advances to the following step. On the last step it stays put and
// reports TransitionPreview.
func (s *Session) Next() Transition {
	t := s.Flow.Next()
	s.touch()
	return t
}

// Prev goes back one step. It is a no-op on the first step.
func (s *Session) Prev() Transition {
	t := s.Flow.Prev()
	s.touch()
	return t
}

// JumpTo moves directly to step i and fails with ErrInvalidStep when i is
// outside the flow.
func (s *Session) JumpTo(i int) error {
	if err := s.Flow.JumpTo(i); err != nil {
		return err
	}
	s.touch()
	return nil
}

func (s *Session) checkStep(key types.Field) error {
	if !key.Valid() {
		return &types.InvalidFieldError{Field: string(key), Reason: "not a resume field"}
	}
	if !s.Flow.Step().Owns(key) {
		owner, _ := StepOf(key)
		return fmt.Errorf("%w: %s belongs to %s, current step is %s", ErrFieldNotInStep, key, owner, s.Flow.Step())
	}
	return nil
}

func (s *Session) checkList(key types.Field) error {
	if err := s.checkStep(key); err != nil {
		return err
	}
	if !key.IsList() {
		return fmt.Errorf("%w: %s", ErrNotListField, key)
	}
	return nil
}

// commit stores r with every list refilled to at least one row, so a write
// of [] or null cannot leave the builder without an entry to edit.
func (s *Session) commit(r types.ResumeData) {
	s.Resume = types.Normalize(r)
	s.touch()
}

func (s *Session) touch() {
	s.UpdatedAt = now().UTC()
}
