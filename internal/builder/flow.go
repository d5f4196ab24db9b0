// Package builder implements the step-by-step resume editing flow and the
// session object that carries one resume through it.
package builder

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jonathan/oneclickresume/internal/types"
)

// Step is one page of the builder.
type Step int

// Builder steps, in order.
const (
	StepContact Step = iota
	StepSummary
	StepEducation
	StepSkills
	StepProjects
	StepExperience
)

// LastStep is the terminal step; moving forward from it exits to preview.
const LastStep = StepExperience

// ErrInvalidStep is returned when jumping to an index outside 0..LastStep.
var ErrInvalidStep = errors.New("invalid step")

var stepNames = [...]string{"Contact", "Summary", "Education", "Skills", "Projects", "Experience"}

// stepFields assigns every resume field to exactly one step.
var stepFields = [...][]types.Field{
	StepContact: {
		types.FieldName, types.FieldTitle, types.FieldEmail, types.FieldPhone,
		types.FieldLocation, types.FieldLinkedIn, types.FieldGitHub,
	},
	StepSummary:    {types.FieldSummary},
	StepEducation:  {types.FieldEducation, types.FieldCertifications},
	StepSkills:     {types.FieldSkills},
	StepProjects:   {types.FieldProjects},
	StepExperience: {types.FieldExperience},
}

// Steps returns every step in order.
func Steps() []Step {
	return []Step{StepContact, StepSummary, StepEducation, StepSkills, StepProjects, StepExperience}
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s >= StepContact && s <= LastStep
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Step(%d)", int(s))
	}
	return stepNames[s]
}

// Fields returns the resume fields edited on step s.
func (s Step) Fields() []types.Field {
	if !s.Valid() {
		return nil
	}
	out := make([]types.Field, len(stepFields[s]))
	copy(out, stepFields[s])
	return out
}

// Owns reports whether field f is edited on step s.
func (s Step) Owns(f types.Field) bool {
	for _, owned := range s.Fields() {
		if owned == f {
			return true
		}
	}
	return false
}

// StepOf returns the step that edits field f.
func StepOf(f types.Field) (Step, bool) {
	for _, s := range Steps() {
		if s.Owns(f) {
			return s, true
		}
	}
	return 0, false
}

// Transition describes the outcome of a navigation call.
type Transition int

const (
	// TransitionNone means the call had no effect.
	TransitionNone Transition = iota
	// TransitionMoved means the current step changed.
	TransitionMoved
	// TransitionPreview means the flow left through its terminal step; the
	// caller should show the preview.
	TransitionPreview
)

func (t Transition) String() string {
	switch t {
	case TransitionMoved:
		return "moved"
	case TransitionPreview:
		return "preview"
	}
	return "none"
}

// MarshalText implements encoding.TextMarshaler.
func (t Transition) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Flow is the builder's navigation state. The zero value starts at
// StepContact. Navigation never validates field contents.
type Flow struct {
	step Step
}

// Step returns the current step.
func (f *Flow) Step() Step { return f.step }

// Next moves forward one step. From LastStep it stays put and reports
// TransitionPreview.
func (f *Flow) Next() Transition {
	if f.step >= LastStep {
		f.step = LastStep
		return TransitionPreview
	}
	f.step++
	return TransitionMoved
}

// Prev moves back one step. It is a no-op at StepContact.
func (f *Flow) Prev() Transition {
	if f.step <= StepContact {
		f.step = StepContact
		return TransitionNone
	}
	f.step--
	return TransitionMoved
}

// JumpTo moves directly to step index i.
func (f *Flow) JumpTo(i int) error {
	s := Step(i)
	if !s.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidStep, i)
	}
	f.step = s
	return nil
}

// AtPreviewExit reports whether the next forward move exits to preview.
func (f *Flow) AtPreviewExit() bool { return f.step == LastStep }

type flowJSON struct {
	Step int    `json:"step"`
	Name string `json:"name"`
}

// MarshalJSON encodes the current step index and name.
func (f Flow) MarshalJSON() ([]byte, error) {
	return json.Marshal(flowJSON{Step: int(f.step), Name: f.step.String()})
}

// UnmarshalJSON restores a flow encoded by MarshalJSON.
func (f *Flow) UnmarshalJSON(data []byte) error {
	var v flowJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return f.JumpTo(v.Step)
}
