package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Field names one declared ResumeData field. Values match the JSON keys of
// the persisted payload.
type Field string

// Declared ResumeData fields, in declaration order.
const (
	FieldName           Field = "name"
	FieldTitle          Field = "title"
	FieldEmail          Field = "email"
	FieldPhone          Field = "phone"
	FieldLocation       Field = "location"
	FieldLinkedIn       Field = "linkedin"
	FieldGitHub         Field = "github"
	FieldSummary        Field = "summary"
	FieldEducation      Field = "education"
	FieldSkills         Field = "skills"
	FieldProjects       Field = "projects"
	FieldExperience     Field = "experience"
	FieldCertifications Field = "certifications"
)

var allFields = []Field{
	FieldName, FieldTitle, FieldEmail, FieldPhone, FieldLocation, FieldLinkedIn,
	FieldGitHub, FieldSummary, FieldEducation, FieldSkills, FieldProjects,
	FieldExperience, FieldCertifications,
}

// Fields returns every declared field in declaration order.
func Fields() []Field {
	out := make([]Field, len(allFields))
	copy(out, allFields)
	return out
}

// IsList reports whether f holds an ordered list of entries.
func (f Field) IsList() bool {
	switch f {
	case FieldEducation, FieldSkills, FieldProjects, FieldExperience, FieldCertifications:
		return true
	}
	return false
}

// Valid reports whether f is a declared field.
func (f Field) Valid() bool {
	for _, known := range allFields {
		if f == known {
			return true
		}
	}
	return false
}

// ParseField converts a field name into a Field.
func ParseField(name string) (Field, error) {
	f := Field(strings.TrimSpace(name))
	if !f.Valid() {
		return "", &InvalidFieldError{Field: name, Reason: "not a resume field"}
	}
	return f, nil
}

// UpdateField returns a copy of r in which only the field key is replaced by
// value. Sibling fields are left untouched. The stored value is copied, so
// later changes to the caller's slice do not reach the returned resume.
//
// Scalar fields take a string. List fields take the whole new list:
// []Education, []string, []Project, []Experience or []Certification.
func UpdateField(r ResumeData, key Field, value any) (ResumeData, error) {
	if !key.Valid() {
		return r, &InvalidFieldError{Field: string(key), Reason: "not a resume field"}
	}

	out := r
	mismatch := func() (ResumeData, error) {
		return r, &InvalidFieldError{
			Field:  string(key),
			Reason: fmt.Sprintf("type mismatch: got %T", value),
		}
	}

	switch key {
	case FieldEducation:
		v, ok := value.([]Education)
		if !ok {
			return mismatch()
		}
		out.Education = cloneSlice(v)
	case FieldSkills:
		v, ok := value.([]string)
		if !ok {
			return mismatch()
		}
		out.Skills = cloneSlice(v)
	case FieldProjects:
		v, ok := value.([]Project)
		if !ok {
			return mismatch()
		}
		out.Projects = cloneSlice(v)
	case FieldExperience:
		v, ok := value.([]Experience)
		if !ok {
			return mismatch()
		}
		out.Experience = cloneSlice(v)
	case FieldCertifications:
		v, ok := value.([]Certification)
		if !ok {
			return mismatch()
		}
		out.Certifications = cloneSlice(v)
	default:
		v, ok := value.(string)
		if !ok {
			return mismatch()
		}
		*out.scalar(key) = v
	}
	return out, nil
}

// UpdateFieldJSON decodes raw into the Go type of the named field and then
// applies UpdateField.
func UpdateFieldJSON(r ResumeData, name string, raw json.RawMessage) (ResumeData, error) {
	key, err := ParseField(name)
	if err != nil {
		return r, err
	}

	value, err := decodeFieldValue(key, raw)
	if err != nil {
		return r, &InvalidFieldError{Field: name, Reason: "malformed value: " + err.Error()}
	}
	return UpdateField(r, key, value)
}

// Value returns the current value of key in the same Go type UpdateField accepts.
func (r ResumeData) Value(key Field) (any, error) {
	switch key {
	case FieldEducation:
		return cloneSlice(r.Education), nil
	case FieldSkills:
		return cloneSlice(r.Skills), nil
	case FieldProjects:
		return cloneSlice(r.Projects), nil
	case FieldExperience:
		return cloneSlice(r.Experience), nil
	case FieldCertifications:
		return cloneSlice(r.Certifications), nil
	}
	p := r.scalar(key)
	if p == nil {
		return nil, &InvalidFieldError{Field: string(key), Reason: "not a resume field"}
	}
	return *p, nil
}

// scalar returns a pointer to the string field named key, or nil.
func (r *ResumeData) scalar(key Field) *string {
	switch key {
	case FieldName:
		return &r.Name
	case FieldTitle:
		return &r.Title
	case FieldEmail:
		return &r.Email
	case FieldPhone:
		return &r.Phone
	case FieldLocation:
		return &r.Location
	case FieldLinkedIn:
		return &r.LinkedIn
	case FieldGitHub:
		return &r.GitHub
	case FieldSummary:
		return &r.Summary
	}
	return nil
}

func decodeFieldValue(key Field, raw json.RawMessage) (any, error) {
	switch key {
	case FieldEducation:
		var v []Education
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldSkills:
		var v []string
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldProjects:
		var v []Project
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldExperience:
		var v []Experience
		err := json.Unmarshal(raw, &v)
		return v, err
	case FieldCertifications:
		var v []Certification
		err := json.Unmarshal(raw, &v)
		return v, err
	default:
		var v string
		err := json.Unmarshal(raw, &v)
		return v, err
	}
}
