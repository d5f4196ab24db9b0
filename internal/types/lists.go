package types

import (
	"fmt"
	"strings"
)

// Append returns a new list holding list followed by item.
func Append[T any](list []T, item T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, list...)
	return append(out, item)
}

// RemoveAt returns a new list without the element at index i.
func RemoveAt[T any](list []T, i int) ([]T, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, len(list))
	}
	out := make([]T, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// ReplaceAt returns a new list with the element at index i replaced by item.
func ReplaceAt[T any](list []T, i int, item T) ([]T, error) {
	if i < 0 || i >= len(list) {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, len(list))
	}
	out := cloneSlice(list)
	out[i] = item
	return out, nil
}

// ParseSkills splits comma-separated skills input, trimming whitespace and
// dropping empty entries. Duplicates and order are preserved.
func ParseSkills(text string) []string {
	skills := []string{}
	for _, part := range strings.Split(text, ",") {
		if s := strings.TrimSpace(part); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

// JoinSkills is the inverse of ParseSkills for display in a single input.
// Blank placeholder rows are skipped.
func JoinSkills(skills []string) string {
	var parts []string
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// RowCount returns the number of entries in a list field.
func (r ResumeData) RowCount(key Field) (int, error) {
	switch key {
	case FieldEducation:
		return len(r.Education), nil
	case FieldSkills:
		return len(r.Skills), nil
	case FieldProjects:
		return len(r.Projects), nil
	case FieldExperience:
		return len(r.Experience), nil
	case FieldCertifications:
		return len(r.Certifications), nil
	}
	return 0, &InvalidFieldError{Field: string(key), Reason: "not a list field"}
}

// WithRowAppended returns a copy of r whose list field key has one more,
// all-empty placeholder entry at the end.
func (r ResumeData) WithRowAppended(key Field) (ResumeData, error) {
	switch key {
	case FieldEducation:
		return UpdateField(r, key, Append(r.Education, Education{}))
	case FieldSkills:
		return UpdateField(r, key, Append(r.Skills, ""))
	case FieldProjects:
		return UpdateField(r, key, Append(r.Projects, Project{}))
	case FieldExperience:
		return UpdateField(r, key, Append(r.Experience, Experience{}))
	case FieldCertifications:
		return UpdateField(r, key, Append(r.Certifications, Certification{}))
	}
	return r, &InvalidFieldError{Field: string(key), Reason: "not a list field"}
}

// WithRowRemoved returns a copy of r whose list field key no longer has the
// entry at index i.
func (r ResumeData) WithRowRemoved(key Field, i int) (ResumeData, error) {
	var (
		value any
		err   error
	)
	switch key {
	case FieldEducation:
		value, err = RemoveAt(r.Education, i)
	case FieldSkills:
		value, err = RemoveAt(r.Skills, i)
	case FieldProjects:
		value, err = RemoveAt(r.Projects, i)
	case FieldExperience:
		value, err = RemoveAt(r.Experience, i)
	case FieldCertifications:
		value, err = RemoveAt(r.Certifications, i)
	default:
		return r, &InvalidFieldError{Field: string(key), Reason: "not a list field"}
	}
	if err != nil {
		return r, err
	}
	return UpdateField(r, key, value)
}
