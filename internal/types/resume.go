// Package types provides type definitions for structured data used throughout the resume builder.
package types

// Education is one education row of a resume. Institution is the primary key:
// rows with an empty institution are placeholders and are never rendered.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
}

// Project is one project row. Name is the primary key.
type Project struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tech        string `json:"tech"`
}

// Experience is one employment row. Company is the primary key.
type Experience struct {
	Company     string `json:"company"`
	Role        string `json:"role"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// Certification is one certification row. Name is the primary key.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Year   string `json:"year"`
}

// ResumeData is the canonical in-memory representation of a single resume.
// It has no identity of its own; record ids are assigned by the store.
type ResumeData struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Summary  string `json:"summary"`

	Education      []Education     `json:"education"`
	Skills         []string        `json:"skills"`
	Projects       []Project       `json:"projects"`
	Experience     []Experience    `json:"experience"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// Clone returns a deep copy of r. The copy shares no slices with r.
func (r ResumeData) Clone() ResumeData {
	out := r
	out.Education = cloneSlice(r.Education)
	out.Skills = cloneSlice(r.Skills)
	out.Projects = cloneSlice(r.Projects)
	out.Experience = cloneSlice(r.Experience)
	out.Certifications = cloneSlice(r.Certifications)
	return out
}

// IsBlank reports whether the resume has neither a name nor an email.
// Such a resume has nothing worth previewing or exporting.
func (r ResumeData) IsBlank() bool {
	return r.Name == "" && r.Email == ""
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
