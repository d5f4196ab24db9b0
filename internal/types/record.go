package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// validate is shared by every request type; validator caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validator exposes the shared validator so handlers can translate its errors.
func Validator() *validator.Validate {
	return validate
}

// ResumeRecord is a persisted resume as exposed over the API.
type ResumeRecord struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Title      string     `json:"title"`
	ResumeData ResumeData `json:"resume_data"`
	Template   string     `json:"template"`
	IsPublic   bool       `json:"is_public"`
	Slug       *string    `json:"slug"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ResumeSummary is the dashboard listing view of a record.
type ResumeSummary struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Template  string    `json:"template"`
	IsPublic  bool      `json:"is_public"`
	Slug      *string   `json:"slug"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResumeRequest is the body of POST /resumes. A nil ResumeData starts
// from the empty resume.
type CreateResumeRequest struct {
	Title      string      `json:"title" validate:"max=200"`
	Template   string      `json:"template" validate:"omitempty,oneof=classic modern minimal creative"`
	ResumeData *ResumeData `json:"resume_data,omitempty"`
	Sample     bool        `json:"sample,omitempty"`
}

// UpdateResumeRequest is the body of PUT /resumes/{id}. Only non-nil
// members are written.
type UpdateResumeRequest struct {
	Title      *string     `json:"title,omitempty" validate:"omitempty,max=200"`
	Template   *string     `json:"template,omitempty" validate:"omitempty,oneof=classic modern minimal creative"`
	ResumeData *ResumeData `json:"resume_data,omitempty"`
}

// Validate validates the CreateResumeRequest.
func (r *CreateResumeRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UpdateResumeRequest.
func (r *UpdateResumeRequest) Validate() error {
	return validate.Struct(r)
}

// DefaultTitle picks a record title when the caller gave none.
func DefaultTitle(title string, data ResumeData) string {
	if title != "" {
		return title
	}
	if data.Name != "" {
		return data.Name + " Resume"
	}
	return "Untitled Resume"
}
