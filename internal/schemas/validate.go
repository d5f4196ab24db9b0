// Package schemas validates resume payloads against the embedded JSON Schema
// before they cross into the core model.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/oneclickresume/internal/types"
)

//go:embed resume_data.schema.json
var resumeDataSchema string

// ResumeDataSchema returns the JSON Schema for stored resume_data payloads.
func ResumeDataSchema() string {
	return resumeDataSchema
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

var (
	compileOnce sync.Once
	compiled    *gojsonschema.Schema
	compileErr  error
)

func resumeSchema() (*gojsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(resumeDataSchema))
		if compileErr != nil {
			compileErr = &SchemaLoadError{Path: "resume_data.schema.json", Message: "invalid embedded schema", Cause: compileErr}
		}
	})
	return compiled, compileErr
}

// ValidateResumeData checks a resume_data JSON payload against the schema.
func ValidateResumeData(payload []byte) error {
	schema, err := resumeSchema()
	if err != nil {
		return err
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(payload))
	if err != nil {
		return &ValidationError{Errors: []FieldError{{Field: "(root)", Message: err.Error()}}}
	}
	return resultError(result)
}

// DecodeResumeData validates payload and converts it into the normalized
// in-memory shape. An empty payload yields the empty resume.
func DecodeResumeData(payload []byte) (types.ResumeData, error) {
	if len(payload) == 0 {
		return types.EmptyResume(), nil
	}
	if err := ValidateResumeData(payload); err != nil {
		return types.ResumeData{}, err
	}
	return types.DecodeResume(payload)
}

// LoadResumeFile reads, validates and decodes a resume JSON file.
func LoadResumeFile(path string) (types.ResumeData, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to resolve path: %w", err)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return types.ResumeData{}, fmt.Errorf("failed to read %s: %w", abs, err)
	}
	return DecodeResumeData(data)
}

// ValidateJSONString validates JSON string content against schema string content
func ValidateJSONString(schemaContent, jsonContent string) error {
	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schemaContent), gojsonschema.NewStringLoader(jsonContent))
	if err != nil {
		return &SchemaLoadError{
			Path:    "(string schema)",
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}
	return resultError(result)
}

func resultError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}
	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
