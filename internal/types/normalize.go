package types

import (
	"encoding/json"
	"fmt"
)

// Normalize brings a resume loaded from storage into the shape the rest of
// the code relies on: every list field holds at least one entry. Legacy
// records without certifications get a single placeholder row.
func Normalize(r ResumeData) ResumeData {
	out := r.Clone()
	if len(out.Education) == 0 {
		out.Education = []Education{{}}
	}
	if len(out.Skills) == 0 {
		out.Skills = []string{""}
	}
	if len(out.Projects) == 0 {
		out.Projects = []Project{{}}
	}
	if len(out.Experience) == 0 {
		out.Experience = []Experience{{}}
	}
	if len(out.Certifications) == 0 {
		out.Certifications = []Certification{{}}
	}
	return out
}

// DecodeResume parses a stored resume_data payload and normalizes it.
// Unknown keys are ignored.
func DecodeResume(payload []byte) (ResumeData, error) {
	var r ResumeData
	if len(payload) == 0 {
		return EmptyResume(), nil
	}
	if err := json.Unmarshal(payload, &r); err != nil {
		return ResumeData{}, fmt.Errorf("failed to decode resume data: %w", err)
	}
	return Normalize(r), nil
}
