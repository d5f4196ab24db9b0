package rendering

import "github.com/jonathan/oneclickresume/internal/types"

// Minimal centers the header and summary, lists Experience and Projects full
// width, puts Education and Skills side by side and closes with
// Certifications.
type Minimal struct{}

func (Minimal) ID() TemplateID { return TemplateMinimal }

func (Minimal) Render(r types.ResumeData) *Document {
	root := el(KindRoot, "resume resume-minimal",
		el(KindHeader, "header centered",
			optionalHeading(1, "name", r.Name),
			optional("headline", r.Title),
			contactBlock(r, "contact-line centered"),
		),
		summarySection(r, "Summary", "block centered"),
		experienceSection(r, "Experience", "block"),
		projectsSection(r, "Projects", "block"),
		pair(
			educationSection(r, "Education", "block"),
			skillsSection(r, "Skills", "block", false),
		),
		certificationsSection(r, "Certifications", "block"),
	)
	return &Document{Template: TemplateMinimal, Root: root}
}

// pair lays two sections out side by side. Missing sections leave no column.
func pair(left, right *Node) *Node {
	if left == nil && right == nil {
		return nil
	}
	row := el(KindRow, "pair")
	for _, n := range []*Node{left, right} {
		if n != nil {
			row.Children = append(row.Children, el(KindColumn, "col-half", n))
		}
	}
	return row
}
