package rendering

import "github.com/jonathan/oneclickresume/internal/types"

// Classic is a single-column layout in the order Summary, Experience,
// Projects, Education, Certifications, Skills.
type Classic struct{}

func (Classic) ID() TemplateID { return TemplateClassic }

func (Classic) Render(r types.ResumeData) *Document {
	root := el(KindRoot, "resume resume-classic",
		el(KindHeader, "header header-classic",
			optionalHeading(1, "name", r.Name),
			optional("headline", r.Title),
			contactBlock(r, "contact-line"),
		),
		summarySection(r, "Summary", "block"),
		experienceSection(r, "Experience", "block"),
		projectsSection(r, "Projects", "block"),
		educationSection(r, "Education", "block"),
		certificationsSection(r, "Certifications", "block"),
		skillsSection(r, "Skills", "block", false),
	)
	return &Document{Template: TemplateClassic, Root: root}
}
