package rendering

import "github.com/jonathan/oneclickresume/internal/types"

// Modern puts name and contact details in a colored header band, the summary
// full width below it, and splits the rest into a wide column (Experience,
// Projects) and a narrow one (Skills, Education, Certifications).
type Modern struct{}

func (Modern) ID() TemplateID { return TemplateModern }

func (Modern) Render(r types.ResumeData) *Document {
	root := el(KindRoot, "resume resume-modern",
		el(KindHeader, "header band",
			optionalHeading(1, "name", r.Name),
			optional("headline", r.Title),
			contactBlock(r, "contact-line"),
		),
		summarySection(r, "Summary", "block full"),
		el(KindRow, "split",
			el(KindColumn, "col-wide",
				experienceSection(r, "Experience", "block"),
				projectsSection(r, "Projects", "block"),
			),
			el(KindColumn, "col-narrow",
				skillsSection(r, "Skills", "block", true),
				educationSection(r, "Education", "block"),
				certificationsSection(r, "Certifications", "block"),
			),
		),
	)
	return &Document{Template: TemplateModern, Root: root}
}
