package rendering

import "github.com/jonathan/oneclickresume/internal/types"

// Creative uses a fixed-width sidebar holding the initials avatar, identity,
// contact details, skills, education and certifications, next to a main
// column with About, Experience and Projects.
type Creative struct{}

func (Creative) ID() TemplateID { return TemplateCreative }

func (Creative) Render(r types.ResumeData) *Document {
	var avatar *Node
	if in := initials(r.Name); in != "" {
		avatar = text("avatar", in)
	}

	var contact *Node
	if nodes := contactNodes(r); len(nodes) > 0 {
		contact = section(SectionContact, "side-block", heading(2, "section-title", "Contact"), el(KindColumn, "contact-list", nodes...))
	}

	root := el(KindRoot, "resume resume-creative",
		el(KindColumn, "sidebar",
			el(KindHeader, "identity",
				avatar,
				optionalHeading(1, "name", r.Name),
				optional("headline", r.Title),
			),
			contact,
			skillsSection(r, "Skills", "side-block", true),
			educationSection(r, "Education", "side-block"),
			certificationsSection(r, "Certifications", "side-block"),
		),
		el(KindColumn, "main",
			summarySection(r, "About", "block"),
			experienceSection(r, "Experience", "block"),
			projectsSection(r, "Projects", "block"),
		),
	)
	return &Document{Template: TemplateCreative, Root: root}
}
