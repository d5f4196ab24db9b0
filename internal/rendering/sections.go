package rendering

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonathan/oneclickresume/internal/types"
)

// Inclusion rules shared by every template. A repeatable section is shown
// only when one of these returns a non-empty list, and only the returned
// entries are listed, in their original order.

func visibleEducation(r types.ResumeData) []types.Education {
	return filter(r.Education, func(e types.Education) bool { return e.Institution != "" })
}

func visibleProjects(r types.ResumeData) []types.Project {
	return filter(r.Projects, func(p types.Project) bool { return p.Name != "" })
}

func visibleExperience(r types.ResumeData) []types.Experience {
	return filter(r.Experience, func(e types.Experience) bool { return e.Company != "" })
}

func visibleCertifications(r types.ResumeData) []types.Certification {
	return filter(r.Certifications, func(c types.Certification) bool { return c.Name != "" })
}

// visibleSkills drops the blank placeholder rows the builder keeps around.
func visibleSkills(r types.ResumeData) []string {
	return filter(r.Skills, func(s string) bool { return s != "" })
}

func filter[T any](in []T, keep func(T) bool) []T {
	var out []T
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

// Section builders return nil when the section has nothing to show.

func summarySection(r types.ResumeData, title, class string) *Node {
	if r.Summary == "" {
		return nil
	}
	return section(SectionSummary, class, heading(2, "section-title", title), text("summary", r.Summary))
}

func experienceSection(r types.ResumeData, title, class string) *Node {
	entries := visibleExperience(r)
	if len(entries) == 0 {
		return nil
	}
	s := section(SectionExperience, class, heading(2, "section-title", title))
	for _, e := range entries {
		s.Children = append(s.Children, el(KindItem, "entry",
			optionalHeading(3, "entry-title", e.Role),
			text("entry-org", e.Company),
			optional("entry-meta", e.Duration),
			optional("entry-body", e.Description),
		))
	}
	return s
}

func projectsSection(r types.ResumeData, title, class string) *Node {
	entries := visibleProjects(r)
	if len(entries) == 0 {
		return nil
	}
	s := section(SectionProjects, class, heading(2, "section-title", title))
	for _, p := range entries {
		s.Children = append(s.Children, el(KindItem, "entry",
			heading(3, "entry-title", p.Name),
			optional("entry-body", p.Description),
			optional("entry-tech", p.Tech),
		))
	}
	return s
}

func educationSection(r types.ResumeData, title, class string) *Node {
	entries := visibleEducation(r)
	if len(entries) == 0 {
		return nil
	}
	s := section(SectionEducation, class, heading(2, "section-title", title))
	for _, e := range entries {
		s.Children = append(s.Children, el(KindItem, "entry",
			optionalHeading(3, "entry-title", e.Degree),
			text("entry-org", e.Institution),
			optional("entry-meta", e.Year),
		))
	}
	return s
}

func certificationsSection(r types.ResumeData, title, class string) *Node {
	entries := visibleCertifications(r)
	if len(entries) == 0 {
		return nil
	}
	s := section(SectionCertifications, class, heading(2, "section-title", title))
	for _, c := range entries {
		s.Children = append(s.Children, el(KindItem, "entry",
			heading(3, "entry-title", c.Name),
			optional("entry-org", c.Issuer),
			optional("entry-meta", c.Year),
		))
	}
	return s
}

// skillsSection renders skills as tags, or as a comma-joined line when
// asList is false.
func skillsSection(r types.ResumeData, title, class string, asList bool) *Node {
	skills := visibleSkills(r)
	if len(skills) == 0 {
		return nil
	}
	s := section(SectionSkills, class, heading(2, "section-title", title))
	wrap := el(KindRow, "skills")
	if !asList {
		wrap.Class = "skills skills-inline"
	}
	for _, skill := range skills {
		wrap.Children = append(wrap.Children, &Node{Kind: KindTag, Class: "skill", Text: skill})
	}
	s.Children = append(s.Children, wrap)
	return s
}

// contactNodes returns one KindContact node per non-empty contact field.
func contactNodes(r types.ResumeData) []*Node {
	var out []*Node
	add := func(label, value, href string) {
		if value == "" {
			return
		}
		out = append(out, &Node{Kind: KindContact, Class: "contact contact-" + label, Label: label, Text: value, Href: href})
	}
	add("email", r.Email, "mailto:"+r.Email)
	add("phone", r.Phone, "tel:"+strings.ReplaceAll(r.Phone, " ", ""))
	add("location", r.Location, "")
	add("linkedin", r.LinkedIn, webURL(r.LinkedIn))
	add("github", r.GitHub, webURL(r.GitHub))
	return out
}

// contactBlock wraps the contact nodes, or returns nil when there are none.
func contactBlock(r types.ResumeData, class string) *Node {
	nodes := contactNodes(r)
	if len(nodes) == 0 {
		return nil
	}
	return el(KindRow, class, nodes...)
}

func optionalHeading(level int, class, s string) *Node {
	if s == "" {
		return nil
	}
	return heading(level, class, s)
}

func webURL(s string) string {
	if s == "" || strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return "https://" + s
}

// initials derives the avatar text for the creative sidebar.
func initials(name string) string {
	var out []rune
	for _, part := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(part)
		out = append(out, unicode.ToUpper(r))
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}
