package types

// EmptyResume returns a resume with every string unset and exactly one
// placeholder row in each list field, so an edit form always has a row to fill.
func EmptyResume() ResumeData {
	return ResumeData{
		Education:      []Education{{}},
		Skills:         []string{""},
		Projects:       []Project{{}},
		Experience:     []Experience{{}},
		Certifications: []Certification{{}},
	}
}

// SampleResume returns the fixed demo resume used for first-run previews.
// Every call builds fresh slices.
func SampleResume() ResumeData {
	return ResumeData{
		Name:     "Alex Morgan",
		Title:    "Full-Stack Software Engineer",
		Email:    "alex.morgan@email.com",
		Phone:    "+1 (555) 234-5678",
		Location: "San Francisco, CA",
		LinkedIn: "linkedin.com/in/alexmorgan",
		GitHub:   "github.com/alexmorgan",
		Summary: "Passionate full-stack engineer with 5+ years of experience building scalable web applications. " +
			"Skilled in React, Node.js, and cloud infrastructure with a focus on clean architecture and user experience.",
		Education: []Education{
			{Institution: "Stanford University", Degree: "B.S. Computer Science", Year: "2019"},
			{Institution: "MIT Online", Degree: "Certificate in Machine Learning", Year: "2021"},
		},
		Skills: []string{
			"React", "TypeScript", "Node.js", "Python", "AWS",
			"PostgreSQL", "Docker", "GraphQL", "Figma", "Git",
		},
		Projects: []Project{
			{
				Name:        "TaskFlow",
				Description: "A real-time project management tool with Kanban boards and team collaboration features. Serves 2,000+ active users.",
				Tech:        "React, Node.js, WebSockets",
			},
			{
				Name:        "DataViz Pro",
				Description: "Interactive data visualization dashboard for business analytics with drag-and-drop chart builder.",
				Tech:        "D3.js, Python, FastAPI",
			},
		},
		Experience: []Experience{
			{
				Company:     "Stripe",
				Role:        "Senior Software Engineer",
				Duration:    "2022 – Present",
				Description: "Led the development of payment processing features serving millions of transactions. Improved API response time by 40%.",
			},
			{
				Company:     "Figma",
				Role:        "Software Engineer",
				Duration:    "2019 – 2022",
				Description: "Built collaborative design tools and real-time multiplayer features. Contributed to the plugin ecosystem used by 100K+ designers.",
			},
		},
		Certifications: []Certification{
			{Name: "AWS Certified Solutions Architect – Associate", Issuer: "Amazon Web Services", Year: "2022"},
			{Name: "Certified Kubernetes Application Developer", Issuer: "Cloud Native Computing Foundation", Year: "2023"},
		},
	}
}
