package profile

import (
	"fmt"
	"strings"
)

// Context renders the profile as a bullet list for generation prompts.
func (p *Profile) Context() string {
	if p == nil {
		p = Default()
	}

	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, "- "+fmt.Sprintf(format, args...))
	}

	if p.Identity.Summary != "" {
		add("%s", p.Identity.Summary)
	}
	if p.Identity.Location != "" {
		add("Based in %s", p.Identity.Location)
	}

	var skills []string
	skills = append(skills, p.Skills.Languages...)
	skills = append(skills, p.Skills.Frameworks...)
	skills = append(skills, p.Skills.Tools...)
	if len(skills) > 0 {
		add("Skills: %s", strings.Join(skills, ", "))
	}
	if len(p.Skills.Practices) > 0 {
		add("Practices: %s", strings.Join(p.Skills.Practices, ", "))
	}

	for _, e := range p.Experience {
		line := fmt.Sprintf("%s at %s", orDefault(e.Role, "Developer"), orDefault(e.Company, "a technology company"))
		if e.Duration != "" {
			line += " (" + e.Duration + ")"
		}
		if len(e.Responsibilities) > 0 {
			line += ": " + strings.Join(e.Responsibilities, "; ")
		}
		add("%s", line)
	}

	if len(p.Projects) > 0 {
		names := make([]string, 0, len(p.Projects))
		for _, pr := range p.Projects {
			name := orDefault(pr.Name, "Project")
			if pr.Description != "" {
				name += " (" + pr.Description + ")"
			}
			names = append(names, name)
		}
		add("Projects: %s", strings.Join(names, ", "))
	}

	for _, e := range p.Education {
		add("%s", strings.TrimSpace(fmt.Sprintf("%s, %s %s", orDefault(e.Degree, "Degree"), orDefault(e.University, "university"), e.Year)))
	}

	if len(lines) == 0 {
		return "- Software developer open to opportunities"
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
