package extract

import (
	"strings"

	"github.com/spigell/askme/internal/profile"
)

// Enhance merges findings into p and returns it. The first email, phone,
// LinkedIn and GitHub found replace the profile's values. Skills are added to
// their category unless the profile already lists them in any category.
func Enhance(p *profile.Profile, f Findings) *profile.Profile {
	if p == nil {
		p = &profile.Profile{}
	}

	if len(f.Emails) > 0 {
		p.Identity.Email = f.Emails[0]
	}
	if len(f.Phones) > 0 {
		p.Identity.Phone = f.Phones[0]
	}
	if len(f.LinkedIn) > 0 {
		p.Identity.LinkedIn = withScheme(f.LinkedIn[0])
	}
	if len(f.GitHub) > 0 {
		p.Identity.GitHub = withScheme(f.GitHub[0])
	}

	known := make(map[string]struct{})
	for _, list := range [][]string{p.Skills.Languages, p.Skills.Frameworks, p.Skills.Tools, p.Skills.Practices} {
		for _, s := range list {
			known[strings.ToLower(s)] = struct{}{}
		}
	}

	byName := make(map[string]category, len(knownSkills))
	for _, s := range knownSkills {
		byName[s.name] = s.category
	}

	for _, name := range f.Skills {
		c, ok := byName[name]
		if !ok {
			continue
		}
		if _, dup := known[strings.ToLower(name)]; dup {
			continue
		}
		known[strings.ToLower(name)] = struct{}{}

		switch c {
		case categoryLanguage:
			p.Skills.Languages = append(p.Skills.Languages, name)
		case categoryFramework:
			p.Skills.Frameworks = append(p.Skills.Frameworks, name)
		case categoryTool:
			p.Skills.Tools = append(p.Skills.Tools, name)
		case categoryPractice:
			p.Skills.Practices = append(p.Skills.Practices, name)
		}
	}

	return p
}

func withScheme(link string) string {
	lower := strings.ToLower(link)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return link
	}
	return "https://" + link
}
