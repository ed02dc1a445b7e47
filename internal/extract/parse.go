package extract

import (
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`(?:\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedInRe = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	gitHubRe   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

type category int

const (
	categoryLanguage category = iota
	categoryFramework
	categoryTool
	categoryPractice
)

type skill struct {
	name     string
	category category
	pattern  *regexp.Regexp
}

// knownSkills is matched on word boundaries, so "java" does not fire on
// "javascript" nor "git" on "github".
var knownSkills = []skill{
	newSkill("JavaScript", categoryLanguage, "javascript"),
	newSkill("Python", categoryLanguage, "python"),
	newSkill("Java", categoryLanguage, "java"),
	newSkill("HTML", categoryLanguage, "html"),
	newSkill("CSS", categoryLanguage, "css"),
	newSkill("SQL", categoryLanguage, "sql"),
	newSkill("React", categoryFramework, "react"),
	newSkill("Node.js", categoryFramework, "node"),
	newSkill("Angular", categoryFramework, "angular"),
	newSkill("Vue", categoryFramework, "vue"),
	newSkill("MongoDB", categoryFramework, "mongodb"),
	newSkill("PostgreSQL", categoryFramework, "postgresql"),
	newSkill("AWS", categoryTool, "aws"),
	newSkill("Azure", categoryTool, "azure"),
	newSkill("Docker", categoryTool, "docker"),
	newSkill("Kubernetes", categoryTool, "kubernetes"),
	newSkill("Git", categoryTool, "git"),
	newSkill("Agile", categoryPractice, "agile"),
	newSkill("Scrum", categoryPractice, "scrum"),
}

func newSkill(name string, c category, keyword string) skill {
	return skill{name: name, category: c, pattern: regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)}
}

// Findings is what Parse recognized in resume text.
type Findings struct {
	Emails   []string
	Phones   []string
	LinkedIn []string
	GitHub   []string
	Skills   []string
}

// Parse scans resume text for contact details and known skills. Every list
// keeps the order of first appearance without duplicates.
func Parse(text string) Findings {
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	f := Findings{
		Emails:   unique(emailRe.FindAllString(text, -1)),
		LinkedIn: unique(linkedInRe.FindAllString(text, -1)),
		GitHub:   unique(gitHubRe.FindAllString(text, -1)),
	}

	for _, phone := range phoneRe.FindAllString(text, -1) {
		f.Phones = append(f.Phones, strings.TrimSpace(phone))
	}
	f.Phones = unique(f.Phones)

	for _, s := range knownSkills {
		if s.pattern.MatchString(text) {
			f.Skills = append(f.Skills, s.name)
		}
	}

	return f
}

// Empty reports whether nothing was found.
func (f Findings) Empty() bool {
	return len(f.Emails) == 0 && len(f.Phones) == 0 && len(f.LinkedIn) == 0 && len(f.GitHub) == 0 && len(f.Skills) == 0
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		key := strings.ToLower(v)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
