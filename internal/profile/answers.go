package profile

import (
	"fmt"
	"strings"

	"github.com/spigell/askme/internal/similarity"
)

// KeywordThreshold is the score the best contained keyword must exceed.
// Containment is already a strong signal, so the threshold is low and the
// score mostly breaks ties between several contained keywords.
const KeywordThreshold = 0.3

type keywordAnswer struct {
	keyword string
	answer  string
}

// Answers maps topic keywords to answers rendered once from a Profile.
type Answers struct {
	entries []keywordAnswer
}

// NewAnswers renders the keyword answers of p. The keyword order is fixed and
// decides ties.
func NewAnswers(p *Profile) *Answers {
	if p == nil {
		p = Default()
	}

	id := p.Identity
	return &Answers{entries: []keywordAnswer{
		{"name", fmt.Sprintf("Hi! I'm %s 👋", p.DisplayName())},
		{"location", fmt.Sprintf("I'm based in %s", orDefault(id.Location, "the US"))},
		{"email", fmt.Sprintf("You can reach me at %s", orDefault(id.Email, "my email"))},
		{"skills", formatSkills(p.Skills)},
		{"experience", formatExperience(p.Experience)},
		{"projects", formatProjects(p.Projects)},
		{"education", formatEducation(p.Education)},
		{"contact", formatContact(id)},
	}}
}

// Lookup returns the answer of the best scoring keyword contained in question.
func (a *Answers) Lookup(question string) (string, bool) {
	q := strings.ToLower(question)

	best := ""
	bestScore := 0.0
	for _, e := range a.entries {
		if !strings.Contains(q, e.keyword) {
			continue
		}
		if score := similarity.Ratio(q, e.keyword); score > bestScore {
			best, bestScore = e.answer, score
		}
	}

	if bestScore > KeywordThreshold {
		return best, true
	}
	return "", false
}

// Keywords lists the topics in lookup order.
func (a *Answers) Keywords() []string {
	out := make([]string, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.keyword)
	}
	return out
}

func formatSkills(s Skills) string {
	var parts []string
	if len(s.Languages) > 0 {
		parts = append(parts, "Languages: "+strings.Join(s.Languages, ", "))
	}
	if len(s.Frameworks) > 0 {
		parts = append(parts, "Frameworks: "+strings.Join(s.Frameworks, ", "))
	}
	if len(s.Tools) > 0 {
		parts = append(parts, "Tools: "+strings.Join(s.Tools, ", "))
	}
	if len(s.Practices) > 0 {
		parts = append(parts, "Practices: "+strings.Join(s.Practices, ", "))
	}

	if len(parts) == 0 {
		return "I have various technical skills!"
	}
	return strings.Join(parts, ". ")
}

func formatExperience(exp []Experience) string {
	if len(exp) == 0 {
		return "I have professional experience in technology and software development."
	}

	e := exp[0]
	out := fmt.Sprintf("I worked as a %s at %s (%s).",
		orDefault(e.Role, "developer"),
		orDefault(e.Company, "a technology company"),
		orDefault(e.Duration, "dates not listed"),
	)
	if len(e.Responsibilities) > 0 {
		out += " " + strings.Join(e.Responsibilities, ". ")
	}
	return out
}

func formatProjects(projects []Project) string {
	if len(projects) == 0 {
		return "I enjoy building projects that solve real problems!"
	}

	names := make([]string, 0, len(projects))
	for _, p := range projects {
		names = append(names, orDefault(p.Name, "Project"))
	}
	return fmt.Sprintf("I've built projects including: %s. Each taught me valuable skills in development and problem-solving.", strings.Join(names, ", "))
}

func formatEducation(edu []Education) string {
	if len(edu) == 0 {
		return "I have a strong educational background in computer science."
	}

	e := edu[0]
	return fmt.Sprintf("I have a %s from %s (%s)",
		orDefault(e.Degree, "degree"),
		orDefault(e.University, "university"),
		orDefault(e.Year, "year not listed"),
	)
}

func formatContact(id Identity) string {
	parts := []string{
		"Email: " + orDefault(id.Email, "not listed"),
		"Phone: " + orDefault(id.Phone, "not listed"),
	}
	if id.LinkedIn != "" {
		parts = append(parts, "LinkedIn: "+id.LinkedIn)
	}
	if id.GitHub != "" {
		parts = append(parts, "GitHub: "+id.GitHub)
	}
	return strings.Join(parts, " | ")
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
