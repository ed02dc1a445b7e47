// Package profile holds the read-only professional profile the bot answers
// about and renders its sections into ready-made answers.
package profile

// Profile is the structured resume loaded at startup.
type Profile struct {
	Identity   Identity     `yaml:"identity"`
	Skills     Skills       `yaml:"skills"`
	Experience []Experience `yaml:"experience"`
	Projects   []Project    `yaml:"projects"`
	Education  []Education  `yaml:"education"`

	// Personal is the legacy name of the identity section.
	Personal *Identity `yaml:"personal,omitempty"`
}

// Identity describes who the profile belongs to and how to reach them.
type Identity struct {
	Name     string `yaml:"name,omitempty"`
	Location string `yaml:"location,omitempty"`
	Email    string `yaml:"email,omitempty"`
	Phone    string `yaml:"phone,omitempty"`
	LinkedIn string `yaml:"linkedin,omitempty"`
	GitHub   string `yaml:"github,omitempty"`
	Summary  string `yaml:"summary,omitempty"`
}

type Skills struct {
	Languages  []string `yaml:"languages,omitempty"`
	Frameworks []string `yaml:"frameworks,omitempty"`
	Tools      []string `yaml:"tools,omitempty"`
	Practices  []string `yaml:"practices,omitempty"`
}

type Experience struct {
	Role             string   `yaml:"role,omitempty"`
	Company          string   `yaml:"company,omitempty"`
	Duration         string   `yaml:"duration,omitempty"`
	Responsibilities []string `yaml:"responsibilities,omitempty"`
}

type Project struct {
	Name         string   `yaml:"name,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Technologies []string `yaml:"technologies,omitempty"`
	Impact       string   `yaml:"impact,omitempty"`
}

type Education struct {
	Degree     string `yaml:"degree,omitempty"`
	University string `yaml:"university,omitempty"`
	Year       string `yaml:"year,omitempty"`
}

// DefaultName is used whenever the profile has no name.
const DefaultName = "Adarsh"

// DisplayName returns the profile owner's name or DefaultName.
func (p *Profile) DisplayName() string {
	if p == nil || p.Identity.Name == "" {
		return DefaultName
	}
	return p.Identity.Name
}

// Default returns the built-in profile used when no document can be loaded.
func Default() *Profile {
	return &Profile{
		Identity: Identity{
			Name:     DefaultName,
			Location: "United States",
			Email:    "contact@adarsh.dev",
			Phone:    "+1-XXX-XXX-XXXX",
		},
		Skills: Skills{
			Languages:  []string{"Python", "JavaScript", "TypeScript"},
			Frameworks: []string{"React", "Vue.js", "Node.js", "Flask"},
			Tools:      []string{"AWS", "Docker", "Git", "MongoDB"},
		},
		Experience: []Experience{{
			Role:             "Full-Stack Developer",
			Company:          "Quinbay",
			Duration:         "2022-2023",
			Responsibilities: []string{"Built scalable web applications", "Improved performance by 40%"},
		}},
		Projects: []Project{
			{Name: "PhotoShare"},
			{Name: "E-commerce Platform"},
			{Name: "AI Chatbot"},
		},
		Education: []Education{{
			Degree:     "Computer Science Degree",
			University: "University",
			Year:       "2022",
		}},
	}
}
