package ai

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompt.md
var promptTemplate string

const noHistory = "(none yet)"

// PromptInput holds everything rendered into the generative prompt.
type PromptInput struct {
	Name     string
	Profile  string
	History  []Exchange
	Question string
}

// BuildPrompt renders the embedded template. History is rendered in the
// order given.
func BuildPrompt(in PromptInput) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "About {{NAME}}:\n{{PROFILE}}\n\nHistory:\n{{HISTORY}}\n\nQuestion: {{QUESTION}}"
	}

	// One pass, so placeholders inside the substituted values stay literal.
	return strings.NewReplacer(
		"{{PROFILE}}", strings.TrimSpace(in.Profile),
		"{{HISTORY}}", renderHistory(in.History),
		"{{QUESTION}}", strings.TrimSpace(in.Question),
		"{{NAME}}", strings.TrimSpace(in.Name),
	).Replace(template)
}

func renderHistory(history []Exchange) string {
	if len(history) == 0 {
		return noHistory
	}

	var b strings.Builder
	for i, ex := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "Q: %s\nA: %s\n", strings.TrimSpace(ex.Question), strings.TrimSpace(ex.Answer))
	}
	return strings.TrimSpace(b.String())
}
