// Package learned keeps question/answer pairs that were generated or added by
// an administrator, mirrored from a durable document store.
package learned

import (
	"strings"
	"time"
)

// MaxIDLength caps the length of an answer id. Questions sharing the first
// MaxIDLength normalized characters map to the same id and therefore to the
// same answer; the most recent write wins.
const MaxIDLength = 50

// Answer is a learned question/answer pair.
type Answer struct {
	ID          string    `mapstructure:"id" json:"id"`
	Question    string    `mapstructure:"question" json:"question"`
	Answer      string    `mapstructure:"answer" json:"answer"`
	AIGenerated bool      `mapstructure:"ai_generated" json:"ai_generated"`
	Reviewed    bool      `mapstructure:"reviewed" json:"reviewed"`
	CreatedAt   time.Time `mapstructure:"created_at" json:"created_at"`
	UpdatedAt   time.Time `mapstructure:"updated_at" json:"updated_at"`
}

// NeedsNotice reports whether the answer must be shown with the AI-generated notice.
func (a *Answer) NeedsNotice() bool {
	return a.AIGenerated && !a.Reviewed
}

// NormalizeID derives the document id of a question: lowercase, every rune
// outside [a-z0-9] replaced by '_', truncated to MaxIDLength.
func NormalizeID(question string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(question) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
		if b.Len() == MaxIDLength {
			break
		}
	}
	return b.String()
}

func normalizeQuestion(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
