package resolver

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/askme/internal/ai"
	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/profile"
)

// Tier names reported in responses and logs.
const (
	TierEmpty      = "empty"
	TierGreeting   = "greeting"
	TierLearned    = "learned"
	TierProfile    = "profile"
	TierGenerative = "generative"
	// TierFallback marks filler text returned when generation was not possible.
	TierFallback = "fallback"
)

// Tier is a single step of the answer chain. Resolve reports false when the
// tier has nothing to say and the next one should be asked.
type Tier interface {
	Name() string
	IsEnabled() bool
	Resolve(ctx context.Context, deps Deps, question string) (Response, bool)
}

// Deps aggregates collaborators shared across all tiers.
type Deps struct {
	Logger    *zap.Logger
	Cache     *learned.Cache
	Profile   *profile.Profile
	Answers   *profile.Answers
	Generator ai.Generator
	Config    Config
}

// Status represents runtime information about a tier.
type Status struct {
	Name    string            `json:"name"`
	Enabled bool              `json:"enabled"`
	Details map[string]string `json:"details,omitempty"`
}

type statusProvider interface {
	Status() Status
}

// Describe returns status entries for the provided tiers.
func Describe(tiers []Tier) []Status {
	statuses := make([]Status, 0, len(tiers))
	for _, tier := range tiers {
		if reporter, ok := tier.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    tier.Name(),
			Enabled: tier.IsEnabled(),
		})
	}
	return statuses
}
