// Package resolver answers visitor questions by walking a fixed chain of
// tiers: empty input, greeting, learned answers, profile keywords and
// finally generation.
package resolver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/askme/internal/ai"
	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/profile"
	"github.com/spigell/askme/internal/utils"
)

const (
	DefaultTimeout      = 10 * time.Second
	DefaultContextSize  = 25
	defaultMaxLogLength = 200
)

// Config tunes the generative tier.
type Config struct {
	// Timeout bounds a single generator call.
	Timeout time.Duration
	// ContextSize is how many recent learned answers are fed into the prompt.
	ContextSize  int
	MaxLogLength int
}

// Response is the outcome of resolving one question.
type Response struct {
	Text        string  `json:"response"`
	Tier        string  `json:"tier"`
	Score       float64 `json:"score,omitempty"`
	LearnedID   string  `json:"learned_id,omitempty"`
	AIGenerated bool    `json:"ai_generated"`
	Notice      string  `json:"notice,omitempty"`
}

// Message returns the text shown to the visitor, notice included.
func (r Response) Message() string {
	if r.Notice == "" {
		return r.Text
	}
	return r.Text + "\n\n" + r.Notice
}

// Resolver walks the tier chain. It is safe for concurrent use.
type Resolver struct {
	deps  Deps
	tiers []Tier
}

// New builds a resolver. cache and generator may be nil: without a cache no
// learned answers exist, without a generator the last tier returns filler text.
func New(cache *learned.Cache, p *profile.Profile, generator ai.Generator, log *zap.Logger, cfg Config) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	if cache == nil {
		cache = learned.NewCache(nil, log)
	}
	if p == nil {
		p = profile.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = DefaultContextSize
	}
	if cfg.MaxLogLength <= 0 {
		cfg.MaxLogLength = defaultMaxLogLength
	}

	gen := &generativeTier{enabled: generator != nil}
	if generator != nil {
		gen.model = generator.Model()
	}

	return &Resolver{
		deps: Deps{
			Logger:    log,
			Cache:     cache,
			Profile:   p,
			Answers:   profile.NewAnswers(p),
			Generator: generator,
			Config:    cfg,
		},
		tiers: []Tier{
			emptyTier{},
			newGreetingTier(greetingPhrases),
			learnedTier{},
			profileTier{},
			gen,
		},
	}
}

// Respond answers question. It never fails: collaborator errors are logged and
// turned into filler text.
func (r *Resolver) Respond(ctx context.Context, question string) Response {
	question = strings.TrimSpace(question)

	for _, tier := range r.tiers {
		if !tier.IsEnabled() {
			continue
		}

		resp, ok := tier.Resolve(ctx, r.deps, question)
		if !ok {
			continue
		}
		if resp.Tier == "" {
			resp.Tier = tier.Name()
		}

		r.logAnswer(question, resp)
		return resp
	}

	resp := Response{Tier: TierFallback, Text: fmt.Sprintf(notConfiguredFormat, question)}
	r.logAnswer(question, resp)
	return resp
}

func (r *Resolver) logAnswer(question string, resp Response) {
	withTier(r.deps.Logger, resp.Tier).Info("question answered",
		zap.String("question", utils.TruncateForLog(question, r.deps.Config.MaxLogLength)),
		zap.Bool("ai_generated", resp.AIGenerated),
		zap.Float64("score", resp.Score),
	)
}

// Answer returns only the visitor-facing text for question.
func (r *Resolver) Answer(ctx context.Context, question string) string {
	return r.Respond(ctx, question).Message()
}

// Tiers reports the status of every tier in chain order.
func (r *Resolver) Tiers() []Status {
	return Describe(r.tiers)
}

// Cache exposes the learned answers backing the resolver.
func (r *Resolver) Cache() *learned.Cache {
	return r.deps.Cache
}
