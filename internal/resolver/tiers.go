package resolver

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/askme/internal/ai"
	"github.com/spigell/askme/internal/learned"
	"github.com/spigell/askme/internal/logger"
	"github.com/spigell/askme/internal/utils"
)

type emptyTier struct{}

func (emptyTier) Name() string    { return TierEmpty }
func (emptyTier) IsEnabled() bool { return true }

func (emptyTier) Resolve(_ context.Context, deps Deps, question string) (Response, bool) {
	if question != "" {
		return Response{}, false
	}
	return Response{Text: fmt.Sprintf(helpFormat, deps.Profile.DisplayName())}, true
}

// greetingTier fires when the lowercased question contains any phrase, even
// inside a longer word: "which" counts as "hi".
type greetingTier struct {
	phrases []string
}

func newGreetingTier(phrases []string) *greetingTier {
	return &greetingTier{phrases: phrases}
}

func (t *greetingTier) Name() string    { return TierGreeting }
func (t *greetingTier) IsEnabled() bool { return true }

func (t *greetingTier) Resolve(_ context.Context, deps Deps, question string) (Response, bool) {
	if !t.matches(strings.ToLower(question)) {
		return Response{}, false
	}
	return Response{Text: fmt.Sprintf(greetingFormat, deps.Profile.DisplayName())}, true
}

func (t *greetingTier) matches(lowered string) bool {
	for _, phrase := range t.phrases {
		if strings.Contains(lowered, phrase) {
			return true
		}
	}
	return false
}

type learnedTier struct{}

func (learnedTier) Name() string { return TierLearned }

func (learnedTier) IsEnabled() bool { return true }

func (learnedTier) Resolve(_ context.Context, deps Deps, question string) (Response, bool) {
	match, score := deps.Cache.Search(question)
	if match == nil {
		return Response{}, false
	}

	resp := Response{
		Text:        match.Answer,
		Score:       score,
		LearnedID:   match.ID,
		AIGenerated: match.AIGenerated,
	}
	if match.NeedsNotice() {
		resp.Notice = LearnedNotice
	}
	return resp, true
}

func (learnedTier) Status() Status {
	return Status{
		Name:    TierLearned,
		Enabled: true,
		Details: map[string]string{"threshold": strconv.FormatFloat(learned.MatchThreshold, 'f', 2, 64)},
	}
}

type profileTier struct{}

func (profileTier) Name() string    { return TierProfile }
func (profileTier) IsEnabled() bool { return true }

func (profileTier) Resolve(_ context.Context, deps Deps, question string) (Response, bool) {
	answer, ok := deps.Answers.Lookup(question)
	if !ok {
		return Response{}, false
	}
	return Response{Text: answer}, true
}

// generativeTier is terminal: once enabled it always produces a response.
type generativeTier struct {
	enabled bool
	model   string
}

func (t *generativeTier) Name() string    { return TierGenerative }
func (t *generativeTier) IsEnabled() bool { return t.enabled }

func (t *generativeTier) Resolve(ctx context.Context, deps Deps, question string) (Response, bool) {
	text, err := t.generate(ctx, deps, question)
	if err != nil {
		deps.Logger.Warn("generative answer failed; returning filler",
			zap.String("question", utils.TruncateForLog(question, deps.Config.MaxLogLength)),
			zap.Error(err),
		)
		return Response{Tier: TierFallback, Text: fmt.Sprintf(failureFormat, question)}, true
	}

	resp := Response{Text: text, AIGenerated: true, Notice: GeneratedNotice}

	id, err := deps.Cache.Upsert(ctx, question, text, true)
	switch {
	case errors.Is(err, learned.ErrStoreNotConfigured):
		deps.Logger.Debug("durable store is not configured; generated answer is not kept")
	case err != nil:
		deps.Logger.Warn("saving generated answer failed", zap.Error(err))
	default:
		resp.LearnedID = id
	}

	return resp, true
}

func (t *generativeTier) generate(ctx context.Context, deps Deps, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, deps.Config.Timeout)
	defer cancel()

	recent := deps.Cache.Recent(deps.Config.ContextSize)
	history := make([]ai.Exchange, 0, len(recent))
	for _, a := range recent {
		history = append(history, ai.Exchange{Question: a.Question, Answer: a.Answer})
	}

	prompt := ai.BuildPrompt(ai.PromptInput{
		Name:     deps.Profile.DisplayName(),
		Profile:  deps.Profile.Context(),
		History:  history,
		Question: question,
	})

	deps.Logger.Debug("requesting generative answer",
		zap.Int("history", len(history)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := deps.Generator.GenerateContent(ctx, prompt)
		done <- result{text: text, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", fmt.Errorf("generator: %w", ctx.Err())
	case res := <-done:
		if res.err != nil {
			return "", res.err
		}
		text := strings.TrimSpace(res.text)
		if text == "" {
			return "", ai.ErrEmptyResponse
		}
		return text, nil
	}
}

func (t *generativeTier) Status() Status {
	details := map[string]string{}
	if t.model != "" {
		details["model"] = t.model
	}
	return Status{Name: TierGenerative, Enabled: t.enabled, Details: details}
}

func withTier(l *zap.Logger, tier string) *zap.Logger {
	return logger.WithFields(l, logger.StringFields(logger.StringField{Key: logger.FieldTier, Value: tier})...)
}
