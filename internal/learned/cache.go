package learned

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/askme/internal/similarity"
)

const (
	// MatchThreshold is the score a learned answer must strictly exceed to match.
	MatchThreshold = 0.7
	// substringBoost is added when one question contains the other. The sum is
	// not clamped, so scores above 1 are possible.
	substringBoost = 0.3
)

// Scorer computes a lexical similarity between two questions.
type Scorer func(a, b string) float64

// Stats summarizes the learned answers.
type Stats struct {
	Total       int `json:"total_qa"`
	AIGenerated int `json:"ai_generated"`
	Manual      int `json:"manual"`
	Reviewed    int `json:"reviewed"`
	Unreviewed  int `json:"unreviewed"`
}

// Cache is the in-memory mirror of the durable store. Every write goes to the
// store first and reaches the cache only when the store accepted it.
// Iteration follows insertion order.
type Cache struct {
	store  Store
	scorer Scorer
	now    func() time.Time
	logger *zap.Logger

	mu      sync.RWMutex
	order   []string
	entries map[string]*Answer
}

// Option customizes a Cache.
type Option func(*Cache)

// WithScorer replaces the similarity function used by Search.
func WithScorer(s Scorer) Option {
	return func(c *Cache) {
		if s != nil {
			c.scorer = s
		}
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCache creates an empty cache backed by store. A nil store is allowed: the
// cache then stays empty and every write returns ErrStoreNotConfigured.
func NewCache(store Store, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{
		store:   store,
		scorer:  similarity.Ratio,
		now:     time.Now,
		logger:  logger,
		entries: make(map[string]*Answer),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Configured reports whether a durable store backs the cache.
func (c *Cache) Configured() bool {
	return c.store != nil
}

// Reload replaces the cache content with the store content. On failure the
// previous content is kept.
func (c *Cache) Reload(ctx context.Context) error {
	if c.store == nil {
		return nil
	}

	answers, err := c.store.List(ctx)
	if err != nil {
		return fmt.Errorf("listing learned answers: %w", err)
	}

	order := make([]string, 0, len(answers))
	entries := make(map[string]*Answer, len(answers))
	for i := range answers {
		a := answers[i]
		if _, ok := entries[a.ID]; !ok {
			order = append(order, a.ID)
		}
		entries[a.ID] = &a
	}

	c.mu.Lock()
	c.order = order
	c.entries = entries
	c.mu.Unlock()

	c.logger.Info("learned answers loaded", zap.Int("count", len(order)))
	return nil
}

// Search returns the best learned answer for question and its score, or
// (nil, 0) when no answer scores above MatchThreshold.
func (c *Cache) Search(question string) (*Answer, float64) {
	q := normalizeQuestion(question)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var best *Answer
	bestScore := 0.0
	for _, id := range c.order {
		candidate := c.entries[id]
		stored := normalizeQuestion(candidate.Question)

		score := c.scorer(q, stored)
		if q == stored {
			score = 1.0
		} else if strings.Contains(stored, q) || strings.Contains(q, stored) {
			score += substringBoost
		}

		if score > bestScore && score > MatchThreshold {
			best, bestScore = candidate, score
		}
	}

	if best == nil {
		return nil, 0
	}

	found := *best
	return &found, bestScore
}

// Upsert stores answer for question under the normalized id of question,
// replacing whatever was stored under that id.
func (c *Cache) Upsert(ctx context.Context, question, answer string, aiGenerated bool) (string, error) {
	if c.store == nil {
		return "", ErrStoreNotConfigured
	}

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return "", ErrInvalidInput
	}

	now := c.now().UTC()
	a := Answer{
		ID:          NormalizeID(question),
		Question:    question,
		Answer:      answer,
		AIGenerated: aiGenerated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := c.store.Put(ctx, a); err != nil {
		return "", fmt.Errorf("saving learned answer %q: %w", a.ID, err)
	}
	c.set(a)

	c.logger.Debug("learned answer saved",
		zap.String("question_id", a.ID),
		zap.Bool("ai_generated", aiGenerated),
	)

	return a.ID, nil
}

// Create adds an answer written by a person.
func (c *Cache) Create(ctx context.Context, question, answer string) (string, error) {
	return c.Upsert(ctx, question, answer, false)
}

// Update edits an existing answer and marks it as reviewed.
func (c *Cache) Update(ctx context.Context, id, question, answer string) (Answer, error) {
	if c.store == nil {
		return Answer{}, ErrStoreNotConfigured
	}

	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		return Answer{}, ErrInvalidInput
	}

	existing, err := c.store.Get(ctx, id)
	if err != nil {
		return Answer{}, fmt.Errorf("getting learned answer %q: %w", id, err)
	}

	existing.ID = id
	existing.Question = question
	existing.Answer = answer
	existing.Reviewed = true
	existing.UpdatedAt = c.now().UTC()

	if err := c.store.Put(ctx, existing); err != nil {
		return Answer{}, fmt.Errorf("updating learned answer %q: %w", id, err)
	}
	c.set(existing)

	return existing, nil
}

// Delete removes an answer from the store and the cache.
func (c *Cache) Delete(ctx context.Context, id string) error {
	if c.store == nil {
		return ErrStoreNotConfigured
	}

	if err := c.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting learned answer %q: %w", id, err)
	}
	c.remove(id)

	return nil
}

// Get returns the cached answer with the given id.
func (c *Cache) Get(id string) (Answer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	a, ok := c.entries[id]
	if !ok {
		return Answer{}, false
	}
	return *a, true
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// List returns all answers, newest first.
func (c *Cache) List() []Answer {
	c.mu.RLock()
	answers := make([]Answer, 0, len(c.order))
	for _, id := range c.order {
		answers = append(answers, *c.entries[id])
	}
	c.mu.RUnlock()

	slices.SortStableFunc(answers, func(a, b Answer) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return answers
}

// Recent returns up to n answers, newest first.
func (c *Cache) Recent(n int) []Answer {
	answers := c.List()
	if n < 0 {
		n = 0
	}
	if len(answers) > n {
		answers = answers[:n]
	}
	return answers
}

// Stats counts answers by origin and review state.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Stats{Total: len(c.order)}
	for _, id := range c.order {
		a := c.entries[id]
		if a.AIGenerated {
			s.AIGenerated++
		}
		if a.Reviewed {
			s.Reviewed++
		}
	}
	s.Manual = s.Total - s.AIGenerated
	s.Unreviewed = s.Total - s.Reviewed

	return s
}

func (c *Cache) set(a Answer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[a.ID]; !ok {
		c.order = append(c.order, a.ID)
	}
	c.entries[a.ID] = &a
}

func (c *Cache) remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[id]; !ok {
		return
	}
	delete(c.entries, id)
	c.order = slices.DeleteFunc(c.order, func(v string) bool { return v == id })
}
