package learned

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type memStore struct {
	mu      sync.Mutex
	docs    map[string]Answer
	order   []string
	putErr  error
	listErr error
	puts    int
}

func newMemStore(seed ...Answer) *memStore {
	s := &memStore{docs: make(map[string]Answer)}
	for _, a := range seed {
		s.docs[a.ID] = a
		s.order = append(s.order, a.ID)
	}
	return s
}

func (s *memStore) List(context.Context) ([]Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]Answer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out, nil
}

func (s *memStore) Get(_ context.Context, id string) (Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.docs[id]
	if !ok {
		return Answer{}, ErrNotFound
	}
	return a, nil
}

func (s *memStore) Put(_ context.Context, a Answer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	if _, ok := s.docs[a.ID]; !ok {
		s.order = append(s.order, a.ID)
	}
	s.docs[a.ID] = a
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func fixedScorer(score float64) Scorer {
	return func(string, string) float64 { return score }
}

func newTestCache(t *testing.T, store Store, opts ...Option) *Cache {
	t.Helper()
	c := NewCache(store, zap.NewNop(), opts...)
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	return c
}

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "lowercases and replaces punctuation", input: "What are your Skills?", expect: "what_are_your_skills_"},
		{name: "every rune is replaced", input: "a  b", expect: "a__b"},
		{name: "non ascii", input: "Ключ 1", expect: "_____1"},
		{name: "truncates", input: strings.Repeat("x", 80), expect: strings.Repeat("x", MaxIDLength)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NormalizeID(tt.input); got != tt.expect {
				t.Fatalf("NormalizeID(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func TestSearchExactMatch(t *testing.T) {
	store := newMemStore(Answer{ID: "q1", Question: "Do you like Go?", Answer: "Yes"})
	c := newTestCache(t, store, WithScorer(fixedScorer(0)))

	found, score := c.Search("  do you like go?  ")
	if found == nil {
		t.Fatal("expected a match")
	}
	if score != 1.0 {
		t.Fatalf("expected score 1.0, got %v", score)
	}
	if found.Answer != "Yes" {
		t.Fatalf("unexpected answer %q", found.Answer)
	}
}

func TestSearchThresholdIsStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		score float64
		match bool
	}{
		{name: "exactly at threshold", score: 0.70, match: false},
		{name: "just above threshold", score: 0.71, match: true},
		{name: "below threshold", score: 0.5, match: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newMemStore(Answer{ID: "a", Question: "alpha question", Answer: "A"})
			c := newTestCache(t, store, WithScorer(fixedScorer(tt.score)))

			found, score := c.Search("unrelated words")
			if tt.match && found == nil {
				t.Fatalf("expected match at score %v", tt.score)
			}
			if !tt.match && (found != nil || score != 0) {
				t.Fatalf("expected no match at score %v, got %+v with %v", tt.score, found, score)
			}
		})
	}
}

func TestSearchRealScorerAtBoundary(t *testing.T) {
	store := newMemStore(Answer{ID: "a", Question: "abcdefgpqr", Answer: "A"})
	c := newTestCache(t, store)

	if found, _ := c.Search("abcdefgxyz"); found != nil {
		t.Fatalf("a ratio of exactly 0.7 must not match, got %+v", found)
	}
}

func TestSearchSubstringBoostIsNotClamped(t *testing.T) {
	store := newMemStore(Answer{ID: "a", Question: "skills", Answer: "Go"})
	c := newTestCache(t, store, WithScorer(fixedScorer(0.9)))

	found, score := c.Search("what are your skills")
	if found == nil {
		t.Fatal("expected a match")
	}
	if score <= 1.0 {
		t.Fatalf("expected boosted score above 1.0, got %v", score)
	}
}

func TestSearchTieKeepsFirstInserted(t *testing.T) {
	store := newMemStore(
		Answer{ID: "first", Question: "first question", Answer: "1"},
		Answer{ID: "second", Question: "second question", Answer: "2"},
	)
	c := newTestCache(t, store, WithScorer(fixedScorer(0.8)))

	found, _ := c.Search("another thing")
	if found == nil || found.ID != "first" {
		t.Fatalf("expected first inserted answer to win the tie, got %+v", found)
	}
}

func TestSearchEmptyCache(t *testing.T) {
	c := NewCache(nil, nil)
	if found, score := c.Search("anything"); found != nil || score != 0 {
		t.Fatalf("expected (nil, 0), got (%+v, %v)", found, score)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	store := newMemStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	id1, err := c.Upsert(ctx, "What is Go?", "first", true)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	id2, err := c.Upsert(ctx, "What is Go?", "second", true)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if id1 != id2 {
		t.Fatalf("expected stable id, got %q and %q", id1, id2)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", c.Len())
	}
	got, ok := c.Get(id1)
	if !ok || got.Answer != "second" {
		t.Fatalf("expected last write to win, got %+v", got)
	}
	if got.Reviewed {
		t.Fatal("upserted answers must not be reviewed")
	}
}

func TestUpsertMergesQuestionsWithCollidingIDs(t *testing.T) {
	store := newMemStore()
	c := newTestCache(t, store)
	ctx := context.Background()

	prefix := strings.Repeat("tell me more about it ", 3)
	first := prefix + "please"
	second := prefix + "now"
	if NormalizeID(first) != NormalizeID(second) {
		t.Fatalf("test questions must collide")
	}

	if _, err := c.Upsert(ctx, first, "one", true); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, err := c.Upsert(ctx, second, "two", true); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if c.Len() != 1 {
		t.Fatalf("expected colliding questions to share one entry, got %d", c.Len())
	}
	got, _ := c.Get(NormalizeID(first))
	if got.Question != second || got.Answer != "two" {
		t.Fatalf("expected the last write to win, got %+v", got)
	}
}

func TestUpsertStoreFailureLeavesCacheUntouched(t *testing.T) {
	store := newMemStore()
	store.putErr = errors.New("disk full")
	c := newTestCache(t, store)

	if _, err := c.Upsert(context.Background(), "question", "answer", true); err == nil {
		t.Fatal("expected error")
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache after failed write, got %d", c.Len())
	}
}

func TestWritesWithoutStore(t *testing.T) {
	c := NewCache(nil, nil)
	ctx := context.Background()

	if _, err := c.Upsert(ctx, "q", "a", true); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
	if _, err := c.Update(ctx, "q", "q", "a"); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
	if err := c.Delete(ctx, "q"); !errors.Is(err, ErrStoreNotConfigured) {
		t.Fatalf("expected ErrStoreNotConfigured, got %v", err)
	}
	if err := c.Reload(ctx); err != nil {
		t.Fatalf("reload without store must be a no-op, got %v", err)
	}
}

func TestUpsertRejectsBlankInput(t *testing.T) {
	c := newTestCache(t, newMemStore())
	if _, err := c.Upsert(context.Background(), "  ", "answer", false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateMarksReviewedAndIsVisibleToSearch(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store := newMemStore(Answer{ID: "q", Question: "Old question", Answer: "old", AIGenerated: true, CreatedAt: created})
	c := newTestCache(t, store)

	updated, err := c.Update(context.Background(), "q", "New question", "new")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Reviewed || !updated.AIGenerated {
		t.Fatalf("unexpected flags: %+v", updated)
	}
	if !updated.CreatedAt.Equal(created) {
		t.Fatalf("created_at must be preserved, got %v", updated.CreatedAt)
	}

	found, _ := c.Search("new question")
	if found == nil || found.Answer != "new" {
		t.Fatalf("expected updated answer to be searchable, got %+v", found)
	}
}

func TestUpdateMissing(t *testing.T) {
	c := newTestCache(t, newMemStore())
	if _, err := c.Update(context.Background(), "missing", "q", "a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteRemovesFromSearch(t *testing.T) {
	store := newMemStore(Answer{ID: "q", Question: "hello there", Answer: "hi"})
	c := newTestCache(t, store)

	if err := c.Delete(context.Background(), "q"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if found, _ := c.Search("hello there"); found != nil {
		t.Fatalf("deleted answer still found: %+v", found)
	}
	if c.Len() != 0 {
		t.Fatalf("expected empty cache, got %d", c.Len())
	}
}

func TestReloadFailureKeepsSnapshot(t *testing.T) {
	store := newMemStore(Answer{ID: "q", Question: "q", Answer: "a"})
	c := newTestCache(t, store)

	store.listErr = errors.New("connection reset")
	if err := c.Reload(context.Background()); err == nil {
		t.Fatal("expected reload error")
	}
	if c.Len() != 1 {
		t.Fatalf("expected previous snapshot to survive, got %d entries", c.Len())
	}
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	store := newMemStore()
	c := newTestCache(t, store)

	_ = store.Put(context.Background(), Answer{ID: "ext", Question: "external", Answer: "x"})
	if c.Len() != 0 {
		t.Fatal("cache must not change before reload")
	}
	if err := c.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := c.Get("ext"); !ok {
		t.Fatal("expected external answer after reload")
	}
}

func TestRecentAndStats(t *testing.T) {
	base := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	var seed []Answer
	for i := 0; i < 30; i++ {
		seed = append(seed, Answer{
			ID:          fmt.Sprintf("q%02d", i),
			Question:    fmt.Sprintf("question %d", i),
			Answer:      "a",
			AIGenerated: i%2 == 0,
			Reviewed:    i%3 == 0,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		})
	}
	c := newTestCache(t, newMemStore(seed...))

	recent := c.Recent(25)
	if len(recent) != 25 {
		t.Fatalf("expected 25 recent answers, got %d", len(recent))
	}
	if recent[0].ID != "q29" || recent[24].ID != "q05" {
		t.Fatalf("unexpected order: first %s last %s", recent[0].ID, recent[24].ID)
	}

	stats := c.Stats()
	want := Stats{Total: 30, AIGenerated: 15, Manual: 15, Reviewed: 10, Unreviewed: 20}
	if stats != want {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
}

func TestConcurrentUpsertAndSearch(t *testing.T) {
	c := newTestCache(t, newMemStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				q := fmt.Sprintf("question %d", j%5)
				if _, err := c.Upsert(ctx, q, fmt.Sprintf("answer %d-%d", i, j), true); err != nil {
					t.Errorf("upsert: %v", err)
					return
				}
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if found, _ := c.Search("question 1"); found != nil && !strings.HasPrefix(found.Answer, "answer ") {
					t.Errorf("torn record observed: %+v", found)
					return
				}
			}
		}()
	}
	wg.Wait()

	if c.Len() != 5 {
		t.Fatalf("expected 5 distinct ids, got %d", c.Len())
	}
}
