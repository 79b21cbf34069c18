package service

import (
	"math/rand"
	"testing"

	"memotrain/internal/domain/entities"
)

func wordItem(id, key string, pairs ...string) *entities.MemoryItem {
	return &entities.MemoryItem{
		ID:       id,
		Key:      key,
		Pairs:    pairs,
		IsActive: true,
	}
}

func testPool() []*entities.MemoryItem {
	return []*entities.MemoryItem{
		wordItem("1", "hund", "dog"),
		wordItem("2", "katze", "cat"),
		wordItem("3", "vogel", "bird"),
		wordItem("4", "fisch", "fish"),
		wordItem("5", "pferd", "horse"),
	}
}

func TestBuildQuestion_Aligned(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	pool := testPool()

	q := g.BuildQuestion(pool[0], pool, entities.StyleAligned)
	if q == nil {
		t.Fatal("expected a question")
	}
	if q.Type != entities.QuestionTypeMultipleChoice {
		t.Fatalf("unexpected question type %q", q.Type)
	}
	if q.QuestionText != "hund" || q.CorrectAnswerText != "dog" {
		t.Fatalf("aligned question must ask the key for the first pair, got %q -> %q",
			q.QuestionText, q.CorrectAnswerText)
	}
}

func TestBuildQuestion_DistractorsAreUniqueAndWrong(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(2)))
	pool := testPool()

	for seed := int64(0); seed < 20; seed++ {
		g = NewGenerator(rand.New(rand.NewSource(seed)))
		q := g.BuildQuestion(pool[0], pool, entities.StyleRandomized)
		if q == nil {
			t.Fatalf("seed %d: expected a question", seed)
		}
		if len(q.Distractors) != 3 {
			t.Fatalf("seed %d: expected 3 distractors, got %d", seed, len(q.Distractors))
		}

		seen := map[string]struct{}{}
		for _, d := range q.Distractors {
			if d == q.CorrectAnswerText {
				t.Fatalf("seed %d: distractor equals the correct answer %q", seed, d)
			}
			if d == q.QuestionText {
				t.Fatalf("seed %d: distractor equals the prompt %q", seed, d)
			}
			if _, dup := seen[d]; dup {
				t.Fatalf("seed %d: duplicate distractor %q", seed, d)
			}
			seen[d] = struct{}{}
		}
	}
}

func TestBuildQuestion_RandomizedPromptNeverEqualsAnswer(t *testing.T) {
	pool := testPool()
	for seed := int64(0); seed < 50; seed++ {
		g := NewGenerator(rand.New(rand.NewSource(seed)))
		q := g.BuildQuestion(pool[1], pool, entities.StyleRandomized)
		if q == nil {
			t.Fatalf("seed %d: expected a question", seed)
		}
		if q.QuestionText == q.CorrectAnswerText {
			t.Fatalf("seed %d: prompt and answer collide on %q", seed, q.QuestionText)
		}
	}
}

func TestBuildQuestion_NilWhenTargetUnusable(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(3)))
	pool := testPool()

	if q := g.BuildQuestion(nil, pool, entities.StyleAligned); q != nil {
		t.Fatal("nil target must yield no question")
	}

	noPairs := wordItem("empty", "alone")
	if q := g.BuildQuestion(noPairs, pool, entities.StyleAligned); q != nil {
		t.Fatal("target without pairs must yield no question")
	}

	// A single-facet item cannot produce an honest randomized question.
	selfReferential := wordItem("self", "echo", "echo")
	if q := g.BuildQuestion(selfReferential, pool, entities.StyleRandomized); q != nil {
		t.Fatal("single-facet target must yield no question")
	}
}

func TestBuildQuestion_NilOnDistractorShortage(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(4)))

	// Two of the three other items share a first pair, leaving only two
	// unique distractor candidates under the aligned style.
	pool := []*entities.MemoryItem{
		wordItem("t", "target", "answer"),
		wordItem("a", "k1", "same"),
		wordItem("b", "k2", "same"),
		wordItem("c", "k3", "other"),
	}

	if q := g.BuildQuestion(pool[0], pool, entities.StyleAligned); q != nil {
		t.Fatalf("expected nil on distractor shortage, got %+v", q)
	}
}

func TestIsMatchingRound(t *testing.T) {
	pool := testPool()

	cases := []struct {
		name  string
		round int
		style entities.QuestionStyle
		kind  FilterKind
		pool  []*entities.MemoryItem
		want  bool
	}{
		{"fourth round randomized", 4, entities.StyleRandomized, FilterMix, pool, true},
		{"eighth round randomized", 8, entities.StyleRandomized, FilterMix, pool, true},
		{"off-cadence round", 3, entities.StyleRandomized, FilterMix, pool, false},
		{"aligned style never matches", 4, entities.StyleAligned, FilterMix, pool, false},
		{"definition filter never matches", 4, entities.StyleRandomized, FilterDefinition, pool, false},
		{"too few candidates", 4, entities.StyleRandomized, FilterMix, pool[:3], false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsMatchingRound(tc.round, tc.style, tc.kind, tc.pool); got != tc.want {
				t.Fatalf("IsMatchingRound = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBuildMatching(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(5)))
	pool := testPool()

	q := g.BuildMatching(pool)
	if q == nil {
		t.Fatal("expected a matching question")
	}
	if q.Type != entities.QuestionTypeMatching {
		t.Fatalf("unexpected question type %q", q.Type)
	}
	if len(q.Pairs) != 4 {
		t.Fatalf("expected 4 pairs, got %d", len(q.Pairs))
	}

	seen := map[string]struct{}{}
	for _, p := range q.Pairs {
		if _, dup := seen[p.ID]; dup {
			t.Fatalf("duplicate item %s in matching round", p.ID)
		}
		seen[p.ID] = struct{}{}

		if p.Item == nil {
			t.Fatalf("pair %s carries no item", p.ID)
		}
		straight := p.LeftContent == p.Item.Key && p.RightContent == p.Item.Pairs[0]
		swapped := p.LeftContent == p.Item.Pairs[0] && p.RightContent == p.Item.Key
		if !straight && !swapped {
			t.Fatalf("pair %s does not present the item's facets: %q / %q",
				p.ID, p.LeftContent, p.RightContent)
		}
	}
}

func TestBuildMatching_NilWhenPoolTooSmall(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(6)))
	if q := g.BuildMatching(testPool()[:3]); q != nil {
		t.Fatal("expected nil with fewer than 4 candidates")
	}
}

func TestBuildMatching_SkipsDefinitionItems(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(7)))

	pool := testPool()
	pool[0].Kind = entities.KindDefinition
	pool[1].Kind = entities.KindDefinition

	if q := g.BuildMatching(pool); q != nil {
		t.Fatal("expected nil when word-like candidates fall below 4")
	}
}
