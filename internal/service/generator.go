package service

import (
	"math/rand"
	"time"

	"memotrain/internal/domain/entities"
)

const (
	// distractorCount is the exact number of wrong options per multiple
	// choice question. Fewer unique candidates invalidates the question.
	distractorCount = 3
	// matchingSize is the number of pairs in a matching round.
	matchingSize = 4
	// matchingCadence makes every 4th round a matching round.
	matchingCadence = 4
)

// Generator synthesizes quiz questions from a candidate pool.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a Generator. A nil rng gets a time-seeded source;
// tests pass a fixed seed instead.
func NewGenerator(rng *rand.Rand) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{rng: rng}
}

// IsMatchingRound reports whether the 1-indexed global round should be a
// matching round. Matching belongs to the randomized style, is excluded
// under the definition filter, and needs at least 4 word-like items with
// a usable pair.
func IsMatchingRound(round int, style entities.QuestionStyle, kind FilterKind, pool []*entities.MemoryItem) bool {
	if round%matchingCadence != 0 {
		return false
	}
	if style != entities.StyleRandomized || kind == FilterDefinition {
		return false
	}
	return len(matchingCandidates(pool)) >= matchingSize
}

// BuildQuestion builds one multiple choice question for the target item.
// It returns nil when the target has no usable pair or when fewer than 3
// unique distractors exist in the pool; the caller retries with another
// target or ends the session.
func (g *Generator) BuildQuestion(target *entities.MemoryItem, pool []*entities.MemoryItem, style entities.QuestionStyle) *entities.QuestionData {
	if target == nil || !target.HasPairs() {
		return nil
	}

	var prompt, answer string
	switch style {
	case entities.StyleRandomized:
		prompt, answer = g.randomizedFacets(target)
	default:
		prompt, answer = target.Key, target.Pairs[0]
	}
	if prompt == "" || prompt == answer {
		// Degenerate single-facet item: no honest question exists.
		return nil
	}

	distractors := g.pickDistractors(target, pool, prompt, answer, style)
	if len(distractors) < distractorCount {
		return nil
	}

	return &entities.QuestionData{
		Type:              entities.QuestionTypeMultipleChoice,
		Item:              target,
		QuestionText:      prompt,
		CorrectAnswerText: answer,
		Distractors:       distractors,
	}
}

// randomizedFacets picks the prompt and the correct answer from the
// target's facet set (key plus all pairs, deduplicated). When no second
// distinct facet exists the answer falls back to the key.
func (g *Generator) randomizedFacets(target *entities.MemoryItem) (string, string) {
	facets := uniqueStrings(append([]string{target.Key}, target.Pairs...))

	prompt := facets[g.rng.Intn(len(facets))]

	rest := make([]string, 0, len(facets)-1)
	for _, f := range facets {
		if f != prompt {
			rest = append(rest, f)
		}
	}
	if len(rest) == 0 {
		return prompt, target.Key
	}

	return prompt, rest[g.rng.Intn(len(rest))]
}

// pickDistractors collects wrong options from the rest of the pool:
// first pairs under the aligned style, the full facet union under the
// randomized style. The prompt and the correct answer are excluded, the
// rest deduplicated, shuffled and truncated to distractorCount.
func (g *Generator) pickDistractors(target *entities.MemoryItem, pool []*entities.MemoryItem, prompt, answer string, style entities.QuestionStyle) []string {
	seen := map[string]struct{}{prompt: {}, answer: {}}
	var candidates []string
	add := func(s string) {
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		candidates = append(candidates, s)
	}

	for _, item := range pool {
		if item.ID == target.ID {
			continue
		}
		if style == entities.StyleRandomized {
			add(item.Key)
			for _, p := range item.Pairs {
				add(p)
			}
		} else {
			if item.HasPairs() {
				add(item.Pairs[0])
			} else {
				add(item.Key)
			}
		}
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	if len(candidates) > distractorCount {
		candidates = candidates[:distractorCount]
	}
	return candidates
}

// BuildMatching builds a matching round of 4 distinct items. Each pair
// randomly presents the key on the left and the first pair on the right,
// or the other way around. Returns nil when fewer than 4 eligible items
// exist.
func (g *Generator) BuildMatching(pool []*entities.MemoryItem) *entities.QuestionData {
	candidates := matchingCandidates(pool)
	if len(candidates) < matchingSize {
		return nil
	}

	g.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	pairs := make([]entities.MatchingPair, 0, matchingSize)
	for _, item := range candidates[:matchingSize] {
		left, right := item.Key, item.Pairs[0]
		if g.rng.Intn(2) == 0 {
			left, right = right, left
		}
		pairs = append(pairs, entities.MatchingPair{
			ID:           item.ID,
			LeftContent:  left,
			RightContent: right,
			Item:         item,
		})
	}

	return &entities.QuestionData{
		Type:  entities.QuestionTypeMatching,
		Pairs: pairs,
	}
}

// matchingCandidates returns the word-like pool items with a usable pair.
func matchingCandidates(pool []*entities.MemoryItem) []*entities.MemoryItem {
	out := make([]*entities.MemoryItem, 0, len(pool))
	for _, item := range pool {
		if item.WordLike() && item.HasPairs() {
			out = append(out, item)
		}
	}
	return out
}

// uniqueStrings removes duplicates and blanks while preserving order.
func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
