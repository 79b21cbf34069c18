package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"

	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
)

type nullItemRepo struct {
	mu   sync.Mutex
	puts int
}

func (r *nullItemRepo) ListItems(ctx context.Context) ([]*entities.MemoryItem, error) {
	return nil, nil
}
func (r *nullItemRepo) GetItem(ctx context.Context, id string) (*entities.MemoryItem, error) {
	return nil, nil
}
func (r *nullItemRepo) PutItem(ctx context.Context, item *entities.MemoryItem) error {
	r.mu.Lock()
	r.puts++
	r.mu.Unlock()
	return nil
}
func (r *nullItemRepo) DeleteItem(ctx context.Context, id string) error { return nil }

func newTestSession(t *testing.T, cfg SessionConfig, items []*entities.MemoryItem, seed int64) *Session {
	t.Helper()

	rng := rand.New(rand.NewSource(seed))
	s, err := NewSession(
		cfg,
		items,
		NewWeighter(rng),
		NewGenerator(rng),
		NewStatsTracker(&nullItemRepo{}, zap.NewNop()),
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	return s
}

func TestNewSession_InsufficientPool(t *testing.T) {
	items := testPool()[:3]

	_, err := NewSession(
		SessionConfig{Mode: ModeNormal, Filter: FilterSpec{Kind: FilterMix, AllCategories: true}, Style: entities.StyleAligned},
		items,
		NewWeighter(rand.New(rand.NewSource(1))),
		NewGenerator(rand.New(rand.NewSource(1))),
		NewStatsTracker(&nullItemRepo{}, zap.NewNop()),
		zap.NewNop(),
	)

	var poolErr *InsufficientPoolError
	if !errors.As(err, &poolErr) {
		t.Fatalf("expected InsufficientPoolError, got %v", err)
	}
	if poolErr.Found != 3 {
		t.Fatalf("expected Found=3, got %d", poolErr.Found)
	}
}

func TestNewSession_NoQuestionsFromPairlessPool(t *testing.T) {
	items := []*entities.MemoryItem{
		{ID: "1", Key: "a", IsActive: true},
		{ID: "2", Key: "b", IsActive: true},
		{ID: "3", Key: "c", IsActive: true},
		{ID: "4", Key: "d", IsActive: true},
	}

	_, err := NewSession(
		SessionConfig{Mode: ModeNormal, Filter: FilterSpec{Kind: FilterMix, AllCategories: true}, Style: entities.StyleAligned},
		items,
		NewWeighter(rand.New(rand.NewSource(1))),
		NewGenerator(rand.New(rand.NewSource(1))),
		NewStatsTracker(&nullItemRepo{}, zap.NewNop()),
		zap.NewNop(),
	)
	if !errors.Is(err, ErrNoQuestionsGenerated) {
		t.Fatalf("expected ErrNoQuestionsGenerated, got %v", err)
	}
}

func TestSession_NormalRunToCompletion(t *testing.T) {
	items := testPool()[:4]
	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 4,
	}, items, 11)

	ctx := context.Background()
	for round := 1; round <= 4; round++ {
		if s.State() != StatePlaying {
			t.Fatalf("round %d: state = %v, want playing", round, s.State())
		}

		q := s.Current()
		if q == nil {
			t.Fatalf("round %d: no current question", round)
		}
		if q.Type != entities.QuestionTypeMultipleChoice {
			t.Fatalf("round %d: aligned session produced %q", round, q.Type)
		}

		pos, total := s.Position()
		if pos != round || total != 4 {
			t.Fatalf("round %d: position = %d/%d", round, pos, total)
		}

		correct, err := s.SubmitAnswer(ctx, q.CorrectAnswerText)
		if err != nil {
			t.Fatalf("round %d: SubmitAnswer: %v", round, err)
		}
		if !correct || !s.LastCorrect() {
			t.Fatalf("round %d: correct answer judged wrong", round)
		}
		if s.State() != StateFeedback {
			t.Fatalf("round %d: state = %v after answer, want feedback", round, s.State())
		}

		s.Advance()
	}

	if s.State() != StateFinished {
		t.Fatalf("state = %v after final advance, want finished", s.State())
	}
	if stats := s.Stats(); stats.Correct != 4 || stats.Incorrect != 0 {
		t.Fatalf("unexpected session stats %+v", stats)
	}
	if s.Current() != nil {
		t.Fatal("finished session still exposes a current question")
	}
}

func TestSession_AlignedFourItemScenario(t *testing.T) {
	items := []*entities.MemoryItem{
		wordItem("A", "a", "1"),
		wordItem("B", "b", "2"),
		wordItem("C", "c", "3"),
		wordItem("D", "d", "4"),
	}
	allPairs := map[string]struct{}{"1": {}, "2": {}, "3": {}, "4": {}}

	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 4,
	}, items, 19)

	ctx := context.Background()
	for round := 1; round <= 4; round++ {
		q := s.Current()
		if q.Type != entities.QuestionTypeMultipleChoice {
			t.Fatalf("round %d: type = %q", round, q.Type)
		}
		if q.CorrectAnswerText != q.Item.Pairs[0] {
			t.Fatalf("round %d: answer %q is not the target's sole pair", round, q.CorrectAnswerText)
		}

		// Distractors must be exactly the three other items' pairs.
		if len(q.Distractors) != 3 {
			t.Fatalf("round %d: %d distractors", round, len(q.Distractors))
		}
		seen := map[string]struct{}{q.CorrectAnswerText: {}}
		for _, d := range q.Distractors {
			if _, ok := allPairs[d]; !ok {
				t.Fatalf("round %d: unexpected distractor %q", round, d)
			}
			if _, dup := seen[d]; dup {
				t.Fatalf("round %d: duplicate distractor %q", round, d)
			}
			seen[d] = struct{}{}
		}

		if _, err := s.SubmitAnswer(ctx, q.CorrectAnswerText); err != nil {
			t.Fatalf("round %d: SubmitAnswer: %v", round, err)
		}
		s.Advance()
	}

	if s.State() != StateFinished {
		t.Fatalf("state = %v, want finished", s.State())
	}
	if stats := s.Stats(); stats.Correct != 4 || stats.Incorrect != 0 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestSession_WrongAnswerCountsAgainst(t *testing.T) {
	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 1,
	}, testPool(), 12)

	q := s.Current()
	correct, err := s.SubmitAnswer(context.Background(), "definitely not "+q.CorrectAnswerText)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if correct || s.LastCorrect() {
		t.Fatal("wrong answer judged correct")
	}
	if stats := s.Stats(); stats.Correct != 0 || stats.Incorrect != 1 {
		t.Fatalf("unexpected session stats %+v", stats)
	}
	if q.Item.Stats.Incorrect != 1 {
		t.Fatalf("lifetime counter not bumped: %+v", q.Item.Stats)
	}
}

func TestSession_RejectsSecondAnswer(t *testing.T) {
	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 2,
	}, testPool(), 13)

	ctx := context.Background()
	q := s.Current()
	if _, err := s.SubmitAnswer(ctx, q.CorrectAnswerText); err != nil {
		t.Fatalf("first answer: %v", err)
	}

	if _, err := s.SubmitAnswer(ctx, q.CorrectAnswerText); !errors.Is(err, ErrNotAcceptingAnswers) {
		t.Fatalf("second answer: got %v, want ErrNotAcceptingAnswers", err)
	}
	if stats := s.Stats(); stats.Total() != 1 {
		t.Fatalf("second answer changed the stats: %+v", stats)
	}
}

func TestSession_AdvanceOutsideFeedbackIsNoOp(t *testing.T) {
	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 3,
	}, testPool(), 14)

	before := s.Current()
	if got := s.Advance(); got != StatePlaying {
		t.Fatalf("advance while playing returned %v", got)
	}
	if s.Current() != before {
		t.Fatal("advance while playing moved the question")
	}

	// Double-advance from feedback must move exactly one question.
	if _, err := s.SubmitAnswer(context.Background(), before.CorrectAnswerText); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	s.Advance()
	second := s.Current()
	s.Advance() // no-op, we are back in playing
	if s.Current() != second {
		t.Fatal("double advance skipped a question")
	}
	if pos, _ := s.Position(); pos != 2 {
		t.Fatalf("position = %d, want 2", pos)
	}
}

func TestSession_InfiniteGrowsOneQuestionPerAdvance(t *testing.T) {
	s := newTestSession(t, SessionConfig{
		Mode:   ModeInfinite,
		Filter: FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:  entities.StyleAligned,
	}, testPool(), 15)

	ctx := context.Background()
	for round := 1; round <= 6; round++ {
		pos, total := s.Position()
		if pos != round || total != round {
			t.Fatalf("round %d: position = %d/%d, queue must grow one at a time", round, pos, total)
		}

		q := s.Current()
		if _, err := s.SubmitAnswer(ctx, q.CorrectAnswerText); err != nil {
			t.Fatalf("round %d: SubmitAnswer: %v", round, err)
		}
		if got := s.Advance(); got != StatePlaying {
			t.Fatalf("round %d: advance returned %v", round, got)
		}
	}

	if stats := s.Stats(); stats.Correct != 6 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestSession_ExitSemantics(t *testing.T) {
	normal := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleAligned,
		MaxQuestions: 2,
	}, testPool(), 16)
	if normal.Exit() {
		t.Fatal("normal session must not be exitable into a summary")
	}

	infinite := newTestSession(t, SessionConfig{
		Mode:   ModeInfinite,
		Filter: FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:  entities.StyleAligned,
	}, testPool(), 17)

	if infinite.Exit() {
		t.Fatal("infinite session with no answers has nothing to summarize")
	}

	q := infinite.Current()
	if _, err := infinite.SubmitAnswer(context.Background(), q.CorrectAnswerText); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !infinite.Exit() {
		t.Fatal("infinite session with answers must exit into a summary")
	}
	if infinite.State() != StateFinished {
		t.Fatalf("state = %v after exit, want finished", infinite.State())
	}
	if infinite.Current() != nil {
		t.Fatal("exited session still exposes a current question")
	}
	if _, err := infinite.SubmitAnswer(context.Background(), "late"); !errors.Is(err, ErrNotAcceptingAnswers) {
		t.Fatalf("SubmitAnswer after exit: %v", err)
	}
}

func TestSession_MatchingRound(t *testing.T) {
	items := testPool()[:4]
	s := newTestSession(t, SessionConfig{
		Mode:         ModeNormal,
		Filter:       FilterSpec{Kind: FilterMix, AllCategories: true},
		Style:        entities.StyleRandomized,
		MaxQuestions: 4,
	}, items, 18)

	ctx := context.Background()

	// Rounds 1-3 are multiple choice; answer them wrong to keep the
	// session score attributable.
	for round := 1; round <= 3; round++ {
		q := s.Current()
		if q.Type != entities.QuestionTypeMultipleChoice {
			t.Fatalf("round %d: type = %q, want multiple choice", round, q.Type)
		}
		if _, _, err := s.SubmitMatch(ctx, "x", "x"); !errors.Is(err, ErrWrongQuestionKind) {
			t.Fatalf("round %d: match against a choice question: %v", round, err)
		}
		if _, err := s.SubmitAnswer(ctx, "___wrong___"); err != nil {
			t.Fatalf("round %d: SubmitAnswer: %v", round, err)
		}
		s.Advance()
	}

	q := s.Current()
	if q.Type != entities.QuestionTypeMatching {
		t.Fatalf("round 4: type = %q, want matching", q.Type)
	}
	if _, err := s.SubmitAnswer(ctx, "anything"); !errors.Is(err, ErrWrongQuestionKind) {
		t.Fatalf("choice answer against a matching round: %v", err)
	}

	// Mismatches and unknown ids carry no penalty.
	if m, done, err := s.SubmitMatch(ctx, q.Pairs[0].ID, q.Pairs[1].ID); m || done || err != nil {
		t.Fatalf("mismatch: got (%v, %v, %v)", m, done, err)
	}
	if m, done, err := s.SubmitMatch(ctx, "ghost", "ghost"); m || done || err != nil {
		t.Fatalf("unknown id: got (%v, %v, %v)", m, done, err)
	}

	for i, p := range q.Pairs {
		m, done, err := s.SubmitMatch(ctx, p.ID, p.ID)
		if err != nil {
			t.Fatalf("pair %d: %v", i, err)
		}
		if !m {
			t.Fatalf("pair %d: correct pairing rejected", i)
		}
		if wantDone := i == len(q.Pairs)-1; done != wantDone {
			t.Fatalf("pair %d: done = %v, want %v", i, done, wantDone)
		}
	}

	if s.State() != StateFeedback {
		t.Fatalf("state = %v after completing the board, want feedback", s.State())
	}

	// One session point for the board, one lifetime point per item.
	if stats := s.Stats(); stats.Correct != 1 || stats.Incorrect != 3 {
		t.Fatalf("unexpected session stats %+v", stats)
	}
	var lifetime int
	for _, item := range items {
		lifetime += item.Stats.Correct
	}
	if lifetime != 4 {
		t.Fatalf("lifetime correct sum = %d, want 4", lifetime)
	}

	if got := s.Advance(); got != StateFinished {
		t.Fatalf("advance after last round returned %v", got)
	}
}
