package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
)

// SessionMode selects between a fixed-length run and an open-ended one.
type SessionMode string

const (
	// ModeNormal pre-generates a fixed batch of questions and finishes
	// when the batch is exhausted.
	ModeNormal SessionMode = "normal"
	// ModeInfinite generates one question per advance until the pool
	// degenerates or the user exits.
	ModeInfinite SessionMode = "infinite"
)

// SessionState is the lifecycle phase of a quiz session.
type SessionState int

const (
	StatePreparing SessionState = iota
	StatePlaying
	StateFeedback
	StateFinished
)

var (
	// ErrNoQuestionsGenerated is a hard setup failure: the pool passed
	// validation but not a single question could be built from it.
	ErrNoQuestionsGenerated = errors.New("no questions could be generated")
	// ErrNotAcceptingAnswers rejects answers outside the playing state,
	// including a second answer while feedback for the first is pending.
	ErrNotAcceptingAnswers = errors.New("session is not accepting answers")
	// ErrWrongQuestionKind rejects an answer that does not fit the
	// current question's type.
	ErrWrongQuestionKind = errors.New("answer does not match the current question type")
)

// SessionConfig carries everything a session needs at start.
type SessionConfig struct {
	Mode         SessionMode
	Filter       FilterSpec
	Style        entities.QuestionStyle
	MaxQuestions int // normal mode batch size; defaulted when <= 0
}

// Session drives one quiz run: question sequencing, answer checking,
// feedback gating and early termination. It is single-flight by design;
// callers serialize access the way UI event loops do.
type Session struct {
	cfg      SessionConfig
	pool     []*entities.MemoryItem
	weighter *Weighter
	gen      *Generator
	tracker  *StatsTracker
	logger   *zap.Logger

	state     SessionState
	questions []*entities.QuestionData
	current   int
	round     int // 1-indexed global round counter, drives matching cadence
	stats     entities.SessionStats

	matched     map[string]struct{} // matching sub-state: pair ids matched so far
	answered    bool                // in-flight answer guard for the current round
	lastCorrect bool
}

// NewSession resolves the candidate pool, validates it and pre-generates
// the question queue: one question for infinite mode, the configured
// batch for normal mode. A degenerate pool may yield a shorter batch;
// an empty one fails with ErrNoQuestionsGenerated.
func NewSession(
	cfg SessionConfig,
	items []*entities.MemoryItem,
	weighter *Weighter,
	gen *Generator,
	tracker *StatsTracker,
	logger *zap.Logger,
) (*Session, error) {
	pool := ResolvePool(items, cfg.Filter)
	if err := ValidatePool(pool); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:      cfg,
		pool:     pool,
		weighter: weighter,
		gen:      gen,
		tracker:  tracker,
		logger:   logger,
		state:    StatePreparing,
	}

	batch := 1
	if cfg.Mode == ModeNormal {
		batch = cfg.MaxQuestions
		if batch <= 0 {
			batch = entities.DefaultMaxQuestions
		}
	}

	for i := 0; i < batch; i++ {
		q := s.nextQuestion()
		if q == nil {
			break
		}
		s.questions = append(s.questions, q)
	}
	if len(s.questions) == 0 {
		return nil, ErrNoQuestionsGenerated
	}

	s.state = StatePlaying
	s.beginRound()

	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() SessionState { return s.state }

// Mode returns the session mode.
func (s *Session) Mode() SessionMode { return s.cfg.Mode }

// Stats returns the session-scoped counters.
func (s *Session) Stats() entities.SessionStats { return s.stats }

// Current returns the question being played, or nil once finished.
func (s *Session) Current() *entities.QuestionData {
	if s.state == StateFinished || s.current >= len(s.questions) {
		return nil
	}
	return s.questions[s.current]
}

// Position returns the 1-indexed number of the current question and the
// queue length.
func (s *Session) Position() (int, int) {
	return s.current + 1, len(s.questions)
}

// LastCorrect reports whether the most recent answer was correct. Only
// meaningful in the feedback state.
func (s *Session) LastCorrect() bool { return s.lastCorrect }

// MatchedIDs returns the pair ids already matched in the current
// matching round.
func (s *Session) MatchedIDs() map[string]struct{} { return s.matched }

// SubmitAnswer checks a multiple choice answer, updates the session and
// lifetime statistics and moves to feedback. It reports whether the
// answer was correct.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (bool, error) {
	if s.state != StatePlaying || s.answered {
		return false, ErrNotAcceptingAnswers
	}
	q := s.Current()
	if q == nil || q.Type != entities.QuestionTypeMultipleChoice {
		return false, ErrWrongQuestionKind
	}

	s.answered = true
	correct := answer == q.CorrectAnswerText
	s.lastCorrect = correct

	if correct {
		s.stats.Correct++
	} else {
		s.stats.Incorrect++
	}
	s.tracker.RecordOutcome(ctx, q.Item, correct)

	s.state = StateFeedback
	return correct, nil
}

// SubmitMatch checks one left/right pairing inside a matching round and
// reports (matched, roundComplete). A mismatch carries no penalty beyond
// the caller's transient cue. The round completes once all pairs have
// been matched: it scores a single session point but records a correct
// outcome for each of the four underlying items.
func (s *Session) SubmitMatch(ctx context.Context, leftID, rightID string) (bool, bool, error) {
	if s.state != StatePlaying {
		return false, false, ErrNotAcceptingAnswers
	}
	q := s.Current()
	if q == nil || q.Type != entities.QuestionTypeMatching {
		return false, false, ErrWrongQuestionKind
	}

	if leftID != rightID || !hasPairID(q.Pairs, leftID) {
		return false, false, nil
	}

	s.matched[leftID] = struct{}{}
	if len(s.matched) < len(q.Pairs) {
		return true, false, nil
	}

	s.answered = true
	s.lastCorrect = true
	s.stats.Correct++
	for i := range q.Pairs {
		s.tracker.RecordOutcome(ctx, q.Pairs[i].Item, true)
	}

	s.state = StateFeedback
	return true, true, nil
}

// Advance leaves feedback for the next round. Calls outside the feedback
// state are no-ops, which coalesces rapid double-activation into a single
// transition. In infinite mode one new question is generated; when
// generation fails the session finishes instead of getting stuck. The
// returned state tells the caller what to render next.
func (s *Session) Advance() SessionState {
	if s.state != StateFeedback {
		return s.state
	}

	if s.cfg.Mode == ModeInfinite {
		q := s.nextQuestion()
		if q == nil {
			s.logger.Info("question generation degenerated, finishing session",
				zap.Int("round", s.round),
			)
			s.state = StateFinished
			return s.state
		}
		s.questions = append(s.questions, q)
		s.current++
		s.state = StatePlaying
		s.beginRound()
		return s.state
	}

	if s.current < len(s.questions)-1 {
		s.current++
		s.state = StatePlaying
		s.beginRound()
		return s.state
	}

	s.state = StateFinished
	return s.state
}

// Exit ends an infinite session early so the summary can be shown. It
// reports false when there is nothing to summarize (or in normal mode),
// in which case the caller simply leaves the quiz screen.
func (s *Session) Exit() bool {
	if s.state == StateFinished {
		return true
	}
	if s.cfg.Mode == ModeInfinite && s.stats.Total() > 0 {
		s.state = StateFinished
		return true
	}
	return false
}

// nextQuestion generates the question for the next global round:
// a matching round on the configured cadence when eligible, otherwise a
// multiple choice question for a weighted-drawn target. Draws that yield
// an ineligible target are retried; nil means the pool has degenerated.
func (s *Session) nextQuestion() *entities.QuestionData {
	s.round++

	if IsMatchingRound(s.round, s.cfg.Style, s.cfg.Filter.Kind, s.pool) {
		if q := s.gen.BuildMatching(s.pool); q != nil {
			return q
		}
	}

	for attempt := 0; attempt < len(s.pool); attempt++ {
		target := s.weighter.Pick(s.pool)
		if q := s.gen.BuildQuestion(target, s.pool, s.cfg.Style); q != nil {
			return q
		}
	}
	return nil
}

// beginRound resets the per-round guards for the question at s.current.
func (s *Session) beginRound() {
	s.answered = false
	s.matched = nil
	if q := s.Current(); q != nil && q.Type == entities.QuestionTypeMatching {
		s.matched = make(map[string]struct{}, len(q.Pairs))
	}
}

func hasPairID(pairs []entities.MatchingPair, id string) bool {
	for i := range pairs {
		if pairs[i].ID == id {
			return true
		}
	}
	return false
}
