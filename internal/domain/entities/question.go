package entities

// QuestionType discriminates the two quiz round kinds.
type QuestionType string

const (
	QuestionTypeMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTypeMatching       QuestionType = "MATCHING"
)

// MatchingPair is one key/pair association inside a matching round.
// Left and right carry fixed content; shuffling the columns for display
// is the presentation layer's job.
type MatchingPair struct {
	ID           string      // item id, ties the two halves together
	LeftContent  string      // content of the left card
	RightContent string      // content of the right card
	Item         *MemoryItem // underlying item, for stats updates
}

// QuestionData is one generated quiz round. It is created fresh by the
// generator and discarded after feedback is shown.
type QuestionData struct {
	Type QuestionType

	// Multiple choice fields.
	Item              *MemoryItem // target item
	QuestionText      string
	CorrectAnswerText string
	Distractors       []string // exactly 3 unique wrong answers

	// Matching fields.
	Pairs []MatchingPair // exactly 4 pairs
}

// SessionStats counts answers within a single quiz session. It is reset
// on session start and never persisted.
type SessionStats struct {
	Correct   int
	Incorrect int
}

// Total returns the number of answered rounds in the session.
func (s SessionStats) Total() int {
	return s.Correct + s.Incorrect
}

// AccuracyPercent returns the session accuracy rounded to whole percent,
// or 0 when nothing has been answered yet.
func (s SessionStats) AccuracyPercent() int {
	if s.Total() == 0 {
		return 0
	}
	return int(float64(s.Correct)/float64(s.Total())*100 + 0.5)
}
