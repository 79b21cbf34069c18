package entities

// QuestionStyle selects how multiple choice questions are composed.
type QuestionStyle string

const (
	// StyleAligned always asks the key and expects the first pair.
	StyleAligned QuestionStyle = "aligned"
	// StyleRandomized picks the prompt and answer from any facet of the
	// item. Matching rounds only occur under this style.
	StyleRandomized QuestionStyle = "randomized"
)

// DefaultMaxQuestions is the normal mode session length used until the
// user changes it.
const DefaultMaxQuestions = 10

// AppSettings is the single global configuration record of the app.
type AppSettings struct {
	MaxQuestionsPerSession int           `json:"maxQuestionsPerSession"`
	QuestionStyle          QuestionStyle `json:"questionStyle"`
}

// DefaultSettings returns the settings used before the user saves any.
func DefaultSettings() *AppSettings {
	return &AppSettings{
		MaxQuestionsPerSession: DefaultMaxQuestions,
		QuestionStyle:          StyleRandomized,
	}
}

// Normalize fills zero values in with defaults so a partially populated
// record loaded from storage is always usable.
func (s *AppSettings) Normalize() {
	if s.MaxQuestionsPerSession <= 0 {
		s.MaxQuestionsPerSession = DefaultMaxQuestions
	}
	if s.QuestionStyle != StyleAligned && s.QuestionStyle != StyleRandomized {
		s.QuestionStyle = StyleRandomized
	}
}
