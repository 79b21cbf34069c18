package telegram

import (
	"strings"
	"testing"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

func TestCallbackRoundTrip(t *testing.T) {
	cases := []struct {
		encoded string
		action  string
		params  []string
	}{
		{quizCallback(quizMode, string(service.ModeNormal)), actionQuiz, []string{"mode", "normal"}},
		{quizCallback(quizFilter, "category", "c1"), actionQuiz, []string{"filter", "category", "c1"}},
		{quizCallback(quizAnswer, "2"), actionQuiz, []string{"ans", "2"}},
		{libraryCallback(libraryToggle, "item-1", "0"), actionLibrary, []string{"toggle", "item-1", "0"}},
		{categoryCallback(categoryCancel), actionCategory, []string{"cancel"}},
		{settingsCallback(settingsStyle, string(entities.StyleAligned)), actionSettings, []string{"style", "aligned"}},
	}

	for _, tc := range cases {
		t.Run(tc.encoded, func(t *testing.T) {
			got := decodeCallback(tc.encoded)
			if got.Action != tc.action {
				t.Fatalf("action = %q, want %q", got.Action, tc.action)
			}
			if len(got.Params) != len(tc.params) {
				t.Fatalf("params = %v, want %v", got.Params, tc.params)
			}
			for i := range tc.params {
				if got.Params[i] != tc.params[i] {
					t.Fatalf("params = %v, want %v", got.Params, tc.params)
				}
			}
			if got.Raw != tc.encoded {
				t.Fatalf("raw = %q, want %q", got.Raw, tc.encoded)
			}
		})
	}
}

func TestCallbackDataFitsTelegramLimit(t *testing.T) {
	// Telegram rejects callback data over 64 bytes; uuid-sized params
	// must still fit.
	uuid := "123e4567-e89b-12d3-a456-426614174000"
	data := libraryCallback(libraryToggle, uuid, "99")
	if len(data) > 64 {
		t.Fatalf("callback data is %d bytes: %q", len(data), data)
	}
}

func TestFormatFeedback(t *testing.T) {
	mc := &entities.QuestionData{
		Type:              entities.QuestionTypeMultipleChoice,
		CorrectAnswerText: "dog",
	}

	if got := formatFeedback(true, mc); got != msgCorrect {
		t.Fatalf("correct feedback = %q", got)
	}
	if got := formatFeedback(false, mc); got == msgCorrect || got == "" {
		t.Fatalf("incorrect feedback = %q", got)
	}

	matching := &entities.QuestionData{Type: entities.QuestionTypeMatching}
	if got := formatFeedback(true, matching); got != msgMatchingComplete {
		t.Fatalf("matching feedback = %q", got)
	}
}

func TestFormatSummaryAccuracy(t *testing.T) {
	stats := entities.SessionStats{Correct: 3, Incorrect: 1}
	got := formatSummary(stats, service.ModeNormal)
	if !strings.Contains(got, "75%") {
		t.Fatalf("summary misses the accuracy: %q", got)
	}
}
