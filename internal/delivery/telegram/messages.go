package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

const (
	msgWelcome = "Welcome to your memory trainer!\n\n" +
		"/quiz — start a practice session\n" +
		"/library — browse your items\n" +
		"/additem key = answer1; answer2 — add an item\n" +
		"/categories — manage categories\n" +
		"/addcategory name — add a category\n" +
		"/stats — accuracy overview\n" +
		"/settings — session length and question style\n" +
		"/export — download your library as JSON\n\n" +
		"Send a JSON export as a document to import it."

	msgUnknownCommand    = "Unknown command. Send /help for the list of commands."
	msgInternalError     = "Something went wrong. Please try again later."
	msgNoActiveSession   = "No quiz is running. Start one with /quiz."
	msgSessionReplaced   = "Your previous session was discarded."
	msgChooseMode        = "How do you want to practice?"
	msgChooseFilter      = "What should the questions cover?"
	msgUseAddItem        = "Usage: /additem key = answer1; answer2"
	msgUseAddCategory    = "Usage: /addcategory name"
	msgNoCategories      = "No categories yet. Add one with /addcategory name."
	msgLibraryEmpty      = "Your library is empty. Add items with /additem."
	msgImportFailed      = "Could not read that file as a library export."
	msgImportDone        = "Import finished: %d items, %d categories."
	msgNotAMatch         = "Not a match, try again"
	msgPickLeftFirst     = "Pick a card from the left column first"
	msgAlreadyMatched    = "Already matched"
	msgMatchingComplete  = "All pairs matched!"
	msgCorrect           = "✅ Excellent!"
	msgIncorrect         = "❌ Incorrect.\nThe right answer: %s"
	msgConfirmDelete     = "Deleting a category also deletes every item in it. Are you sure?"
	msgCategoryDeleted   = "Category deleted along with its items."
	msgDeleteCanceled    = "Nothing was deleted."
	msgSettingsSaved     = "Saved."
)

func formatInsufficientPool(e *service.InsufficientPoolError) string {
	return fmt.Sprintf(
		"Not enough data: found %d active items for this selection, you need at least %d to start.",
		e.Found, e.Required,
	)
}

func formatQuestion(q *entities.QuestionData, position, total int, mode service.SessionMode) string {
	var b strings.Builder

	switch mode {
	case service.ModeInfinite:
		fmt.Fprintf(&b, "♾ Question #%d\n\n", position)
	default:
		fmt.Fprintf(&b, "Question %d / %d\n\n", position, total)
	}

	if q.Type == entities.QuestionTypeMatching {
		b.WriteString("🔗 Match the pairs: pick a card on the left, then its partner on the right.")
		return b.String()
	}

	fmt.Fprintf(&b, "❓ %q", q.QuestionText)
	return b.String()
}

func formatFeedback(correct bool, q *entities.QuestionData) string {
	if q.Type == entities.QuestionTypeMatching {
		return msgMatchingComplete
	}
	if correct {
		return msgCorrect
	}
	return fmt.Sprintf(msgIncorrect, q.CorrectAnswerText)
}

func formatSummary(stats entities.SessionStats, mode service.SessionMode) string {
	title := "🏁 All done!"
	if mode == service.ModeInfinite {
		title = "🏁 Session paused. Great mental workout."
	}

	return fmt.Sprintf(
		"%s\n\n✅ Correct: %d\n❌ Incorrect: %d\n🎯 Accuracy: %d%%",
		title, stats.Correct, stats.Incorrect, stats.AccuracyPercent(),
	)
}

func formatSettings(settings *entities.AppSettings) string {
	return fmt.Sprintf(
		"⚙️ Questions per session: %d\n🎲 Question style: %s\n\nPick a new length or style:",
		settings.MaxQuestionsPerSession, settings.QuestionStyle,
	)
}

func formatItemLine(item *entities.MemoryItem) string {
	status := "🟢"
	if !item.IsActive {
		status = "⚪️"
	}

	line := fmt.Sprintf("%s %s — %s", status, item.Key, strings.Join(item.Pairs, "; "))
	if item.Stats.Attempts() > 0 {
		line += fmt.Sprintf(" (%.0f%%)", item.Stats.Accuracy()*100)
	}
	return line
}

func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}
