package telegram

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

// buildModeKeyboard offers the two session modes.
func buildModeKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎯 Normal", quizCallback(quizMode, string(service.ModeNormal))),
			tgbotapi.NewInlineKeyboardButtonData("♾ Infinite", quizCallback(quizMode, string(service.ModeInfinite))),
		),
	)
}

// buildFilterKeyboard offers the content filters plus one button per category.
func buildFilterKeyboard(categories []*entities.Category) tgbotapi.InlineKeyboardMarkup {
	rows := [][]tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🌍 Everything", quizCallback(quizFilter, string(service.FilterMix))),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔤 Words", quizCallback(quizFilter, string(service.FilterWord))),
			tgbotapi.NewInlineKeyboardButtonData("📖 Definitions", quizCallback(quizFilter, string(service.FilterDefinition))),
		),
	}

	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗂 "+c.Name, quizCallback(quizFilter, "category", c.ID)),
		))
	}

	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildOptionsKeyboard renders the multiple choice options in display order.
func buildOptionsKeyboard(options []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(options)+1)
	for i, option := range options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(option, quizCallback(quizAnswer, fmt.Sprint(i))),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Leave", quizCallback(quizExit)),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildMatchingKeyboard renders the two shuffled columns side by side.
// Matched pairs are shown checked and their buttons become inert.
func buildMatchingKeyboard(cs *chatSession, matched map[string]struct{}) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(cs.left)+1)
	for i := range cs.left {
		left, right := cs.left[i], cs.right[i]

		leftLabel, rightLabel := left.LeftContent, right.RightContent
		if _, ok := matched[left.ID]; ok {
			leftLabel = "✅ " + leftLabel
		} else if left.ID == cs.pickedLeft {
			leftLabel = "👉 " + leftLabel
		}
		if _, ok := matched[right.ID]; ok {
			rightLabel = "✅ " + rightLabel
		}

		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(leftLabel, quizCallback(quizPickL, left.ID)),
			tgbotapi.NewInlineKeyboardButtonData(rightLabel, quizCallback(quizPickR, right.ID)),
		))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("🚪 Leave", quizCallback(quizExit)),
	))
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildFeedbackKeyboard is shown under the correct/incorrect banner.
func buildFeedbackKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Continue ➡️", quizCallback(quizNext)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚪 Leave", quizCallback(quizExit)),
		),
	)
}

// buildSummaryKeyboard is shown under the session summary.
func buildSummaryKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quiz", quizCallback(quizMode, string(service.ModeNormal))),
			tgbotapi.NewInlineKeyboardButtonData("♾ Infinite", quizCallback(quizMode, string(service.ModeInfinite))),
		),
	)
}

// buildLibraryKeyboard builds numbered toggle buttons for the visible
// page plus pagination.
func buildLibraryKeyboard(page, totalPages int, items []*entities.MemoryItem) *tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	var toggles []tgbotapi.InlineKeyboardButton
	for i, item := range items {
		toggles = append(toggles, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("%d ⏯", i+1),
			libraryCallback(libraryToggle, item.ID, fmt.Sprint(page)),
		))
	}
	if len(toggles) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(toggles...))
	}

	var nav []tgbotapi.InlineKeyboardButton
	if page > 0 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("◀️ Back", libraryCallback(libraryPage, fmt.Sprint(page-1))))
	}
	if page < totalPages-1 {
		nav = append(nav, tgbotapi.NewInlineKeyboardButtonData("Next ▶️", libraryCallback(libraryPage, fmt.Sprint(page+1))))
	}
	if len(nav) > 0 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(nav...))
	}

	if len(rows) == 0 {
		return nil
	}
	kb := tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
	return &kb
}

// buildCategoriesKeyboard offers a delete button per category.
func buildCategoriesKeyboard(categories []*entities.Category) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🗑 "+c.Name, categoryCallback(categoryDelete, c.ID)),
		))
	}
	return tgbotapi.InlineKeyboardMarkup{InlineKeyboard: rows}
}

// buildConfirmDeleteKeyboard guards the cascading category delete.
func buildConfirmDeleteKeyboard(id string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⚠️ Delete with items", categoryCallback(categoryConfirm, id)),
			tgbotapi.NewInlineKeyboardButtonData("Cancel", categoryCallback(categoryCancel)),
		),
	)
}

// buildSettingsKeyboard offers session lengths and question styles.
func buildSettingsKeyboard() tgbotapi.InlineKeyboardMarkup {
	lengths := []int{5, 10, 15, 20}
	lengthRow := make([]tgbotapi.InlineKeyboardButton, 0, len(lengths))
	for _, n := range lengths {
		lengthRow = append(lengthRow, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprint(n), settingsCallback(settingsLength, fmt.Sprint(n)),
		))
	}

	return tgbotapi.NewInlineKeyboardMarkup(
		lengthRow,
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎲 Randomized", settingsCallback(settingsStyle, string(entities.StyleRandomized))),
			tgbotapi.NewInlineKeyboardButtonData("📏 Aligned", settingsCallback(settingsStyle, string(entities.StyleAligned))),
		),
	)
}
