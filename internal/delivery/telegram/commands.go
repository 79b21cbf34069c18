package telegram

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

const itemsPerPage = 5

func (h *Handler) handleQuizCommand(chatID int64) {
	if _, ok := h.sessions[chatID]; ok {
		delete(h.sessions, chatID)
		h.send(newMessage(chatID, msgSessionReplaced))
	}

	msg := newMessage(chatID, msgChooseMode)
	msg.ReplyMarkup = buildModeKeyboard()
	h.send(msg)
}

func (h *Handler) handleLibraryCommand(ctx context.Context, chatID int64, page int) {
	text, kb, ok := h.buildLibraryPage(ctx, page)
	if !ok {
		h.send(newMessage(chatID, msgInternalError))
		return
	}

	msg := newMessage(chatID, text)
	if kb != nil {
		msg.ReplyMarkup = *kb
	}
	h.send(msg)
}

// buildLibraryPage renders one page of the item list.
func (h *Handler) buildLibraryPage(ctx context.Context, page int) (string, *tgbotapi.InlineKeyboardMarkup, bool) {
	items, err := h.library.ListItems(ctx)
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		return "", nil, false
	}
	if len(items) == 0 {
		return msgLibraryEmpty, nil, true
	}

	totalPages := (len(items) + itemsPerPage - 1) / itemsPerPage
	if page < 0 {
		page = 0
	}
	if page >= totalPages {
		page = totalPages - 1
	}

	start := page * itemsPerPage
	end := start + itemsPerPage
	if end > len(items) {
		end = len(items)
	}
	visible := items[start:end]

	var b strings.Builder
	fmt.Fprintf(&b, "📚 Library — page %d / %d\n\n", page+1, totalPages)
	for i, item := range visible {
		fmt.Fprintf(&b, "%d. %s\n", i+1, formatItemLine(item))
	}
	b.WriteString("\nUse the numbered buttons to pause or resume an item.")

	return b.String(), buildLibraryKeyboard(page, totalPages, visible), true
}

// handleAddItemCommand parses "/additem key = answer1; answer2".
func (h *Handler) handleAddItemCommand(ctx context.Context, chatID int64, args string) {
	key, rest, found := strings.Cut(args, "=")
	if !found {
		h.send(newMessage(chatID, msgUseAddItem))
		return
	}

	item, err := h.library.AddItem(ctx, key, strings.Split(rest, ";"), "")
	if err != nil {
		if errors.Is(err, service.ErrInvalidItem) {
			h.send(newMessage(chatID, msgUseAddItem))
			return
		}
		h.logger.Error("failed to add item", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}

	h.send(newMessage(chatID, fmt.Sprintf("Added %q with %d answer(s).", item.Key, len(item.Pairs))))
}

func (h *Handler) handleCategoriesCommand(ctx context.Context, chatID int64) {
	categories, err := h.library.ListCategories(ctx)
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}
	if len(categories) == 0 {
		h.send(newMessage(chatID, msgNoCategories))
		return
	}

	msg := newMessage(chatID, "🗂 Your categories. Tap one to delete it (items inside are deleted too).")
	msg.ReplyMarkup = buildCategoriesKeyboard(categories)
	h.send(msg)
}

func (h *Handler) handleAddCategoryCommand(ctx context.Context, chatID int64, args string) {
	category, err := h.library.AddCategory(ctx, args)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCategory) {
			h.send(newMessage(chatID, msgUseAddCategory))
			return
		}
		h.logger.Error("failed to add category", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}

	h.send(newMessage(chatID, fmt.Sprintf("Category %q created.", category.Name)))
}

// handleStatsCommand renders an accuracy overview with the weakest items
// on top, the same ordering bias the weighted draw uses.
func (h *Handler) handleStatsCommand(ctx context.Context, chatID int64) {
	items, err := h.library.ListItems(ctx)
	if err != nil {
		h.logger.Error("failed to list items", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}
	if len(items) == 0 {
		h.send(newMessage(chatID, msgLibraryEmpty))
		return
	}

	var attempted []*entities.MemoryItem
	total := entities.Stats{}
	for _, item := range items {
		total.Correct += item.Stats.Correct
		total.Incorrect += item.Stats.Incorrect
		if item.Stats.Attempts() > 0 {
			attempted = append(attempted, item)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 %d items, %d answers, %.0f%% overall accuracy\n",
		len(items), total.Attempts(), total.Accuracy()*100)

	if len(attempted) > 0 {
		sort.Slice(attempted, func(i, j int) bool {
			return attempted[i].Stats.Accuracy() < attempted[j].Stats.Accuracy()
		})
		if len(attempted) > 5 {
			attempted = attempted[:5]
		}
		b.WriteString("\nNeeds practice:\n")
		for _, item := range attempted {
			fmt.Fprintf(&b, "• %s — %.0f%% (%d answers)\n",
				item.Key, item.Stats.Accuracy()*100, item.Stats.Attempts())
		}
	}

	h.send(newMessage(chatID, b.String()))
}

func (h *Handler) handleSettingsCommand(ctx context.Context, chatID int64) {
	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.logger.Error("failed to get settings", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}

	msg := newMessage(chatID, formatSettings(settings))
	msg.ReplyMarkup = buildSettingsKeyboard()
	h.send(msg)
}

func (h *Handler) handleExportCommand(ctx context.Context, chatID int64) {
	data, err := h.library.Export(ctx)
	if err != nil {
		h.logger.Error("failed to export library", zap.Error(err))
		h.send(newMessage(chatID, msgInternalError))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  "library.json",
		Bytes: data,
	})
	h.send(doc)
}
