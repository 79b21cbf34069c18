package telegram

import (
	"context"
	"math/rand"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

// chatSession is the per-chat presentation state around a running quiz
// session: shuffled option order, matching column order and the current
// left-column pick.
type chatSession struct {
	session *service.Session

	options    []string               // display order of multiple choice options
	left       []entities.MatchingPair // display order of the left column
	right      []entities.MatchingPair // display order of the right column
	pickedLeft string                  // left pair id awaiting its right half

	messageID int // quiz message being edited in place
}

// Handler routes Telegram updates to the library and quiz services.
// Updates are handled sequentially; all mutable state is confined to
// this goroutine.
type Handler struct {
	bot    *tgbotapi.BotAPI
	logger *zap.Logger
	rng    *rand.Rand

	library  *service.LibraryService
	settings *service.SettingsService
	quiz     *service.QuizService

	sessions     map[int64]*chatSession        // active quiz per chat
	pendingModes map[int64]service.SessionMode // mode chosen, filter pending
}

// NewHandler creates a Handler.
func NewHandler(
	bot *tgbotapi.BotAPI,
	logger *zap.Logger,
	rng *rand.Rand,
	library *service.LibraryService,
	settings *service.SettingsService,
	quiz *service.QuizService,
) *Handler {
	return &Handler{
		bot:          bot,
		logger:       logger,
		rng:          rng,
		library:      library,
		settings:     settings,
		quiz:         quiz,
		sessions:     make(map[int64]*chatSession),
		pendingModes: make(map[int64]service.SessionMode),
	}
}

func (h *Handler) Run(ctx context.Context) error {
	h.logger.Info("telegram handler started")
	defer h.logger.Info("telegram handler stopped")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := h.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update := <-updates:
			h.handleUpdate(ctx, update)
		}
	}
}

func (h *Handler) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		h.logger.Debug("callback received",
			zap.Int64("user_id", update.CallbackQuery.From.ID),
			zap.String("data", update.CallbackQuery.Data),
		)
		h.handleCallback(ctx, update.CallbackQuery)
		return
	}

	if update.Message == nil {
		h.logger.Debug("update without message and callback")
		return
	}

	h.logger.Debug("update received",
		zap.Int64("chat_id", update.Message.Chat.ID),
		zap.String("text", update.Message.Text),
	)

	chatID := update.Message.Chat.ID

	if update.Message.Document != nil {
		h.handleImportDocument(ctx, chatID, update.Message.Document)
		return
	}

	if update.Message.IsCommand() {
		switch update.Message.Command() {
		case "start", "help":
			h.send(newMessage(chatID, msgWelcome))

		case "quiz":
			h.handleQuizCommand(chatID)

		case "library":
			h.handleLibraryCommand(ctx, chatID, 0)

		case "additem":
			h.handleAddItemCommand(ctx, chatID, update.Message.CommandArguments())

		case "categories":
			h.handleCategoriesCommand(ctx, chatID)

		case "addcategory":
			h.handleAddCategoryCommand(ctx, chatID, update.Message.CommandArguments())

		case "stats":
			h.handleStatsCommand(ctx, chatID)

		case "settings":
			h.handleSettingsCommand(ctx, chatID)

		case "export":
			h.handleExportCommand(ctx, chatID)

		default:
			h.send(newMessage(chatID, msgUnknownCommand))
		}

		return
	}
}

func (h *Handler) send(c tgbotapi.Chattable) {
	if _, err := h.bot.Send(c); err != nil {
		h.logger.Error("failed to send telegram message",
			zap.Error(err),
		)
	}
}

// answerCallback removes the user's "clock", optionally with a toast.
func (h *Handler) answerCallback(id, text string) {
	answer := tgbotapi.NewCallback(id, text)
	if _, err := h.bot.Request(answer); err != nil {
		h.logger.Error("failed to answer callback", zap.Error(err))
	}
}
