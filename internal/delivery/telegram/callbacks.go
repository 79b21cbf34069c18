package telegram

import (
	"context"
	"errors"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
	"memotrain/internal/service"
)

func (h *Handler) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		h.answerCallback(cb.ID, "")
		return
	}

	data := decodeCallback(cb.Data)

	switch data.Action {
	case actionQuiz:
		h.handleQuizCallback(ctx, cb, data)
	case actionLibrary:
		h.handleLibraryCallback(ctx, cb, data)
	case actionCategory:
		h.handleCategoryCallback(ctx, cb, data)
	case actionSettings:
		h.handleSettingsCallback(ctx, cb, data)
	default:
		h.answerCallback(cb.ID, "")
	}
}

func (h *Handler) handleQuizCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) {
	if len(data.Params) == 0 {
		h.answerCallback(cb.ID, "")
		return
	}

	switch data.Params[0] {
	case quizMode:
		h.handleModeChosen(ctx, cb, data.Params[1:])
	case quizFilter:
		h.handleFilterChosen(ctx, cb, data.Params[1:])
	case quizAnswer:
		h.handleAnswer(ctx, cb, data.Params[1:])
	case quizPickL, quizPickR:
		h.handleMatchPick(ctx, cb, data.Params[0], data.Params[1:])
	case quizNext:
		h.handleAdvance(cb)
	case quizExit:
		h.handleExit(cb)
	default:
		h.logger.Debug("unknown quiz callback", zap.String("data", data.Raw))
		h.answerCallback(cb.ID, "")
	}
}

// handleModeChosen stores the chosen mode and asks for the pool filter.
func (h *Handler) handleModeChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID
	if len(params) != 1 {
		h.answerCallback(cb.ID, "")
		return
	}

	mode := service.SessionMode(params[0])
	if mode != service.ModeNormal && mode != service.ModeInfinite {
		h.answerCallback(cb.ID, "")
		return
	}
	h.pendingModes[chatID] = mode

	categories, err := h.library.ListCategories(ctx)
	if err != nil {
		h.logger.Error("failed to list categories", zap.Error(err))
		categories = nil
	}

	h.editMessage(chatID, cb.Message.MessageID, msgChooseFilter, markupOf(buildFilterKeyboard(categories)))
	h.answerCallback(cb.ID, "")
}

// handleFilterChosen builds the filter spec and starts the session.
func (h *Handler) handleFilterChosen(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID
	if len(params) == 0 {
		h.answerCallback(cb.ID, "")
		return
	}

	mode, ok := h.pendingModes[chatID]
	if !ok {
		h.answerCallback(cb.ID, msgNoActiveSession)
		return
	}
	delete(h.pendingModes, chatID)

	filter := service.FilterSpec{Kind: service.FilterMix, AllCategories: true}
	switch params[0] {
	case string(service.FilterWord):
		filter.Kind = service.FilterWord
	case string(service.FilterDefinition):
		filter.Kind = service.FilterDefinition
	case "category":
		if len(params) != 2 {
			h.answerCallback(cb.ID, "")
			return
		}
		filter.AllCategories = false
		filter.CategoryIDs = []string{params[1]}
	}

	session, err := h.quiz.StartSession(ctx, mode, filter)
	if err != nil {
		var poolErr *service.InsufficientPoolError
		switch {
		case errors.As(err, &poolErr):
			h.editMessage(chatID, cb.Message.MessageID, formatInsufficientPool(poolErr), nil)
		case errors.Is(err, service.ErrNoQuestionsGenerated):
			h.editMessage(chatID, cb.Message.MessageID, msgInternalError, nil)
		default:
			h.logger.Error("failed to start session", zap.Error(err))
			h.editMessage(chatID, cb.Message.MessageID, msgInternalError, nil)
		}
		h.answerCallback(cb.ID, "")
		return
	}

	cs := &chatSession{session: session, messageID: cb.Message.MessageID}
	h.sessions[chatID] = cs

	h.renderQuestion(chatID, cs)
	h.answerCallback(cb.ID, "")
}

// handleAnswer submits a multiple choice answer and shows feedback.
func (h *Handler) handleAnswer(ctx context.Context, cb *tgbotapi.CallbackQuery, params []string) {
	chatID := cb.Message.Chat.ID
	cs, ok := h.sessions[chatID]
	if !ok || len(params) != 1 {
		h.answerCallback(cb.ID, msgNoActiveSession)
		return
	}

	idx, err := strconv.Atoi(params[0])
	if err != nil || idx < 0 || idx >= len(cs.options) {
		h.answerCallback(cb.ID, "")
		return
	}

	correct, err := cs.session.SubmitAnswer(ctx, cs.options[idx])
	if err != nil {
		// An answer raced the feedback screen; ignore it.
		h.answerCallback(cb.ID, "")
		return
	}

	h.renderFeedback(chatID, cs, correct)
	h.answerCallback(cb.ID, "")
}

// handleMatchPick handles one tap inside a matching round.
func (h *Handler) handleMatchPick(ctx context.Context, cb *tgbotapi.CallbackQuery, side string, params []string) {
	chatID := cb.Message.Chat.ID
	cs, ok := h.sessions[chatID]
	if !ok || len(params) != 1 {
		h.answerCallback(cb.ID, msgNoActiveSession)
		return
	}
	q := cs.session.Current()
	if q == nil || q.Type != entities.QuestionTypeMatching {
		// Stale tap from an already finished matching board.
		h.answerCallback(cb.ID, "")
		return
	}
	id := params[0]

	matched := cs.session.MatchedIDs()
	if _, done := matched[id]; done {
		h.answerCallback(cb.ID, msgAlreadyMatched)
		return
	}

	if side == quizPickL {
		cs.pickedLeft = id
		h.renderMatching(chatID, cs)
		h.answerCallback(cb.ID, "")
		return
	}

	if cs.pickedLeft == "" {
		h.answerCallback(cb.ID, msgPickLeftFirst)
		return
	}

	ok2, complete, err := cs.session.SubmitMatch(ctx, cs.pickedLeft, id)
	cs.pickedLeft = ""
	if err != nil {
		h.answerCallback(cb.ID, "")
		return
	}

	if !ok2 {
		// Transient cue only, the round keeps going.
		h.answerCallback(cb.ID, msgNotAMatch)
		h.renderMatching(chatID, cs)
		return
	}

	if complete {
		h.renderFeedback(chatID, cs, true)
	} else {
		h.renderMatching(chatID, cs)
	}
	h.answerCallback(cb.ID, "")
}

// handleAdvance moves past the feedback screen.
func (h *Handler) handleAdvance(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	cs, ok := h.sessions[chatID]
	if !ok {
		h.answerCallback(cb.ID, msgNoActiveSession)
		return
	}

	switch cs.session.Advance() {
	case service.StatePlaying:
		h.renderQuestion(chatID, cs)
	case service.StateFinished:
		h.renderSummary(chatID, cs)
	}
	h.answerCallback(cb.ID, "")
}

// handleExit leaves the quiz: an infinite session with answered rounds
// shows its summary first, anything else is dropped silently.
func (h *Handler) handleExit(cb *tgbotapi.CallbackQuery) {
	chatID := cb.Message.Chat.ID
	cs, ok := h.sessions[chatID]
	if !ok {
		h.answerCallback(cb.ID, "")
		return
	}

	if cs.session.Exit() {
		h.renderSummary(chatID, cs)
	} else {
		delete(h.sessions, chatID)
		h.editMessage(chatID, cs.messageID, msgWelcome, nil)
	}
	h.answerCallback(cb.ID, "")
}

// renderQuestion shows the current question, (re)shuffling the display
// order of its options or columns.
func (h *Handler) renderQuestion(chatID int64, cs *chatSession) {
	q := cs.session.Current()
	if q == nil {
		h.renderSummary(chatID, cs)
		return
	}

	position, total := cs.session.Position()
	text := formatQuestion(q, position, total, cs.session.Mode())

	if q.Type == entities.QuestionTypeMatching {
		cs.left = append([]entities.MatchingPair(nil), q.Pairs...)
		cs.right = append([]entities.MatchingPair(nil), q.Pairs...)
		h.rng.Shuffle(len(cs.left), func(i, j int) { cs.left[i], cs.left[j] = cs.left[j], cs.left[i] })
		h.rng.Shuffle(len(cs.right), func(i, j int) { cs.right[i], cs.right[j] = cs.right[j], cs.right[i] })
		cs.pickedLeft = ""

		h.editMessage(chatID, cs.messageID, text, markupOf(buildMatchingKeyboard(cs, cs.session.MatchedIDs())))
		return
	}

	cs.options = append([]string{q.CorrectAnswerText}, q.Distractors...)
	h.rng.Shuffle(len(cs.options), func(i, j int) { cs.options[i], cs.options[j] = cs.options[j], cs.options[i] })

	h.editMessage(chatID, cs.messageID, text, markupOf(buildOptionsKeyboard(cs.options)))
}

// renderMatching redraws the matching board in place.
func (h *Handler) renderMatching(chatID int64, cs *chatSession) {
	q := cs.session.Current()
	if q == nil {
		return
	}
	position, total := cs.session.Position()
	text := formatQuestion(q, position, total, cs.session.Mode())
	h.editMessage(chatID, cs.messageID, text, markupOf(buildMatchingKeyboard(cs, cs.session.MatchedIDs())))
}

// renderFeedback shows the correct/incorrect banner with a Continue button.
func (h *Handler) renderFeedback(chatID int64, cs *chatSession, correct bool) {
	q := cs.session.Current()
	if q == nil {
		h.renderSummary(chatID, cs)
		return
	}
	h.editMessage(chatID, cs.messageID, formatFeedback(correct, q), markupOf(buildFeedbackKeyboard()))
}

// renderSummary shows the end-of-session screen and drops the session.
func (h *Handler) renderSummary(chatID int64, cs *chatSession) {
	stats := cs.session.Stats()
	mode := cs.session.Mode()
	delete(h.sessions, chatID)

	h.editMessage(chatID, cs.messageID, formatSummary(stats, mode), markupOf(buildSummaryKeyboard()))
}

// editMessage redraws a bot message in place. A nil keyboard leaves the
// message without buttons.
func (h *Handler) editMessage(chatID int64, messageID int, text string, kb *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	if kb != nil {
		edit.ReplyMarkup = kb
	}
	h.send(edit)
}

func markupOf(kb tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup {
	return &kb
}

func (h *Handler) handleLibraryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) {
	chatID := cb.Message.Chat.ID
	if len(data.Params) == 0 {
		h.answerCallback(cb.ID, "")
		return
	}

	switch data.Params[0] {
	case libraryPage:
		if len(data.Params) != 2 {
			break
		}
		page, err := strconv.Atoi(data.Params[1])
		if err != nil || page < 0 {
			break
		}
		h.redrawLibraryPage(ctx, chatID, cb.Message.MessageID, page)

	case libraryToggle:
		if len(data.Params) != 3 {
			break
		}
		page, err := strconv.Atoi(data.Params[2])
		if err != nil || page < 0 {
			break
		}
		if _, err := h.library.ToggleActive(ctx, data.Params[1]); err != nil {
			h.logger.Error("failed to toggle item", zap.String("id", data.Params[1]), zap.Error(err))
			h.answerCallback(cb.ID, msgInternalError)
			return
		}
		h.redrawLibraryPage(ctx, chatID, cb.Message.MessageID, page)
	}

	h.answerCallback(cb.ID, "")
}

func (h *Handler) redrawLibraryPage(ctx context.Context, chatID int64, messageID, page int) {
	text, kb, ok := h.buildLibraryPage(ctx, page)
	if !ok {
		h.editMessage(chatID, messageID, msgInternalError, nil)
		return
	}
	h.editMessage(chatID, messageID, text, kb)
}

func (h *Handler) handleCategoryCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) {
	chatID := cb.Message.Chat.ID
	if len(data.Params) == 0 {
		h.answerCallback(cb.ID, "")
		return
	}

	switch data.Params[0] {
	case categoryDelete:
		if len(data.Params) != 2 {
			break
		}
		h.editMessage(chatID, cb.Message.MessageID, msgConfirmDelete, markupOf(buildConfirmDeleteKeyboard(data.Params[1])))

	case categoryConfirm:
		if len(data.Params) != 2 {
			break
		}
		if err := h.library.DeleteCategory(ctx, data.Params[1]); err != nil {
			h.logger.Error("failed to delete category", zap.String("id", data.Params[1]), zap.Error(err))
			h.editMessage(chatID, cb.Message.MessageID, msgInternalError, nil)
			break
		}
		h.editMessage(chatID, cb.Message.MessageID, msgCategoryDeleted, nil)

	case categoryCancel:
		h.editMessage(chatID, cb.Message.MessageID, msgDeleteCanceled, nil)
	}

	h.answerCallback(cb.ID, "")
}

func (h *Handler) handleSettingsCallback(ctx context.Context, cb *tgbotapi.CallbackQuery, data callbackData) {
	chatID := cb.Message.Chat.ID
	if len(data.Params) != 2 {
		h.answerCallback(cb.ID, "")
		return
	}

	var err error
	switch data.Params[0] {
	case settingsLength:
		var n int
		if n, err = strconv.Atoi(data.Params[1]); err == nil {
			err = h.settings.UpdateMaxQuestions(ctx, n)
		}
	case settingsStyle:
		err = h.settings.UpdateQuestionStyle(ctx, entities.QuestionStyle(data.Params[1]))
	default:
		h.answerCallback(cb.ID, "")
		return
	}

	if err != nil {
		h.logger.Error("failed to update settings", zap.Error(err))
		h.answerCallback(cb.ID, msgInternalError)
		return
	}

	settings, err := h.settings.Get(ctx)
	if err != nil {
		h.answerCallback(cb.ID, msgSettingsSaved)
		return
	}
	h.editMessage(chatID, cb.Message.MessageID, formatSettings(settings), markupOf(buildSettingsKeyboard()))
	h.answerCallback(cb.ID, msgSettingsSaved)
}
