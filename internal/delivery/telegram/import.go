package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// maxImportSize caps downloaded library exports at 20 MB.
const maxImportSize = 20 << 20

// handleImportDocument downloads an uploaded JSON document and merges it
// into the library.
func (h *Handler) handleImportDocument(ctx context.Context, chatID int64, doc *tgbotapi.Document) {
	url, err := h.bot.GetFileDirectURL(doc.FileID)
	if err != nil {
		h.logger.Error("failed to resolve file url", zap.String("file_id", doc.FileID), zap.Error(err))
		h.send(newMessage(chatID, msgImportFailed))
		return
	}

	data, err := fetchDocument(ctx, url)
	if err != nil {
		h.logger.Error("failed to download document", zap.Error(err))
		h.send(newMessage(chatID, msgImportFailed))
		return
	}

	items, categories, err := h.library.ImportJSON(ctx, data)
	if err != nil {
		h.logger.Warn("import rejected", zap.Error(err))
		h.send(newMessage(chatID, msgImportFailed))
		return
	}

	h.logger.Info("library imported",
		zap.Int64("chat_id", chatID),
		zap.Int("items", items),
		zap.Int("categories", categories),
	)
	h.send(newMessage(chatID, fmt.Sprintf(msgImportDone, items, categories)))
}

func fetchDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImportSize))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}
