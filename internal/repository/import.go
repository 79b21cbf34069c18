package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"memotrain/internal/domain/entities"
)

var ErrEmptyImport = errors.New("import contains no items or categories")

// legacyItem accepts every historical export shape in one struct: the
// current key/pairs form, the older term/meanings form and the oldest
// term/description form. Exactly one mapping step per shape turns it
// into a MemoryItem; nothing outside this file knows the old shapes.
type legacyItem struct {
	ID          string          `json:"id"`
	Key         string          `json:"key"`
	Term        string          `json:"term"`
	Type        string          `json:"type"`
	Pairs       []string        `json:"pairs"`
	Meanings    []string        `json:"meanings"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
	IsActive    *bool           `json:"isActive"`
	CategoryID  string          `json:"categoryId"`
	Stats       *entities.Stats `json:"stats"`
	CreatedAt   json.RawMessage `json:"createdAt"`
}

type legacyLibrary struct {
	Items      []legacyItem         `json:"items"`
	Categories []*entities.Category `json:"categories"`
}

// DecodeLibraryExport parses a library export in any known historical
// shape and maps it onto current entities. Entries that cannot yield a
// usable item (no key and no answers at all) are dropped.
func DecodeLibraryExport(data []byte) ([]*entities.MemoryItem, []*entities.Category, error) {
	var doc legacyLibrary
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("unmarshal library export: %w", err)
	}
	if len(doc.Items) == 0 && len(doc.Categories) == 0 {
		return nil, nil, ErrEmptyImport
	}

	items := make([]*entities.MemoryItem, 0, len(doc.Items))
	for _, raw := range doc.Items {
		if item := migrateItem(raw); item != nil {
			items = append(items, item)
		}
	}

	return items, doc.Categories, nil
}

func migrateItem(raw legacyItem) *entities.MemoryItem {
	key := strings.TrimSpace(raw.Key)
	if key == "" {
		key = strings.TrimSpace(raw.Term)
	}

	pairs := raw.Pairs
	if len(pairs) == 0 {
		pairs = raw.Meanings
	}
	if len(pairs) == 0 && strings.TrimSpace(raw.Description) != "" {
		pairs = []string{strings.TrimSpace(raw.Description)}
	}

	clean := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p = strings.TrimSpace(p); p != "" {
			clean = append(clean, p)
		}
	}
	if key == "" || len(clean) == 0 {
		return nil
	}

	item := &entities.MemoryItem{
		ID:         raw.ID,
		Key:        key,
		Pairs:      clean,
		ImageURL:   raw.ImageURL,
		IsActive:   true,
		CategoryID: raw.CategoryID,
		Kind:       migrateKind(raw.Type),
		CreatedAt:  migrateCreatedAt(raw.CreatedAt),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if raw.IsActive != nil {
		item.IsActive = *raw.IsActive
	}
	if raw.Stats != nil {
		item.Stats = *raw.Stats
	}

	return item
}

func migrateKind(legacyType string) entities.ItemKind {
	switch strings.ToUpper(strings.TrimSpace(legacyType)) {
	case "WORD":
		return entities.KindWord
	case "DEFINITION":
		return entities.KindDefinition
	default:
		return ""
	}
}

// migrateCreatedAt handles both the current RFC 3339 string and the
// legacy epoch-milliseconds number; anything else becomes "now".
func migrateCreatedAt(raw json.RawMessage) time.Time {
	if len(raw) > 0 {
		var millis int64
		if err := json.Unmarshal(raw, &millis); err == nil && millis > 0 {
			return time.UnixMilli(millis)
		}
		var ts time.Time
		if err := json.Unmarshal(raw, &ts); err == nil && !ts.IsZero() {
			return ts
		}
	}
	return time.Now()
}
