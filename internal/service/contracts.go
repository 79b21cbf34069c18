package service

import (
	"context"

	"memotrain/internal/domain/entities"
)

// ItemRepository owns the durable collection of memory items.
type ItemRepository interface {
	ListItems(ctx context.Context) ([]*entities.MemoryItem, error)
	GetItem(ctx context.Context, id string) (*entities.MemoryItem, error)
	PutItem(ctx context.Context, item *entities.MemoryItem) error
	DeleteItem(ctx context.Context, id string) error
}

// CategoryRepository owns the category list. DeleteCategory cascades to
// the items referencing the category.
type CategoryRepository interface {
	ListCategories(ctx context.Context) ([]*entities.Category, error)
	PutCategory(ctx context.Context, category *entities.Category) error
	DeleteCategory(ctx context.Context, id string) error
}

// SettingsRepository stores the single global settings record.
type SettingsRepository interface {
	GetSettings(ctx context.Context) (*entities.AppSettings, error)
	PutSettings(ctx context.Context, settings *entities.AppSettings) error
}

// LibraryImporter merges a decoded library export into storage.
// Later entries win on id collision.
type LibraryImporter interface {
	BulkImport(ctx context.Context, items []*entities.MemoryItem, categories []*entities.Category) error
}
