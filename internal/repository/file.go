package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
)

// libraryFile is the on-disk document: the whole library in one JSON file.
type libraryFile struct {
	Items      []*entities.MemoryItem `json:"items"`
	Categories []*entities.Category   `json:"categories"`
	Settings   *entities.AppSettings  `json:"settings,omitempty"`
}

// FileRepository keeps the library in memory and mirrors every change to
// a JSON file. Saves are best-effort background writes: the in-memory
// state is the source of truth and a failed write only produces a log
// entry.
type FileRepository struct {
	mu     sync.RWMutex
	wmu    sync.Mutex // serializes file writes
	path   string
	logger *zap.Logger

	items      map[string]*entities.MemoryItem
	categories map[string]*entities.Category
	settings   *entities.AppSettings
}

// NewFileRepository loads the library from path. A missing file means an
// empty library, not an error.
func NewFileRepository(path string, logger *zap.Logger) (*FileRepository, error) {
	r := &FileRepository{
		path:       path,
		logger:     logger,
		items:      make(map[string]*entities.MemoryItem),
		categories: make(map[string]*entities.Category),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, nil
		}
		return nil, fmt.Errorf("read library file: %w", err)
	}

	var doc libraryFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal library file: %w", err)
	}

	for _, item := range doc.Items {
		r.items[item.ID] = item
	}
	for _, category := range doc.Categories {
		r.categories[category.ID] = category
	}
	r.settings = doc.Settings

	return r, nil
}

// ListItems returns a copy of all items, newest first.
func (r *FileRepository) ListItems(_ context.Context) ([]*entities.MemoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.MemoryItem, 0, len(r.items))
	for _, item := range r.items {
		out = append(out, copyItem(item))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// GetItem returns one item by id.
func (r *FileRepository) GetItem(_ context.Context, id string) (*entities.MemoryItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return nil, ErrItemNotFound
	}
	return copyItem(item), nil
}

// PutItem inserts or replaces an item.
func (r *FileRepository) PutItem(_ context.Context, item *entities.MemoryItem) error {
	r.mu.Lock()
	r.items[item.ID] = copyItem(item)
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// DeleteItem removes an item. Deleting a missing item is not an error.
func (r *FileRepository) DeleteItem(_ context.Context, id string) error {
	r.mu.Lock()
	delete(r.items, id)
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// ListCategories returns a copy of all categories sorted by name.
func (r *FileRepository) ListCategories(_ context.Context) ([]*entities.Category, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.Category, 0, len(r.categories))
	for _, category := range r.categories {
		c := *category
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// PutCategory inserts or replaces a category.
func (r *FileRepository) PutCategory(_ context.Context, category *entities.Category) error {
	r.mu.Lock()
	c := *category
	r.categories[c.ID] = &c
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// DeleteCategory removes a category and cascades to every item
// referencing it.
func (r *FileRepository) DeleteCategory(_ context.Context, id string) error {
	r.mu.Lock()
	if _, ok := r.categories[id]; !ok {
		r.mu.Unlock()
		return ErrCategoryNotFound
	}
	delete(r.categories, id)
	for itemID, item := range r.items {
		if item.CategoryID == id {
			delete(r.items, itemID)
		}
	}
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// GetSettings returns the stored settings record.
func (r *FileRepository) GetSettings(_ context.Context) (*entities.AppSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.settings == nil {
		return nil, ErrSettingsNotFound
	}
	s := *r.settings
	return &s, nil
}

// PutSettings replaces the stored settings record.
func (r *FileRepository) PutSettings(_ context.Context, settings *entities.AppSettings) error {
	r.mu.Lock()
	s := *settings
	r.settings = &s
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// BulkImport merges items and categories into the library, later entries
// winning on id collision.
func (r *FileRepository) BulkImport(_ context.Context, items []*entities.MemoryItem, categories []*entities.Category) error {
	r.mu.Lock()
	for _, category := range categories {
		c := *category
		r.categories[c.ID] = &c
	}
	for _, item := range items {
		r.items[item.ID] = copyItem(item)
	}
	r.mu.Unlock()

	r.saveAsync()
	return nil
}

// snapshot serializes the whole library document for the background save.
func (r *FileRepository) snapshot(ctx context.Context) ([]byte, error) {
	items, _ := r.ListItems(ctx)
	categories, _ := r.ListCategories(ctx)

	r.mu.RLock()
	settings := r.settings
	r.mu.RUnlock()

	return json.MarshalIndent(libraryFile{
		Items:      items,
		Categories: categories,
		Settings:   settings,
	}, "", "  ")
}

// saveAsync snapshots the library and writes it out in the background.
func (r *FileRepository) saveAsync() {
	data, err := r.snapshot(context.Background())
	if err != nil {
		r.logger.Error("failed to marshal library", zap.Error(err))
		return
	}

	go func() {
		r.wmu.Lock()
		defer r.wmu.Unlock()

		if dir := filepath.Dir(r.path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				r.logger.Error("failed to create library directory", zap.Error(err))
				return
			}
		}
		if err := os.WriteFile(r.path, data, 0o644); err != nil {
			r.logger.Error("failed to write library file",
				zap.String("path", r.path),
				zap.Error(err),
			)
		}
	}()
}

func copyItem(item *entities.MemoryItem) *entities.MemoryItem {
	c := *item
	c.Pairs = append([]string(nil), item.Pairs...)
	return &c
}
