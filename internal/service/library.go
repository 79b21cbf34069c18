package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"memotrain/internal/domain/entities"
	"memotrain/internal/repository"
)

var (
	// ErrInvalidItem rejects items without a key or without a single
	// non-blank pair.
	ErrInvalidItem = errors.New("item needs a key and at least one pair")
	// ErrInvalidCategory rejects blank category names.
	ErrInvalidCategory = errors.New("category needs a name")
)

// LibraryService owns CRUD over memory items and categories. The quiz
// core never talks to it; they share the repositories underneath.
type LibraryService struct {
	items      ItemRepository
	categories CategoryRepository
	importer   LibraryImporter
	logger     *zap.Logger
}

// NewLibraryService creates a LibraryService.
func NewLibraryService(
	items ItemRepository,
	categories CategoryRepository,
	importer LibraryImporter,
	logger *zap.Logger,
) *LibraryService {
	return &LibraryService{
		items:      items,
		categories: categories,
		importer:   importer,
		logger:     logger,
	}
}

// ListItems returns all memory items, newest first.
func (s *LibraryService) ListItems(ctx context.Context) ([]*entities.MemoryItem, error) {
	return s.items.ListItems(ctx)
}

// GetItem returns one item by id.
func (s *LibraryService) GetItem(ctx context.Context, id string) (*entities.MemoryItem, error) {
	return s.items.GetItem(ctx, id)
}

// AddItem creates an active item with fresh stats. Blank pairs are
// filtered out before persisting so the stored item is always quizzable.
func (s *LibraryService) AddItem(ctx context.Context, key string, pairs []string, categoryID string) (*entities.MemoryItem, error) {
	key = strings.TrimSpace(key)
	clean := nonBlank(pairs)
	if key == "" || len(clean) == 0 {
		return nil, ErrInvalidItem
	}

	item := &entities.MemoryItem{
		ID:         uuid.NewString(),
		Key:        key,
		Pairs:      clean,
		IsActive:   true,
		CategoryID: categoryID,
		CreatedAt:  time.Now(),
	}

	if err := s.items.PutItem(ctx, item); err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return item, nil
}

// UpdateItem rewrites the mutable fields of an existing item. The id,
// stats and creation timestamp are preserved.
func (s *LibraryService) UpdateItem(ctx context.Context, id, key string, pairs []string, imageURL, categoryID string) (*entities.MemoryItem, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	key = strings.TrimSpace(key)
	clean := nonBlank(pairs)
	if key == "" || len(clean) == 0 {
		return nil, ErrInvalidItem
	}

	item.Key = key
	item.Pairs = clean
	item.ImageURL = imageURL
	item.CategoryID = categoryID

	if err := s.items.PutItem(ctx, item); err != nil {
		return nil, fmt.Errorf("put item: %w", err)
	}
	return item, nil
}

// ToggleActive flips an item's participation in quiz pools and returns
// the new state.
func (s *LibraryService) ToggleActive(ctx context.Context, id string) (bool, error) {
	item, err := s.items.GetItem(ctx, id)
	if err != nil {
		return false, err
	}

	item.IsActive = !item.IsActive
	if err := s.items.PutItem(ctx, item); err != nil {
		return false, fmt.Errorf("put item: %w", err)
	}
	return item.IsActive, nil
}

// DeleteItem removes an item from the library.
func (s *LibraryService) DeleteItem(ctx context.Context, id string) error {
	return s.items.DeleteItem(ctx, id)
}

// ListCategories returns all categories.
func (s *LibraryService) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	return s.categories.ListCategories(ctx)
}

// AddCategory creates a category.
func (s *LibraryService) AddCategory(ctx context.Context, name string) (*entities.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCategory
	}

	category := &entities.Category{
		ID:   uuid.NewString(),
		Name: name,
	}
	if err := s.categories.PutCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("put category: %w", err)
	}
	return category, nil
}

// DeleteCategory removes a category. The repository cascades the delete
// to every item referencing it.
func (s *LibraryService) DeleteCategory(ctx context.Context, id string) error {
	return s.categories.DeleteCategory(ctx, id)
}

// ImportJSON decodes a library export in any known historical shape and
// merges it into storage, later entries winning on id collision. It
// returns the number of imported items and categories.
func (s *LibraryService) ImportJSON(ctx context.Context, data []byte) (int, int, error) {
	items, categories, err := repository.DecodeLibraryExport(data)
	if err != nil {
		return 0, 0, err
	}

	if err := s.importer.BulkImport(ctx, items, categories); err != nil {
		return 0, 0, fmt.Errorf("bulk import: %w", err)
	}
	s.logger.Info("library import finished",
		zap.Int("items", len(items)),
		zap.Int("categories", len(categories)),
	)
	return len(items), len(categories), nil
}

// Export serializes the whole library for backups and transfers.
func (s *LibraryService) Export(ctx context.Context) ([]byte, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return json.MarshalIndent(struct {
		Items      []*entities.MemoryItem `json:"items"`
		Categories []*entities.Category   `json:"categories"`
	}{Items: items, Categories: categories}, "", "  ")
}

// nonBlank trims every pair and drops the empty ones.
func nonBlank(pairs []string) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
