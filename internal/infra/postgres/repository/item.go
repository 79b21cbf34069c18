package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"memotrain/internal/domain/entities"
	"memotrain/internal/repository"
)

// ItemRepository provides access to memory items in the database.
type ItemRepository struct {
	db *pgxpool.Pool
}

// NewItemRepository creates a new ItemRepository with the provided database pool.
func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{db: db}
}

const itemColumns = `id, key, pairs, image_url, is_active, COALESCE(category_id, ''), kind, correct, incorrect, created_at`

// ListItems retrieves all memory items, newest first.
func (r *ItemRepository) ListItems(ctx context.Context) ([]*entities.MemoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM memory_items
		ORDER BY created_at DESC, id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []*entities.MemoryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	return items, nil
}

// GetItem retrieves one item by id.
// Returns repository.ErrItemNotFound if it does not exist.
func (r *ItemRepository) GetItem(ctx context.Context, id string) (*entities.MemoryItem, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM memory_items
		WHERE id = $1
	`

	item, err := scanItem(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrItemNotFound
		}
		return nil, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// PutItem inserts or replaces an item.
func (r *ItemRepository) PutItem(ctx context.Context, item *entities.MemoryItem) error {
	query := `
		INSERT INTO memory_items (
			id, key, pairs, image_url, is_active,
			category_id, kind, correct, incorrect, created_at
		) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			key = EXCLUDED.key,
			pairs = EXCLUDED.pairs,
			image_url = EXCLUDED.image_url,
			is_active = EXCLUDED.is_active,
			category_id = EXCLUDED.category_id,
			kind = EXCLUDED.kind,
			correct = EXCLUDED.correct,
			incorrect = EXCLUDED.incorrect
	`

	_, err := r.db.Exec(
		ctx,
		query,
		item.ID,
		item.Key,
		item.Pairs,
		item.ImageURL,
		item.IsActive,
		item.CategoryID,
		string(item.Kind),
		item.Stats.Correct,
		item.Stats.Incorrect,
		item.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}

	return nil
}

// DeleteItem removes an item. Deleting a missing item is not an error.
func (r *ItemRepository) DeleteItem(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM memory_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// BulkImport merges items and categories in one transaction, later
// entries winning on id collision.
func (r *ItemRepository) BulkImport(ctx context.Context, items []*entities.MemoryItem, categories []*entities.Category) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, category := range categories {
		_, err = tx.Exec(ctx, `
			INSERT INTO categories (id, name) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
		`, category.ID, category.Name)
		if err != nil {
			return fmt.Errorf("import category: %w", err)
		}
	}

	for _, item := range items {
		_, err = tx.Exec(ctx, `
			INSERT INTO memory_items (
				id, key, pairs, image_url, is_active,
				category_id, kind, correct, incorrect, created_at
			) VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10)
			ON CONFLICT (id) DO UPDATE SET
				key = EXCLUDED.key,
				pairs = EXCLUDED.pairs,
				image_url = EXCLUDED.image_url,
				is_active = EXCLUDED.is_active,
				category_id = EXCLUDED.category_id,
				kind = EXCLUDED.kind,
				correct = EXCLUDED.correct,
				incorrect = EXCLUDED.incorrect
		`,
			item.ID,
			item.Key,
			item.Pairs,
			item.ImageURL,
			item.IsActive,
			item.CategoryID,
			string(item.Kind),
			item.Stats.Correct,
			item.Stats.Incorrect,
			item.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("import item: %w", err)
		}
	}

	return tx.Commit(ctx)
}

func scanItem(row pgx.Row) (*entities.MemoryItem, error) {
	var (
		item entities.MemoryItem
		kind string
	)
	err := row.Scan(
		&item.ID,
		&item.Key,
		&item.Pairs,
		&item.ImageURL,
		&item.IsActive,
		&item.CategoryID,
		&kind,
		&item.Stats.Correct,
		&item.Stats.Incorrect,
		&item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	item.Kind = entities.ItemKind(kind)
	return &item, nil
}
