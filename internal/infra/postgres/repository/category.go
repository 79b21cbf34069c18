package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"memotrain/internal/domain/entities"
	"memotrain/internal/repository"
)

// CategoryRepository provides access to categories in the database.
type CategoryRepository struct {
	db *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository with the provided database pool.
func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// ListCategories retrieves all categories sorted by name.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*entities.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*entities.Category
	for rows.Next() {
		var c entities.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// PutCategory inserts or replaces a category.
func (r *CategoryRepository) PutCategory(ctx context.Context, category *entities.Category) error {
	query := `
		INSERT INTO categories (id, name) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`

	if _, err := r.db.Exec(ctx, query, category.ID, category.Name); err != nil {
		return fmt.Errorf("put category: %w", err)
	}
	return nil
}

// DeleteCategory removes a category; the foreign key cascades the delete
// to every item referencing it.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrCategoryNotFound
	}
	return nil
}
