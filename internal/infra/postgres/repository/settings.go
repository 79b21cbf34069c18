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

// SettingsRepository stores the single global settings row.
type SettingsRepository struct {
	db *pgxpool.Pool
}

// NewSettingsRepository creates a new SettingsRepository with the provided database pool.
func NewSettingsRepository(db *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSettings retrieves the settings row.
// Returns repository.ErrSettingsNotFound before the first save.
func (r *SettingsRepository) GetSettings(ctx context.Context) (*entities.AppSettings, error) {
	query := `SELECT max_questions, question_style FROM app_settings WHERE id = 1`

	var (
		settings entities.AppSettings
		style    string
	)
	err := r.db.QueryRow(ctx, query).Scan(&settings.MaxQuestionsPerSession, &style)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSettingsNotFound
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}

	settings.QuestionStyle = entities.QuestionStyle(style)
	return &settings, nil
}

// PutSettings inserts or replaces the settings row.
func (r *SettingsRepository) PutSettings(ctx context.Context, settings *entities.AppSettings) error {
	query := `
		INSERT INTO app_settings (id, max_questions, question_style)
		VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET
			max_questions = EXCLUDED.max_questions,
			question_style = EXCLUDED.question_style
	`

	_, err := r.db.Exec(ctx, query, settings.MaxQuestionsPerSession, string(settings.QuestionStyle))
	if err != nil {
		return fmt.Errorf("put settings: %w", err)
	}
	return nil
}
