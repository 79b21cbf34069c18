package service

import (
	"context"
	"errors"
	"fmt"

	"memotrain/internal/domain/entities"
	"memotrain/internal/repository"
)

// SettingsService reads and updates the single global settings record.
type SettingsService struct {
	repository SettingsRepository
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(repo SettingsRepository) *SettingsService {
	return &SettingsService{repository: repo}
}

// Get returns the stored settings, falling back to defaults before the
// user has saved any. The result is always normalized.
func (s *SettingsService) Get(ctx context.Context) (*entities.AppSettings, error) {
	settings, err := s.repository.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrSettingsNotFound) {
			return entities.DefaultSettings(), nil
		}
		return nil, err
	}

	settings.Normalize()
	return settings, nil
}

// UpdateMaxQuestions changes the normal mode session length.
func (s *SettingsService) UpdateMaxQuestions(ctx context.Context, maxQuestions int) error {
	if maxQuestions < 1 {
		return fmt.Errorf("session length must be positive, got %d", maxQuestions)
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.MaxQuestionsPerSession = maxQuestions

	return s.repository.PutSettings(ctx, settings)
}

// UpdateQuestionStyle changes the question composition style.
func (s *SettingsService) UpdateQuestionStyle(ctx context.Context, style entities.QuestionStyle) error {
	if style != entities.StyleAligned && style != entities.StyleRandomized {
		return fmt.Errorf("unknown question style: %s", style)
	}

	settings, err := s.Get(ctx)
	if err != nil {
		return err
	}
	settings.QuestionStyle = style

	return s.repository.PutSettings(ctx, settings)
}
