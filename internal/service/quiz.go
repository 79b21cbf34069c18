package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// QuizService builds quiz sessions from the current library state.
// It is the only place the item repository is consulted at
// pool-construction time; the running session works on its own view.
type QuizService struct {
	items    ItemRepository
	settings *SettingsService
	weighter *Weighter
	gen      *Generator
	tracker  *StatsTracker
	logger   *zap.Logger
}

// NewQuizService creates a QuizService.
func NewQuizService(
	items ItemRepository,
	settings *SettingsService,
	weighter *Weighter,
	gen *Generator,
	tracker *StatsTracker,
	logger *zap.Logger,
) *QuizService {
	return &QuizService{
		items:    items,
		settings: settings,
		weighter: weighter,
		gen:      gen,
		tracker:  tracker,
		logger:   logger,
	}
}

// StartSession loads the library and the global settings and constructs
// a session for the given mode and filter. It returns
// *InsufficientPoolError when fewer than MinPoolSize items survive the
// filter and ErrNoQuestionsGenerated when the pool cannot produce a
// single question.
func (s *QuizService) StartSession(ctx context.Context, mode SessionMode, filter FilterSpec) (*Session, error) {
	items, err := s.items.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}

	cfg := SessionConfig{
		Mode:         mode,
		Filter:       filter,
		Style:        settings.QuestionStyle,
		MaxQuestions: settings.MaxQuestionsPerSession,
	}

	return NewSession(cfg, items, s.weighter, s.gen, s.tracker, s.logger)
}
