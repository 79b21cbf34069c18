package service

import (
	"context"
	"testing"

	"memotrain/internal/domain/entities"
	"memotrain/internal/repository"
)

type fakeSettingsRepo struct {
	stored *entities.AppSettings
}

func (r *fakeSettingsRepo) GetSettings(ctx context.Context) (*entities.AppSettings, error) {
	if r.stored == nil {
		return nil, repository.ErrSettingsNotFound
	}
	s := *r.stored
	return &s, nil
}

func (r *fakeSettingsRepo) PutSettings(ctx context.Context, settings *entities.AppSettings) error {
	s := *settings
	r.stored = &s
	return nil
}

func TestSettingsGet_DefaultsBeforeFirstSave(t *testing.T) {
	svc := NewSettingsService(&fakeSettingsRepo{})

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.MaxQuestionsPerSession != entities.DefaultMaxQuestions {
		t.Fatalf("default length = %d", settings.MaxQuestionsPerSession)
	}
	if settings.QuestionStyle != entities.StyleRandomized {
		t.Fatalf("default style = %q", settings.QuestionStyle)
	}
}

func TestSettingsGet_NormalizesPartialRecord(t *testing.T) {
	repo := &fakeSettingsRepo{stored: &entities.AppSettings{MaxQuestionsPerSession: 0, QuestionStyle: "sideways"}}
	svc := NewSettingsService(repo)

	settings, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if settings.MaxQuestionsPerSession != entities.DefaultMaxQuestions {
		t.Fatalf("length not normalized: %d", settings.MaxQuestionsPerSession)
	}
	if settings.QuestionStyle != entities.StyleRandomized {
		t.Fatalf("style not normalized: %q", settings.QuestionStyle)
	}
}

func TestUpdateMaxQuestions(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	if err := svc.UpdateMaxQuestions(ctx, 0); err == nil {
		t.Fatal("zero length must be rejected")
	}

	if err := svc.UpdateMaxQuestions(ctx, 15); err != nil {
		t.Fatalf("UpdateMaxQuestions: %v", err)
	}
	if repo.stored.MaxQuestionsPerSession != 15 {
		t.Fatalf("stored length = %d", repo.stored.MaxQuestionsPerSession)
	}
	// The untouched style field keeps its (defaulted) value.
	if repo.stored.QuestionStyle != entities.StyleRandomized {
		t.Fatalf("stored style = %q", repo.stored.QuestionStyle)
	}
}

func TestUpdateQuestionStyle(t *testing.T) {
	repo := &fakeSettingsRepo{}
	svc := NewSettingsService(repo)
	ctx := context.Background()

	if err := svc.UpdateQuestionStyle(ctx, "diagonal"); err == nil {
		t.Fatal("unknown style must be rejected")
	}

	if err := svc.UpdateQuestionStyle(ctx, entities.StyleAligned); err != nil {
		t.Fatalf("UpdateQuestionStyle: %v", err)
	}
	if repo.stored.QuestionStyle != entities.StyleAligned {
		t.Fatalf("stored style = %q", repo.stored.QuestionStyle)
	}
}
