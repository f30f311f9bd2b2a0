package service

import (
	"context"

	"courseforge/internal/models"
	"courseforge/pkg/validator"
)

type QuizService struct {
	backend QuizBackend
}

func NewQuizService(quizBackend QuizBackend) *QuizService {
	return &QuizService{backend: quizBackend}
}

// GetBySection fetches the section's quiz; nil when the section has none.
func (s *QuizService) GetBySection(ctx context.Context, sectionID uint) (*models.Quiz, error) {
	return s.backend.QuizBySection(ctx, sectionID)
}

// Upsert replaces the section's quiz wholesale after validating its
// structure. A quiz without questions cannot be saved; it must be deleted
// instead.
func (s *QuizService) Upsert(ctx context.Context, req models.UpsertQuizRequest) (*models.Quiz, error) {
	req.Title = validator.SanitizeString(req.Title)
	if req.Title == "" {
		return nil, newValidationError("quiz title is required")
	}
	if req.SectionID == 0 {
		return nil, newValidationError("section is required")
	}
	if len(req.Questions) == 0 {
		return nil, newValidationError("add at least one question, or remove the quiz instead of saving it empty")
	}

	for i, question := range req.Questions {
		if validator.SanitizeString(question.Title) == "" {
			return nil, newValidationError("question %d needs a title", i+1)
		}
		if len(question.Options) < 2 {
			return nil, newValidationError("question %d needs at least 2 options", i+1)
		}

		correct := 0
		for j, option := range question.Options {
			if validator.SanitizeString(option.Title) == "" {
				return nil, newValidationError("question %d option %d needs a title", i+1, j+1)
			}
			if option.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return nil, newValidationError("question %d must have exactly one correct option", i+1)
		}
	}

	return s.backend.UpsertQuiz(ctx, req)
}

func (s *QuizService) Delete(ctx context.Context, quizID uint) error {
	return s.backend.DeleteQuiz(ctx, quizID)
}
